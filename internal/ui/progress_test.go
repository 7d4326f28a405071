package ui

import (
	"strings"
	"testing"

	"bitflags/internal/driver"
)

func TestApplyEventTracksStages(t *testing.T) {
	m := NewProgressModel("generate", []string{"a.flags", "b.flags"}, nil).(*progressModel)

	m.applyEvent(driver.Event{File: "a.flags", Stage: driver.StageCheck, Status: driver.StatusWorking})
	if m.items[0].status != "checking" {
		t.Errorf("status = %q", m.items[0].status)
	}
	if got := m.percent(); got != 0.15 {
		t.Errorf("percent = %v, want 0.15", got)
	}

	m.applyEvent(driver.Event{File: "a.flags", Stage: driver.StageWrite, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.flags", Stage: driver.StageWrite, Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "b.flags", Stage: driver.StageCheck, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "unknown.flags", Stage: driver.StageCheck, Status: driver.StatusWorking})

	if m.items[1].status != "error" {
		t.Errorf("final status must stick, got %q", m.items[1].status)
	}
	if m.finished() != 2 || m.failed != 1 || m.percent() != 1 {
		t.Errorf("finished=%d failed=%d percent=%v", m.finished(), m.failed, m.percent())
	}

	view := m.View()
	for _, want := range []string{"generate (2/2), 1 failed", "a.flags", "b.flags"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 8, "abcde..."},
		{"abcdef", 2, "ab"},
		{"日本語ファイル", 7, "日本..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
