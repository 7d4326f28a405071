package observ

import (
	"strings"
	"testing"
)

func TestNilTimerRecordsNothing(t *testing.T) {
	var timer *Timer
	idx := timer.Begin("parse")
	timer.End(idx, "")
	if r := timer.Report(); r != nil {
		t.Fatalf("Report() = %+v, want nil", r)
	}
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	timer.End(timer.Begin("parse"), "2 decls")
	timer.End(timer.Begin("sema"), "")
	timer.End(7, "ignored")

	r := timer.Report()
	if len(r.Phases) != 2 || r.Phases[0].Note != "2 decls" {
		t.Fatalf("phases = %+v", r.Phases)
	}
	s := r.Summary()
	for _, want := range []string{"timings:\n", "parse", "// 2 decls", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestSumAddsPhasesByName(t *testing.T) {
	a := &Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 1}, {Name: "sema", DurationMS: 2}}}
	b := &Report{TotalMS: 4, Phases: []PhaseReport{{Name: "sema", DurationMS: 1}, {Name: "write", DurationMS: 3}}}

	got := Sum(a, nil, b)
	if got.TotalMS != 7 {
		t.Errorf("total = %v", got.TotalMS)
	}
	want := []PhaseReport{{Name: "parse", DurationMS: 1}, {Name: "sema", DurationMS: 3}, {Name: "write", DurationMS: 3}}
	if len(got.Phases) != len(want) {
		t.Fatalf("phases = %+v", got.Phases)
	}
	for i := range want {
		if got.Phases[i] != want[i] {
			t.Errorf("phase %d = %+v, want %+v", i, got.Phases[i], want[i])
		}
	}
	if Sum(nil) != nil {
		t.Error("Sum(nil) should be nil")
	}
}

func TestMergeNil(t *testing.T) {
	var r *Report
	other := &Report{TotalMS: 1}
	if r.Merge(other) != other {
		t.Error("nil.Merge(x) should return x")
	}
	if other.Merge(nil) != other {
		t.Error("x.Merge(nil) should return x")
	}
}
