package fix

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bitflags/internal/diag"
	"bitflags/internal/driver"
	"bitflags/internal/source"
)

const brokenSource = `package perms

bitflags Mode: uint9 {
	Dir = 1,
}

bitflags Perms: u8 {
	Read = 1 << 0,
	Write = 1 << 1,
	Again = 1 << 0,
	Both = Reed | Write,
}
`

func checkFile(t *testing.T, content string) (string, *driver.Result) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "perms.flags")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := driver.Check(context.Background(), path, driver.Options{MaxDiagnostics: 100})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	return path, res
}

func TestApplyAllRewritesFile(t *testing.T) {
	path, res := checkFile(t, brokenSource)

	result, err := Apply(res.FileSet, res.Bag.Items(), ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result.FileChanges) != 1 {
		t.Fatalf("expected one changed file, got %d", len(result.FileChanges))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `package perms

bitflags Mode: uint8 {
	Dir = 1,
}

bitflags Perms: u8 {
	Read = 1 << 0,
	Write = 1 << 1,
	Again = Read,
	Both = Read | Write,
}
`
	if string(got) != want {
		t.Fatalf("unexpected rewrite:\n%s", got)
	}
}

func TestApplyOnceTakesFirstFix(t *testing.T) {
	path, res := checkFile(t, brokenSource)

	result, err := Apply(res.FileSet, res.Bag.Items(), ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result.Applied) != 1 {
		t.Fatalf("expected one fix, got %d", len(result.Applied))
	}
	if result.Applied[0].Code != diag.DefUnknownWidth {
		t.Fatalf("expected width fix first, got %s", result.Applied[0].Code.ID())
	}
	got, _ := os.ReadFile(path)
	if string(got) == brokenSource {
		t.Fatal("file was not rewritten")
	}
}

func TestApplyByID(t *testing.T) {
	_, res := checkFile(t, brokenSource)
	cands := Candidates(res.FileSet, res.Bag.Items())
	if len(cands) == 0 {
		t.Fatal("expected fix candidates")
	}
	last := cands[len(cands)-1]

	result, err := Apply(res.FileSet, res.Bag.Items(), ApplyOptions{Mode: ApplyModeID, TargetID: last.ID, DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result.Applied) != 1 || result.Applied[0].ID != last.ID {
		t.Fatalf("expected %s applied, got %+v", last.ID, result.Applied)
	}

	_, err = Apply(res.FileSet, res.Bag.Items(), ApplyOptions{Mode: ApplyModeID, TargetID: "DEF9999-1:1"})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestDryRunLeavesFile(t *testing.T) {
	path, res := checkFile(t, brokenSource)

	result, err := Apply(res.FileSet, res.Bag.Items(), ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != brokenSource {
		t.Fatal("dry run must not write")
	}
	if len(result.FileChanges) != 1 || string(result.FileChanges[0].Content) == brokenSource {
		t.Fatal("dry run should still report new content")
	}
}

func TestConflictingEditsSkipped(t *testing.T) {
	fs := source.NewFileSet()
	path := filepath.Join(t.TempDir(), "x.flags")
	id := fs.Add(path, []byte("abcdef"), 0)
	span := source.Span{File: id, Start: 1, End: 4}
	overlap := source.Span{File: id, Start: 3, End: 5}

	diagnostics := []diag.Diagnostic{
		diag.NewError(diag.DefUnknownWidth, span, "first").
			WithFix("one", diag.FixEdit{Span: span, NewText: "X"}),
		diag.NewError(diag.DefUnknownWidth, overlap, "second").
			WithFix("two", diag.FixEdit{Span: overlap, NewText: "Y"}),
	}
	result, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(result.Applied) != 1 || len(result.Skipped) != 1 {
		t.Fatalf("expected 1 applied and 1 skipped, got %d/%d", len(result.Applied), len(result.Skipped))
	}
	if got := string(result.FileChanges[0].Content); got != "aXef" {
		t.Fatalf("got %q", got)
	}
}

func TestVirtualFilesAreNotRewritten(t *testing.T) {
	res, err := driver.CheckSource(context.Background(), "mem.flags", []byte(brokenSource), driver.Options{MaxDiagnostics: 100})
	if err != nil {
		t.Fatal(err)
	}
	result, err := Apply(res.FileSet, res.Bag.Items(), ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(result.Skipped) == 0 || result.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("unexpected skips: %+v", result.Skipped)
	}
}

func TestSpansConflict(t *testing.T) {
	tests := []struct {
		a, b source.Span
		want bool
	}{
		{source.Span{Start: 0, End: 2}, source.Span{Start: 2, End: 4}, false},
		{source.Span{Start: 0, End: 3}, source.Span{Start: 2, End: 4}, true},
		{source.Span{Start: 2, End: 2}, source.Span{Start: 0, End: 4}, true},
		{source.Span{Start: 4, End: 4}, source.Span{Start: 0, End: 4}, false},
		{source.Span{Start: 1, End: 1}, source.Span{Start: 1, End: 1}, true},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
