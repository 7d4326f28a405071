package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"bitflags/internal/diag"
	"bitflags/internal/lexer"
	"bitflags/internal/source"
)

func fixture() (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSetWithBase("/work")
	id := fs.Add("/work/perms.flags", []byte("bitflags Mode: u8 {\n\tRead = 1,\n\tRead = 2,\n}\n"), 0)
	bag := diag.NewBag(0)
	first := source.Span{File: id, Start: 21, End: 25}
	second := source.Span{File: id, Start: 32, End: 36}
	bag.Add(diag.NewError(diag.DefDuplicateFlagName, second, "duplicate flag Read in Mode").
		WithNote(first, "first declared here").
		WithFix("rename to Read2", diag.FixEdit{Span: second, NewText: "Read2"}))
	return fs, bag
}

func TestPrettyPlain(t *testing.T) {
	fs, bag := fixture()
	var buf bytes.Buffer
	err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeRelative, ShowNotes: true, ShowFixes: true, ShowPreview: true})
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"error[DEF4001]: duplicate flag Read in Mode",
		" --> perms.flags:3:2",
		"  |",
		"3 |     Read = 2,",
		"  |     ^~~~",
		"  = note: first declared here (perms.flags:2:2)",
		"  = fix: rename to Read2",
		"  -     Read = 2,",
		"  +     Read2 = 2,",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("pretty output mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCaretLineWideRunes(t *testing.T) {
	// the CJK rune takes two cells, so the caret shifts by two
	line := "界 = X"
	got := caretLine(line, source.LineCol{Line: 1, Col: 7}, source.LineCol{Line: 1, Col: 8}, 4)
	if got != "     ^" {
		t.Errorf("caret = %q", got)
	}
}

func TestJSON(t *testing.T) {
	fs, bag := fixture()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, IncludeFixes: true, PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 1 || out.Errors != 1 {
		t.Fatalf("count = %d errors = %d", out.Count, out.Errors)
	}
	d := out.Diagnostics[0]
	if d.Code != "DEF4001" || d.Severity != "ERROR" || d.Title != diag.DefDuplicateFlagName.Title() {
		t.Errorf("header = %+v", d)
	}
	if d.Location.File != "perms.flags" || d.Location.StartLine != 3 || d.Location.StartCol != 2 {
		t.Errorf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 2 {
		t.Errorf("notes = %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].OldText != "Read" || d.Fixes[0].Edits[0].NewText != "Read2" {
		t.Errorf("fixes = %+v", d.Fixes)
	}
}

func TestJSONMax(t *testing.T) {
	fs, bag := fixture()
	bag.Add(diag.New(diag.SevWarning, diag.DefZeroFlag, source.Span{}, "zero"))
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Diagnostics[0].Notes != nil {
		t.Errorf("out = %+v", out)
	}
}

func TestTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.flags", []byte("/// doc\nA = 1"))
	toks := lexer.New(fs.Get(id), lexer.Options{}).All()

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(pretty.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("pretty lines = %d:\n%s", len(lines), pretty.String())
	}
	if !strings.Contains(lines[0], `Ident`) || !strings.Contains(lines[0], "(leading: DocLine, Newline)") {
		t.Errorf("first line = %q", lines[0])
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks); err != nil {
		t.Fatal(err)
	}
	var decoded []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 4 || decoded[3].Kind != "EOF" {
		t.Errorf("decoded = %+v", decoded)
	}
}
