package sema

import (
	"fmt"
	"strings"
	"testing"

	"bitflags/internal/ast"
	"bitflags/internal/diag"
	"bitflags/internal/lexer"
	"bitflags/internal/model"
	"bitflags/internal/parser"
	"bitflags/internal/source"
)

func checkSource(t *testing.T, input string) (Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.flags", []byte(input))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{})
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	pr := parser.ParseFile(fs, lx, b, parser.Options{Reporter: rep})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %s", summary(bag))
	}
	res := Check(b, pr.File, Options{Reporter: rep, Package: "flags", Path: "test.flags"})
	return res, bag
}

func summary(bag *diag.Bag) string {
	if bag.Len() == 0 {
		return "<none>"
	}
	parts := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		parts = append(parts, fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message))
	}
	return strings.Join(parts, "; ")
}

func TestCanonicalExample(t *testing.T) {
	res, bag := checkSource(t, `
bitflags Flags: uint32 {
	A = 0x00000001,
	B = 0x00000010,
	C = 0x00000100,
	ABC = A.bits | B.bits | C.bits,
}`)
	if bag.Len() != 0 || res.File == nil {
		t.Fatalf("diagnostics: %s", summary(bag))
	}
	set := res.File.Sets[0]
	if set.Width != model.Uint32 {
		t.Errorf("width = %s", set.Width)
	}
	want := map[string]uint64{"A": 0x1, "B": 0x10, "C": 0x100, "ABC": 0x111}
	for _, f := range set.Flags {
		if f.Bits != want[f.Name] {
			t.Errorf("%s = %#x, want %#x", f.Name, f.Bits, want[f.Name])
		}
	}
	abc, _ := set.Flag("ABC")
	if strings.Join(abc.Refs, ",") != "A,B,C" {
		t.Errorf("ABC refs = %v", abc.Refs)
	}
	if a, _ := set.Flag("A"); a.IsCombo() {
		t.Error("A must not be a combo")
	}
	if res.File.Package != "flags" || res.File.Source != "test.flags" {
		t.Errorf("file header = %q %q", res.File.Package, res.File.Source)
	}
}

func TestEvaluation(t *testing.T) {
	tests := []struct {
		width string
		expr  string
		want  uint64
		refs  string
	}{
		{"u8", "1 << 7", 0x80, ""},
		{"i8", "1 << 7", 0x80, ""},
		{"i8", "-128", 0x80, ""},
		{"i8", "-1", 0xFF, ""},
		{"i16", "-(1 << 3)", 0xFFF8, ""},
		{"i8", "-128 >> 1", 0xC0, ""},
		{"i8", "-1 << 7", 0x80, ""},
		{"u32", "0b1010 ^ 0b0110", 0b1100, ""},
		{"u32", "0xF0 & 0x3C", 0x30, ""},
		{"u16", "1_024", 1024, ""},
		{"u64", "0xFFFF_FFFF_FFFF_FFFF", ^uint64(0), ""},
		{"u32", "0o17", 0o17, ""},
		{"u32", "A | B", 0x3, "A,B"},
		{"u32", "(A | B.bits) | A", 0x3, "A,B"},
		{"u32", "A", 0x1, "A"},
		{"u32", "A | 4", 0x5, ""},
		{"u32", "(A | B) & B", 0x2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.width+" "+tt.expr, func(t *testing.T) {
			res, bag := checkSource(t, fmt.Sprintf("bitflags T: %s { A = 1, B = 2, X = %s }", tt.width, tt.expr))
			if bag.HasErrors() || res.File == nil {
				t.Fatalf("diagnostics: %s", summary(bag))
			}
			x, _ := res.File.Sets[0].Flag("X")
			if x.Bits != tt.want {
				t.Errorf("bits = %#x, want %#x", x.Bits, tt.want)
			}
			if got := strings.Join(x.Refs, ","); got != tt.refs {
				t.Errorf("refs = %q, want %q", got, tt.refs)
			}
		})
	}
}

func TestDefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		note string // substring of the first note, if any
	}{
		{"duplicate flag", "bitflags T: u8 { A = 1, A = 2 }", diag.DefDuplicateFlagName, "first declared"},
		{"forward reference", "bitflags T: u8 { A = B, B = 1 }", diag.DefUndefinedFlagReference, "declared later"},
		{"self reference", "bitflags T: u8 { A = A.bits }", diag.DefUndefinedFlagReference, ""},
		{"unknown reference", "bitflags T: u8 { A = 1, B = Z }", diag.DefUndefinedFlagReference, ""},
		{
			"cross declaration",
			"bitflags T: u8 { A = 1 }\nbitflags U: u8 { B = A.bits }",
			diag.DefUndefinedFlagReference,
			"never interoperate",
		},
		{"float", "bitflags T: u8 { A = 1.5 }", diag.DefNonConstantValue, ""},
		{"string", `bitflags T: u8 { A = "x" }`, diag.DefNonConstantValue, ""},
		{"call", "bitflags T: u8 { A = f(1) }", diag.DefNonConstantValue, ""},
		{"selector", "bitflags T: u8 { A = 1, B = A.value }", diag.DefNonConstantValue, ""},
		{"arithmetic", "bitflags T: u8 { A = 1 + 2 }", diag.DefNonConstantValue, ""},
		{"complement", "bitflags T: u8 { A = ~1 }", diag.DefNonConstantValue, ""},
		{"literal overflow", "bitflags T: u8 { A = 0x100 }", diag.DefValueOverflow, ""},
		{"signed literal overflow", "bitflags T: i8 { A = 0x80 }", diag.DefValueOverflow, ""},
		{"negative overflow", "bitflags T: i8 { A = -129 }", diag.DefValueOverflow, ""},
		{"64-bit overflow", "bitflags T: u64 { A = 0x1_0000_0000_0000_0000 }", diag.DefValueOverflow, ""},
		{"shift out", "bitflags T: u8 { A = 3 << 7 }", diag.DefValueOverflow, ""},
		{"shift count", "bitflags T: u16 { A = 1 << 16 }", diag.DefValueOverflow, ""},
		{"negate unsigned", "bitflags T: u8 { A = -1 }", diag.DefValueOverflow, ""},
		{"negate min", "bitflags T: i8 { A = -128, B = -A }", diag.DefValueOverflow, ""},
		{"type vs flag", "bitflags T: u8 { T = 1 }", diag.DefNameConflict, "already used"},
		{"flag in two sets", "bitflags T: u8 { A = 1 }\nbitflags U: u8 { A = 1 }", diag.DefNameConflict, ""},
		{"generated function", "bitflags T: u8 { EmptyT = 1 }", diag.DefNameConflict, ""},
		{"from bits function", "bitflags T: u8 {}\nbitflags TFromBits: u8 {}", diag.DefNameConflict, ""},
		{"unknown width", "bitflags T: u33 { A = 1 }", diag.DefUnknownWidth, "expected one of"},
		{"duplicate type", "bitflags T: u8 { A = 1 }\nbitflags T: u16 { B = 1 }", diag.DefDuplicateTypeName, "first declared"},
		{"keyword flag", "bitflags T: u8 { type = 1 }", diag.DefReservedName, ""},
		{"blank flag", "bitflags T: u8 { _ = 1 }", diag.DefReservedName, ""},
		{"predeclared type", "bitflags uint8: u8 { A = 1 }", diag.DefReservedName, ""},
		{"underscore flag", "bitflags T: u8 { _x = 1 }", diag.DefReservedName, ""},
		{"underscore type", "bitflags _T: u8 { A = 1 }", diag.DefReservedName, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, bag := checkSource(t, tt.src)
			if res.File != nil || res.Errors == 0 {
				t.Fatalf("expected failure, got model (diagnostics: %s)", summary(bag))
			}
			items := bag.Items()
			var first *diag.Diagnostic
			for i := range items {
				if items[i].Severity == diag.SevError {
					first = &items[i]
					break
				}
			}
			if first == nil || first.Code != tt.code {
				t.Fatalf("diagnostics = %s, want first error %s", summary(bag), tt.code.ID())
			}
			if tt.note != "" && (len(first.Notes) == 0 || !strings.Contains(first.Notes[0].Msg, tt.note)) {
				t.Errorf("notes = %+v, want one containing %q", first.Notes, tt.note)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"zero flag", "bitflags T: u8 { None = 0, A = 1 }", diag.DefZeroFlag},
		{"aliased flag", "bitflags T: u8 { A = 1, B = 0x1 }", diag.DefAliasedFlag},
		{"empty set", "bitflags T: u8 {}", diag.DefEmptyFlagSet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, bag := checkSource(t, tt.src)
			if res.File == nil {
				t.Fatalf("warnings must not block the model: %s", summary(bag))
			}
			if bag.Len() != 1 || bag.Items()[0].Code != tt.code || bag.Items()[0].Severity != diag.SevWarning {
				t.Errorf("diagnostics = %s, want warning %s", summary(bag), tt.code.ID())
			}
		})
	}
}

func TestComboAliasIsNotWarned(t *testing.T) {
	_, bag := checkSource(t, "bitflags T: u8 { A = 1, Default = A }")
	if bag.Len() != 0 {
		t.Errorf("diagnostics = %s", summary(bag))
	}
}

func TestLowercaseNamesAreAccepted(t *testing.T) {
	res, bag := checkSource(t, "bitflags t: u8 { x = 1, testing = 2, empty = 4, f = 8, bits = 16 }")
	if res.File == nil || bag.Len() != 0 {
		t.Fatalf("diagnostics = %s", summary(bag))
	}
	if got := len(res.File.Sets[0].Flags); got != 5 {
		t.Errorf("flags = %d, want 5", got)
	}
}

func TestUnknownWidthSuggestsFix(t *testing.T) {
	_, bag := checkSource(t, "bitflags T: uint31 { A = 1 }")
	d := bag.Items()[0]
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "uint32" {
		t.Errorf("fixes = %+v", d.Fixes)
	}
}

func TestUndefinedReferenceSuggestsFix(t *testing.T) {
	_, bag := checkSource(t, "bitflags T: u8 { Read = 1, All = Reed }")
	d := bag.Items()[0]
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "Read" {
		t.Errorf("fixes = %+v", d.Fixes)
	}
}

func TestPackageName(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.flags", []byte("package type\nbitflags T: u8 { A = 1 }"))
	bag := diag.NewBag(0)
	b := ast.NewBuilder(ast.Hints{})
	pr := parser.ParseFile(fs, lexer.New(fs.Get(id), lexer.Options{}), b, parser.Options{})
	res := Check(b, pr.File, Options{Reporter: diag.BagReporter{Bag: bag}, Package: "fallback"})
	if res.File != nil || bag.Items()[0].Code != diag.DefBadPackageName {
		t.Errorf("diagnostics = %s", summary(bag))
	}
}
