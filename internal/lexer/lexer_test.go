package lexer_test

import (
	"testing"

	"bitflags/internal/diag"
	"bitflags/internal/lexer"
	"bitflags/internal/source"
	"bitflags/internal/token"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func lex(t *testing.T, input string) ([]token.Token, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.flags", []byte(input))
	rep := &testReporter{}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	return lx.All(), rep
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		out = append(out, tk.Kind)
	}
	return out
}

func sameKinds(a, b []token.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDeclarationTokens(t *testing.T) {
	src := `package perms

bitflags Mode: u8 {
	Read = 0b001,
	All = Read.bits | (1 << 2),
}`
	toks, rep := lex(t, src)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes())
	}
	want := []token.Kind{
		token.KwPackage, token.Ident,
		token.KwBitflags, token.Ident, token.Colon, token.Ident, token.LBrace,
		token.Ident, token.Assign, token.IntLit, token.Comma,
		token.Ident, token.Assign, token.Ident, token.Dot, token.Ident, token.Pipe,
		token.LParen, token.IntLit, token.Shl, token.IntLit, token.RParen, token.Comma,
		token.RBrace, token.EOF,
	}
	if got := kinds(toks); !sameKinds(got, want) {
		t.Fatalf("kinds mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		in   string
		kind token.Kind
		code diag.Code
	}{
		{"0", token.IntLit, 0},
		{"1_000", token.IntLit, 0},
		{"0xFF_FF", token.IntLit, 0},
		{"0o17", token.IntLit, 0},
		{"0B1010", token.IntLit, 0},
		{"1.5", token.FloatLit, 0},
		{"1e3", token.FloatLit, 0},
		{"0x", token.Invalid, diag.LexBadNumber},
		{"0b102", token.Invalid, diag.LexBadNumber},
		{"12abc", token.Invalid, diag.LexBadNumber},
		{"1e", token.Invalid, diag.LexBadNumber},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			toks, rep := lex(t, tt.in)
			if toks[0].Kind != tt.kind {
				t.Errorf("kind = %v, want %v", toks[0].Kind, tt.kind)
			}
			if toks[0].Text != tt.in {
				t.Errorf("text = %q, want %q", toks[0].Text, tt.in)
			}
			switch {
			case tt.code == 0 && len(rep.diagnostics) != 0:
				t.Errorf("unexpected diagnostics: %v", rep.codes())
			case tt.code != 0 && (len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != tt.code):
				t.Errorf("diagnostics = %v, want [%v]", rep.codes(), tt.code)
			}
		})
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	toks, rep := lex(t, "Écrire = 1")
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.codes())
	}
	if toks[0].Kind != token.Ident || toks[0].Text != "Écrire" {
		t.Errorf("got %v %q", toks[0].Kind, toks[0].Text)
	}
}

func TestDocLinesAttachToNextToken(t *testing.T) {
	src := `/// detached

/// Read permission.
///   indented
Read = 1
// plain
/// after comment
Write = 2
//// four slashes
Exec = 4`
	toks, _ := lex(t, src)

	docs := map[string][]string{}
	for _, tk := range toks {
		if tk.Kind == token.Ident {
			docs[tk.Text] = tk.DocLines()
		}
	}
	check := func(name string, want ...string) {
		t.Helper()
		got := docs[name]
		if len(got) != len(want) {
			t.Fatalf("%s docs = %q, want %q", name, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s doc[%d] = %q, want %q", name, i, got[i], want[i])
			}
		}
	}
	check("Read", "Read permission.", "  indented")
	check("Write", "after comment")
	check("Exec")
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code diag.Code
	}{
		{"unknown char", "A = 1 @", diag.LexUnknownChar},
		{"unknown unicode", "A = 1 ∞", diag.LexUnknownChar},
		{"unterminated string", "A = \"abc\nB", diag.LexUnterminatedString},
		{"unterminated block", "/* /* */ A", diag.LexUnterminatedBlock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, rep := lex(t, tt.in)
			if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != tt.code {
				t.Fatalf("diagnostics = %v, want [%v]", rep.codes(), tt.code)
			}
			if toks[len(toks)-1].Kind != token.EOF {
				t.Errorf("lexing did not reach EOF")
			}
		})
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.flags", []byte("a b"))
	lx := lexer.New(fs.Get(id), lexer.Options{})

	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second Next = %q", n.Text)
	}
	for range 2 {
		if n := lx.Next(); n.Kind != token.EOF {
			t.Fatalf("expected sticky EOF, got %v", n.Kind)
		}
	}
}
