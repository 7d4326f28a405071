package format

import (
	"errors"
	"testing"

	"bitflags/internal/source"
)

func formatString(t *testing.T, src string, opt Options) string {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("fmt.flags", []byte(src))
	out, err := FormatFile(fs.Get(id), opt)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	return string(out)
}

func TestFormatCanonicalLayout(t *testing.T) {
	src := "package   perms\nbitflags Perms :u8{Read=1<<0,Write = 1<<1 ,\n\n\n  Both=Read|Write}\n" +
		"bitflags Empty: u16 { }\n"
	want := `package perms

bitflags Perms: u8 {
	Read = 1 << 0,
	Write = 1 << 1,

	Both = Read | Write,
}

bitflags Empty: u16 {}
`
	if got := formatString(t, src, Options{UseTabs: true}); got != want {
		t.Fatalf("mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestFormatKeepsComments(t *testing.T) {
	src := `// Header comment.

package perms
/// Perms doc.
bitflags Perms: u8 {
    /// Read doc.
    Read = 1, // trailing
    Write = 2 /* inline */ | Read,
    Exec = 4 // last
}
// footer
`
	want := `// Header comment.

package perms

/// Perms doc.
bitflags Perms: u8 {
  /// Read doc.
  Read = 1, // trailing
  Write = 2 /* inline */ | Read,
  Exec = 4, // last
}

// footer
`
	if got := formatString(t, src, Options{IndentWidth: 2}); got != want {
		t.Fatalf("mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestFormatExpressions(t *testing.T) {
	src := "bitflags S: i8 { Neg = - 1 << 7 , Mask = ! ( Neg|0x0F ) & ~Neg.bits , Call = bit( 3 ) - 1 }\n"
	want := "bitflags S: i8 {\n\tNeg = -1 << 7,\n\tMask = !(Neg | 0x0F) & ~Neg.bits,\n\tCall = bit(3) - 1,\n}\n"
	if got := formatString(t, src, Options{UseTabs: true}); got != want {
		t.Fatalf("mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestFormatRejectsSyntaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bad.flags", []byte("bitflags P: u8 { A = , }"))
	_, err := FormatFile(fs.Get(id), Options{})
	var syn *SyntaxError
	if !errors.As(err, &syn) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if len(syn.Diagnostics) == 0 {
		t.Fatal("expected diagnostics on SyntaxError")
	}
}

func TestFormatIgnoresSemanticErrors(t *testing.T) {
	src := "bitflags P: u99 {A = Missing}"
	want := "bitflags P: u99 {\n\tA = Missing,\n}\n"
	if got := formatString(t, src, Options{UseTabs: true}); got != want {
		t.Fatalf("mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestCheckRoundTrip(t *testing.T) {
	inputs := []string{
		"package p\nbitflags A: u8 { X = 1, Y = 2 }",
		"bitflags B: u64 {\n  // lonely\n}\n",
		"bitflags C: u32 { X = 0xFF_00 & !0x0F, Y = X.bits >> 4 };",
	}
	for _, src := range inputs {
		fs := source.NewFileSet()
		id := fs.AddVirtual("rt.flags", []byte(src))
		if err := CheckRoundTrip(fs.Get(id), Options{UseTabs: true}); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}
