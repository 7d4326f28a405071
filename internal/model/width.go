package model

import (
	"fmt"
	"strings"
)

// Width is the integer type backing a generated flag set.
type Width struct {
	Size   uint8 // 8, 16, 32 or 64
	Signed bool
}

var (
	Uint8  = Width{Size: 8}
	Uint16 = Width{Size: 16}
	Uint32 = Width{Size: 32}
	Uint64 = Width{Size: 64}
	Int8   = Width{Size: 8, Signed: true}
	Int16  = Width{Size: 16, Signed: true}
	Int32  = Width{Size: 32, Signed: true}
	Int64  = Width{Size: 64, Signed: true}
)

// Widths lists every width in canonical order.
var Widths = []Width{Uint8, Uint16, Uint32, Uint64, Int8, Int16, Int32, Int64}

var widthAliases = map[string]Width{
	"byte": Uint8,
	"u8":   Uint8,
	"u16":  Uint16,
	"u32":  Uint32,
	"u64":  Uint64,
	"i8":   Int8,
	"i16":  Int16,
	"i32":  Int32,
	"i64":  Int64,
}

// LookupWidth resolves a Go type name or one of its short aliases.
func LookupWidth(name string) (Width, bool) {
	for _, w := range Widths {
		if w.Name() == name {
			return w, true
		}
	}
	w, ok := widthAliases[name]
	return w, ok
}

// WidthNames returns every accepted spelling, canonical names first.
func WidthNames() []string {
	out := make([]string, 0, len(Widths)+len(widthAliases))
	for _, w := range Widths {
		out = append(out, w.Name())
	}
	for _, alias := range []string{"byte", "u8", "u16", "u32", "u64", "i8", "i16", "i32", "i64"} {
		out = append(out, alias)
	}
	return out
}

// Name is the Go spelling, e.g. "uint32".
func (w Width) Name() string {
	prefix := "uint"
	if w.Signed {
		prefix = "int"
	}
	return fmt.Sprintf("%s%d", prefix, w.Size)
}

func (w Width) String() string { return w.Name() }

// Mask has the low Size bits set.
func (w Width) Mask() uint64 {
	if w.Size >= 64 {
		return ^uint64(0)
	}
	return 1<<w.Size - 1
}

// Max is the largest value as a signed or unsigned quantity, returned as a
// bit pattern.
func (w Width) Max() uint64 {
	if w.Signed {
		return w.Mask() >> 1
	}
	return w.Mask()
}

// Min is the most negative value of a signed width as an int64, 0 otherwise.
func (w Width) Min() int64 {
	if !w.Signed {
		return 0
	}
	return -1 << (w.Size - 1)
}

// SignBit returns the pattern of the sign bit, 0 for unsigned widths.
func (w Width) SignBit() uint64 {
	if !w.Signed {
		return 0
	}
	return 1 << (w.Size - 1)
}

// IsNegative reports whether bits, read as a value of w, is below zero.
func (w Width) IsNegative(bits uint64) bool {
	return w.Signed && bits&w.SignBit() != 0
}

// Int64 sign-extends bits for signed widths.
func (w Width) Int64(bits uint64) int64 {
	bits &= w.Mask()
	if w.IsNegative(bits) {
		return int64(bits | ^w.Mask())
	}
	return int64(bits)
}

// Format renders bits as a Go hex literal zero-padded to the width. Negative
// values of signed widths get a leading minus and the magnitude.
func (w Width) Format(bits uint64) string {
	bits &= w.Mask()
	digits := int(w.Size / 4)
	if w.IsNegative(bits) {
		mag := uint64(-w.Int64(bits))
		return fmt.Sprintf("-0x%0*X", digits, mag)
	}
	return fmt.Sprintf("0x%0*X", digits, bits)
}

// ClosestWidth suggests the accepted spelling nearest to name, or "" when
// nothing is reasonably close.
func ClosestWidth(name string) string {
	lower := strings.ToLower(name)
	if _, ok := LookupWidth(lower); ok {
		return lower
	}
	best, bestDist := "", 3
	for _, cand := range WidthNames() {
		if d := levenshtein(lower, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
