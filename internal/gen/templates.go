package gen

const fileTemplate = `
{{- define "doc" -}}
{{- range . }}
// {{ . }}
{{- end }}
{{- end -}}

// Code generated by bitflags{{ with .Version }} {{ . }}{{ end }}{{ with .Source }} from {{ . }}{{ end }}. DO NOT EDIT.

package {{ .Package }}
{{ range .Sets }}
{{- $set := . }}{{ $t := .Name }}{{ $w := .Width.Name }}
{{- if .Doc }}{{ template "doc" .Doc }}{{ else }}
// {{ $t }} is a set of flags stored in a {{ $w }}.
{{- end }}
type {{ $t }} {{ $w }}
{{ if .Flags }}
const (
{{- range .Flags }}
{{- template "doc" .Doc }}
	{{ .Name }} {{ $t }} = {{ value $set . }}
{{- end }}
)
{{ end }}
// Empty{{ $t }} returns a {{ $t }} with no bits set.
func Empty{{ $t }}() {{ $t }} { return 0 }

// {{ $t }}FromBits converts a raw bit pattern. Every pattern is accepted,
// including bits that no declared flag covers.
func {{ $t }}FromBits(bits {{ $w }}) {{ $t }} { return {{ $t }}(bits) }

// Bits returns the underlying bit pattern.
func (f {{ $t }}) Bits() {{ $w }} { return {{ $w }}(f) }

// IsEmpty reports whether no bits are set.
func (f {{ $t }}) IsEmpty() bool { return f == 0 }

// Intersects reports whether f and other share at least one set bit.
func (f {{ $t }}) Intersects(other {{ $t }}) bool { return f&other != 0 }

// Contains reports whether every bit set in other is also set in f.
func (f {{ $t }}) Contains(other {{ $t }}) bool { return f&other == other }

// Insert sets the bits of other in f.
func (f *{{ $t }}) Insert(other {{ $t }}) { *f |= other }

// Remove clears the bits of other from f.
func (f *{{ $t }}) Remove(other {{ $t }}) { *f &^= other }

// Union returns the bits set in f or other.
func (f {{ $t }}) Union(other {{ $t }}) {{ $t }} { return f | other }

// Intersection returns the bits set in both f and other.
func (f {{ $t }}) Intersection(other {{ $t }}) {{ $t }} { return f & other }

// Difference returns the bits of f that are not set in other.
func (f {{ $t }}) Difference(other {{ $t }}) {{ $t }} { return f &^ other }
{{ end }}
{{- if hasFlags .Sets }}
func _() {
	// An "invalid array index" compiler error signifies that the constant values have changed.
	// Re-run bitflags to generate them again.
{{- range .Sets }}{{ $set := . }}
{{- range .Flags }}
	_ = [1]struct{}{}[{{ .Name }}-({{ $set.Width.Format .Bits }})]
{{- end }}
{{- end }}
}
{{- end }}
`

const testTemplate = `
// Code generated by bitflags{{ with .Version }} {{ . }}{{ end }}{{ with .Source }} from {{ . }}{{ end }}. DO NOT EDIT.

package {{ .Package }}

import _testing "testing"
{{ range .Sets }}
{{- $t := .Name }}
func Test{{ $t }}Laws(_t *_testing.T) {
	_empty := Empty{{ $t }}()
	_values := []{{ $t }}{
		_empty,
{{- range .Flags }}
		{{ .Name }},
{{- end }}
		{{ $t }}FromBits({{ all . }}),
	}

	if _empty.Bits() != 0 || !_empty.IsEmpty() {
		_t.Fatalf("Empty{{ $t }}() = %#x, want an empty set", _empty.Bits())
	}
	for _, _x := range _values {
		if _empty.Intersects(_x) || _x.Intersects(_empty) {
			_t.Errorf("empty set intersects %#x", _x.Bits())
		}
		if !_x.Contains(_empty) || !_x.Contains(_x) {
			_t.Errorf("%#x must contain the empty set and itself", _x.Bits())
		}
		if _got := {{ $t }}FromBits(_x.Bits()); _got != _x {
			_t.Errorf("{{ $t }}FromBits(%#x) = %#x", _x.Bits(), _got.Bits())
		}
		if _x.IsEmpty() != (_x.Bits() == 0) {
			_t.Errorf("IsEmpty(%#x) = %v", _x.Bits(), _x.IsEmpty())
		}
		for _, _y := range _values {
			_u, _i, _d := _x.Union(_y), _x.Intersection(_y), _x.Difference(_y)
			if _u != _y.Union(_x) || _i != _y.Intersection(_x) {
				_t.Errorf("union and intersection of %#x and %#x must commute", _x.Bits(), _y.Bits())
			}
			if !_u.Contains(_x) || !_u.Contains(_y) || !_x.Contains(_i) {
				_t.Errorf("containment laws fail for %#x and %#x", _x.Bits(), _y.Bits())
			}
			if _x.Intersects(_y) == _i.IsEmpty() {
				_t.Errorf("Intersects(%#x, %#x) = %v, intersection %#x", _x.Bits(), _y.Bits(), _x.Intersects(_y), _i.Bits())
			}
			if _x.Contains(_y) != (_i == _y) {
				_t.Errorf("Contains(%#x, %#x) = %v", _x.Bits(), _y.Bits(), _x.Contains(_y))
			}
			if _d.Intersects(_y) || _d.Union(_i) != _x {
				_t.Errorf("Difference(%#x, %#x) = %#x", _x.Bits(), _y.Bits(), _d.Bits())
			}
			_z := _x
			_z.Insert(_y)
			if _z != _u {
				_t.Errorf("Insert(%#x, %#x) = %#x, want %#x", _x.Bits(), _y.Bits(), _z.Bits(), _u.Bits())
			}
			_z = _x
			_z.Remove(_y)
			if _z != _d {
				_t.Errorf("Remove(%#x, %#x) = %#x, want %#x", _x.Bits(), _y.Bits(), _z.Bits(), _d.Bits())
			}
		}
	}
}
{{ end }}`
