// Package model holds checked flag sets, ready for code generation.
package model

// File is every flag set declared in one source file.
type File struct {
	Package string
	Source  string // path of the declaration file
	Sets    []FlagSet
}

// FlagSet is one generated type.
type FlagSet struct {
	Name  string
	Width Width
	Doc   []string
	Flags []Flag
}

// Flag is one typed constant.
type Flag struct {
	Name string
	// Bits is the two's complement pattern masked to the set's width.
	Bits uint64
	Doc  []string
	// Refs names the earlier flags when the value is a pure OR of them.
	Refs []string
}

// IsCombo reports whether the flag is emitted as an OR of other flags.
func (f Flag) IsCombo() bool { return len(f.Refs) > 0 }

// Flag looks up a flag by name.
func (s *FlagSet) Flag(name string) (Flag, bool) {
	for _, f := range s.Flags {
		if f.Name == name {
			return f, true
		}
	}
	return Flag{}, false
}

// All returns the OR of every flag.
func (s *FlagSet) All() uint64 {
	var bits uint64
	for _, f := range s.Flags {
		bits |= f.Bits
	}
	return bits & s.Width.Mask()
}
