package ast

import (
	"bitflags/internal/source"
)

// File is the parse result of one declaration file.
type File struct {
	Source source.FileID
	Span   source.Span
	// Package is empty when the file has no package clause.
	Package Ident
	Decls   []FlagSetDecl
}

// Decl returns the declaration named name, if any.
func (f *File) Decl(name string) (*FlagSetDecl, bool) {
	for i := range f.Decls {
		if f.Decls[i].Name.Name == name {
			return &f.Decls[i], true
		}
	}
	return nil, false
}
