package ast

import (
	"bitflags/internal/source"
)

// Ident is a name as written, normalized to Unicode NFC.
type Ident struct {
	Name string
	Span source.Span
}

func (id Ident) IsZero() bool { return id.Name == "" }

// FlagSetDecl is one "bitflags Name: width { ... }" block.
type FlagSetDecl struct {
	Name  Ident
	Width Ident
	Doc   []string
	Flags []FlagDecl
	Span  source.Span
	// BodySpan covers the braces, used for empty-set diagnostics.
	BodySpan source.Span
}

// FlagDecl is one "Name = value" entry.
type FlagDecl struct {
	Name  Ident
	Value ExprID
	Doc   []string
	Span  source.Span
}
