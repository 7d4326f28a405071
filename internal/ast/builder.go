package ast

import (
	"bitflags/internal/source"
)

type Hints struct{ Exprs uint }

// Builder owns the arenas shared by every file parsed in one run.
type Builder struct {
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	return &Builder{
		Exprs: NewExprs(hints.Exprs),
	}
}

func (b *Builder) NewFile(id source.FileID, sp source.Span) *File {
	return &File{
		Source: id,
		Span:   sp,
		Decls:  make([]FlagSetDecl, 0, 1),
	}
}
