package parser

import (
	"slices"

	"bitflags/internal/ast"
	"bitflags/internal/diag"
	"bitflags/internal/lexer"
	"bitflags/internal/source"
	"bitflags/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough reports whether the error budget is spent.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File *ast.File
	Bag  *diag.Bag
}

// Parser holds the state for parsing one file.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     *ast.File
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span // span of the last consumed token
}

// ParseFile parses one declaration file. It always returns a File; when
// errors were reported the File holds whatever could be recovered.
func ParseFile(
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	start := lx.EmptySpan()
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(start.File, start),
		fs:       fs,
		opts:     opts,
		lastSpan: start,
	}

	p.parseItems()
	var bag *diag.Bag
	if br, ok := opts.Reporter.(diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{
		File: p.file,
		Bag:  bag,
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// parseItems is the top-level loop: an optional package clause followed by
// any number of bitflags declarations.
func (p *Parser) parseItems() {
	startSpan := p.lx.Peek().Span
	sawDecl := false
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.KwPackage:
			p.parsePackageClause(sawDecl)
		case token.KwBitflags:
			sawDecl = true
			if decl, ok := p.parseFlagSet(); ok {
				p.file.Decls = append(p.file.Decls, decl)
			}
		default:
			tok := p.lx.Peek()
			p.report(diag.SynUnexpectedTopLevel, diag.SevError, tok.Span,
				"expected 'bitflags' declaration, got "+describe(tok))
			p.advance()
			p.resyncTop()
		}
	}
	p.file.Span = startSpan.Cover(p.lx.Peek().Span)
}

func (p *Parser) parsePackageClause(sawDecl bool) {
	kw := p.advance()
	name, ok := p.parseIdent()
	if !ok {
		p.resyncTop()
		return
	}
	p.eatSemicolons()

	switch {
	case !p.file.Package.IsZero():
		diag.ReportError(p.opts.Reporter, diag.SynDuplicatePackage, kw.Span.Cover(name.Span),
			"duplicate package clause").
			WithNote(p.file.Package.Span, "package first declared here").
			Emit()
		p.opts.CurrentErrors++
	case sawDecl:
		p.report(diag.SynPackageNotFirst, diag.SevError, kw.Span.Cover(name.Span),
			"package clause must come before any declaration")
	default:
		p.file.Package = name
	}
}

// resyncTop skips tokens until something that can start a top-level item.
func (p *Parser) resyncTop() {
	p.resyncUntil(token.KwBitflags, token.KwPackage)
}

func isTopLevelStarter(k token.Kind) bool {
	return k == token.KwBitflags || k == token.KwPackage
}
