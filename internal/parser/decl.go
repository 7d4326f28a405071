package parser

import (
	"bitflags/internal/ast"
	"bitflags/internal/diag"
	"bitflags/internal/token"
)

// parseFlagSet parses
//
//	bitflags Name: width {
//		Flag = expr,
//	}
//
// A missing colon or width is reported but the body is still parsed so that
// its own problems surface in the same run.
func (p *Parser) parseFlagSet() (ast.FlagSetDecl, bool) {
	kw := p.advance()
	decl := ast.FlagSetDecl{
		Doc:  kw.DocLines(),
		Span: kw.Span,
	}

	name, ok := p.parseIdent()
	if !ok {
		p.resyncTop()
		return decl, false
	}
	decl.Name = name

	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after flag set name"); ok {
		if p.at(token.Ident) {
			decl.Width = identFrom(p.advance())
		} else {
			p.err(diag.SynExpectWidth, "expected integer width such as u32, got "+describe(p.lx.Peek()))
		}
	} else if p.at(token.Ident) {
		// "bitflags Name u32 {" still tells us the width
		decl.Width = identFrom(p.advance())
	}

	lbrace, ok := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' to open flag set body")
	if !ok {
		p.resyncTop()
		decl.Span = decl.Span.Cover(p.lastSpan)
		return decl, !decl.Width.IsZero()
	}

	decl.Flags = p.parseFlagBody()

	rbrace, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close flag set "+decl.Name.Name)
	if ok {
		decl.BodySpan = lbrace.Span.Cover(rbrace.Span)
	} else {
		decl.BodySpan = lbrace.Span.Cover(p.lastSpan)
	}
	decl.Span = decl.Span.Cover(p.lastSpan)
	p.eatSemicolons()
	return decl, true
}

// parseFlagBody parses comma separated flags up to the closing brace. A
// trailing comma is allowed.
func (p *Parser) parseFlagBody() []ast.FlagDecl {
	flags := make([]ast.FlagDecl, 0, 8)
	for !p.atOr(token.RBrace, token.EOF) {
		if isTopLevelStarter(p.lx.Peek().Kind) {
			// a missing '}' followed by the next declaration
			return flags
		}

		flag, ok := p.parseFlag()
		if ok {
			flags = append(flags, flag)
		} else {
			p.resyncUntil(token.Comma, token.RBrace, token.KwBitflags, token.KwPackage)
		}

		switch {
		case p.at(token.Comma):
			p.advance()
		case p.at(token.Semicolon):
			p.err(diag.SynExpectComma, "flags are separated by ',', not ';'")
			p.eatSemicolons()
		case p.at(token.Ident):
			p.report(diag.SynExpectComma, diag.SevError, p.lastSpan.AtEnd(), "expected ',' after flag "+flag.Name.Name)
		}
	}
	return flags
}

func (p *Parser) parseFlag() (ast.FlagDecl, bool) {
	if !p.at(token.Ident) {
		p.err(diag.SynExpectIdentifier, "expected flag name, got "+describe(p.lx.Peek()))
		if !p.at(token.Comma) {
			p.advance()
		}
		return ast.FlagDecl{}, false
	}

	nameTok := p.advance()
	flag := ast.FlagDecl{
		Name: identFrom(nameTok),
		Doc:  nameTok.DocLines(),
		Span: nameTok.Span,
	}

	if _, ok := p.expect(token.Assign, diag.SynExpectAssign, "expected '=' after flag name "+flag.Name.Name); !ok {
		return flag, false
	}

	value, ok := p.parseExpr()
	if !ok {
		return flag, false
	}
	flag.Value = value
	flag.Span = flag.Span.Cover(p.arenas.Exprs.Get(value).Span)
	return flag, true
}
