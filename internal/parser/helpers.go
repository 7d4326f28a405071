package parser

import (
	"golang.org/x/text/unicode/norm"

	"bitflags/internal/ast"
	"bitflags/internal/diag"
	"bitflags/internal/source"
	"bitflags/internal/token"
)

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan points at the next token, or right after the last one at
// EOF so that "missing }" lands on the line that needs it.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.AtEnd()
	}
	return peek.Span
}

// expect consumes a token of kind k or reports code.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.report(code, diag.SevError, sp, msg+", got "+describe(p.lx.Peek()))
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.lx.Peek().Text}, false
}

func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.diagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		if p.opts.Enough() {
			return false
		}
		p.opts.CurrentErrors++
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

// parseIdent expects an identifier and normalizes it to NFC.
func (p *Parser) parseIdent() (ast.Ident, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return identFrom(tok), true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got "+describe(p.lx.Peek()))
	return ast.Ident{}, false
}

func identFrom(tok token.Token) ast.Ident {
	return ast.Ident{Name: norm.NFC.String(tok.Text), Span: tok.Span}
}

// resyncUntil skips tokens until one of kinds or EOF is next. Nothing is
// consumed when the next token already matches.
func (p *Parser) resyncUntil(kinds ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(kinds...) {
		p.advance()
	}
}

func (p *Parser) eatSemicolons() {
	for p.at(token.Semicolon) {
		p.advance()
	}
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return "identifier '" + tok.Text + "'"
	case token.IntLit, token.FloatLit, token.StringLit:
		return "literal " + tok.Text
	}
	if tok.Text != "" {
		return "'" + tok.Text + "'"
	}
	return tok.Kind.String()
}
