package parser

import (
	"bitflags/internal/ast"
	"bitflags/internal/diag"
	"bitflags/internal/source"
	"bitflags/internal/token"
)

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.Pipe:  ast.BinaryOr,
	token.Caret: ast.BinaryXor,
	token.Amp:   ast.BinaryAnd,
	token.Shl:   ast.BinaryShl,
	token.Shr:   ast.BinaryShr,
	token.Plus:  ast.BinaryAdd,
	token.Minus: ast.BinarySub,
	token.Star:  ast.BinaryMul,
}

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.Minus: ast.UnaryNeg,
	token.Plus:  ast.UnaryPlus,
	token.Bang:  ast.UnaryNot,
	token.Tilde: ast.UnaryComplement,
}

// parseExpr parses a value expression with Go operator precedence.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinary(1)
}

// parseBinary is precedence climbing; every operator is left associative.
func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		tok := p.lx.Peek()
		op, isOp := binaryOps[tok.Kind]
		if !isOp || op.Precedence() < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(op.Precedence() + 1)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.spanOf(left).Cover(p.spanOf(right))
		left = p.arenas.Exprs.NewBinary(span, tok.Span, op, left, right)
	}
}

func (p *Parser) parseUnary() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	if op, ok := unaryOps[tok.Kind]; ok {
		p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnary(tok.Span.Cover(p.spanOf(operand)), op, operand), true
	}
	return p.parsePostfix()
}

// parsePostfix handles selectors and calls. Name.bits folds into a single
// reference node.
func (p *Parser) parsePostfix() (ast.ExprID, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	exprs := p.arenas.Exprs
	for {
		switch {
		case p.at(token.Dot):
			p.advance()
			field, ok := p.parseIdent()
			if !ok {
				return ast.NoExprID, false
			}
			span := p.spanOf(expr).Cover(field.Span)
			if ref, isRef := exprs.Ref(expr); isRef && !ref.Bits && field.Name == "bits" {
				expr = exprs.NewRef(span, ref.Name, true)
				continue
			}
			expr = exprs.NewSelector(span, expr, field)

		case p.at(token.LParen):
			lparen := p.advance()
			var args []ast.ExprID
			for !p.atOr(token.RParen, token.EOF, token.RBrace) {
				arg, ok := p.parseExpr()
				if !ok {
					return ast.NoExprID, false
				}
				args = append(args, arg)
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close call"); !ok {
				return ast.NoExprID, false
			}
			expr = exprs.NewCall(p.spanOf(expr).Cover(lparen.Span).Cover(p.lastSpan), expr, args)

		default:
			return expr, true
		}
	}
}

func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprIntLit, tok.Text), true
	case token.FloatLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprFloatLit, tok.Text), true
	case token.StringLit:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprStringLit, tok.Text), true
	case token.Ident:
		p.advance()
		return exprs.NewRef(tok.Span, identFrom(tok), false), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		rparen, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewGroup(tok.Span.Cover(rparen.Span), inner), true
	case token.Invalid:
		// already reported by the lexer
		p.advance()
		return exprs.NewBad(tok.Span), true
	}
	p.err(diag.SynExpectExpression, "expected value expression, got "+describe(tok))
	return ast.NoExprID, false
}

func (p *Parser) spanOf(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}
