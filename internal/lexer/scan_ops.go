package lexer

import (
	"bitflags/internal/diag"
	"bitflags/internal/token"
)

var singleByteTokens = [256]token.Kind{
	'=': token.Assign,
	':': token.Colon,
	',': token.Comma,
	';': token.Semicolon,
	'.': token.Dot,
	'|': token.Pipe,
	'&': token.Amp,
	'^': token.Caret,
	'-': token.Minus,
	'+': token.Plus,
	'*': token.Star,
	'!': token.Bang,
	'~': token.Tilde,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
}

// scanOperatorOrPunct is greedy: shifts are matched before single bytes.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	switch {
	case lx.try2('<', '<'):
		return emit(token.Shl)
	case lx.try2('>', '>'):
		return emit(token.Shr)
	}

	b := lx.cursor.Bump()
	if k := singleByteTokens[b]; k != token.Invalid {
		return emit(k)
	}

	tok := emit(token.Invalid)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected character "+quoteBytes([]byte(tok.Text)))
	return tok
}
