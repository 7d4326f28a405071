package lexer

import (
	"bitflags/internal/diag"
	"bitflags/internal/token"
)

// scanNumber accepts 123, 0x1F, 0o17, 0b1010 with '_' separators between
// digits. Decimal fractions and exponents are lexed as FloatLit so that the
// checker can reject them with a precise message. A number running straight
// into identifier characters (0x1G, 12abc) is reported as malformed.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	digits := isDec
	prefixed := false
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		switch b1 {
		case 'x', 'X':
			digits, prefixed = isHex, true
		case 'o', 'O':
			digits, prefixed = isOct, true
		case 'b', 'B':
			digits, prefixed = isBin, true
		}
		if prefixed {
			lx.cursor.Bump()
			lx.cursor.Bump()
		}
	}

	count := 0
	for {
		b := lx.cursor.Peek()
		if digits(b) {
			count++
		} else if b != '_' || lx.cursor.EOF() {
			break
		}
		lx.cursor.Bump()
	}

	if prefixed && count == 0 {
		return lx.badNumber(start, "missing digits after base prefix")
	}

	// fraction and exponent only make sense for plain decimals
	if !prefixed && lx.cursor.Peek() == '.' {
		if _, b1, ok := lx.cursor.Peek2(); ok && isDec(b1) {
			kind = token.FloatLit
			lx.cursor.Bump()
			for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
		}
	}
	if b := lx.cursor.Peek(); !prefixed && (b == 'e' || b == 'E') {
		kind = token.FloatLit
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected digit after exponent")
		}
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	if b := lx.cursor.Peek(); !lx.cursor.EOF() && isIdentContinueByte(b) {
		for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.badNumber(start, "invalid character in number literal")
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
