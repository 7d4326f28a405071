package lexer

import (
	"bitflags/internal/diag"
	"bitflags/internal/token"
)

// collectLeadingTrivia gathers the trivia in front of the next significant
// token into lx.hold. Runs of spaces and runs of newlines are coalesced so
// that a blank line shows up as a single TriviaNewline holding "\n\n".
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t' || b == '\r':
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\r' {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue

		case b == '\n':
			for {
				b2 := lx.cursor.Peek()
				if b2 == '\n' {
					lx.cursor.Bump()
					continue
				}
				// indentation between blank lines still belongs to the run
				if (b2 == ' ' || b2 == '\t') && lx.blankAhead() {
					lx.cursor.Bump()
					continue
				}
				break
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue

		case b == '/':
			if lx.scanComment() {
				continue
			}
		}
		return
	}
}

// blankAhead reports whether only spaces remain before the next newline.
func (lx *Lexer) blankAhead() bool {
	for i := lx.cursor.Off; i < lx.cursor.Limit; i++ {
		switch lx.file.Content[i] {
		case ' ', '\t', '\r':
		case '\n':
			return true
		default:
			return false
		}
	}
	return false
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

// scanComment handles "//", "///" and nested "/* */". It leaves the cursor
// alone and returns false when the slash starts something else.
func (lx *Lexer) scanComment() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}

	switch b1 {
	case '/':
		lx.cursor.Bump()
		lx.cursor.Bump()
		kind := token.TriviaLineComment
		// exactly three slashes; "////" is an ordinary comment
		if lx.cursor.Peek() == '/' {
			if _, b3, ok := lx.cursor.Peek2(); !ok || b3 != '/' {
				kind = token.TriviaDocLine
			}
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(kind, start)
		return true

	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			if c0, c1, ok := lx.cursor.Peek2(); ok {
				if c0 == '/' && c1 == '*' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth++
					continue
				}
				if c0 == '*' && c1 == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth--
					continue
				}
			}
			lx.cursor.Bump()
		}
		if depth > 0 {
			lx.errLex(diag.LexUnterminatedBlock, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(token.TriviaBlockComment, start)
		return true
	}
	return false
}
