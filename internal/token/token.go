package token

import (
	"strings"

	"bitflags/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit:
		return true
	default:
		return false
	}
}

// IsBinaryOp reports whether the token can join two value expressions.
func (t Token) IsBinaryOp() bool {
	switch t.Kind {
	case Pipe, Amp, Caret, Shl, Shr, Plus, Minus, Star:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind == KwBitflags || t.Kind == KwPackage
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// DocLines returns the text of the /// doc lines immediately preceding the
// token, without the leading slashes. A blank line or a plain comment between
// doc lines and the token detaches them.
func (t Token) DocLines() []string {
	var lines []string
	for _, tr := range t.Leading {
		switch tr.Kind {
		case TriviaDocLine:
			text := strings.TrimPrefix(tr.Text, "///")
			text = strings.TrimPrefix(text, " ")
			lines = append(lines, strings.TrimRight(text, " \t"))
		case TriviaNewline:
			if strings.Count(tr.Text, "\n") > 1 {
				lines = nil
			}
		case TriviaLineComment, TriviaBlockComment:
			lines = nil
		}
	}
	return lines
}
