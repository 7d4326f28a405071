package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwBitflags represents the 'bitflags' keyword.
	KwBitflags // bitflags
	// KwPackage represents the 'package' keyword.
	KwPackage  // package

	// IntLit represents an integer literal in any base.
	IntLit
	// FloatLit represents a floating point literal. It is lexed only so that
	// sema can reject it as a non-constant flag value.
	FloatLit
	// StringLit represents a double-quoted string literal.
	StringLit

	Assign    // =
	Colon     // :
	Comma     // ,
	Semicolon // ;
	Dot       // .
	Pipe      // |
	Amp       // &
	Caret     // ^
	Shl       // <<
	Shr       // >>
	Minus     // -
	Plus      // +
	Star      // *
	Bang      // !
	Tilde     // ~
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Ident:      "Ident",
	KwBitflags: "bitflags",
	KwPackage:  "package",
	IntLit:     "IntLit",
	FloatLit:   "FloatLit",
	StringLit:  "StringLit",
	Assign:     "=",
	Colon:      ":",
	Comma:      ",",
	Semicolon:  ";",
	Dot:        ".",
	Pipe:       "|",
	Amp:        "&",
	Caret:      "^",
	Shl:        "<<",
	Shr:        ">>",
	Minus:      "-",
	Plus:       "+",
	Star:       "*",
	Bang:       "!",
	Tilde:      "~",
	LParen:     "(",
	RParen:     ")",
	LBrace:     "{",
	RBrace:     "}",
	LBracket:   "[",
	RBracket:   "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
