// Package token defines the lexical vocabulary of .flags declaration files.
// Invariants:
//   - Token.Text is the exact source text covered by Token.Span.
//   - Comments and doc lines (/// ...) never appear in the token stream; they
//     are attached to the following token as leading Trivia.
//   - Width names (uint32, u8, byte, ...) are identifiers. They are resolved by
//     the semantic layer, not the lexer.
package token
