// Package fuzztests holds fuzz harnesses for the front end of the generator
// (source, lexer, parser, sema). They check that arbitrary input never
// panics or hangs and that every reported span stays inside the file.
package fuzztests
