package project

import (
	"go/token"
	"path/filepath"
	"strings"
	"unicode"
)

// PackageFromDir guesses a Go package name from a directory, the way
// "go mod init" guesses from a path: lower case, letters and digits only.
func PackageFromDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err == nil {
		dir = abs
	}
	var b strings.Builder
	for _, r := range strings.ToLower(filepath.Base(dir)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit([]rune(name)[0]) || token.IsKeyword(name) {
		return "flags"
	}
	return name
}
