package format

import (
	"fmt"

	"bitflags/internal/diag"
	"bitflags/internal/lexer"
	"bitflags/internal/source"
	"bitflags/internal/token"
)

// CheckRoundTrip formats sf, re-parses the result and verifies that only
// layout changed: the significant tokens must match once optional commas and
// semicolons are set aside, and formatting the result again must be a no-op.
func CheckRoundTrip(sf *source.File, opt Options) error {
	formatted, err := FormatFile(sf, opt)
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual(sf.Path, formatted)
	again := fs.Get(id)
	if !parseClean(again, diag.NewBag(64)) {
		return fmt.Errorf("format: %s does not parse after formatting", sf.Path)
	}

	before, after := significant(sf), significant(again)
	if len(before) != len(after) {
		return fmt.Errorf("format: %s has %d tokens after formatting, want %d", sf.Path, len(after), len(before))
	}
	for i := range before {
		if before[i].Kind != after[i].Kind || before[i].Text != after[i].Text {
			return fmt.Errorf("format: %s token %d changed from %q to %q", sf.Path, i, before[i].Text, after[i].Text)
		}
	}

	twice, err := FormatFile(again, opt)
	if err != nil {
		return err
	}
	if string(twice) != string(formatted) {
		return fmt.Errorf("format: %s is not stable under reformatting", sf.Path)
	}
	return nil
}

// significant lists the tokens of sf that carry meaning, dropping
// semicolons and commas directly before a closing brace.
func significant(sf *source.File) []token.Token {
	toks := lexer.New(sf, lexer.Options{}).All()
	out := make([]token.Token, 0, len(toks))
	for i, tok := range toks {
		switch tok.Kind {
		case token.Semicolon, token.EOF:
			continue
		case token.Comma:
			if i+1 < len(toks) && toks[i+1].Kind == token.RBrace {
				continue
			}
		}
		out = append(out, tok)
	}
	return out
}
