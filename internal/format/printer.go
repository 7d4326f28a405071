package format

import (
	"errors"
	"fmt"
	"strings"

	"bitflags/internal/ast"
	"bitflags/internal/diag"
	"bitflags/internal/lexer"
	"bitflags/internal/parser"
	"bitflags/internal/source"
	"bitflags/internal/token"
)

type Options struct {
	// IndentWidth is the number of spaces per level when UseTabs is off.
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

// SyntaxError is returned for input that does not lex or parse cleanly.
// Formatting such a file could move or drop text.
type SyntaxError struct {
	Diagnostics []diag.Diagnostic
}

func (e *SyntaxError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "format: syntax errors"
	}
	first := e.Diagnostics[0]
	if len(e.Diagnostics) == 1 {
		return fmt.Sprintf("format: %s %s", first.Code.ID(), first.Message)
	}
	return fmt.Sprintf("format: %s %s (and %d more)", first.Code.ID(), first.Message, len(e.Diagnostics)-1)
}

// FormatFile returns the canonical layout of sf.
func FormatFile(sf *source.File, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	bag := diag.NewBag(64)
	if !parseClean(sf, bag) {
		return nil, &SyntaxError{Diagnostics: syntaxErrors(bag)}
	}

	lx := lexer.New(sf, lexer.Options{})
	p := printer{
		toks: lx.All(),
		w:    NewWriter(opt, len(sf.Content)),
	}
	p.printFile()
	return p.w.Bytes(), nil
}

// parseClean lexes and parses sf, reporting whether no syntax error came up.
// Semantic problems do not matter for layout.
func parseClean(sf *source.File, bag *diag.Bag) bool {
	fs := source.NewFileSet()
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(sf, lexer.Options{Reporter: reporter})
	parser.ParseFile(fs, lx, ast.NewBuilder(ast.Hints{}), parser.Options{
		Reporter:  reporter,
		MaxErrors: 64,
	})
	return len(syntaxErrors(bag)) == 0
}

func syntaxErrors(bag *diag.Bag) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError && d.Code < diag.DefInfo {
			out = append(out, d)
		}
	}
	return out
}

type printer struct {
	toks []token.Token
	w    *Writer

	prev        token.Kind
	prevUnary   bool
	braceDepth  int
	parenDepth  int
	needNewline bool
	blank       bool
	// bodyComment is set once a comment is written inside the current body.
	bodyComment bool
}

func (p *printer) printFile() {
	p.prev = token.Invalid
	for _, tok := range p.toks {
		p.printLeading(tok)
		if tok.Kind == token.EOF {
			break
		}
		p.printToken(tok)
	}
	p.w.Newline(false)
}

// printLeading emits the comments in front of tok. A comment on the same
// line as the previous token stays there.
func (p *printer) printLeading(tok token.Token) {
	if tok.Kind == token.RBrace && p.braceDepth > 0 && len(tok.Leading) > 0 {
		p.terminateFlag()
	}
	sawNewline := p.prev == token.Invalid
	for _, tr := range tok.Leading {
		switch tr.Kind {
		case token.TriviaNewline:
			sawNewline = true
			if strings.Count(tr.Text, "\n") > 1 && !p.w.Empty() {
				p.blank = true
			}
			continue
		case token.TriviaSpace:
			continue
		}
		if p.braceDepth > 0 {
			p.bodyComment = true
		}
		if !sawNewline {
			p.w.Space()
			p.w.WriteComment(tr.Text)
			if tr.Kind != token.TriviaBlockComment {
				p.needNewline = true
			}
			continue
		}
		p.breakLine(tok.Kind == token.RBrace)
		p.w.WriteComment(tr.Text)
		p.needNewline = true
	}
}

// breakLine ends the current line. closing is set when a closing brace
// comes next, which never gets a blank line above it.
func (p *printer) breakLine(closing bool) {
	blank := p.blank && !closing && p.prev != token.LBrace
	p.w.Newline(blank)
	p.needNewline = false
	p.blank = false
}

func (p *printer) printToken(tok token.Token) {
	switch tok.Kind {
	case token.Semicolon:
		return
	case token.RBrace:
		p.printRBrace()
		return
	}

	if p.needNewline {
		p.breakLine(false)
	} else if p.spaceBefore(tok.Kind) {
		p.w.Space()
	}
	p.w.WriteString(tok.Text)

	switch tok.Kind {
	case token.LBrace:
		p.braceDepth++
		p.w.IndentPush()
		p.needNewline = true
		p.bodyComment = false
	case token.LParen:
		p.parenDepth++
	case token.RParen:
		p.parenDepth = max(p.parenDepth-1, 0)
	case token.Comma:
		if p.braceDepth > 0 && p.parenDepth == 0 {
			p.needNewline = true
		}
	case token.Minus, token.Plus:
		p.prevUnary = !endsOperand(p.prev)
	case token.Ident:
		if p.prev == token.KwPackage {
			p.needNewline = true
			p.blank = true
		}
	}
	p.prev = tok.Kind
}

// printRBrace closes a flag set body, adding the trailing comma when the
// last flag has none. An empty body stays as "{}".
func (p *printer) printRBrace() {
	if p.braceDepth > 0 {
		p.terminateFlag()
		p.braceDepth--
		p.w.IndentPop()
	}
	if p.prev == token.LBrace && !p.bodyComment {
		p.needNewline = false
	} else {
		p.breakLine(true)
	}
	p.w.WriteString("}")
	p.prev = token.RBrace
	p.parenDepth = 0
	if p.braceDepth == 0 {
		p.needNewline = true
		p.blank = true
	}
}

// terminateFlag writes the comma after the last flag of a body if the
// source left it out.
func (p *printer) terminateFlag() {
	if p.prev == token.Comma || p.prev == token.LBrace {
		return
	}
	p.w.WriteString(",")
	p.prev = token.Comma
	p.needNewline = true
}

func (p *printer) spaceBefore(cur token.Kind) bool {
	switch cur {
	case token.Comma, token.Colon, token.Dot, token.RParen, token.RBracket:
		return false
	case token.LParen:
		// calls hug their callee
		if p.prev == token.Ident || p.prev == token.RParen {
			return false
		}
	}
	switch p.prev {
	case token.Invalid, token.LParen, token.LBracket, token.Dot, token.Bang, token.Tilde:
		return false
	case token.Minus, token.Plus:
		return !p.prevUnary
	}
	return true
}

func endsOperand(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit, token.RParen, token.RBracket:
		return true
	}
	return false
}
