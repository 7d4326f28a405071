package format

import (
	"strings"
)

// Writer accumulates formatted output and tracks indentation.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates a new formatting writer.
func NewWriter(opt Options, sizeHint int) *Writer {
	return &Writer{
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, sizeHint),
		atLineStart: true,
	}
}

// Bytes returns the accumulated formatted output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Empty reports whether nothing was written yet.
func (w *Writer) Empty() bool {
	return len(w.buf) == 0
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		for range w.indentLevel * w.opt.IndentWidth {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes s, indenting first when at the start of a line.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.writeIndent()
	w.buf = append(w.buf, s...)
	w.atLineStart = s[len(s)-1] == '\n'
}

// Space writes a single space unless the output already ends with
// whitespace.
func (w *Writer) Space() {
	if len(w.buf) == 0 || w.atLineStart {
		return
	}
	last := w.buf[len(w.buf)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		return
	}
	w.buf = append(w.buf, ' ')
}

// Newline ends the current line. A blank line is added when blank is set.
func (w *Writer) Newline(blank bool) {
	if len(w.buf) == 0 {
		return
	}
	w.trimTrailingSpace()
	if w.buf[len(w.buf)-1] != '\n' {
		w.buf = append(w.buf, '\n')
	}
	if blank && !w.endsWithBlankLine() {
		w.buf = append(w.buf, '\n')
	}
	w.atLineStart = true
}

func (w *Writer) endsWithBlankLine() bool {
	return len(w.buf) >= 2 && w.buf[len(w.buf)-1] == '\n' && w.buf[len(w.buf)-2] == '\n'
}

func (w *Writer) trimTrailingSpace() {
	for len(w.buf) > 0 {
		last := w.buf[len(w.buf)-1]
		if last != ' ' && last != '\t' {
			return
		}
		w.buf = w.buf[:len(w.buf)-1]
	}
}

// IndentPush increases the indentation level.
func (w *Writer) IndentPush() {
	w.indentLevel++
}

// IndentPop decreases the indentation level.
func (w *Writer) IndentPop() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}

// WriteComment writes comment text with trailing blanks removed from every
// line. Continuation lines of a block comment keep their own indentation.
func (w *Writer) WriteComment(text string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			w.buf = append(w.buf, '\n')
			w.atLineStart = false
		}
		w.WriteString(strings.TrimRight(line, " \t\r"))
	}
}
