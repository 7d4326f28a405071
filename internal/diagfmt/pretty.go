package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"bitflags/internal/diag"
	"bitflags/internal/source"
)

type palette struct {
	err, warn, info, note, fix, path, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		fix:    color.New(color.FgGreen, color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.fix, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) (*color.Color, string) {
	switch sev {
	case diag.SevError:
		return p.err, "error"
	case diag.SevWarning:
		return p.warn, "warning"
	default:
		return p.info, "info"
	}
}

// Pretty renders diagnostics for a terminal:
//
//	error[DEF4001]: duplicate flag A in Mode
//	  --> perms.flags:4:2
//	   |
//	 4 |     A = 2,
//	   |     ^
//	   = note: first declared here (perms.flags:3:2)
//
// Call bag.Sort() first for stable output.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	tab := opts.TabWidth
	if tab <= 0 {
		tab = 4
	}

	for i, d := range bag.Items() {
		var b strings.Builder
		if i > 0 {
			b.WriteByte('\n')
		}
		sevColor, label := pal.severity(d.Severity)
		fmt.Fprintf(&b, "%s: %s\n", sevColor.Sprintf("%s[%s]", label, d.Code.ID()), pal.path.Sprint(d.Message))

		start, end := fs.Resolve(d.Primary)
		file := fs.Get(d.Primary.File)
		path := file.FormatPath(formatPath(opts.PathMode), fs.BaseDir())
		gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))
		pad := strings.Repeat(" ", gutterWidth)

		fmt.Fprintf(&b, "%s%s %s:%d:%d\n", pad, pal.gutter.Sprint("-->"), path, start.Line, start.Col)

		lineText := file.GetLine(start.Line)
		if start.Line > 0 {
			fmt.Fprintf(&b, "%s %s\n", pad, pal.gutter.Sprint("|"))
			fmt.Fprintf(&b, "%s %s %s\n", pal.gutter.Sprint(start.Line), pal.gutter.Sprint("|"), expandTabs(lineText, tab))
			fmt.Fprintf(&b, "%s %s %s\n", pad, pal.gutter.Sprint("|"), sevColor.Sprint(caretLine(lineText, start, end, tab)))
		}

		if opts.ShowNotes {
			for _, note := range d.Notes {
				np, _ := fs.Resolve(note.Span)
				nf := fs.Get(note.Span.File)
				fmt.Fprintf(&b, "%s %s %s %s (%s:%d:%d)\n", pad, pal.gutter.Sprint("="), pal.note.Sprint("note:"),
					note.Msg, nf.FormatPath(formatPath(opts.PathMode), fs.BaseDir()), np.Line, np.Col)
			}
		}
		if opts.ShowFixes {
			for _, fix := range d.Fixes {
				fmt.Fprintf(&b, "%s %s %s %s\n", pad, pal.gutter.Sprint("="), pal.fix.Sprint("fix:"), fix.Title)
				if !opts.ShowPreview {
					continue
				}
				for _, edit := range fix.Edits {
					preview, err := buildFixEditPreview(fs, edit)
					if err != nil {
						continue
					}
					for _, l := range preview.before {
						fmt.Fprintf(&b, "%s %s %s\n", pad, pal.err.Sprint("-"), expandTabs(l, tab))
					}
					for _, l := range preview.after {
						fmt.Fprintf(&b, "%s %s %s\n", pad, pal.fix.Sprint("+"), expandTabs(l, tab))
					}
				}
			}
		}

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// caretLine underlines the primary span on its first line. Columns are
// measured in display cells so wide runes and tabs line up.
func caretLine(line string, start, end source.LineCol, tab int) string {
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	prefix := runewidth.StringWidth(expandTabs(line[:col], tab))

	stop := len(line)
	if end.Line == start.Line {
		stop = min(int(end.Col)-1, len(line))
	}
	width := 1
	if stop > col {
		width = max(runewidth.StringWidth(expandTabs(line[col:stop], tab)), 1)
	}
	return strings.Repeat(" ", prefix) + "^" + strings.Repeat("~", width-1)
}

func expandTabs(s string, tab int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tab))
}
