// Package gen renders checked flag sets as Go source.
//
// Generation uses text/template for layout and go/format for the final
// shape, so the output is identical to what gofmt would produce.
package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"bitflags/internal/model"
)

// Options tune the generated header.
type Options struct {
	// Version is printed in the "Code generated" line when set.
	Version string
}

// FormatError means the template produced source that does not parse. It
// carries the unformatted text for debugging.
type FormatError struct {
	Err error
	Raw []byte
}

func (e *FormatError) Error() string { return "format generated source: " + e.Err.Error() }
func (e *FormatError) Unwrap() error { return e.Err }

var funcs = template.FuncMap{
	"value": flagValue,
	"all": func(set model.FlagSet) string {
		return set.Width.Format(set.All())
	},
	"hasFlags": func(sets []model.FlagSet) bool {
		for _, s := range sets {
			if len(s.Flags) > 0 {
				return true
			}
		}
		return false
	},
}

var (
	fileTmpl = template.Must(template.New("file").Funcs(funcs).Parse(fileTemplate))
	testTmpl = template.Must(template.New("test").Funcs(funcs).Parse(testTemplate))
)

type templateData struct {
	*model.File
	Version string
}

// Generate renders the declarations of f.
func Generate(f *model.File, opts Options) ([]byte, error) {
	return render(fileTmpl, f, opts)
}

// GenerateTests renders a test file asserting the set laws for every type
// in f. It belongs in the same package as Generate's output.
func GenerateTests(f *model.File, opts Options) ([]byte, error) {
	return render(testTmpl, f, opts)
}

func render(tmpl *template.Template, f *model.File, opts Options) ([]byte, error) {
	if f == nil {
		return nil, errors.New("nothing to generate")
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData{File: f, Version: opts.Version}); err != nil {
		return nil, fmt.Errorf("execute %s template: %w", tmpl.Name(), err)
	}
	raw := bytes.TrimLeft(buf.Bytes(), "\n")
	out, err := format.Source(raw)
	if err != nil {
		return nil, &FormatError{Err: err, Raw: raw}
	}
	return out, nil
}

// flagValue spells a constant: pure OR combinations keep their names, every
// other value is a hex literal of the set's width.
func flagValue(set model.FlagSet, f model.Flag) string {
	if f.IsCombo() {
		return strings.Join(f.Refs, " | ")
	}
	return set.Width.Format(f.Bits)
}
