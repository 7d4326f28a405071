// Package sema validates parsed flag declarations and evaluates every flag
// value, producing the model consumed by the generator.
package sema

import (
	"bitflags/internal/ast"
	"bitflags/internal/diag"
	"bitflags/internal/model"
	"bitflags/internal/source"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	// Package is used when the file has no package clause.
	Package string
	// Path is recorded in the model for the generated header.
	Path string
}

// Result carries the checked model. File is nil when any error was reported.
type Result struct {
	File   *model.File
	Errors int
}

// Check validates file and evaluates its flag values.
func Check(builder *ast.Builder, file *ast.File, opts Options) Result {
	if builder == nil || file == nil {
		return Result{}
	}
	c := checker{
		exprs:    builder.Exprs,
		file:     file,
		reporter: &countingReporter{next: opts.Reporter},
		scope:    make(map[string]scopeEntry),
		owners:   make(map[string]int),
	}
	out := c.run(opts)
	res := Result{Errors: c.reporter.errors}
	if c.reporter.errors == 0 {
		res.File = out
	}
	return res
}

type checker struct {
	exprs    *ast.Exprs
	file     *ast.File
	reporter *countingReporter
	scope    map[string]scopeEntry
	// owners maps every flag name to the index of its declaration
	owners map[string]int
}

func (c *checker) run(opts Options) *model.File {
	out := &model.File{
		Package: c.checkPackage(opts.Package),
		Source:  opts.Path,
	}

	widths := make([]model.Width, len(c.file.Decls))
	valid := make([]bool, len(c.file.Decls))
	for i := range c.file.Decls {
		widths[i], valid[i] = c.checkWidth(&c.file.Decls[i])
	}

	c.declareNames()

	for i := range c.file.Decls {
		if !valid[i] {
			continue
		}
		decl := &c.file.Decls[i]
		set := c.checkFlagSet(i, decl, widths[i])
		out.Sets = append(out.Sets, set)
	}
	return out
}

func (c *checker) checkWidth(decl *ast.FlagSetDecl) (model.Width, bool) {
	if decl.Width.IsZero() {
		// the parser already reported the missing width
		return model.Width{}, false
	}
	w, ok := model.LookupWidth(decl.Width.Name)
	if ok {
		return w, true
	}
	b := diag.ReportError(c.reporter, diag.DefUnknownWidth, decl.Width.Span,
		"unknown width '"+decl.Width.Name+"' for flag set "+decl.Name.Name).
		WithNote(decl.Width.Span, "expected one of uint8, uint16, uint32, uint64, int8, int16, int32, int64")
	if suggestion := model.ClosestWidth(decl.Width.Name); suggestion != "" {
		b.WithFix("use "+suggestion, diag.FixEdit{Span: decl.Width.Span, NewText: suggestion})
	}
	b.Emit()
	return model.Width{}, false
}

func (c *checker) checkFlagSet(index int, decl *ast.FlagSetDecl, w model.Width) model.FlagSet {
	set := model.FlagSet{
		Name:  decl.Name.Name,
		Width: w,
		Doc:   decl.Doc,
		Flags: make([]model.Flag, 0, len(decl.Flags)),
	}
	if len(decl.Flags) == 0 {
		diag.ReportWarning(c.reporter, diag.DefEmptyFlagSet, decl.Name.Span,
			"flag set "+decl.Name.Name+" declares no flags").Emit()
		return set
	}

	ev := evaluator{
		checker: c,
		decl:    decl,
		index:   index,
		width:   w,
		known:   make(map[string]evaluated, len(decl.Flags)),
	}
	seen := make(map[string]source.Span, len(decl.Flags))
	for i := range decl.Flags {
		flag := &decl.Flags[i]
		ev.current = i
		if _, dup := seen[flag.Name.Name]; dup {
			continue
		}
		seen[flag.Name.Name] = flag.Name.Span

		val, ok := ev.evalFlag(flag)
		if !ok {
			ev.known[flag.Name.Name] = evaluated{poisoned: true}
			continue
		}
		c.lintFlag(&ev, flag, val)
		ev.known[flag.Name.Name] = evaluated{bits: val.bits, span: flag.Name.Span}
		ev.order = append(ev.order, flag.Name.Name)
		set.Flags = append(set.Flags, model.Flag{
			Name: flag.Name.Name,
			Bits: val.bits,
			Doc:  flag.Doc,
			Refs: val.refs,
		})
	}
	return set
}

// lintFlag reports the warnings that do not block generation.
func (c *checker) lintFlag(ev *evaluator, flag *ast.FlagDecl, val value) {
	if val.bits == 0 {
		diag.ReportWarning(c.reporter, diag.DefZeroFlag, flag.Name.Span,
			"flag "+flag.Name.Name+" is zero: every value contains it and nothing intersects it").Emit()
		return
	}
	if len(val.refs) > 0 {
		return
	}
	for _, earlier := range ev.order {
		prev := ev.known[earlier]
		if prev.bits != val.bits {
			continue
		}
		valueSpan := c.exprs.Get(flag.Value).Span
		diag.ReportWarning(c.reporter, diag.DefAliasedFlag, flag.Name.Span,
			"flag "+flag.Name.Name+" has the same bits as "+earlier).
			WithNote(prev.span, earlier+" declared here").
			WithFix("refer to "+earlier, diag.FixEdit{Span: valueSpan, NewText: earlier}).
			Emit()
		return
	}
}

// countingReporter forwards to next and counts errors.
type countingReporter struct {
	next   diag.Reporter
	errors int
}

func (r *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	if sev == diag.SevError {
		r.errors++
	}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}
