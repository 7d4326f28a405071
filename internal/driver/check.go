package driver

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"fortio.org/safecast"

	"bitflags/internal/ast"
	"bitflags/internal/diag"
	"bitflags/internal/lexer"
	"bitflags/internal/model"
	"bitflags/internal/observ"
	"bitflags/internal/parser"
	"bitflags/internal/project"
	"bitflags/internal/sema"
	"bitflags/internal/source"
)

// Options configure one run over declaration files.
type Options struct {
	MaxDiagnostics int
	// Package is used for files without a package clause. When empty the
	// name is derived from the output directory.
	Package string
	// OutputDir overrides the directory generated files are written to.
	OutputDir string
	// Suffix is appended to the declaration file's base name.
	Suffix  string
	Tests   bool
	DryRun  bool
	Jobs    int
	Cache   *DiskCache
	Version string
	// Progress receives per-file events from directory runs.
	Progress ProgressSink
	// Timings records per-phase durations in Result.Timing.
	Timings bool
	// IgnoreWarnings drops warnings from the bag.
	IgnoreWarnings bool
	// WarningsAsErrors promotes warnings, which also blocks generation.
	WarningsAsErrors bool
}

func (o Options) suffix() string {
	if o.Suffix == "" {
		return project.DefaultSuffix
	}
	return o.Suffix
}

func (o Options) outputDir(path string) string {
	if o.OutputDir != "" {
		return o.OutputDir
	}
	return filepath.Dir(path)
}

// Result is the outcome of processing one declaration file.
type Result struct {
	Path    string
	FileSet *source.FileSet
	FileID  source.FileID
	Bag     *diag.Bag
	Builder *ast.Builder
	AST     *ast.File
	// Model is nil when any error was reported.
	Model *model.File

	Output         []byte
	TestOutput     []byte
	OutputPath     string
	TestOutputPath string
	// Written is set when a generated file on disk changed.
	Written bool
	// Cached is set when generation was skipped on a disk cache hit.
	Cached bool

	Timing *observ.Report
}

// Check lexes, parses and validates the declaration file at path.
func Check(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	slog.DebugContext(ctx, "file loaded", slog.String("path", path))
	return checkFile(ctx, fs, id, opts, newTimer(opts))
}

// CheckSource validates in-memory content registered under name.
func CheckSource(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return checkFile(ctx, fs, id, opts, newTimer(opts))
}

func newTimer(opts Options) *observ.Timer {
	if !opts.Timings {
		return nil
	}
	return observ.NewTimer()
}

func checkFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options, timer *observ.Timer) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file := fs.Get(id)
	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		maxErrors = 0
	}

	idx := timer.Begin("parse")
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})
	parsed := parser.ParseFile(fs, lx, builder, parser.Options{
		MaxErrors: maxErrors,
		Reporter:  reporter,
	})
	timer.End(idx, fmt.Sprintf("%d decls", len(parsed.File.Decls)))

	res := &Result{
		Path:    file.Path,
		FileSet: fs,
		FileID:  id,
		Bag:     bag,
		Builder: builder,
		AST:     parsed.File,
	}

	idx = timer.Begin("sema")
	pkg := opts.Package
	if pkg == "" {
		pkg = project.PackageFromDir(opts.outputDir(file.Path))
	}
	checked := sema.Check(builder, parsed.File, sema.Options{
		Reporter: reporter,
		Package:  pkg,
		Path:     filepath.Base(file.Path),
	})
	timer.End(idx, fmt.Sprintf("%d errors", checked.Errors))

	applyWarningPolicy(bag, opts)
	bag.Sort()
	// Parse errors leave a partial tree; sema may still accept it.
	if !bag.HasErrors() {
		res.Model = checked.File
	}
	res.Timing = timer.Report()
	return res, nil
}

func applyWarningPolicy(bag *diag.Bag, opts Options) {
	switch {
	case opts.WarningsAsErrors:
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	case opts.IgnoreWarnings:
		bag.Filter(func(d diag.Diagnostic) bool {
			return d.Severity != diag.SevWarning
		})
	}
}
