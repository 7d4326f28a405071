package driver

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"bitflags/internal/diag"
	"bitflags/internal/gen"
	"bitflags/internal/model"
	"bitflags/internal/project"
	"bitflags/internal/source"
)

// Generate checks the file at path and renders its Go code. Outputs are
// written unless opts.DryRun is set, and only when their content changed.
// Generation and write failures are reported as diagnostics in the bag.
func Generate(ctx context.Context, path string, opts Options) (*Result, error) {
	res, err := Check(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return generateChecked(ctx, res, opts)
}

func generateChecked(ctx context.Context, res *Result, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res.Model == nil {
		return res, nil
	}
	timer := newTimer(opts)
	file := res.FileSet.Get(res.FileID)
	dir := opts.outputDir(file.Path)
	res.OutputPath = OutputPathFor(file.Path, dir, opts)
	if opts.Tests {
		res.TestOutputPath = TestOutputPathFor(file.Path, dir, opts)
	}

	key := cacheKey(file, res.Model.Package, dir, opts)
	if !opts.DryRun && loadCached(ctx, res, key, opts.Cache) {
		res.Timing = res.Timing.Merge(timer.Report())
		return res, nil
	}

	var err error
	idx := timer.Begin("generate")
	genOpts := gen.Options{Version: opts.Version}
	res.Output, err = renderReported(res, genOpts, gen.Generate)
	if err == nil && opts.Tests {
		res.TestOutput, err = renderReported(res, genOpts, gen.GenerateTests)
	}
	timer.End(idx, "")
	if err != nil || opts.DryRun {
		res.Timing = res.Timing.Merge(timer.Report())
		return res, nil
	}

	idx = timer.Begin("write")
	written, ok := writeReported(ctx, res, res.OutputPath, res.Output)
	if ok && opts.Tests {
		var w bool
		w, ok = writeReported(ctx, res, res.TestOutputPath, res.TestOutput)
		written = written || w
	}
	res.Written = written
	timer.End(idx, strconv.FormatBool(written))
	res.Timing = res.Timing.Merge(timer.Report())

	if ok {
		storeCached(ctx, res, key, opts.Cache)
	}
	return res, nil
}

// OutputPathFor names the generated Go file for src in dir.
func OutputPathFor(src, dir string, opts Options) string {
	return project.OutputPath(src, dir, opts.suffix())
}

// TestOutputPathFor names the generated law test file for src in dir.
func TestOutputPathFor(src, dir string, opts Options) string {
	return project.TestOutputPath(src, dir, opts.suffix())
}

// renderReported runs render and turns a FormatError into a GEN5001
// diagnostic. A returned error means the result carries that diagnostic.
func renderReported(res *Result, opts gen.Options, render func(*model.File, gen.Options) ([]byte, error)) ([]byte, error) {
	out, err := render(res.Model, opts)
	if err == nil {
		return out, nil
	}
	msg := err.Error()
	var fe *gen.FormatError
	if errors.As(err, &fe) {
		msg = fmt.Sprintf("generated code for package %s does not format: %v", res.Model.Package, fe.Err)
	}
	res.Bag.Add(diag.NewError(diag.GenFormatError, fileSpan(res), msg))
	return nil, err
}

func writeReported(ctx context.Context, res *Result, path string, data []byte) (bool, bool) {
	written, err := WriteIfChanged(path, data)
	if err != nil {
		res.Bag.Add(diag.NewError(diag.GenWriteError, fileSpan(res), fmt.Sprintf("failed to write %s: %v", path, err)))
		return false, false
	}
	if written {
		slog.DebugContext(ctx, "file written", slog.String("path", path))
	} else {
		slog.DebugContext(ctx, "file unchanged", slog.String("path", path))
	}
	return written, true
}

func fileSpan(res *Result) source.Span {
	return source.Span{File: res.FileID}
}

// WriteIfChanged writes data to path unless the file already holds exactly
// data. It keeps the mode of an existing file.
func WriteIfChanged(path string, data []byte) (bool, error) {
	mode := os.FileMode(0o644)
	// #nosec G304 -- path is derived from the declaration file
	old, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(old, data) {
			return false, nil
		}
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode()
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, mode.Perm()); err != nil {
		return false, err
	}
	return true, nil
}

func hashFile(path string) (project.Digest, []byte, bool) {
	// #nosec G304 -- path comes from a cache payload for this project
	data, err := os.ReadFile(path)
	if err != nil {
		return project.Digest{}, nil, false
	}
	return sha256Digest(data), data, true
}

func sha256Digest(data []byte) project.Digest {
	return sha256.Sum256(data)
}
