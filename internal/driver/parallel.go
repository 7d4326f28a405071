package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// SourceExt is the extension of declaration files.
const SourceExt = ".flags"

// ListFlagFiles returns every *.flags file under dir, sorted.
func ListFlagFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == SourceExt {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CheckDir validates every declaration file under dir in parallel.
func CheckDir(ctx context.Context, dir string, opts Options) ([]*Result, error) {
	files, err := ListFlagFiles(dir)
	if err != nil {
		return nil, err
	}
	return CheckFiles(ctx, files, opts)
}

// GenerateDir generates code for every declaration file under dir in
// parallel. Results follow the sorted file order.
func GenerateDir(ctx context.Context, dir string, opts Options) ([]*Result, error) {
	files, err := ListFlagFiles(dir)
	if err != nil {
		return nil, err
	}
	return GenerateFiles(ctx, files, opts)
}

// CheckFiles validates files in parallel.
func CheckFiles(ctx context.Context, files []string, opts Options) ([]*Result, error) {
	return runFiles(ctx, files, opts, false)
}

// GenerateFiles generates code for files in parallel.
func GenerateFiles(ctx context.Context, files []string, opts Options) ([]*Result, error) {
	return runFiles(ctx, files, opts, true)
}

func runFiles(ctx context.Context, files []string, opts Options, generate bool) ([]*Result, error) {
	if len(files) == 0 {
		return nil, nil
	}
	for _, path := range files {
		emit(opts.Progress, path, StageCheck, StatusQueued, nil, 0)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns its slot.
	results := make([]*Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			res, err := runOne(gctx, path, opts, generate)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, path string, opts Options, generate bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	emit(opts.Progress, path, StageCheck, StatusWorking, nil, 0)
	res, err := Check(ctx, path, opts)
	if err != nil {
		emit(opts.Progress, path, StageCheck, StatusError, err, time.Since(start))
		return nil, err
	}
	if generate && res.Model != nil {
		emit(opts.Progress, path, StageGenerate, StatusWorking, nil, time.Since(start))
		res, err = generateChecked(ctx, res, opts)
		if err != nil {
			emit(opts.Progress, path, StageGenerate, StatusError, err, time.Since(start))
			return nil, err
		}
	}
	status := StatusDone
	if res.Bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, path, StageWrite, status, nil, time.Since(start))
	return res, nil
}
