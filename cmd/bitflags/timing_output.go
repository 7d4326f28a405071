package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"bitflags/internal/driver"
	"bitflags/internal/observ"
)

func printTimings(out io.Writer, results []*driver.Result) {
	reports := make([]*observ.Report, 0, len(results))
	for _, res := range results {
		if res.Timing == nil {
			continue
		}
		reports = append(reports, res.Timing)
		if len(results) > 1 {
			_, _ = fmt.Fprintf(out, "%s: %.2f ms\n", filepath.Base(res.Path), res.Timing.TotalMS)
		}
	}
	_, _ = fmt.Fprint(out, observ.Sum(reports...).Summary())
}

func printWritten(out io.Writer, results []*driver.Result) {
	for _, res := range results {
		if res.Bag.HasErrors() || res.Model == nil {
			continue
		}
		state := "unchanged"
		switch {
		case res.Written:
			state = "wrote"
		case res.Cached:
			state = "cached"
		}
		_, _ = fmt.Fprintf(out, "%-9s %s\n", state, displayPath(res.OutputPath))
		if res.TestOutputPath != "" {
			_, _ = fmt.Fprintf(out, "%-9s %s\n", state, displayPath(res.TestOutputPath))
		}
	}
}

func printDryRun(out io.Writer, results []*driver.Result) error {
	for _, res := range results {
		for _, f := range []struct {
			path string
			data []byte
		}{{res.OutputPath, res.Output}, {res.TestOutputPath, res.TestOutput}} {
			if len(f.data) == 0 {
				continue
			}
			if _, err := fmt.Fprintf(out, "// %s\n%s", displayPath(f.path), f.data); err != nil {
				return err
			}
		}
	}
	return nil
}

// displayPath shortens path relative to the working directory when it is
// below it.
func displayPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	wd, err := filepath.Abs(".")
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
