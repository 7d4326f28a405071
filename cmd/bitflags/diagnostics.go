package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bitflags/internal/diag"
	"bitflags/internal/diagfmt"
	"bitflags/internal/driver"
)

// diagFlags control how diagnostics are rendered.
type diagFlags struct {
	format    string
	withNotes bool
	suggest   bool
	preview   bool
	fullPath  bool
}

func (f *diagFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "pretty", "diagnostics format (pretty|json|short)")
	cmd.Flags().BoolVar(&f.withNotes, "with-notes", true, "include diagnostic notes in output")
	cmd.Flags().BoolVar(&f.suggest, "suggest", true, "include fix suggestions in output")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "preview how suggested fixes change the source")
	cmd.Flags().BoolVar(&f.fullPath, "fullpath", false, "emit absolute file paths in output")
}

func (f *diagFlags) validate() error {
	switch f.format {
	case "pretty", "json", "short":
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}

func (f *diagFlags) pathMode() diagfmt.PathMode {
	if f.fullPath {
		return diagfmt.PathModeAbsolute
	}
	return diagfmt.PathModeAuto
}

// print renders the diagnostics of every result in file order.
func (f *diagFlags) print(w io.Writer, results []*driver.Result, color bool) error {
	switch f.format {
	case "pretty":
		opts := diagfmt.PrettyOpts{
			Color:       color,
			PathMode:    f.pathMode(),
			ShowNotes:   f.withNotes,
			ShowFixes:   f.suggest || f.preview,
			ShowPreview: f.preview,
		}
		for _, res := range results {
			if res.Bag.Len() == 0 {
				continue
			}
			if err := diagfmt.Pretty(w, res.Bag, res.FileSet, opts); err != nil {
				return err
			}
		}
		return nil
	case "short":
		for _, res := range results {
			if out := diag.FormatShortDiagnostics(res.Bag.Items(), res.FileSet, f.withNotes); out != "" {
				if _, err := fmt.Fprintln(w, out); err != nil {
					return err
				}
			}
		}
		return nil
	case "json":
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         f.pathMode(),
			IncludeNotes:     f.withNotes,
			IncludeFixes:     f.suggest || f.preview,
			IncludePreviews:  f.preview,
		}
		all := diagfmt.DiagnosticsOutput{Diagnostics: []diagfmt.DiagnosticJSON{}}
		for _, res := range results {
			out := diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, opts)
			all.Diagnostics = append(all.Diagnostics, out.Diagnostics...)
			all.Count += out.Count
			all.Errors += out.Errors
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(all); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", f.format)
}
