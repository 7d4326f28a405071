package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bitflags/internal/diag"
	"bitflags/internal/diagfmt"
	"bitflags/internal/driver"
	"bitflags/internal/format"
	"bitflags/internal/source"
)

// errUnformatted is returned by fmt --check when some file would change.
var errUnformatted = errors.New("some files are not formatted")

type fmtFlags struct {
	write  bool
	list   bool
	check  bool
	spaces int
}

func (a *app) newFmtCmd() *cobra.Command {
	var f fmtFlags
	cmd := &cobra.Command{
		Use:   "fmt [flags] [file.flags|directory]",
		Short: "Format declaration files",
		Long: `Fmt rewrites declaration files into the canonical layout: one flag per line
with a trailing comma and single spaces around operators. Comments are kept.
Without -w the formatted text is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFmt(cmd, args, f)
		},
	}
	cmd.Flags().BoolVarP(&f.write, "write", "w", false, "write the result back to the source files")
	cmd.Flags().BoolVarP(&f.list, "list", "l", false, "list files whose formatting differs")
	cmd.Flags().BoolVar(&f.check, "check", false, "exit with an error if any file is not formatted")
	cmd.Flags().IntVar(&f.spaces, "spaces", 0, "indent with this many spaces instead of a tab")
	return cmd
}

func (a *app) runFmt(cmd *cobra.Command, args []string, f fmtFlags) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	if f.spaces < 0 {
		return fmt.Errorf("invalid --spaces %d", f.spaces)
	}
	in, err := resolveInputs(args)
	if err != nil {
		return err
	}
	opt := format.Options{UseTabs: f.spaces == 0, IndentWidth: f.spaces}

	out := cmd.OutOrStdout()
	failed, unformatted := false, false
	for _, path := range in.files {
		fs := source.NewFileSet()
		id, err := fs.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		sf := fs.Get(id)
		formatted, err := format.FormatFile(sf, opt)
		if err != nil {
			var syn *format.SyntaxError
			if !errors.As(err, &syn) {
				return err
			}
			failed = true
			if err := printSyntaxErrors(cmd, fs, syn, s); err != nil {
				return err
			}
			continue
		}

		changed := !bytes.Equal(sf.Content, formatted)
		if changed {
			unformatted = true
		}
		switch {
		case f.list || f.check:
			if changed && !s.quiet {
				_, _ = fmt.Fprintln(out, displayPath(path))
			}
		case !f.write:
			if len(in.files) > 1 {
				_, _ = fmt.Fprintf(out, "// %s\n", displayPath(path))
			}
			_, _ = out.Write(formatted)
		}
		if f.write && changed {
			if _, err := driver.WriteIfChanged(path, formatted); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
	}
	if failed {
		return errDiagnostics
	}
	if f.check && unformatted {
		return errUnformatted
	}
	return nil
}

func printSyntaxErrors(cmd *cobra.Command, fs *source.FileSet, syn *format.SyntaxError, s settings) error {
	bag := diag.NewBag(len(syn.Diagnostics))
	for _, d := range syn.Diagnostics {
		bag.Add(d)
	}
	color := false
	if f, ok := cmd.ErrOrStderr().(*os.File); ok {
		color = s.useColor(f)
	}
	return diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
		Color:     color,
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
	})
}
