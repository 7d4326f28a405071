package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"bitflags/internal/driver"
	"bitflags/internal/ui"
	"bitflags/internal/version"
)

// runFlags are shared by generate and check.
type runFlags struct {
	diagFlags
	noWarnings       bool
	warningsAsErrors bool
	pkg              string
	jobs             int
	ui               string
}

func (f *runFlags) register(cmd *cobra.Command) {
	f.diagFlags.register(cmd)
	cmd.Flags().BoolVar(&f.noWarnings, "no-warnings", false, "ignore warnings in diagnostics")
	cmd.Flags().BoolVar(&f.warningsAsErrors, "warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().StringVar(&f.pkg, "package", "", "package name for files without a package clause")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().StringVar(&f.ui, "ui", "auto", "progress view for multi-file runs (auto|on|off)")
}

type generateFlags struct {
	runFlags
	output string
	suffix string
	tests  bool
	dryRun bool
	cache  bool
}

func (a *app) newGenerateCmd() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate [file.flags|directory]",
		Short: "Generate Go code from flag declarations",
		Long: `Generate writes <name>_bitflags.go next to every declaration file. With no
argument the sources listed in the nearest bitflags.toml are used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, &f.runFlags, &f, true)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "directory for generated files (default: next to the source)")
	cmd.Flags().StringVar(&f.suffix, "suffix", "", "suffix for generated file names (default _bitflags)")
	cmd.Flags().BoolVar(&f.tests, "tests", false, "also generate a law test file")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print generated code instead of writing files")
	cmd.Flags().BoolVar(&f.cache, "cache", false, "skip unchanged files using the disk cache")
	return cmd
}

func (a *app) newCheckCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "check [file.flags|directory]",
		Short: "Validate flag declarations without generating code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args, &f, nil, false)
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) run(cmd *cobra.Command, args []string, f *runFlags, g *generateFlags, generate bool) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	if f.noWarnings && f.warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if err := f.diagFlags.validate(); err != nil {
		return err
	}
	mode, err := readUIMode(f.ui)
	if err != nil {
		return err
	}

	in, err := resolveInputs(args)
	if err != nil {
		return err
	}

	opts := driver.Options{
		MaxDiagnostics:   s.maxDiagnostics,
		Package:          f.pkg,
		Jobs:             f.jobs,
		Version:          version.Version,
		Timings:          s.timings,
		IgnoreWarnings:   f.noWarnings,
		WarningsAsErrors: f.warningsAsErrors,
	}
	if g != nil {
		opts.Suffix = g.suffix
		opts.Tests = g.tests
		opts.DryRun = g.dryRun
		if g.output != "" {
			opts.OutputDir, err = filepath.Abs(g.output)
			if err != nil {
				return err
			}
		}
		if g.cache {
			opts.Cache, err = driver.OpenDiskCache("bitflags")
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
		}
	}
	in.apply(&opts)
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runFiles := driver.CheckFiles
	title := "checking"
	if generate {
		runFiles = driver.GenerateFiles
		title = "generating"
	}

	var results []*driver.Result
	if shouldUseTUI(mode, len(in.files)) && !s.quiet && f.format == "pretty" && !opts.DryRun {
		results, err = ui.RunFiles(ctx, title, in.files, os.Stdout,
			func(ctx context.Context, sink driver.ProgressSink) ([]*driver.Result, error) {
				o := opts
				o.Progress = sink
				return runFiles(ctx, in.files, o)
			})
	} else {
		results, err = runFiles(ctx, in.files, opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color := s.color == "on" || (s.color == "auto" && out == os.Stdout && isTerminal(os.Stdout))
	if err := f.diagFlags.print(out, results, color); err != nil {
		return err
	}
	if opts.DryRun {
		if err := printDryRun(out, results); err != nil {
			return err
		}
	} else if generate && !s.quiet && f.format == "pretty" {
		printWritten(out, results)
	}
	if s.timings {
		printTimings(cmd.ErrOrStderr(), results)
	}

	for _, res := range results {
		if res.Bag.HasErrors() {
			return errDiagnostics
		}
	}
	return nil
}
