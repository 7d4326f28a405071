package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bitflags/internal/driver"
	"bitflags/internal/fix"
)

type fixFlags struct {
	all    bool
	once   bool
	id     string
	list   bool
	dryRun bool
}

func (a *app) newFixCmd() *cobra.Command {
	var f fixFlags
	cmd := &cobra.Command{
		Use:   "fix [flags] [file.flags|directory]",
		Short: "Apply suggested fixes to declaration files",
		Long: `Fix checks the declarations and applies the corrections diagnostics suggest,
such as a misspelled width or a flag that repeats the bits of an earlier one.
By default only the first fix is applied.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFix(cmd, args, f)
		},
	}
	cmd.Flags().BoolVar(&f.all, "all", false, "apply every non-conflicting fix")
	cmd.Flags().BoolVar(&f.once, "once", false, "apply the first available fix (default)")
	cmd.Flags().StringVar(&f.id, "id", "", "apply the fix with this identifier")
	cmd.Flags().BoolVar(&f.list, "list", false, "list available fixes without applying them")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print rewritten files instead of writing them")
	return cmd
}

func (f fixFlags) options() (fix.ApplyOptions, error) {
	if f.id != "" && (f.all || f.once) {
		return fix.ApplyOptions{}, errors.New("--id cannot be combined with --all or --once")
	}
	if f.all && f.once {
		return fix.ApplyOptions{}, errors.New("--all and --once are mutually exclusive")
	}
	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, DryRun: f.dryRun}
	switch {
	case f.id != "":
		opts.Mode = fix.ApplyModeID
		opts.TargetID = f.id
	case f.all:
		opts.Mode = fix.ApplyModeAll
	}
	return opts, nil
}

func (a *app) runFix(cmd *cobra.Command, args []string, f fixFlags) error {
	s, err := a.settings()
	if err != nil {
		return err
	}
	applyOpts, err := f.options()
	if err != nil {
		return err
	}
	in, err := resolveInputs(args)
	if err != nil {
		return err
	}
	// ids carry a line and column but no path
	if applyOpts.Mode == fix.ApplyModeID && len(in.files) != 1 {
		return errors.New("--id can only be used with a single file")
	}

	opts := driver.Options{MaxDiagnostics: s.maxDiagnostics, Jobs: 1}
	in.apply(&opts)
	results, err := driver.CheckFiles(cmd.Context(), in.files, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.list {
		return listFixes(out, results)
	}

	total := &fix.ApplyResult{}
	for _, res := range results {
		applied, err := fix.Apply(res.FileSet, res.Bag.Items(), applyOpts)
		if applied != nil {
			total.Applied = append(total.Applied, applied.Applied...)
			total.Skipped = append(total.Skipped, applied.Skipped...)
			total.FileChanges = append(total.FileChanges, applied.FileChanges...)
		}
		if err != nil && !errors.Is(err, fix.ErrNoFixes) {
			return err
		}
		if applyOpts.Mode == fix.ApplyModeOnce && len(total.Applied) > 0 {
			break
		}
	}
	if f.dryRun {
		for _, ch := range total.FileChanges {
			_, _ = fmt.Fprintf(out, "// %s\n%s", displayPath(ch.Path), ch.Content)
		}
		return nil
	}
	if !s.quiet {
		printApplyResult(out, total)
	}
	if len(total.Applied) == 0 {
		return fix.ErrNoFixes
	}
	return nil
}

func listFixes(w io.Writer, results []*driver.Result) error {
	n := 0
	for _, res := range results {
		for _, cand := range fix.Candidates(res.FileSet, res.Bag.Items()) {
			start, _ := res.FileSet.Resolve(cand.Diag.Primary)
			_, _ = fmt.Fprintf(w, "%s\t%s:%d:%d\t%s\n",
				cand.ID, displayPath(res.Path), start.Line, start.Col, cand.Fix.Title)
			n++
		}
	}
	if n == 0 {
		return fix.ErrNoFixes
	}
	return nil
}

func printApplyResult(w io.Writer, res *fix.ApplyResult) {
	if len(res.Applied) > 0 {
		_, _ = fmt.Fprintf(w, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			_, _ = fmt.Fprintf(w, "  %s [%s] %s (%d edits)\n", item.Title, item.ID, item.PrimaryPath, item.EditCount)
		}
	}
	if len(res.FileChanges) > 0 {
		_, _ = fmt.Fprintln(w, "Updated files:")
		for _, ch := range res.FileChanges {
			_, _ = fmt.Fprintf(w, "  %s (%d edits)\n", displayPath(ch.Path), ch.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		_, _ = fmt.Fprintln(w, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				_, _ = fmt.Fprintf(w, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				_, _ = fmt.Fprintf(w, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}
}
