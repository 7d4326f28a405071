package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bitflags/internal/diagfmt"
	"bitflags/internal/driver"
)

func (a *app) newTokenizeCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.flags",
		Short: "Print the tokens of a declaration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}
			result, err := driver.Tokenize(args[0], s.maxDiagnostics)
			if err != nil {
				return fmt.Errorf("tokenization failed: %w", err)
			}

			if result.Bag.Len() > 0 {
				opts := diagfmt.PrettyOpts{Color: s.useColor(os.Stderr), ShowNotes: true}
				if err := diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, opts); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			switch format {
			case "pretty":
				return diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
			case "json":
				return diagfmt.FormatTokensJSON(out, result.Tokens)
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}
