package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bitflags/internal/driver"
)

func (a *app) newCleanCmd() *cobra.Command {
	var cache bool
	cmd := &cobra.Command{
		Use:   "clean [file.flags|directory]",
		Short: "Remove generated files",
		Long: `Clean removes the files generate would write for the given declarations, or
for the sources of the nearest bitflags.toml. Files without the generated
header are left alone. --cache also drops the disk cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.settings()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cache {
				dc, err := driver.OpenDiskCache("bitflags")
				if err != nil {
					return fmt.Errorf("failed to open cache: %w", err)
				}
				if err := dc.DropAll(); err != nil {
					return err
				}
				if !s.quiet {
					_, _ = fmt.Fprintf(out, "removed cache %s\n", dc.Dir())
				}
				if len(args) == 0 {
					return nil
				}
			}

			in, err := resolveInputs(args)
			if err != nil {
				return err
			}
			var opts driver.Options
			in.apply(&opts)
			// the law test file is removed whether or not it is configured
			removed, err := driver.Clean(in.files, opts)
			if err != nil {
				return err
			}
			if s.quiet {
				return nil
			}
			if len(removed) == 0 {
				_, _ = fmt.Fprintln(out, "nothing to clean")
			}
			for _, path := range removed {
				_, _ = fmt.Fprintf(out, "removed %s\n", displayPath(path))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&cache, "cache", false, "also drop the disk cache")
	return cmd
}
