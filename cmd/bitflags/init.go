package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bitflags/internal/driver"
	"bitflags/internal/project"
)

const starterFile = "flags.flags"

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a bitflags.toml and a starter declaration file",
		Long: `Init writes a bitflags.toml manifest and a starter flags.flags file. If [dir]
is omitted the current directory is used; a missing directory is created.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	pkg := project.PackageFromDir(target)
	manifest, err := project.Encode(project.Config{
		Package: project.PackageConfig{Name: pkg},
		Generate: project.GenerateConfig{
			Sources: []string{"*" + driver.SourceExt},
			Suffix:  project.DefaultSuffix,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	starterPath := filepath.Join(target, starterFile)
	createdStarter := false
	if _, err := os.Stat(starterPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(starterPath, []byte(starterSource(pkg)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", starterFile, err)
		}
		createdStarter = true
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Initialized bitflags project in %s\n", displayPath(target))
	_, _ = fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdStarter {
		_, _ = fmt.Fprintf(out, "  - %s\n", starterFile)
	} else {
		_, _ = fmt.Fprintf(out, "  - %s (existing)\n", starterFile)
	}
	return nil
}

func starterSource(pkg string) string {
	return fmt.Sprintf(`package %s

/// Perms are the permission bits of a resource.
bitflags Perms: u8 {
	/// Read allows reading.
	Read = 1 << 0,
	Write = 1 << 1,
	Exec = 1 << 2,
	ReadWrite = Read | Write,
}
`, pkg)
}
