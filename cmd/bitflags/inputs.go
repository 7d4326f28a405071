package main

import (
	"fmt"
	"os"
	"path/filepath"

	"bitflags/internal/driver"
	"bitflags/internal/project"
)

// inputs are the declaration files one command works on, plus the
// manifest governing them, if any.
type inputs struct {
	files    []string
	manifest *project.Manifest
}

// resolveInputs expands a file or directory argument. With no argument the
// sources of the bitflags.toml above the working directory are used.
func resolveInputs(args []string) (inputs, error) {
	if len(args) == 0 {
		m, ok, err := project.Load(".")
		if err != nil {
			return inputs{}, err
		}
		if !ok {
			return inputs{}, project.ErrNoManifest
		}
		files, err := m.Sources()
		if err != nil {
			return inputs{}, err
		}
		if len(files) == 0 {
			return inputs{}, fmt.Errorf("%s: no declaration files match %v", m.Path, m.Config.Generate.Sources)
		}
		return inputs{files: files, manifest: m}, nil
	}

	path := args[0]
	st, err := os.Stat(path)
	if err != nil {
		return inputs{}, fmt.Errorf("failed to stat path: %w", err)
	}
	dir := path
	var files []string
	if st.IsDir() {
		files, err = driver.ListFlagFiles(path)
		if err != nil {
			return inputs{}, err
		}
		if len(files) == 0 {
			return inputs{}, fmt.Errorf("no %s files found in %s", driver.SourceExt, path)
		}
	} else {
		files = []string{path}
		dir = filepath.Dir(path)
	}
	m, _, err := project.Load(dir)
	if err != nil {
		return inputs{}, err
	}
	return inputs{files: files, manifest: m}, nil
}

// apply copies manifest settings into opts where no flag overrides them.
func (in inputs) apply(opts *driver.Options) {
	m := in.manifest
	if m == nil {
		return
	}
	if opts.Package == "" {
		opts.Package = m.Config.Package.Name
	}
	if opts.OutputDir == "" && m.Config.Generate.OutputDir != "" {
		opts.OutputDir = m.OutputDir("")
	}
	if opts.Suffix == "" {
		opts.Suffix = m.Config.Generate.Suffix
	}
	opts.Tests = opts.Tests || m.Config.Generate.Tests
}
