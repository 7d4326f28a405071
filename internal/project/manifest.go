package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the project file looked up from the working directory.
const ManifestName = "bitflags.toml"

// DefaultSuffix is appended to the base name of generated files.
const DefaultSuffix = "_bitflags"

// ErrNoManifest is returned when no bitflags.toml exists up to the root.
var ErrNoManifest = errors.New("no " + ManifestName + " found\nplease pass the declaration file explicitly, e.g.:\n  bitflags generate perms.flags")

type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package  PackageConfig  `toml:"package"`
	Generate GenerateConfig `toml:"generate"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type GenerateConfig struct {
	Sources   []string `toml:"sources"`
	OutputDir string   `toml:"output_dir"`
	Suffix    string   `toml:"suffix"`
	Tests     bool     `toml:"tests"`
}

// Find walks up from startDir looking for bitflags.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest governing startDir.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadFile(path)
	return m, true, err
}

// LoadFile parses a manifest and fills defaults.
func LoadFile(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("generate", "sources") {
		cfg.Generate.Sources = []string{"*.flags"}
	}
	if !meta.IsDefined("generate", "suffix") {
		cfg.Generate.Suffix = DefaultSuffix
	}
	if strings.ContainsAny(cfg.Generate.Suffix, `/\`) {
		return nil, fmt.Errorf("%s: [generate].suffix must not contain a path separator", path)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// Sources expands the source globs relative to the manifest root. The
// result is sorted and free of duplicates.
func (m *Manifest) Sources() ([]string, error) {
	var out []string
	for _, pattern := range m.Config.Generate.Sources {
		full := filepath.Join(m.Root, filepath.FromSlash(pattern))
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("%s: bad source pattern %q: %w", m.Path, pattern, err)
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// OutputDir resolves [generate].output_dir for a source file.
func (m *Manifest) OutputDir(src string) string {
	if m == nil || m.Config.Generate.OutputDir == "" {
		return filepath.Dir(src)
	}
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Generate.OutputDir))
}

// OutputPath names the generated Go file for src: perms.flags becomes
// perms_bitflags.go in dir.
func OutputPath(src, dir, suffix string) string {
	return filepath.Join(dir, baseName(src)+suffix+".go")
}

// TestOutputPath names the generated law test file for src.
func TestOutputPath(src, dir, suffix string) string {
	return filepath.Join(dir, baseName(src)+suffix+"_test.go")
}

func baseName(src string) string {
	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
