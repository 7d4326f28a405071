package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[package]\nname = \"perms\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	if m.Config.Package.Name != "perms" {
		t.Errorf("name = %q", m.Config.Package.Name)
	}
	if m.Config.Generate.Suffix != DefaultSuffix || len(m.Config.Generate.Sources) != 1 {
		t.Errorf("defaults not applied: %+v", m.Config.Generate)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing package", "[generate]\ntests = true\n", "missing [package]"},
		{"missing name", "[package]\n", "missing [package].name"},
		{"unknown key", "[package]\nname = \"p\"\ncolour = 1\n", "unknown key colour"},
		{"bad suffix", "[package]\nname = \"p\"\n[generate]\nsuffix = \"a/b\"\n", "path separator"},
		{"bad toml", "[package\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadFile(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestSourcesAndOutputs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `[package]
name = "perms"

[generate]
sources = ["*.flags", "sub/*.flags", "b.flags"]
output_dir = "gen"
suffix = "_flags"
tests = true
`)
	for _, f := range []string{"b.flags", "a.flags", "sub/c.flags", "ignored.txt"} {
		writeFile(t, filepath.Join(root, f), "")
	}

	m, err := LoadFile(filepath.Join(root, ManifestName))
	if err != nil {
		t.Fatal(err)
	}
	srcs, err := m.Sources()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "a.flags"),
		filepath.Join(root, "b.flags"),
		filepath.Join(root, "sub", "c.flags"),
	}
	if strings.Join(srcs, ",") != strings.Join(want, ",") {
		t.Errorf("sources = %v, want %v", srcs, want)
	}

	dir := m.OutputDir(srcs[0])
	if dir != filepath.Join(root, "gen") {
		t.Errorf("output dir = %s", dir)
	}
	if got := OutputPath(srcs[0], dir, m.Config.Generate.Suffix); got != filepath.Join(root, "gen", "a_flags.go") {
		t.Errorf("output = %s", got)
	}
	if got := TestOutputPath(srcs[0], dir, m.Config.Generate.Suffix); got != filepath.Join(root, "gen", "a_flags_test.go") {
		t.Errorf("test output = %s", got)
	}
}

func TestFindMissing(t *testing.T) {
	path, ok, err := Find(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Skipf("manifest above the temp dir: %s", path)
	}
	m, ok, err := Load(t.TempDir())
	if m != nil || ok || err != nil {
		t.Errorf("Load = %v, %v, %v", m, ok, err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Config{
		Package:  PackageConfig{Name: "perms"},
		Generate: GenerateConfig{Sources: []string{"*.flags"}, Suffix: DefaultSuffix, Tests: true},
	}
	data, err := Encode(cfg)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, string(data))
	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile(encoded): %v\n%s", err, data)
	}
	if !m.Config.Generate.Tests || m.Config.Package.Name != "perms" {
		t.Errorf("config = %+v", m.Config)
	}
}

func TestDigestOf(t *testing.T) {
	if DigestOf("ab", "c") == DigestOf("a", "bc") {
		t.Error("part boundaries must change the digest")
	}
	if DigestOf("x") != DigestOf("x") {
		t.Error("digest must be deterministic")
	}
	if len(DigestOf().String()) != 64 {
		t.Error("hex digest length")
	}
}

func TestPackageFromDir(t *testing.T) {
	tests := map[string]string{
		"/src/perms":      "perms",
		"/src/My-Flags":   "myflags",
		"/src/2fa":        "flags",
		"/src/type":       "flags",
		"/src/net_config": "net_config",
	}
	for in, want := range tests {
		if got := PackageFromDir(in); got != want {
			t.Errorf("PackageFromDir(%q) = %q, want %q", in, got, want)
		}
	}
}
