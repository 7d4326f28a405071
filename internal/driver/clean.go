package driver

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

// generatedMarker starts the first line of every file this tool writes.
var generatedMarker = []byte("// Code generated by bitflags")

// Clean removes the generated outputs of the given declaration files. Only
// files that still carry the generated header are deleted. It returns the
// removed paths.
func Clean(files []string, opts Options) ([]string, error) {
	var removed []string
	for _, src := range files {
		dir := opts.outputDir(src)
		for _, out := range []string{
			OutputPathFor(src, dir, opts),
			TestOutputPathFor(src, dir, opts),
		} {
			ok, err := removeGenerated(out)
			if err != nil {
				return removed, err
			}
			if ok {
				removed = append(removed, out)
			}
		}
	}
	return removed, nil
}

func removeGenerated(path string) (bool, error) {
	// #nosec G304 -- path is derived from a declaration file
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !bytes.HasPrefix(data, generatedMarker) {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return true, nil
}
