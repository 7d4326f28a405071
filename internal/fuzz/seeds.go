package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxFuzzInput = 1 << 16
	maxSeedBytes = 64 << 10
)

var inlineSeeds = []string{
	"",
	"package perms\n",
	"bitflags Perms: u8 {\n    Read = 1 << 0,\n    Write = 1 << 1,\n}\n",
	"bitflags F: u64 { A = 0xFFFF_FFFF_FFFF_FFFF, B = A & !0xFF, }",
	"bitflags S: i8 { Neg = 1 << 7, Low = 0b0111_1111 }",
	"bitflags F: u8 { A = 1, B = A | C, C = B }",
	"bitflags F: u9 { A = 1 }",
	"bitflags F: u8 { A = 1 << 8 }",
	"bitflags F: u8 { A = (1 | 2 }",
	"bitflags { }",
	"/* unterminated",
	"bitflags F: u8 { A = 1__0, B = 0x, C = 08 }",
	"bitflags F: u8 { é = 1, é = 2 }",
	"// comment only\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addExampleSeeds(f)
}

// addExampleSeeds feeds every .flags file under examples/ into the corpus.
func addExampleSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "examples")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".flags" {
			return nil
		}
		// #nosec G304 -- path comes from the repository examples walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src))
		return nil
	})
}

func clamp(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}

func truncateForLog(data []byte, limit int) []byte {
	if len(data) <= limit {
		return data
	}
	return data[:limit]
}
