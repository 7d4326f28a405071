package fuzztests

import (
	"testing"
	"time"

	"bitflags/internal/ast"
	"bitflags/internal/diag"
	"bitflags/internal/lexer"
	"bitflags/internal/parser"
	"bitflags/internal/sema"
	"bitflags/internal/source"
	"bitflags/internal/testkit"
)

const parseTimeout = 5 * time.Second

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input[:min(len(input), maxFuzzInput)])

		fs, bag, builder, file := parse(input)
		if file == nil {
			t.Fatal("parser returned nil file")
		}
		checkSpans(t, fs, bag)
		if !bag.HasErrors() {
			if err := testkit.CheckSpanInvariants(builder, file, fs.Get(file.Source)); err != nil {
				t.Fatalf("span invariants: %v\ninput: %q", err, truncateForLog(input, 200))
			}
		}
	})
}

// FuzzPipelineNoHang runs parse and sema under a deadline; value cycles and
// recovery loops are the usual suspects.
func FuzzPipelineNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("bitflags F: u8 { A = B, B = C, C = A }"))
	f.Add([]byte("bitflags F: u8 { A = ((((((((1)))))))) }"))
	f.Add([]byte("bitflags F: u8 { , , , }"))
	f.Add([]byte("bitflags F u8 A = 1 }"))
	f.Add([]byte("bitflags F: u8 { A = 1 B = 2 C = 3 }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input[:min(len(input), maxFuzzInput)])

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, bag, builder, file := parse(input)
			_ = sema.Check(builder, file, sema.Options{
				Reporter: diag.BagReporter{Bag: bag},
				Package:  "fuzz",
				Path:     "fuzz.flags",
			})
		}()

		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("pipeline hang detected after %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func parse(input []byte) (*source.FileSet, *diag.Bag, *ast.Builder, *ast.File) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("fuzz.flags", input)
	file := fs.Get(fileID)

	bag := diag.NewBag(128)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, lx, builder, parser.Options{
		Reporter:  reporter,
		MaxErrors: 128,
	})
	return fs, bag, builder, res.File
}

func checkSpans(t *testing.T, fs *source.FileSet, bag *diag.Bag) {
	t.Helper()
	for _, d := range bag.Items() {
		file := fs.Get(d.Primary.File)
		if d.Primary.Start > d.Primary.End || d.Primary.End > uint32(len(file.Content)) {
			t.Fatalf("%s span %v outside file of %d bytes", d.Code.ID(), d.Primary, len(file.Content))
		}
	}
}
