package trace_test

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lingshinx/sognasm/internal/filetest"
	"github.com/Lingshinx/sognasm/lang/assembler"
	"github.com/Lingshinx/sognasm/lang/lexer"
	"github.com/Lingshinx/sognasm/lang/trace"
	"github.com/stretchr/testify/require"
)

var testUpdateGoldenTests = flag.Bool("test.update-disassemble-tests", false, "If set, replace expected disassembly with actual results.")

func TestDisassembleGolden(t *testing.T) {
	srcDir, outDir := filepath.Join("testdata", "asm"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".sogn") {
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			require.NoError(t, err)
			toks, err := lexer.Lex(src)
			require.NoError(t, err)
			prog, err := assembler.Assemble(toks)
			require.NoError(t, err)

			out, err := trace.Disassemble(prog)
			require.NoError(t, err)
			filetest.DiffOutput(t, fi, out, outDir, testUpdateGoldenTests)
		})
	}
}
