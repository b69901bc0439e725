package trace

import (
	"fmt"
	"io"
	"time"

	"github.com/Lingshinx/sognasm/lang/machine"
)

// ANSI colour codes for the trace renderer's columns. No terminal-colouring
// library appears anywhere in the reference corpus, so these are hand-rolled
// escape sequences rather than a wrapped dependency.
const (
	colorReset  = "\x1b[0m"
	colorCursor = "\x1b[33m" // pc / opcode, yellow
	colorStack  = "\x1b[36m" // evaluation stack, cyan
	colorFrame  = "\x1b[35m" // frame buffer, magenta
)

// Tracer steps a Machine to completion, writing one rendered line per
// instruction to w and sleeping delay between steps. It never mutates VM
// state beyond calling Machine.Step, which is the same primitive Run uses.
type Tracer struct {
	W     io.Writer
	Delay time.Duration
}

// Run drives m to completion, rendering each step.
func (t *Tracer) Run(m *machine.Machine) error {
	for {
		pc := m.PC
		op := m.NextOp()
		fmt.Fprintf(t.W, "%spc=%04d %-8s%s %sstack=%v%s %sframe[sp=%d]=%v%s\n",
			colorCursor, pc, op, colorReset,
			colorStack, m.Stack(), colorReset,
			colorFrame, m.SP(), m.Frames(), colorReset,
		)
		halted, err := m.Step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
		if t.Delay > 0 {
			time.Sleep(t.Delay)
		}
	}
}
