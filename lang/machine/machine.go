// Package machine implements the sognasm virtual machine: a single
// fetch-decode-execute loop over an assembled Program, with a frame buffer
// that co-locates call bookkeeping and locals, closures, and the
// list-construction protocol.
//
// The frame layout, call/return discipline and closure-capture mechanics
// here are grounded on the dispatch loop shape of a Starlark-derived
// interpreter this package's predecessor implemented (locals and stack
// sliced from one backing array, opcode switch reading operands inline);
// the domain semantics themselves — frame-resident return addresses, the
// list-construction stack swap, capture chaining — are this language's own.
package machine

import (
	"io"

	"github.com/Lingshinx/sognasm/lang/assembler"
	"github.com/Lingshinx/sognasm/lang/opcode"
	"github.com/Lingshinx/sognasm/lang/value"
)

// MaxStack is the evaluation stack's capacity. Pushing past this limit
// fails with ErrOverflow.
const MaxStack = 256

// Machine holds the full mutable state of a running program.
type Machine struct {
	Prog *assembler.Program

	PC int

	stack []value.Value
	// frames is the linear buffer backing every call frame. A frame at base
	// sp holds, at sp-2 and sp-1, the caller's return PC and sp (both
	// Function-tagged), followed by zero or more locals and, for closure
	// calls, the invoked closure itself at sp+0.
	frames []value.Value
	sp     int
	// aux is the secondary stack swapped in during list construction
	// (NewList/Collect).
	aux []value.Value

	Stdout io.Writer
	Stdin  io.Reader
}

// New returns a Machine ready to execute prog from its first instruction.
func New(prog *assembler.Program, stdin io.Reader, stdout io.Writer) *Machine {
	return &Machine{
		Prog:   prog,
		Stdin:  stdin,
		Stdout: stdout,
	}
}

// Stack returns the current evaluation stack, for trace rendering. The
// returned slice aliases the Machine's internal storage and must not be
// mutated.
func (m *Machine) Stack() []value.Value { return m.stack }

// Frames returns the current frame buffer, for trace rendering. The
// returned slice aliases the Machine's internal storage and must not be
// mutated.
func (m *Machine) Frames() []value.Value { return m.frames }

// SP returns the current frame base.
func (m *Machine) SP() int { return m.sp }

// NextOp returns the opcode at the current PC without executing it, for
// trace rendering. It panics if PC is out of bounds; callers should check
// bounds (e.g. via a failed Step) first.
func (m *Machine) NextOp() opcode.Code { return opcode.Code(m.Prog.Code[m.PC]) }

func (m *Machine) push(v value.Value) error {
	if len(m.stack) >= MaxStack {
		return ErrOverflow
	}
	m.stack = append(m.stack, v)
	return nil
}

func (m *Machine) pop() (value.Value, error) {
	n := len(m.stack)
	if n == 0 {
		return nil, ErrUnderflow
	}
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v, nil
}

func (m *Machine) local(k uint8) value.Value {
	return m.frames[m.sp+int(k)]
}

func (m *Machine) pushLocal(v value.Value) {
	m.frames = append(m.frames, v)
}

// invokeLocal implements the auto-invocation rule shared by Local, NewList,
// the selected branch of If, and Capped: a Function value is called, a
// *Closure is called, and anything else is pushed as a plain value.
func (m *Machine) invokeLocal(v value.Value) error {
	switch x := v.(type) {
	case value.Function:
		m.call(int(x))
		return nil
	case *value.Closure:
		m.callClosure(x)
		return nil
	default:
		return m.push(v)
	}
}

// call pushes a new frame for a plain (non-closure) call to addr.
func (m *Machine) call(addr int) {
	m.frames = append(m.frames, value.Function(m.PC))
	m.frames = append(m.frames, value.Function(m.sp))
	m.sp = len(m.frames)
	m.PC = addr
}

// callClosure pushes a new frame for a closure call, seeding local slot 0
// with the closure itself so Capped/PushCap can reach its captures.
func (m *Machine) callClosure(c *value.Closure) {
	m.frames = append(m.frames, value.Function(m.PC))
	m.frames = append(m.frames, value.Function(m.sp))
	m.sp = len(m.frames)
	m.frames = append(m.frames, value.Value(c))
	m.PC = c.IP
}

// popFrame pops the top of the frame buffer, falling back to Bool(false) on
// an empty buffer: this mirrors the predecessor's unwrap-or-false idiom,
// which lets the type assertion in ret fail cleanly rather than needing a
// separate empty check.
func (m *Machine) popFrame() value.Value {
	n := len(m.frames)
	if n == 0 {
		return value.Bool(false)
	}
	v := m.frames[n-1]
	m.frames = m.frames[:n-1]
	return v
}

// ret unwinds the current frame. It reports halted=true when there was no
// valid prior frame to return to, which is how the outermost, top-level
// "frame" terminates the program successfully.
func (m *Machine) ret() bool {
	m.frames = m.frames[:m.sp]
	spv := m.popFrame()
	pcv := m.popFrame()
	sp, ok1 := spv.(value.Function)
	pc, ok2 := pcv.(value.Function)
	if !ok1 || !ok2 {
		return true
	}
	m.sp = int(sp)
	m.PC = int(pc)
	return false
}

func (m *Machine) closureAt0() (*value.Closure, error) {
	c, ok := m.frames[m.sp].(*value.Closure)
	if !ok {
		return nil, ErrNotaClosure
	}
	return c, nil
}

func (m *Machine) readByte() byte {
	b := m.Prog.Code[m.PC]
	m.PC++
	return b
}
