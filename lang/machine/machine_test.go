package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Lingshinx/sognasm/lang/assembler"
	"github.com/Lingshinx/sognasm/lang/lexer"
	"github.com/Lingshinx/sognasm/lang/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run assembles src (authored right-to-left per the mini-assembly
// convention) and executes it, returning everything written to stdout.
func run(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.Lex([]byte(src))
	require.NoError(t, err)
	prog, err := assembler.Assemble(toks)
	require.NoError(t, err)

	var out bytes.Buffer
	m := machine.New(prog, strings.NewReader(""), &out)
	require.NoError(t, m.Run())
	return out.String()
}

func TestScenarioAdd(t *testing.T) {
	// execution order: num 2; num 3; add; output
	got := run(t, "output\nadd\nnum 3\nnum 2")
	assert.Equal(t, "5", got)
}

func TestScenarioSubAndSubBy(t *testing.T) {
	got := run(t, `
output
subby
num 3
num 10
output
sub
num 3
num 10
`)
	assert.Equal(t, "7-7", got)
}

// A program's entry point is always address 0, and the assembler appends
// an implicit End only once, at the very end of the whole token stream.
// So any program that defines functions keeps its real top-level logic
// first (landing at address 0) and ends it with an explicit halt, before
// the function bodies that follow. Without the halt, execution would fall
// straight off the end of the top-level code into the next function's
// bytes. Ret's empty-frame fallback needs no such guard: a function body
// is only ever reached by an explicit Call or closure invocation, and its
// own Ret always transfers control (back to a caller, or halts) rather
// than falling through to whatever bytes follow it.
func TestScenarioFunctionCall(t *testing.T) {
	// square(x) = x*x; call square(4) -> 16
	got := run(t, `
halt
output
call square
num 4
func square
mul
local 0
local 0
pop
end
`)
	assert.Equal(t, "16", got)
}

func TestScenarioListLength(t *testing.T) {
	// build [1,2,3] via NewList(ctor), then Collect; Length; Output
	got := run(t, `
halt
output
length
collect
newlist
fn ctor
func ctor
num 3
num 2
num 1
end
`)
	assert.Equal(t, "3", got)
}

func TestScenarioIfSelectsEarlierPushedValue(t *testing.T) {
	// execution order: true; num 1; num 0; if; output
	// cond = pop = Num(0); ToBool(Number 0) is true (zero-is-true inversion)
	// so the If selects the next-popped value, Num(1).
	got := run(t, "output\nif\nnum 0\nnum 1\ntrue")
	assert.Equal(t, "1", got)
}

func TestScenarioClosureAdder(t *testing.T) {
	// adder(n) captures n and returns a closure over λx.x+n; adder(5)(3) -> 8.
	// adder leaves the closure on the shared stack; top level Pops it into a
	// local so Local can auto-invoke it (only Local/NewList/If/Capped trigger
	// auto-invocation, not Call, which takes a static label). The argument to
	// the closure call is passed on the shared stack, same as any other call.
	got := run(t, `
halt
output
local 0
num 3
pop
call adder
num 5
func adder
capture 0
fn inner
pop
end
func inner
add
capped 0
local 1
pop
end
`)
	assert.Equal(t, "8", got)
}

func TestToBoolInversionObservedAtVMLevel(t *testing.T) {
	// cond = Number(0): zero-is-true inversion selects the next-popped value.
	assert.Equal(t, "true", run(t, "output\nif\nnum 0\ntrue\nfalse"))
	// cond = Number(1): not zero, so If falls through to the other branch.
	assert.Equal(t, "false", run(t, "output\nif\nnum 1\ntrue\nfalse"))
}

func TestStackEmptyAfterWellFormedProgram(t *testing.T) {
	toks, err := lexer.Lex([]byte("output\nadd\nnum 1\nnum 1"))
	require.NoError(t, err)
	prog, err := assembler.Assemble(toks)
	require.NoError(t, err)

	var out bytes.Buffer
	m := machine.New(prog, strings.NewReader(""), &out)
	require.NoError(t, m.Run())
	assert.Empty(t, m.Stack())
}

func TestUnderflowError(t *testing.T) {
	toks, err := lexer.Lex([]byte("add"))
	require.NoError(t, err)
	prog, err := assembler.Assemble(toks)
	require.NoError(t, err)

	var out bytes.Buffer
	m := machine.New(prog, strings.NewReader(""), &out)
	err = m.Run()
	require.ErrorIs(t, err, machine.ErrUnderflow)
}

func TestOverflowError(t *testing.T) {
	// MaxStack+1 pushes with nothing to pop them: the last one must overflow.
	var src strings.Builder
	for i := 0; i <= machine.MaxStack; i++ {
		src.WriteString("num 1\n")
	}
	toks, err := lexer.Lex([]byte(src.String()))
	require.NoError(t, err)
	prog, err := assembler.Assemble(toks)
	require.NoError(t, err)

	var out bytes.Buffer
	m := machine.New(prog, strings.NewReader(""), &out)
	err = m.Run()
	require.ErrorIs(t, err, machine.ErrOverflow)
}

func TestHeadOfEmptyList(t *testing.T) {
	toks, err := lexer.Lex([]byte("head\ncollect"))
	require.NoError(t, err)
	prog, err := assembler.Assemble(toks)
	require.NoError(t, err)

	var out bytes.Buffer
	m := machine.New(prog, strings.NewReader(""), &out)
	err = m.Run()
	require.ErrorIs(t, err, machine.ErrHeadEmpty)
}

func TestInputReadsOneByte(t *testing.T) {
	toks, err := lexer.Lex([]byte("print\ninput"))
	require.NoError(t, err)
	prog, err := assembler.Assemble(toks)
	require.NoError(t, err)

	var out bytes.Buffer
	m := machine.New(prog, strings.NewReader("Z"), &out)
	require.NoError(t, m.Run())
	assert.Equal(t, "Z", out.String())
}

func TestInputOnClosedStreamFails(t *testing.T) {
	toks, err := lexer.Lex([]byte("print\ninput"))
	require.NoError(t, err)
	prog, err := assembler.Assemble(toks)
	require.NoError(t, err)

	var out bytes.Buffer
	m := machine.New(prog, strings.NewReader(""), &out)
	err = m.Run()
	require.ErrorIs(t, err, machine.ErrInputClosed)
}
