// Package assembler turns a token stream into a bytecode Program: constant
// pools, resolved function addresses and the linear instruction stream the
// machine package executes.
package assembler

// Program is the assembled, linked output the machine executes.
type Program struct {
	// Code is the linear instruction stream: opcode bytes interleaved with
	// their operand bytes.
	Code []byte
	// Strings is the string constant pool, in insertion order.
	Strings []string
	// Numbers is the number constant pool, in insertion order.
	Numbers []float64
	// Functions is the function constant pool: Functions[i] is the resolved
	// code address of the i-th distinct label referenced by a Call or Func
	// instruction, in first-reference order.
	Functions []int
}
