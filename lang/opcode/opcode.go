// Package opcode defines the sognasm instruction set: the single byte that
// leads every instruction, its classification by operand shape, and the
// textual mnemonics used by the lexer and the trace renderer.
package opcode

import "fmt"

// Code is a single bytecode instruction tag.
type Code uint8

const ( //nolint:revive
	Nop Code = iota

	// stack and frame manipulation
	Pop  // move top of stack into a new local
	Drop // discard top of stack
	Local
	Push
	Capped
	PushCap

	// arithmetic, float semantics
	Add
	Sub
	SubBy
	Mul
	Div
	DivBy

	// arithmetic, integer coercion
	Mod
	ModBy
	Xor
	BitOr
	BitAnd

	// boolean logic
	And
	Or
	Not

	// comparisons, Number coercion
	Lt
	Gt
	Eql
	Le
	Ge

	// type introspection
	Type

	// control flow
	If
	Call
	Ret
	Func
	Capture
	CapCap

	// literals
	Num
	Str
	Byte
	True
	False

	// list protocol
	NewList
	Collect
	Concat
	Insert
	Append
	Length
	Empty
	Head
	Rest

	// I/O
	Input
	Output
	Print
	Flush

	End
)

var names = [...]string{
	Nop:     "Nop",
	Pop:     "Pop",
	Drop:    "Drop",
	Local:   "Local",
	Push:    "Push",
	Capped:  "Capped",
	PushCap: "PushCap",
	Add:     "Add",
	Sub:     "Sub",
	SubBy:   "SubBy",
	Mul:     "Mul",
	Div:     "Div",
	DivBy:   "DivBy",
	Mod:     "Mod",
	ModBy:   "ModBy",
	Xor:     "Xor",
	BitOr:   "BitOr",
	BitAnd:  "BitAnd",
	And:     "And",
	Or:      "Or",
	Not:     "Not",
	Lt:      "Lt",
	Gt:      "Gt",
	Eql:     "Eql",
	Le:      "Le",
	Ge:      "Ge",
	Type:    "Type",
	If:      "If",
	Call:    "Call",
	Ret:     "Ret",
	Func:    "Func",
	Capture: "Capture",
	CapCap:  "CapCap",
	Num:     "Num",
	Str:     "Str",
	Byte:    "Byte",
	True:    "True",
	False:   "False",
	NewList: "NewList",
	Collect: "Collect",
	Concat:  "Concat",
	Insert:  "Insert",
	Append:  "Append",
	Length:  "Length",
	Empty:   "Empty",
	Head:    "Head",
	Rest:    "Rest",
	Input:   "Input",
	Output:  "Output",
	Print:   "Print",
	Flush:   "Flush",
	End:     "End",
}

func (c Code) String() string {
	if int(c) < len(names) && names[c] != "" {
		return names[c]
	}
	return fmt.Sprintf("Code(%d)", byte(c))
}

var byName = func() map[string]Code {
	m := make(map[string]Code, len(names))
	for c, n := range names {
		if n != "" {
			m[n] = Code(c)
		}
	}
	return m
}()

// Lookup returns the opcode named by s, if any.
func Lookup(s string) (Code, bool) {
	c, ok := byName[s]
	return c, ok
}

// Operand classifies how an instruction's operand is encoded after its
// opcode byte.
type Operand int

const (
	// OperandNone instructions carry no operand bytes.
	OperandNone Operand = iota
	// OperandByte instructions are followed by one raw index byte: a frame
	// offset for Local and Push, a capture index for Capped and PushCap.
	OperandByte
	// OperandVarint instructions are followed by one varint pool index.
	OperandVarint
	// OperandList instructions are followed by a 1-byte length n and then n
	// raw index bytes: frame offsets for Capture, indices into the current
	// closure's capture list for CapCap.
	OperandList
	// OperandLiteralByte instructions are followed by one raw literal byte.
	OperandLiteralByte
)

// OperandKind reports how c's operand, if any, is encoded in the bytecode
// stream.
func OperandKind(c Code) Operand {
	switch c {
	case Local, Push, Capped, PushCap:
		return OperandByte
	case Call, Func, Num, Str:
		return OperandVarint
	case Capture, CapCap:
		return OperandList
	case Byte:
		return OperandLiteralByte
	default:
		return OperandNone
	}
}
