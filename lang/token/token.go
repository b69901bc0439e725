// Package token defines the shape of the tokens a lexer produces from
// sognasm's textual mini-assembly and that the assembler consumes to
// produce bytecode.
package token

import "github.com/Lingshinx/sognasm/lang/opcode"

// Kind classifies a Token.
type Kind int8

const ( //nolint:revive
	Invalid Kind = iota
	// EOI marks the end of the token stream; the assembler emits End for it.
	EOI
	// FuncName introduces a function body; Name holds the label text.
	FuncName
	// FuncEnd closes a function body; the assembler emits Ret for it.
	FuncEnd
	// Instr is a single instruction, possibly carrying an operand depending
	// on Op's opcode.OperandKind.
	Instr
)

// Token is one lexical unit of the textual mini-assembly source. Literal
// operands are carried as their raw, undecoded text: escape decoding and
// numeric parsing are the assembler's job (so that the resulting parse
// errors are reported as assembler errors, per the owning component's
// error taxonomy), not the lexer's.
type Token struct {
	Kind Kind
	Pos  Pos

	// Op is valid when Kind == Instr.
	Op opcode.Code

	// Name holds the label text for FuncName, and the target label for an
	// Instr whose Op is Call or Func.
	Name string

	// ByteText holds the raw decimal text of a one-byte index operand: a
	// frame offset for Local and Push, a capture index for Capped and PushCap.
	ByteText string

	// IndexText holds the raw decimal text of each index in a list-shaped
	// operand: frame offsets for Capture, capture indices for CapCap.
	IndexText []string

	// NumText holds the raw numeric literal text for Num.
	NumText string

	// StrText holds the raw (undecoded) string literal text for Str.
	StrText string

	// CharText holds the raw literal spelling of a Byte operand: either an
	// undecoded character literal (e.g. `\n`) or, when HexByte is true, two
	// hex digits.
	CharText string
	HexByte  bool
}
