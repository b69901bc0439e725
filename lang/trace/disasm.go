// Package trace implements the optional, purely observational trace
// renderer: a disassembly listing and a stepwise execution tracer over a
// read-only view of a running Machine. Neither ever mutates VM state.
//
// The disassembly walk (decode each instruction, translate operand indices
// to pool entries, print one line per instruction) is grounded on a
// predecessor interpreter's own disassembler, which walked a function's code
// bytes the same way to produce a human-readable assembly listing.
package trace

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Lingshinx/sognasm/lang/assembler"
	"github.com/Lingshinx/sognasm/lang/opcode"
	"github.com/Lingshinx/sognasm/lang/varint"
)

// Disassemble renders prog's code section as a human-readable listing, one
// instruction per line, with Call/Func operands resolved to the label's
// code address and Num/Str operands resolved to their pool value.
func Disassemble(prog *assembler.Program) (string, error) {
	var buf bytes.Buffer
	pc := 0
	for pc < len(prog.Code) {
		addr := pc
		op := opcode.Code(prog.Code[pc])
		pc++

		fmt.Fprintf(&buf, "%04d  %s", addr, op)
		switch opcode.OperandKind(op) {
		case opcode.OperandByte:
			fmt.Fprintf(&buf, " %d", prog.Code[pc])
			pc++
		case opcode.OperandLiteralByte:
			fmt.Fprintf(&buf, " #%02x", prog.Code[pc])
			pc++
		case opcode.OperandVarint:
			n, size, ok := varint.Decode(prog.Code[pc:])
			if !ok {
				return "", fmt.Errorf("trace: truncated varint operand at %d", addr)
			}
			pc += size
			switch op {
			case opcode.Call, opcode.Func:
				fmt.Fprintf(&buf, " %d\t# -> %04d", n, prog.Functions[n])
			case opcode.Num:
				fmt.Fprintf(&buf, " %d\t# %s", n, strconv.FormatFloat(prog.Numbers[n], 'g', -1, 64))
			case opcode.Str:
				fmt.Fprintf(&buf, " %d\t# %q", n, prog.Strings[n])
			}
		case opcode.OperandList:
			count := int(prog.Code[pc])
			pc++
			buf.WriteByte(' ')
			for i := 0; i < count; i++ {
				if i > 0 {
					buf.WriteByte(' ')
				}
				fmt.Fprintf(&buf, "%d", prog.Code[pc])
				pc++
			}
		}
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}
