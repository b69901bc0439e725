package opcode_test

import (
	"testing"

	"github.com/Lingshinx/sognasm/lang/opcode"
	"github.com/stretchr/testify/assert"
)

func TestStringAndLookupRoundTrip(t *testing.T) {
	for c := opcode.Nop; c <= opcode.End; c++ {
		name := c.String()
		assert.NotContains(t, name, "Code(", "opcode %d missing a name", c)
		got, ok := opcode.Lookup(name)
		assert.True(t, ok, "name %q", name)
		assert.Equal(t, c, got)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, ok := opcode.Lookup("NotAnOpcode")
	assert.False(t, ok)
}

func TestOperandKind(t *testing.T) {
	cases := map[opcode.Code]opcode.Operand{
		opcode.Local:   opcode.OperandByte,
		opcode.Push:    opcode.OperandByte,
		opcode.Capped:  opcode.OperandByte,
		opcode.PushCap: opcode.OperandByte,
		opcode.Call:    opcode.OperandVarint,
		opcode.Func:    opcode.OperandVarint,
		opcode.Num:     opcode.OperandVarint,
		opcode.Str:     opcode.OperandVarint,
		opcode.Capture: opcode.OperandList,
		opcode.CapCap:  opcode.OperandList,
		opcode.Byte:    opcode.OperandLiteralByte,
		opcode.Add:     opcode.OperandNone,
		opcode.Ret:     opcode.OperandNone,
		opcode.End:     opcode.OperandNone,
	}
	for c, want := range cases {
		assert.Equal(t, want, opcode.OperandKind(c), "opcode %s", c)
	}
}
