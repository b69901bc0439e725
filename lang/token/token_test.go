package token_test

import (
	"testing"

	"github.com/Lingshinx/sognasm/lang/opcode"
	"github.com/Lingshinx/sognasm/lang/token"
	"github.com/stretchr/testify/assert"
)

func TestInstrTokenCarriesOpcode(t *testing.T) {
	tok := token.Token{Kind: token.Instr, Op: opcode.Add, Pos: token.MakePos(3, 1)}
	assert.Equal(t, opcode.Add, tok.Op)
	line, col := tok.Pos.LineCol()
	assert.Equal(t, 3, line)
	assert.Equal(t, 1, col)
}

func TestFuncNameTokenCarriesName(t *testing.T) {
	tok := token.Token{Kind: token.FuncName, Name: "square"}
	assert.Equal(t, "square", tok.Name)
	assert.Equal(t, token.FuncName, tok.Kind)
}
