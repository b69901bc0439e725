package assembler

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Lingshinx/sognasm/lang/opcode"
	"github.com/Lingshinx/sognasm/lang/pool"
	"github.com/Lingshinx/sognasm/lang/token"
	"github.com/Lingshinx/sognasm/lang/varint"
)

// Assemble links a token stream into a Program.
//
// A "commands" run is any maximal sequence of Instr tokens between two
// structural markers (FuncName, FuncEnd, or the stream's end) — this
// includes freestanding top-level code, not only the inside of a function
// body. Every commands run is emitted in reverse token order: the source
// format is read and written right-to-left by convention, so a line
// sequence that reads naturally as "push 2, push 3, add" is authored as
// "add, push 3, push 2" and reversed back into execution order here.
func Assemble(toks []token.Token) (*Program, error) {
	a := &assembling{
		labels:   make(map[string]int),
		strings:  pool.NewRecord[string](func(s string) string { return s }),
		numbers:  pool.NewRecord[uint64](math.Float64bits),
		funcs:    pool.NewRecord[string](func(s string) string { return s }),
	}
	var pending []token.Token
	flush := func() error {
		for i, j := 0, len(pending)-1; i < j; i, j = i+1, j-1 {
			pending[i], pending[j] = pending[j], pending[i]
		}
		for _, tok := range pending {
			if err := a.emit(tok); err != nil {
				return err
			}
		}
		pending = pending[:0]
		return nil
	}

	for _, tok := range toks {
		switch tok.Kind {
		case token.Instr:
			pending = append(pending, tok)
		case token.FuncName:
			if err := flush(); err != nil {
				return nil, err
			}
			a.labels[tok.Name] = len(a.code)
		case token.FuncEnd:
			if err := flush(); err != nil {
				return nil, err
			}
			a.code = append(a.code, byte(opcode.Ret))
		case token.EOI:
			if err := flush(); err != nil {
				return nil, err
			}
			a.code = append(a.code, byte(opcode.End))
		default:
			return nil, fmt.Errorf("%w: unexpected token kind %d", ErrParse, tok.Kind)
		}
	}

	funcNames := a.funcs.Slice()
	functions := make([]int, len(funcNames))
	for i, name := range funcNames {
		addr, ok := a.labels[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
		}
		functions[i] = addr
	}

	return &Program{
		Code:      a.code,
		Strings:   a.strings.Slice(),
		Numbers:   a.numbers.Slice(),
		Functions: functions,
	}, nil
}

type assembling struct {
	code    []byte
	labels  map[string]int
	strings *pool.Record[string, string]
	numbers *pool.Record[uint64, float64]
	funcs   *pool.Record[string, string]
}

func (a *assembling) emit(tok token.Token) error {
	a.code = append(a.code, byte(tok.Op))
	switch opcode.OperandKind(tok.Op) {
	case opcode.OperandNone:
		return nil
	case opcode.OperandByte:
		b, err := parseByteOperand(tok.ByteText)
		if err != nil {
			return err
		}
		a.code = append(a.code, b)
		return nil
	case opcode.OperandVarint:
		return a.emitVarintOperand(tok)
	case opcode.OperandList:
		if len(tok.IndexText) > 255 {
			return fmt.Errorf("%w: capture list of %d entries exceeds 255", ErrByteOverflow, len(tok.IndexText))
		}
		a.code = append(a.code, byte(len(tok.IndexText)))
		for _, text := range tok.IndexText {
			b, err := parseByteOperand(text)
			if err != nil {
				return err
			}
			a.code = append(a.code, b)
		}
		return nil
	case opcode.OperandLiteralByte:
		if tok.HexByte {
			v, err := strconv.ParseUint(tok.CharText, 16, 64)
			if err != nil {
				return fmt.Errorf("%w: invalid hex byte literal %q", ErrBadEscape, tok.CharText)
			}
			if v > 255 {
				return fmt.Errorf("%w: hex byte literal %q", ErrByteOverflow, tok.CharText)
			}
			a.code = append(a.code, byte(v))
			return nil
		}
		b, err := unescapeByte(tok.CharText)
		if err != nil {
			return err
		}
		a.code = append(a.code, b)
		return nil
	default:
		return nil
	}
}

func (a *assembling) emitVarintOperand(tok token.Token) error {
	switch tok.Op {
	case opcode.Call, opcode.Func:
		idx := a.funcs.Insert(tok.Name)
		a.code = varint.Encode(a.code, idx)
	case opcode.Num:
		f, err := strconv.ParseFloat(tok.NumText, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrNumberParse, tok.NumText)
		}
		idx := a.numbers.Insert(f)
		a.code = varint.Encode(a.code, idx)
	default: // Str
		decoded, err := unescapeString(tok.StrText)
		if err != nil {
			return err
		}
		idx := a.strings.Insert(decoded)
		a.code = varint.Encode(a.code, idx)
	}
	return nil
}

func parseByteOperand(text string) (byte, error) {
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, text)
	}
	if n > 255 {
		return 0, fmt.Errorf("%w: %q", ErrByteOverflow, text)
	}
	return byte(n), nil
}
