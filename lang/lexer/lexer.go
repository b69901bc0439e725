// Package lexer turns sognasm's textual mini-assembly into a token stream
// for the assembler. The format is line-oriented: one instruction per line,
// blank lines and `;`-led comments are ignored.
//
// A function body is opened with `func NAME` and closed with `end`. Because
// the `Func` opcode (push a code-address reference to a label) and the
// `func` keyword (open a function body) would otherwise collide in a
// case-insensitive mnemonic table, the opcode is spelled `fn` in source
// text; likewise `End` (halt the program) is spelled `halt`, since `end`
// already closes a function body:
//
//	halt
//	output
//	call square
//	num 4
//	func square
//	mul
//	local 0
//	local 0
//	pop
//	end
//
// A program's entry point is always the first byte the assembler emits, and
// it appends an implicit halt only once, at the very end of the whole
// source. So top-level code that is followed by function definitions (as
// above) needs an explicit `halt` of its own, or execution falls through
// into the next function's bytes once the top-level code finishes.
//
// Operand syntax depends on the opcode's operand kind (opcode.OperandKind):
//   - none: bare mnemonic, e.g. `add`.
//   - byte (Local, Push, Capped, PushCap): mnemonic + decimal index, e.g.
//     `local 2`.
//   - varint (Call, Fn, Num, Str): mnemonic + a label name (`call square`),
//     a numeric literal (`num 3.14`), or a quoted string (`str "hi\n"`).
//   - list (Capture, CapCap): mnemonic + zero or more decimal indices, e.g.
//     `capture 0 1`.
//   - literal byte (Byte): mnemonic + a quoted character literal
//     (`byte 'a'`, escapes per the assembler's escape table) or a `#`-led
//     hex pair (`byte #41`).
package lexer

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/Lingshinx/sognasm/lang/opcode"
	"github.com/Lingshinx/sognasm/lang/token"
)

// Error reports a lexical problem, with the 1-based source line it occurred
// on.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexer: line %d: %s", e.Line, e.Msg)
}

// mnemonic spellings that don't match their opcode.String() form.
//
// "fn" stands in for the Func opcode (push a code-address reference),
// since "func" is already the keyword that opens a function body. "halt"
// stands in for the End opcode's mnemonic, since "end" closes a function
// body; writing it explicitly lets a program stop itself before falling
// through into bytecode emitted after it (the assembler appends an
// implicit End only once, at the very end of the whole token stream).
var mnemonicOverride = map[string]opcode.Code{
	"fn":   opcode.Func,
	"halt": opcode.End,
}

// mnemonicsByLower maps the lowercased spelling of every opcode name to its
// Code, so that source text can use any letter casing.
var mnemonicsByLower = func() map[string]opcode.Code {
	m := make(map[string]opcode.Code)
	for c := opcode.Nop; c <= opcode.End; c++ {
		m[strings.ToLower(c.String())] = c
	}
	return m
}()

func lookupMnemonic(word string) (opcode.Code, bool) {
	lower := strings.ToLower(word)
	if c, ok := mnemonicOverride[lower]; ok {
		return c, true
	}
	c, ok := mnemonicsByLower[lower]
	return c, ok
}

// Lex reads src and returns its token stream, terminated by an EOI token.
func Lex(src []byte) ([]token.Token, error) {
	var toks []token.Token
	sc := bufio.NewScanner(bytes.NewReader(src))
	line := 0
	for sc.Scan() {
		line++
		text := stripComment(sc.Text())
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		pos := token.MakePos(line, 1)
		head := fields[0]
		switch strings.ToLower(head) {
		case "func":
			if len(fields) != 2 {
				return nil, &Error{line, "func requires exactly one label name"}
			}
			toks = append(toks, token.Token{Kind: token.FuncName, Pos: pos, Name: fields[1]})
			continue
		case "end":
			if len(fields) != 1 {
				return nil, &Error{line, "end takes no operand"}
			}
			toks = append(toks, token.Token{Kind: token.FuncEnd, Pos: pos})
			continue
		}

		op, ok := lookupMnemonic(head)
		if !ok {
			return nil, &Error{line, fmt.Sprintf("unknown mnemonic %q", head)}
		}
		tok := token.Token{Kind: token.Instr, Pos: pos, Op: op}
		operands := fields[1:]

		switch opcode.OperandKind(op) {
		case opcode.OperandNone:
			if len(operands) != 0 {
				return nil, &Error{line, fmt.Sprintf("%s takes no operand", op)}
			}
		case opcode.OperandByte:
			if len(operands) != 1 {
				return nil, &Error{line, fmt.Sprintf("%s requires exactly one index operand", op)}
			}
			tok.ByteText = operands[0]
		case opcode.OperandVarint:
			if op == opcode.Call || op == opcode.Func {
				if len(operands) != 1 {
					return nil, &Error{line, fmt.Sprintf("%s requires exactly one label operand", op)}
				}
				tok.Name = operands[0]
			} else if op == opcode.Num {
				if len(operands) != 1 {
					return nil, &Error{line, "num requires exactly one numeric literal"}
				}
				tok.NumText = operands[0]
			} else { // Str
				str, err := joinQuoted(text, head)
				if err != nil {
					return nil, &Error{line, err.Error()}
				}
				tok.StrText = str
			}
		case opcode.OperandList:
			tok.IndexText = operands
		case opcode.OperandLiteralByte:
			if len(operands) != 1 {
				return nil, &Error{line, fmt.Sprintf("%s requires exactly one byte operand", op)}
			}
			lit := operands[0]
			if strings.HasPrefix(lit, "#") {
				tok.HexByte = true
				tok.CharText = strings.TrimPrefix(lit, "#")
			} else {
				unquoted, err := unquoteChar(lit)
				if err != nil {
					return nil, &Error{line, err.Error()}
				}
				tok.CharText = unquoted
			}
		}
		toks = append(toks, tok)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	toks = append(toks, token.Token{Kind: token.EOI, Pos: token.MakePos(line+1, 1)})
	return toks, nil
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return s[:i]
	}
	return s
}

// joinQuoted extracts the double-quoted string literal (including escape
// sequences, undecoded) following the mnemonic on a `str "..."` line.
func joinQuoted(line, head string) (string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), head))
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", fmt.Errorf("str requires a double-quoted string literal")
	}
	return rest[1 : len(rest)-1], nil
}

// unquoteChar extracts the single-quoted character literal (including its
// escape sequence, undecoded) from a `byte '...'` operand.
func unquoteChar(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '\'' || lit[len(lit)-1] != '\'' {
		return "", fmt.Errorf("byte requires a quoted character literal or a #-led hex pair")
	}
	return lit[1 : len(lit)-1], nil
}
