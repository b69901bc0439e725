package machine

import (
	"fmt"
	"io"

	"github.com/Lingshinx/sognasm/lang/opcode"
	"github.com/Lingshinx/sognasm/lang/value"
	"github.com/Lingshinx/sognasm/lang/varint"
)

// flusher is implemented by output writers (e.g. *bufio.Writer) that buffer
// writes and need an explicit Flush opcode to drain them.
type flusher interface {
	Flush() error
}

// Run executes the program from the Machine's current PC until it halts
// (via Ret unwinding past the outermost frame, or the End opcode) or an
// instruction fails.
func (m *Machine) Run() error {
	for {
		halted, err := m.Step()
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
	}
}

// Step executes exactly one instruction at the current PC and reports
// whether the program halted. It is the primitive Run loops over; a trace
// renderer can call it directly to observe state between instructions.
func (m *Machine) Step() (halted bool, err error) {
	if m.PC < 0 || m.PC >= len(m.Prog.Code) {
		return false, fmt.Errorf("machine: program counter %d out of bounds", m.PC)
	}
	pc0 := m.PC
	op := opcode.Code(m.readByte())
	halted, err = m.step(op)
	if err != nil {
		return false, fmt.Errorf("machine: at pc %d, %s: %w", pc0, op, err)
	}
	return halted, nil
}

func (m *Machine) step(op opcode.Code) (halted bool, err error) {
	switch op {
	case opcode.Nop:
		return false, nil

	case opcode.Pop:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		m.pushLocal(v)
		return false, nil
	case opcode.Drop:
		_, err := m.pop()
		return false, err

	case opcode.Local:
		k := m.readByte()
		return false, m.invokeLocal(m.local(k).Clone())
	case opcode.Push:
		k := m.readByte()
		return false, m.push(m.local(k).Clone())
	case opcode.Capped:
		k := m.readByte()
		c, err := m.closureAt0()
		if err != nil {
			return false, err
		}
		return false, m.invokeLocal(c.Capture[k].Clone())
	case opcode.PushCap:
		k := m.readByte()
		c, err := m.closureAt0()
		if err != nil {
			return false, err
		}
		return false, m.push(c.Capture[k].Clone())

	case opcode.Add:
		return false, m.binaryNumber(func(a, b float64) float64 { return b + a })
	case opcode.Sub:
		return false, m.binaryNumber(func(a, b float64) float64 { return b - a })
	case opcode.SubBy:
		return false, m.binaryNumber(func(a, b float64) float64 { return a - b })
	case opcode.Mul:
		return false, m.binaryNumber(func(a, b float64) float64 { return b * a })
	case opcode.Div:
		return false, m.binaryNumber(func(a, b float64) float64 { return b / a })
	case opcode.DivBy:
		return false, m.binaryNumber(func(a, b float64) float64 { return a / b })

	case opcode.Mod:
		return false, m.binaryInteger(func(a, b int64) int64 { return a % b })
	case opcode.ModBy:
		return false, m.binaryInteger(func(a, b int64) int64 { return b % a })
	case opcode.Xor:
		return false, m.binaryInteger(func(a, b int64) int64 { return a ^ b })
	case opcode.BitOr:
		return false, m.binaryInteger(func(a, b int64) int64 { return a | b })
	case opcode.BitAnd:
		return false, m.binaryInteger(func(a, b int64) int64 { return a & b })

	case opcode.And:
		return false, m.binaryBool(func(a, b bool) bool { return a && b })
	case opcode.Or:
		return false, m.binaryBool(func(a, b bool) bool { return a || b })
	case opcode.Not:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		return false, m.push(value.Bool(!value.ToBool(v)))

	case opcode.Lt:
		return false, m.compare(func(a, b float64) bool { return a < b })
	case opcode.Gt:
		return false, m.compare(func(a, b float64) bool { return a > b })
	case opcode.Eql:
		return false, m.compare(func(a, b float64) bool { return a == b })
	case opcode.Le:
		return false, m.compare(func(a, b float64) bool { return a <= b })
	case opcode.Ge:
		return false, m.compare(func(a, b float64) bool { return a >= b })

	case opcode.Type:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		return false, m.push(value.TypeTag(v))

	case opcode.If:
		cond, err := m.pop()
		if err != nil {
			return false, err
		}
		a, err := m.pop()
		if err != nil {
			return false, err
		}
		b, err := m.pop()
		if err != nil {
			return false, err
		}
		sel := b
		if value.ToBool(cond) {
			sel = a
		}
		return false, m.invokeLocal(sel)

	case opcode.Call:
		n, size, ok := varint.Decode(m.Prog.Code[m.PC:])
		if !ok {
			return false, fmt.Errorf("truncated varint operand")
		}
		m.PC += size
		m.call(m.Prog.Functions[n])
		return false, nil
	case opcode.Ret:
		return m.ret(), nil
	case opcode.Func:
		n, size, ok := varint.Decode(m.Prog.Code[m.PC:])
		if !ok {
			return false, fmt.Errorf("truncated varint operand")
		}
		m.PC += size
		return false, m.push(value.Function(m.Prog.Functions[n]))

	case opcode.Capture:
		capture, err := m.readCaptureList()
		if err != nil {
			return false, err
		}
		top, err := m.pop()
		if err != nil {
			return false, err
		}
		fn, ok := top.(value.Function)
		if !ok {
			return false, ErrNotaFunction
		}
		return false, m.push(&value.Closure{IP: int(fn), Capture: capture})
	case opcode.CapCap:
		idx, err := m.readIndexList()
		if err != nil {
			return false, err
		}
		top, err := m.pop()
		if err != nil {
			return false, err
		}
		c, ok := top.(*value.Closure)
		if !ok {
			return false, ErrNotaClosure
		}
		capture := make([]value.Value, 0, len(c.Capture)+len(idx))
		for _, v := range c.Capture {
			capture = append(capture, v.Clone())
		}
		for _, k := range idx {
			capture = append(capture, c.Capture[k].Clone())
		}
		return false, m.push(&value.Closure{IP: m.PC, Capture: capture})

	case opcode.Num:
		n, size, ok := varint.Decode(m.Prog.Code[m.PC:])
		if !ok {
			return false, fmt.Errorf("truncated varint operand")
		}
		m.PC += size
		return false, m.push(value.Number(m.Prog.Numbers[n]))
	case opcode.Str:
		n, size, ok := varint.Decode(m.Prog.Code[m.PC:])
		if !ok {
			return false, fmt.Errorf("truncated varint operand")
		}
		m.PC += size
		return false, m.push(value.String(m.Prog.Strings[n]))
	case opcode.Byte:
		return false, m.push(value.Byte(m.readByte()))
	case opcode.True:
		return false, m.push(value.Bool(true))
	case opcode.False:
		return false, m.push(value.Bool(false))

	case opcode.NewList:
		f, err := m.pop()
		if err != nil {
			return false, err
		}
		m.stack, m.aux = m.aux, m.stack
		return false, m.invokeLocal(f)
	case opcode.Collect:
		list := value.NewList()
		for i := len(m.stack) - 1; i >= 0; i-- {
			list.PushBack(m.stack[i])
		}
		m.stack, m.aux = m.aux, m.stack
		m.aux = m.aux[:0]
		return false, m.push(list)
	case opcode.Concat:
		r, err := m.popList(ErrConcatNotList)
		if err != nil {
			return false, err
		}
		l, err := m.popList(ErrConcatNotList)
		if err != nil {
			return false, err
		}
		l.Concat(r)
		return false, m.push(l)
	case opcode.Insert:
		x, err := m.pop()
		if err != nil {
			return false, err
		}
		l, err := m.popList(ErrNotaList)
		if err != nil {
			return false, err
		}
		l.PushFront(x)
		return false, m.push(l)
	case opcode.Append:
		x, err := m.pop()
		if err != nil {
			return false, err
		}
		l, err := m.popList(ErrNotaList)
		if err != nil {
			return false, err
		}
		l.PushBack(x)
		return false, m.push(l)
	case opcode.Length:
		l, err := m.popList(ErrNotaList)
		if err != nil {
			return false, err
		}
		return false, m.push(value.Number(l.Len()))
	case opcode.Empty:
		l, err := m.popList(ErrNotaList)
		if err != nil {
			return false, err
		}
		return false, m.push(value.Bool(l.Len() == 0))
	case opcode.Head:
		l, err := m.popList(ErrNotaList)
		if err != nil {
			return false, err
		}
		front, ok := l.Front()
		if !ok {
			return false, ErrHeadEmpty
		}
		return false, m.push(front)
	case opcode.Rest:
		l, err := m.popList(ErrNotaList)
		if err != nil {
			return false, err
		}
		if _, ok := l.PopFront(); !ok {
			return false, ErrRestEmpty
		}
		return false, m.push(l)

	case opcode.Input:
		var buf [1]byte
		if _, err := io.ReadFull(m.Stdin, buf[:]); err != nil {
			return false, ErrInputClosed
		}
		return false, m.push(value.Byte(buf[0]))
	case opcode.Output:
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		if _, err := io.WriteString(m.Stdout, v.String()); err != nil {
			return false, fmt.Errorf("%w: %v", ErrPrintErr, err)
		}
		return false, nil
	case opcode.Print:
		return false, m.print()
	case opcode.Flush:
		if f, ok := m.Stdout.(flusher); ok {
			if err := f.Flush(); err != nil {
				return false, fmt.Errorf("%w: %v", ErrPrintErr, err)
			}
		}
		return false, nil

	case opcode.End:
		return true, nil

	default:
		return false, fmt.Errorf("unimplemented opcode %s", op)
	}
}

func (m *Machine) binaryNumber(f func(a, b float64) float64) error {
	a, err := m.pop()
	if err != nil {
		return err
	}
	b, err := m.pop()
	if err != nil {
		return err
	}
	return m.push(value.Number(f(value.ToNumber(a), value.ToNumber(b))))
}

func (m *Machine) binaryInteger(f func(a, b int64) int64) error {
	a, err := m.pop()
	if err != nil {
		return err
	}
	b, err := m.pop()
	if err != nil {
		return err
	}
	return m.push(value.Number(float64(f(value.ToInteger(a), value.ToInteger(b)))))
}

func (m *Machine) binaryBool(f func(a, b bool) bool) error {
	a, err := m.pop()
	if err != nil {
		return err
	}
	b, err := m.pop()
	if err != nil {
		return err
	}
	return m.push(value.Bool(f(value.ToBool(a), value.ToBool(b))))
}

func (m *Machine) compare(f func(a, b float64) bool) error {
	a, err := m.pop()
	if err != nil {
		return err
	}
	b, err := m.pop()
	if err != nil {
		return err
	}
	return m.push(value.Bool(f(value.ToNumber(a), value.ToNumber(b))))
}

func (m *Machine) popList(onTypeErr error) (*value.List, error) {
	v, err := m.pop()
	if err != nil {
		return nil, err
	}
	l, ok := v.(*value.List)
	if !ok {
		return nil, onTypeErr
	}
	return l, nil
}

func (m *Machine) readCaptureList() ([]value.Value, error) {
	idx, err := m.readIndexList()
	if err != nil {
		return nil, err
	}
	capture := make([]value.Value, len(idx))
	for i, k := range idx {
		capture[i] = m.frames[m.sp+int(k)].Clone()
	}
	return capture, nil
}

func (m *Machine) readIndexList() ([]uint8, error) {
	n := m.readByte()
	idx := make([]uint8, n)
	for i := range idx {
		idx[i] = m.readByte()
	}
	return idx, nil
}

func (m *Machine) print() error {
	v, err := m.pop()
	if err != nil {
		return err
	}
	var text string
	switch x := v.(type) {
	case value.String:
		text = string(x)
	case value.Byte:
		if _, err := m.Stdout.Write([]byte{byte(x)}); err != nil {
			return fmt.Errorf("%w: %v", ErrPrintErr, err)
		}
		return nil
	case value.Number:
		text = x.String()
	case value.Bool:
		text = x.String()
	default:
		return ErrNotPrintable
	}
	if _, err := io.WriteString(m.Stdout, text); err != nil {
		return fmt.Errorf("%w: %v", ErrPrintErr, err)
	}
	return nil
}
