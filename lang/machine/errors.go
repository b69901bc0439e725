package machine

import "errors"

// Sentinel errors a running Machine can fail with.
var (
	ErrOverflow      = errors.New("machine: stack overflow")
	ErrUnderflow     = errors.New("machine: stack underflow")
	ErrNotaList      = errors.New("machine: not a list")
	ErrEmptyList     = errors.New("machine: empty list")
	ErrNotaClosure   = errors.New("machine: not a closure")
	ErrNotaFunction  = errors.New("machine: not a function")
	ErrHeadEmpty     = errors.New("machine: head of empty list")
	ErrRestEmpty     = errors.New("machine: rest of empty list")
	ErrConcatNotList = errors.New("machine: concat operand is not a list")
	ErrNotPrintable  = errors.New("machine: value is not printable")
	ErrPrintErr      = errors.New("machine: output write failed")
	ErrInputClosed   = errors.New("machine: input exhausted")
)
