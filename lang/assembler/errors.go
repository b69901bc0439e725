package assembler

import "errors"

// Sentinel errors returned by Assemble, wrapped with context via fmt.Errorf
// and %w so callers can match them with errors.Is.
var (
	// ErrParse covers malformed operand text: an index or list entry that
	// isn't a valid non-negative integer.
	ErrParse = errors.New("assembler: parse error")
	// ErrUnknownLabel is returned when a Call or Func instruction names a
	// label that never appears as a function definition.
	ErrUnknownLabel = errors.New("assembler: unknown label")
	// ErrBadEscape is returned for a malformed escape sequence in a string
	// or character literal.
	ErrBadEscape = errors.New("assembler: bad escape sequence")
	// ErrNumberParse is returned when a Num literal fails to parse as a
	// float.
	ErrNumberParse = errors.New("assembler: invalid numeric literal")
	// ErrByteOverflow is returned when an index or literal byte operand
	// doesn't fit in 0-255.
	ErrByteOverflow = errors.New("assembler: byte operand overflows 0-255")
)
