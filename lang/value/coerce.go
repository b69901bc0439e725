package value

import (
	"math"
	"strconv"
)

// ToNumber applies the toNumber coercion: Number is itself; Byte widens to
// float; Bool maps to 1.0/0.0; List yields its length; String is parsed as
// a float, yielding NaN on failure; Function and Closure both yield NaN.
func ToNumber(v Value) float64 {
	switch x := v.(type) {
	case Number:
		return float64(x)
	case Byte:
		return float64(x)
	case Bool:
		if x {
			return 1.0
		}
		return 0.0
	case *List:
		return float64(x.Len())
	case String:
		f, err := strconv.ParseFloat(string(x), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case Function, *Closure:
		return math.NaN()
	default:
		return math.NaN()
	}
}

// ToInteger applies the toInteger coercion: truncate ToNumber, except that
// Function and Closure, and any other value whose ToNumber is NaN (such as
// an unparsable String), yield 0 (not the truncation of NaN, which is not a
// well-defined int64 conversion in Go).
func ToInteger(v Value) int64 {
	switch v.(type) {
	case Function, *Closure:
		return 0
	}
	n := ToNumber(v)
	if math.IsNaN(n) {
		return 0
	}
	return int64(n)
}

// ToBool applies the toBool coercion. Note the inversion for Number: this
// predicate is zero-is-true, the literal inverse of the usual truthiness
// convention. It is reproduced exactly because observable VM behaviour
// depends on it.
func ToBool(v Value) bool {
	switch x := v.(type) {
	case Number:
		return float64(x) == 0.0
	case Byte:
		return x == 0
	case Bool:
		return bool(x)
	case *List:
		return x.Len() == 0
	case String:
		return len(x) == 0
	case Function, *Closure:
		return false
	default:
		return false
	}
}

// Type tag bytes returned by TypeTag.
const (
	TagNumber   Byte = 'n'
	TagFunction Byte = 'f'
	TagClosure  Byte = 'c'
	TagList     Byte = 'l'
	TagString   Byte = 's'
	TagByte     Byte = 'x'
	TagBool     Byte = 'b'
)

// TypeTag returns the one-byte type tag for v.
func TypeTag(v Value) Byte {
	switch v.(type) {
	case Number:
		return TagNumber
	case Function:
		return TagFunction
	case *Closure:
		return TagClosure
	case *List:
		return TagList
	case String:
		return TagString
	case Byte:
		return TagByte
	case Bool:
		return TagBool
	default:
		panic("value: unknown type in TypeTag")
	}
}
