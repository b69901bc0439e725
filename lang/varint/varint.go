// Package varint implements the self-synchronizing encoding used for pool
// indices and offsets in sognasm bytecode.
//
// Unlike the LEB128 varints used elsewhere in the toolchain's ancestry, this
// encoding has no continuation-bit: a value is a run of 0xFF bytes followed
// by one terminating byte strictly less than 0xFF, and the decoded value is
// simply the sum of every byte consumed. This keeps decoding branch-free and
// means the all-0xFF run length alone determines how many bytes to read.
package varint

// Encode appends the varint encoding of n to dst and returns the result.
func Encode(dst []byte, n uint32) []byte {
	for n >= 0xff {
		dst = append(dst, 0xff)
		n -= 0xff
	}
	return append(dst, byte(n))
}

// Len reports the number of bytes Encode would produce for n.
func Len(n uint32) int {
	return int(n/0xff) + 1
}

// Decode reads a varint from the front of b, returning the decoded value and
// the number of bytes consumed. It returns ok=false if b runs out before a
// terminating (non-0xff) byte is found.
func Decode(b []byte) (n uint32, size int, ok bool) {
	for _, c := range b {
		n += uint32(c)
		size++
		if c != 0xff {
			return n, size, true
		}
	}
	return 0, 0, false
}
