package rsapss

import (
	"github.com/pkg/errors"
)

// Fixed-width bignum implementation.
//
// Integers are unsigned and use NumWords words of 32 bits each, in
// low-to-high order. Every value involved in an operation has the same
// width, so that the operand arrays always share their length; all
// arithmetic wraps modulo 2^(32*NumWords) and never reports an overflow.
// Functions with a zint_ prefix work on word slices (for the benefit of
// the Montgomery code which uses a double-width buffer); the Int4096 type
// carries the fixed width for the public API.

const (
	// Size of a word, in bits.
	WordBits = 32

	// Number of words in an Int4096.
	NumWords = 128

	// Size of an Int4096 when encoded, in bytes.
	IntSize = NumWords * (WordBits / 8)
)

// Int4096 is an unsigned integer modulo 2^4096.
type Int4096 [NumWords]uint32

// ErrIntegerTooLarge is returned when decoding a value that does not fit
// on 4096 bits.
var ErrIntegerTooLarge = errors.New("rsapss: integer does not fit on 4096 bits")

// SetBytes decodes the big-endian value b into x. Inputs shorter than
// IntSize are implicitly left-padded with zeros; longer inputs are
// accepted only if the extra leading bytes are all zero.
func (x *Int4096) SetBytes(b []byte) error {
	for len(b) > IntSize {
		if b[0] != 0 {
			return ErrIntegerTooLarge
		}
		b = b[1:]
	}
	*x = Int4096{}
	j := 0
	for i := len(b) - 1; i >= 0; i-- {
		x[j>>2] |= uint32(b[i]) << ((j & 3) << 3)
		j++
	}
	return nil
}

// Bytes returns the big-endian encoding of x over exactly IntSize bytes.
func (x *Int4096) Bytes() [IntSize]byte {
	var b [IntSize]byte
	for i := 0; i < NumWords; i++ {
		w := x[i]
		k := IntSize - 4 - (i << 2)
		b[k] = byte(w >> 24)
		b[k+1] = byte(w >> 16)
		b[k+2] = byte(w >> 8)
		b[k+3] = byte(w)
	}
	return b
}

// BitLen returns the length of x in bits (0 for zero).
func (x *Int4096) BitLen() int {
	return zint_bit_length(x[:])
}

// IsZero reports whether x is zero.
func (x *Int4096) IsZero() bool {
	return zint_is_zero(x[:])
}

// Cmp returns -1, 0 or 1, depending on whether x is lower than, equal
// to, or greater than y.
func (x *Int4096) Cmp(y *Int4096) int {
	return zint_cmp(x[:], y[:])
}

// Add b to a. Both slices have the same length. The carry word (0 or 1)
// is returned; the result is truncated to the slice width.
func zint_add(a []uint32, b []uint32) uint32 {
	cc := uint32(0)
	for i := 0; i < len(a); i++ {
		z := uint64(a[i]) + uint64(b[i]) + uint64(cc)
		a[i] = uint32(z)
		cc = uint32(z >> 32)
	}
	return cc
}

// Subtract b from a if ctl = 1; a is unchanged if ctl = 0. The borrow
// of the subtraction is returned in both cases. Control value ctl must
// be 0 or 1.
func zint_sub(a []uint32, b []uint32, ctl uint32) uint32 {
	cc := uint32(0)
	m := -ctl
	for i := 0; i < len(a); i++ {
		aw := a[i]
		z := uint64(aw) - uint64(b[i]) - uint64(cc)
		cc = uint32(z>>32) & 1
		a[i] = aw ^ ((uint32(z) ^ aw) & m)
	}
	return cc
}

// Add s*a to d. d and a have the same length; the carry word is
// returned. This is the single-word multiply-accumulate step of the
// Montgomery multiplication.
func zint_add_mul_small(d []uint32, a []uint32, s uint32) uint32 {
	cc := uint32(0)
	for i := 0; i < len(a); i++ {
		z := uint64(a[i])*uint64(s) + uint64(d[i]) + uint64(cc)
		d[i] = uint32(z)
		cc = uint32(z >> 32)
	}
	return cc
}

// Compare a with b; returned value is -1, 0 or 1.
func zint_cmp(a []uint32, b []uint32) int {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func zint_is_zero(a []uint32) bool {
	r := uint32(0)
	for _, w := range a {
		r |= w
	}
	return r == 0
}

func zint_bit_length(a []uint32) int {
	for i := len(a) - 1; i >= 0; i-- {
		if w := a[i]; w != 0 {
			n := 0
			for w != 0 {
				n++
				w >>= 1
			}
			return (i << 5) + n
		}
	}
	return 0
}

// Double a modulo m. On input, a < m; on output, a < m. The top bit
// shifted out of a is folded back through the conditional subtraction.
func zint_double_mod(a []uint32, m []uint32) {
	hi := uint32(0)
	for i := 0; i < len(a); i++ {
		w := a[i]
		a[i] = (w << 1) | hi
		hi = w >> 31
	}
	ctl := hi
	if zint_cmp(a, m) >= 0 {
		ctl = 1
	}
	zint_sub(a, m, ctl)
}

// Compute r = a mod m (wrapping remainder). The remainder is built by
// injecting the bits of a one at a time, from the top, with a doubling
// and a conditional subtraction each time. r and m have the same length;
// a may be of any length. r must not overlap with a or m. m must not be
// zero.
func zint_mod(r []uint32, a []uint32, m []uint32) {
	for i := range r {
		r[i] = 0
	}
	for i := len(a) - 1; i >= 0; i-- {
		aw := a[i]
		for j := 31; j >= 0; j-- {
			bit := (aw >> uint(j)) & 1
			for k := 0; k < len(r); k++ {
				w := r[k]
				r[k] = (w << 1) | bit
				bit = w >> 31
			}
			ctl := bit
			if zint_cmp(r, m) >= 0 {
				ctl = 1
			}
			zint_sub(r, m, ctl)
		}
	}
}

// Compute rr = 2^(2*32*len(m)) mod m, i.e. R^2 mod m for the Montgomery
// radix R = 2^(32*len(m)). m must be odd.
func zint_rr(rr []uint32, m []uint32) {
	for i := range rr {
		rr[i] = 0
	}
	rr[0] = 1
	if zint_cmp(rr, m) >= 0 {
		// m = 1: every value is zero.
		rr[0] = 0
		return
	}
	for i := 0; i < 2*WordBits*len(m); i++ {
		zint_double_mod(rr, m)
	}
}

// Return 0xFFFFFFFF if x == y, 0 otherwise.
func ct_eq(x uint32, y uint32) uint32 {
	q := x ^ y
	return ((q | -q) >> 31) - 1
}
