package rsapss

import (
	"github.com/pkg/errors"
)

// ErrEvenModulus is returned by ModExp when the modulus is even (this
// includes zero). Montgomery reduction requires an odd modulus, and RSA
// moduli are always odd.
var ErrEvenModulus = errors.New("rsapss: modulus must be odd")

// Window size (in bits) for the exponentiation.
const expWindow = 4

// ModExp sets z = c^d mod n.
//
// A fixed 4-bit window is used over the whole width of d, so that the
// number of Montgomery multiplications depends only on the integer
// width, not on the exponent value; the table entry for each window is
// read with a constant-time scan. As a special case, if d is zero then
// z is set to 1 and nothing else is computed. c may be larger than n (it
// is reduced first). z may alias c or d, but not n.
func ModExp(z *Int4096, c *Int4096, d *Int4096, n *Int4096) error {
	if d.IsZero() {
		*z = Int4096{}
		z[0] = 1
		return nil
	}
	if (n[0] & 1) == 0 {
		return ErrEvenModulus
	}
	modexp_inner(z[:], c[:], d[:], n[:], NumWords)
	return nil
}

// Inner exponentiation over nw words; n is odd and d is not zero.
func modexp_inner(z []uint32, c []uint32, d []uint32, n []uint32, nw int) {
	n0inv := mont_ninv32(n[0])

	// Reduce the base (the table entries must be congruent to c^k).
	var x Int4096
	if zint_cmp(c[:nw], n[:nw]) >= 0 {
		zint_mod(x[:nw], c[:nw], n[:nw])
	} else {
		copy(x[:nw], c[:nw])
	}

	var rr, one Int4096
	zint_rr(rr[:nw], n[:nw])
	one[0] = 1

	// table[k] = c^k (Montgomery representation)
	var table [1 << expWindow]Int4096
	mont_mul(table[0][:], one[:], rr[:], n, n0inv, nw)
	mont_mul(table[1][:], x[:], rr[:], n, n0inv, nw)
	for k := 2; k < len(table); k++ {
		mont_mul(table[k][:], table[k-1][:], table[1][:], n, n0inv, nw)
	}

	// Process exponent words from the top, four bits at a time. The
	// accumulator starts at 1 (Montgomery), so the squarings for the very
	// first window are skipped.
	acc := table[0]
	var tmp, sel Int4096
	for i := nw - 1; i >= 0; i-- {
		yi := d[i]
		for j := 0; j < WordBits; j += expWindow {
			if i != nw-1 || j != 0 {
				mont_mul(tmp[:], acc[:], acc[:], n, n0inv, nw)
				mont_mul(acc[:], tmp[:], tmp[:], n, n0inv, nw)
				mont_mul(tmp[:], acc[:], acc[:], n, n0inv, nw)
				mont_mul(acc[:], tmp[:], tmp[:], n, n0inv, nw)
			}
			table_select(sel[:nw], &table, yi>>(WordBits-expWindow))
			mont_mul(acc[:], acc[:], sel[:], n, n0inv, nw)
			yi <<= expWindow
		}
	}

	// Convert back out of Montgomery representation.
	mont_mul(z, acc[:], one[:], n, n0inv, nw)
	mont_finish(z[:nw], n[:nw])
}

// Copy table[k] into dst, reading all entries so that the memory access
// pattern does not depend on k.
func table_select(dst []uint32, table *[1 << expWindow]Int4096, k uint32) {
	for i := range dst {
		dst[i] = 0
	}
	for j := range table {
		m := ct_eq(uint32(j), k)
		t := &table[j]
		for i := range dst {
			dst[i] |= t[i] & m
		}
	}
}
