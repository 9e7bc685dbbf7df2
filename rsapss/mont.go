package rsapss

// Montgomery arithmetic.
//
// With R = 2^(32*nw), the Montgomery representation of x modulo an odd m
// is x*R mod m. mont_mul() computes x*y/R mod m, using the constant
// n0inv = -1/m[0] mod 2^32.

// Given an odd x, compute -1/x mod 2^32. Each Newton iteration doubles
// the number of correct low bits of the inverse; starting from 1 (which
// is correct on 1 bit for any odd x), five rounds reach 32 bits.
func mont_ninv32(x uint32) uint32 {
	y := uint32(1)
	for i := 0; i < 5; i++ {
		y *= 2 - x*y
	}
	return -y
}

// When not nil, incremented by each mont_mul() call. Only tests set it.
var mont_mul_count *int

// Almost Montgomery multiplication (Gueron): z <- x*y/R mod m, over nw
// words. Inputs x and y must be lower than R; m must be odd and n0inv
// must be -1/m[0] mod 2^32.
//
// Each round accumulates x*y[i] into a double-width buffer, then adds
// the multiple of m that clears the low word; carries out of the top
// word are tracked in a single bit. When the final carry is set, m is
// subtracted once. The output is lower than R and congruent to x*y/R,
// but it is NOT necessarily lower than m; the caller must apply
// mont_finish() after the last multiplication.
//
// z may alias x or y (it is written only once all words have been read);
// z must not alias m.
func mont_mul(z []uint32, x []uint32, y []uint32, m []uint32,
	n0inv uint32, nw int) {

	if mont_mul_count != nil {
		*mont_mul_count++
	}

	var buf [2 * NumWords]uint32
	w := buf[:2*nw]
	cc := uint32(0)
	for i := 0; i < nw; i++ {
		c2 := zint_add_mul_small(w[i:i+nw], x[:nw], y[i])
		t := w[i] * n0inv
		c3 := zint_add_mul_small(w[i:i+nw], m[:nw], t)
		s := uint64(cc) + uint64(c2) + uint64(c3)
		w[nw+i] = uint32(s)
		cc = uint32(s >> 32)
	}
	copy(z[:nw], w[nw:])
	zint_sub(z[:nw], m[:nw], cc)
}

// Bring z into [0, m-1]. A single conditional subtraction suffices for
// any output of mont_mul() that followed a multiplication by 1; if the
// value is still not reduced, a full remainder is computed.
func mont_finish(z []uint32, m []uint32) {
	if zint_cmp(z, m) < 0 {
		return
	}
	zint_sub(z, m, 1)
	if zint_cmp(z, m) >= 0 {
		var t Int4096
		r := t[:len(m)]
		zint_mod(r, z, m)
		copy(z, r)
	}
}
