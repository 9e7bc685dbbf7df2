package rsapss

import (
	"hash"
)

// Largest digest size supported by the MGF1 scratch buffer.
const maxDigestSize = 64

// MGF1 mask generation (RFC 8017, B.2.1): XOR into out the successive
// outputs of Hash(seed || counter), with a 32-bit big-endian counter
// starting at 0. The hash function is reset before each block.
//
// The mask length is limited to 2^32 blocks; this function panics if out
// is larger than that (which cannot happen for RSA-sized buffers).
func mgf1_xor(out []byte, h hash.Hash, seed []byte) {
	if uint64(len(out)) > (uint64(1)<<32)*uint64(h.Size()) {
		panic("rsapss: MGF1 mask too long")
	}
	var counter [4]byte
	var scratch [maxDigestSize]byte
	i := 0
	for i < len(out) {
		h.Reset()
		h.Write(seed)
		h.Write(counter[:])
		d := h.Sum(scratch[:0])
		for j := 0; j < len(d) && i < len(out); j++ {
			out[i] ^= d[j]
			i++
		}
		inc_counter(&counter)
	}
}

// Increment a 32-bit big-endian counter.
func inc_counter(c *[4]byte) {
	for i := 3; i >= 0; i-- {
		c[i]++
		if c[i] != 0 {
			return
		}
	}
}
