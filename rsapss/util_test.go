package rsapss

import (
	"math/big"

	sha3 "golang.org/x/crypto/sha3"
)

// Test helpers: a deterministic source of test integers (SHAKE256 over
// a label) and conversions to and from math/big, which serves as the
// reference implementation in tests.

func newTestRng(label string) sha3.ShakeHash {
	sh := sha3.NewShake256()
	sh.Write([]byte(label))
	return sh
}

// Fill x with random words; only the low nw words are set.
func rnd_int(sh sha3.ShakeHash, x *Int4096, nw int) {
	var buf [4]byte
	*x = Int4096{}
	for i := 0; i < nw; i++ {
		sh.Read(buf[:])
		x[i] = uint32(buf[0]) | (uint32(buf[1]) << 8) |
			(uint32(buf[2]) << 16) | (uint32(buf[3]) << 24)
	}
}

func rnd_odd(sh sha3.ShakeHash, x *Int4096, nw int) {
	rnd_int(sh, x, nw)
	x[0] |= 1
	x[nw-1] |= 0x80000000
}

func to_big(a []uint32) *big.Int {
	z := new(big.Int)
	for i := len(a) - 1; i >= 0; i-- {
		z.Lsh(z, 32)
		z.Or(z, big.NewInt(int64(a[i])))
	}
	return z
}

func from_big(x *Int4096, z *big.Int) {
	var b [IntSize]byte
	z.FillBytes(b[:])
	if err := x.SetBytes(b[:]); err != nil {
		panic(err)
	}
}
