package rsapss

import (
	"math/big"
	"testing"
)

func TestMontNinv32(t *testing.T) {
	sh := newTestRng("mont ninv")
	for i := 0; i < 1000; i++ {
		var x Int4096
		rnd_int(sh, &x, 1)
		m := x[0] | 1
		if m*mont_ninv32(m) != 0xFFFFFFFF {
			t.Fatalf("ERR mont_ninv32(%08x) = %08x", m, mont_ninv32(m))
		}
	}
	if mont_ninv32(1) != 0xFFFFFFFF {
		t.Fatalf("ERR mont_ninv32(1)")
	}
}

func TestMontMul(t *testing.T) {
	sh := newTestRng("mont mul")
	R := new(big.Int).Lsh(big.NewInt(1), 32*NumWords)
	for i := 0; i < 20; i++ {
		var m, x, y, z Int4096
		nw := NumWords
		if i&1 != 0 {
			// Short moduli still use the full width, with R = 2^4096.
			rnd_odd(sh, &m, 1+i)
		} else {
			rnd_odd(sh, &m, nw)
		}
		rnd_int(sh, &x, nw)
		rnd_int(sh, &y, nw)
		zm := to_big(m[:])
		n0inv := mont_ninv32(m[0])
		mont_mul(z[:], x[:], y[:], m[:], n0inv, nw)

		// Output fits in the width and z*R = x*y mod m.
		lhs := new(big.Int).Mul(to_big(z[:]), R)
		lhs.Mod(lhs, zm)
		rhs := new(big.Int).Mul(to_big(x[:]), to_big(y[:]))
		rhs.Mod(rhs, zm)
		if lhs.Cmp(rhs) != 0 {
			t.Fatalf("ERR mont_mul (i=%d)", i)
		}

		// After multiplication by 1, mont_finish yields the reduced value.
		var one Int4096
		one[0] = 1
		mont_mul(z[:], z[:], one[:], m[:], n0inv, nw)
		mont_finish(z[:], m[:])
		exp := new(big.Int).ModInverse(R, zm)
		exp.Mul(exp, exp)
		exp.Mul(exp, rhs)
		exp.Mod(exp, zm)
		if to_big(z[:]).Cmp(exp) != 0 {
			t.Fatalf("ERR mont_mul/mont_finish (i=%d)", i)
		}
	}
}

func TestMontFinish(t *testing.T) {
	// Values far above m go through the full remainder.
	var z, m Int4096
	m[0] = 0x10001
	for i := range z {
		z[i] = 0xDEADBEEF
	}
	exp := new(big.Int).Mod(to_big(z[:]), to_big(m[:]))
	mont_finish(z[:], m[:])
	if to_big(z[:]).Cmp(exp) != 0 {
		t.Fatalf("ERR mont_finish full reduction")
	}

	z = m
	z[0] += 5
	mont_finish(z[:], m[:])
	if !(z[0] == 5 && zint_bit_length(z[1:]) == 0) {
		t.Fatalf("ERR mont_finish single subtraction")
	}
}
