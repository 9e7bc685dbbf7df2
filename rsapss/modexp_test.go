package rsapss

import (
	"math/big"
	"testing"
)

func TestModExp(t *testing.T) {
	sh := newTestRng("modexp")
	for i := 0; i < 4; i++ {
		var n, c, d, z Int4096
		rnd_odd(sh, &n, NumWords>>uint(i))
		rnd_int(sh, &c, NumWords)
		rnd_int(sh, &d, 1+(i*40))
		if err := ModExp(&z, &c, &d, &n); err != nil {
			t.Fatal(err)
		}
		exp := new(big.Int).Exp(to_big(c[:]), to_big(d[:]), to_big(n[:]))
		if to_big(z[:]).Cmp(exp) != 0 {
			t.Fatalf("ERR ModExp (i=%d)", i)
		}
	}
}

func TestModExpZeroExponent(t *testing.T) {
	sh := newTestRng("modexp zero")
	var n, c, d, z Int4096
	rnd_odd(sh, &n, NumWords)
	rnd_int(sh, &c, NumWords)
	z[5] = 42
	if err := ModExp(&z, &c, &d, &n); err != nil {
		t.Fatal(err)
	}
	var one Int4096
	one[0] = 1
	if z != one {
		t.Fatalf("ERR: x^0 != 1")
	}
}

func TestModExpEvenModulus(t *testing.T) {
	var n, c, d, z Int4096
	n[0] = 10
	c[0] = 3
	d[0] = 3
	if err := ModExp(&z, &c, &d, &n); err != ErrEvenModulus {
		t.Fatalf("ERR: even modulus accepted (%v)", err)
	}
	n[0] = 0
	if err := ModExp(&z, &c, &d, &n); err != ErrEvenModulus {
		t.Fatalf("ERR: zero modulus accepted (%v)", err)
	}
}

func TestModExpSmall(t *testing.T) {
	// 4^13 mod 497 = 445; the base is given unreduced and the output
	// aliases the base.
	var n, c, d Int4096
	n[0] = 497
	c[0] = 4 + 497*3
	d[0] = 13
	if err := ModExp(&c, &c, &d, &n); err != nil {
		t.Fatal(err)
	}
	if c[0] != 445 || zint_bit_length(c[1:]) != 0 {
		t.Fatalf("ERR: 4^13 mod 497 = %d", c[0])
	}

	// Everything is zero modulo 1.
	n[0] = 1
	c[0] = 5
	if err := ModExp(&c, &c, &d, &n); err != nil {
		t.Fatal(err)
	}
	if !c.IsZero() {
		t.Fatalf("ERR: 5^13 mod 1 != 0")
	}
}

// The number of Montgomery multiplications must not depend on the
// exponent value: 16 for the table, 4 squarings per window except the
// first, one multiplication per window, one to leave the Montgomery
// domain.
func TestModExpMulCount(t *testing.T) {
	const windows = NumWords * WordBits / expWindow
	const want = 16 + 4*(windows-1) + windows + 1

	sh := newTestRng("modexp count")
	var n, c Int4096
	rnd_odd(sh, &n, NumWords)
	rnd_int(sh, &c, NumWords)

	var one, ones, rnd, high Int4096
	one[0] = 1
	for i := range ones {
		ones[i] = 0xFFFFFFFF
	}
	rnd_int(sh, &rnd, NumWords)
	high[NumWords-1] = 0x80000000

	count := 0
	mont_mul_count = &count
	defer func() { mont_mul_count = nil }()

	for i, d := range []*Int4096{&one, &ones, &rnd, &high} {
		count = 0
		var z Int4096
		if err := ModExp(&z, &c, d, &n); err != nil {
			t.Fatal(err)
		}
		if count != want {
			t.Fatalf("ERR exponent %d: %d multiplications, expected %d", i, count, want)
		}
	}

	count = 0
	var zero, z Int4096
	if err := ModExp(&z, &c, &zero, &n); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("ERR zero exponent: %d multiplications", count)
	}
}
