package rsapss

import (
	"crypto/subtle"
	"hash"

	"github.com/pkg/errors"
)

var (
	// ErrEncoding reports a PSS encoding failure: the digest does not
	// have the length of the hash output, or the salt is too long for
	// the modulus size.
	ErrEncoding = errors.New("rsapss: encoding error")

	// ErrVerification reports an encoded message that does not match
	// the expected digest.
	ErrVerification = errors.New("rsapss: verification error")
)

// EMSA-PSS encoding (RFC 8017, 9.1.1).
//
//	em       output buffer, of length exactly emLen = ceil(emBits/8)
//	mHash    message digest (must have the hash output length)
//	salt     salt value (at most emLen - hLen - 2 bytes)
//	emBits   maximum bit length of the encoded integer (modulus bits - 1)
//	h        hash function (used both for H and for MGF1)
//
// Layout of the output: maskedDB || H || 0xBC, with
// DB = 0x00..00 || 0x01 || salt and H = Hash(0x00 * 8 || mHash || salt).
func emsa_pss_encode(em []byte, mHash []byte, salt []byte,
	emBits int, h hash.Hash) error {

	hLen := h.Size()
	sLen := len(salt)
	emLen := (emBits + 7) >> 3
	if len(mHash) != hLen {
		return errors.Wrapf(ErrEncoding,
			"digest has length %d, expected %d", len(mHash), hLen)
	}
	if emLen < hLen+sLen+2 {
		return errors.Wrapf(ErrEncoding,
			"salt has length %d, at most %d allowed", sLen, emLen-hLen-2)
	}
	if len(em) != emLen {
		panic("rsapss: wrong encoded message buffer size")
	}

	db := em[:emLen-hLen-1]
	hh := em[emLen-hLen-1 : emLen-1]

	// H = Hash(M'), with M' = 0x00 * 8 || mHash || salt
	var prefix [8]byte
	h.Reset()
	h.Write(prefix[:])
	h.Write(mHash)
	h.Write(salt)
	h.Sum(hh[:0])

	// DB = PS || 0x01 || salt, then masked with MGF1(H).
	for i := range db {
		db[i] = 0
	}
	db[emLen-sLen-hLen-2] = 0x01
	copy(db[emLen-sLen-hLen-1:], salt)
	mgf1_xor(db, h, hh)

	// Clear the leftmost 8*emLen - emBits bits.
	db[0] &= 0xFF >> uint(8*emLen-emBits)

	em[emLen-1] = 0xBC
	return nil
}

// EMSA-PSS verification (RFC 8017, 9.1.2). The em buffer has length
// ceil(emBits/8) and is modified in place (the data block is unmasked).
// sLen is the expected salt length.
func emsa_pss_verify(mHash []byte, em []byte, emBits int, sLen int,
	h hash.Hash) error {

	hLen := h.Size()
	emLen := (emBits + 7) >> 3
	if len(mHash) != hLen || len(em) != emLen {
		return ErrVerification
	}
	if emLen < hLen+sLen+2 {
		return ErrVerification
	}
	if em[emLen-1] != 0xBC {
		return errors.WithMessage(ErrVerification, "bad trailer byte")
	}

	db := em[:emLen-hLen-1]
	hh := em[emLen-hLen-1 : emLen-1]

	// The leftmost 8*emLen - emBits bits must be zero.
	topMask := byte(0xFF >> uint(8*emLen-emBits))
	if (db[0] &^ topMask) != 0 {
		return errors.WithMessage(ErrVerification, "top bits are not cleared")
	}

	mgf1_xor(db, h, hh)
	db[0] &= topMask

	// DB must be PS || 0x01 || salt with PS all zeros.
	psLen := emLen - hLen - sLen - 2
	for _, b := range db[:psLen] {
		if b != 0 {
			return errors.WithMessage(ErrVerification, "non-zero padding")
		}
	}
	if db[psLen] != 0x01 {
		return errors.WithMessage(ErrVerification, "missing separator")
	}
	salt := db[len(db)-sLen:]

	var prefix [8]byte
	var scratch [maxDigestSize]byte
	h.Reset()
	h.Write(prefix[:])
	h.Write(mHash)
	h.Write(salt)
	h2 := h.Sum(scratch[:0])
	if subtle.ConstantTimeCompare(h2, hh) != 1 {
		return ErrVerification
	}
	return nil
}
