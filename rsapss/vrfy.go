package rsapss

import (
	"crypto/sha256"
)

// Verify a RSASSA-PSS signature.
//
//	- pub is the verifying key (public)
//	- digest is the SHA-256 hash of the signed message (32 bytes)
//	- sig is the signature to verify (modulus length)
//
// The salt length is expected to be SaltSize. Returned value is true
// for a valid signature, false otherwise (including when the key is not
// usable).
func Verify(pub *PublicKey, digest []byte, sig []byte) bool {
	if pub.check() != nil {
		return false
	}
	if len(digest) != sha256.Size || len(sig) != pub.Size() {
		return false
	}
	var s, e, m Int4096
	if s.SetBytes(sig) != nil || s.Cmp(&pub.N) >= 0 {
		return false
	}
	e[0] = pub.E
	if ModExp(&m, &s, &e, &pub.N) != nil {
		return false
	}

	// The recovered integer must fit on emLen bytes.
	emBits := pub.N.BitLen() - 1
	emLen := (emBits + 7) >> 3
	mb := m.Bytes()
	for _, b := range mb[:IntSize-emLen] {
		if b != 0 {
			return false
		}
	}
	err := emsa_pss_verify(digest, mb[IntSize-emLen:], emBits, SaltSize, sha256.New())
	return err == nil
}
