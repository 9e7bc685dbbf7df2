package rsapss

import (
	"crypto/sha256"
	"io"

	"github.com/pkg/errors"
)

// Length of the salt used for signatures, in bytes. It matches the
// SHA-256 output length.
const SaltSize = sha256.Size

// Sign a SHA-256 digest with RSASSA-PSS.
//
//	- rng is the random source for the salt (nil to use the OS RNG)
//	- key is the signing key (private)
//	- digest is the SHA-256 hash of the message (32 bytes)
//
// Using the OS RNG (i.e. setting rng to nil) is recommended. If an
// explicit random source is provided, then the caller MUST make sure that
// it provides sufficient entropy: a predictable salt voids the security
// proof of PSS.
// The signature length is always the modulus length in bytes.
func Sign(rng io.Reader, key *PrivateKey, digest []byte) ([]byte, error) {
	var salt [SaltSize]byte
	if rng == nil {
		rng = saltSource()
	}
	if _, err := io.ReadFull(rng, salt[:]); err != nil {
		return nil, errors.Wrap(err, "rsapss: reading salt")
	}
	return SignWithSalt(key, digest, salt[:])
}

// SignWithSalt is like Sign but uses an explicit salt; this is used for
// reproducible test vectors. The salt may have any length up to
// key.Size() - 34 bytes; an ErrEncoding error is returned otherwise, or
// if the digest is not exactly 32 bytes.
func SignWithSalt(key *PrivateKey, digest []byte, salt []byte) ([]byte, error) {
	if err := key.check(); err != nil {
		return nil, err
	}

	// emBits = modBits - 1, so that the encoded message, as an integer,
	// is always lower than the modulus.
	emBits := key.N.BitLen() - 1
	emLen := (emBits + 7) >> 3
	var em [IntSize]byte
	if err := emsa_pss_encode(em[:emLen], digest, salt, emBits, sha256.New()); err != nil {
		return nil, err
	}

	// Private-key transform of the encoded message.
	var c, m Int4096
	if err := c.SetBytes(em[:emLen]); err != nil {
		return nil, err
	}
	if err := ModExp(&m, &c, &key.D, &key.N); err != nil {
		return nil, err
	}
	mb := m.Bytes()
	return LeftPad(trim_leading_zeros(mb[:]), key.Size()), nil
}

// LeftPad returns a slice of exactly size bytes containing in, with
// leading zeros added as needed. If in is longer than size, only its
// trailing size bytes are kept.
func LeftPad(in []byte, size int) []byte {
	n := len(in)
	if n > size {
		n = size
	}
	out := make([]byte, size)
	copy(out[size-n:], in[len(in)-n:])
	return out
}

func trim_leading_zeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
