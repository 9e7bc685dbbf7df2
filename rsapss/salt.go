package rsapss

import (
	"crypto/rand"
	"io"

	sha3 "golang.org/x/crypto/sha3"
)

// Source of salts when the caller does not provide one.
func saltSource() io.Reader {
	return rand.Reader
}

// NewSeededSaltReader returns a deterministic stream of salt bytes,
// obtained as the SHAKE256 output over the provided seed. Two readers
// built from the same seed yield the same salts; this is meant for
// reproducible test vectors only, never for production signatures.
func NewSeededSaltReader(seed []byte) io.Reader {
	sh := sha3.NewShake256()
	sh.Write(seed)
	return sh
}
