package rsapss

import (
	"crypto"
	"crypto/rsa"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// ErrInvalidKey is returned when key material cannot be used.
var ErrInvalidKey = errors.New("rsapss: invalid key")

// A public key: modulus n and public exponent e.
type PublicKey struct {
	N Int4096
	E uint32
}

// A private key. The modulus and private exponent are all that signing
// needs; the public exponent is kept for the verification path.
type PrivateKey struct {
	PublicKey
	D Int4096
}

// NewPrivateKey builds a private key from the big-endian encodings of
// the modulus n and private exponent d, and the public exponent e.
// The modulus must be odd and greater than 1, d must be non-zero and
// lower than n, and e must be odd and at least 3.
func NewPrivateKey(n []byte, d []byte, e uint32) (*PrivateKey, error) {
	k := new(PrivateKey)
	if err := k.N.SetBytes(n); err != nil {
		return nil, errors.WithMessage(ErrInvalidKey, "modulus: "+err.Error())
	}
	if err := k.D.SetBytes(d); err != nil {
		return nil, errors.WithMessage(ErrInvalidKey, "private exponent: "+err.Error())
	}
	k.E = e
	if err := k.check(); err != nil {
		return nil, err
	}
	return k, nil
}

func (k *PrivateKey) check() error {
	if err := k.PublicKey.check(); err != nil {
		return err
	}
	if k.D.IsZero() || k.D.Cmp(&k.N) >= 0 {
		return errors.WithMessage(ErrInvalidKey, "private exponent out of range")
	}
	return nil
}

func (pub *PublicKey) check() error {
	if (pub.N[0]&1) == 0 || pub.N.BitLen() < 2 {
		return errors.WithMessage(ErrInvalidKey, "modulus must be odd and greater than 1")
	}
	if (pub.E&1) == 0 || pub.E < 3 {
		return errors.WithMessage(ErrInvalidKey, "invalid public exponent")
	}
	return nil
}

// Size returns the modulus length in bytes, which is also the length
// of a signature.
func (pub *PublicKey) Size() int {
	return (pub.N.BitLen() + 7) >> 3
}

// Equal reports whether pub and x have the same value.
func (pub *PublicKey) Equal(x crypto.PublicKey) bool {
	xx, ok := x.(*PublicKey)
	if !ok {
		return false
	}
	return pub.E == xx.E && pub.N == xx.N
}

// RSA converts the key into the standard library representation (for
// exporting it to other tools; it is not used for signing).
func (pub *PublicKey) RSA() *rsa.PublicKey {
	b := pub.N.Bytes()
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(b[:]),
		E: int(pub.E),
	}
}

// Public returns the public key; it implements crypto.Signer.
func (k *PrivateKey) Public() crypto.PublicKey {
	pub := k.PublicKey
	return &pub
}

// Sign implements crypto.Signer. Only SHA-256 digests are supported,
// with a salt of SaltSize bytes; opts may be a *rsa.PSSOptions whose
// salt length is SaltSize, rsa.PSSSaltLengthAuto or
// rsa.PSSSaltLengthEqualsHash.
func (k *PrivateKey) Sign(rng io.Reader, digest []byte,
	opts crypto.SignerOpts) ([]byte, error) {

	if opts != nil && opts.HashFunc() != crypto.SHA256 {
		return nil, errors.Errorf("rsapss: unsupported hash function %v", opts.HashFunc())
	}
	if po, ok := opts.(*rsa.PSSOptions); ok {
		switch po.SaltLength {
		case rsa.PSSSaltLengthAuto, rsa.PSSSaltLengthEqualsHash, SaltSize:
		default:
			return nil, errors.Errorf("rsapss: unsupported salt length %d", po.SaltLength)
		}
	}
	return Sign(rng, k, digest)
}
