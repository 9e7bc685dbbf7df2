// Package keys holds the RSA key pairs compiled into the firmware. Keys
// are constants: they are never loaded, generated or rotated at runtime.
package keys

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/vertohw/rsapss-signer/rsapss"
)

// PublicExponent is the public exponent of every compiled-in key.
const PublicExponent = 65537

// Device returns the 4096-bit signing key of the device. Each call
// returns a fresh copy.
func Device() *rsapss.PrivateKey {
	return mustParse("device", deviceModulus, devicePrivateExponent)
}

// Test returns the 2048-bit key used for regression vectors.
func Test() *rsapss.PrivateKey {
	return mustParse("test", testModulus, testPrivateExponent)
}

// Parse decodes a key pair given as hexadecimal big-endian strings.
func Parse(n string, d string, e uint32) (*rsapss.PrivateKey, error) {
	nb, err := hex.DecodeString(n)
	if err != nil {
		return nil, errors.Wrap(err, "decoding modulus")
	}
	db, err := hex.DecodeString(d)
	if err != nil {
		return nil, errors.Wrap(err, "decoding private exponent")
	}
	return rsapss.NewPrivateKey(nb, db, e)
}

func mustParse(name string, n string, d string) *rsapss.PrivateKey {
	k, err := Parse(n, d, PublicExponent)
	if err != nil {
		panic(errors.WithMessagef(err, "compiled-in %s key", name))
	}
	return k
}
