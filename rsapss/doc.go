// This package implements RSASSA-PSS signatures (RFC 8017) with SHA-256,
// MGF1-SHA-256 and a 32-byte salt, over moduli of up to 4096 bits.
//
// The package is meant for devices with a small amount of RAM. It does
// not use math/big or any other general bignum code: integers have a
// fixed width of 4096 bits (the [Int4096] type, 128 words of 32 bits),
// and all working buffers on the signing path are fixed-size arrays. The
// modular exponentiation ([ModExp]) uses Montgomery multiplication with a
// fixed 4-bit window, so that the number of multiplications does not
// depend on the exponent value; this is basic hardening against timing
// attacks, but individual word operations are not claimed to be
// constant-time.
//
// A private key ([PrivateKey]) consists of the modulus n, the private
// exponent d and the public exponent e; keys are not generated by this
// package. A signature is computed over a SHA-256 digest with [Sign],
// which draws a fresh salt from a random source (nil means the
// operating system's RNG, through crypto/rand.Reader). [SignWithSalt]
// takes the salt explicitly and is meant for reproducible test vectors;
// [NewSeededSaltReader] provides a deterministic salt stream for the
// same purpose. Signatures always have the length of the modulus, in
// bytes, and are verified with [Verify].
//
// Only odd moduli are supported; [ModExp] returns [ErrEvenModulus]
// otherwise. Encoding failures (wrong digest length, salt too long for
// the modulus) are reported as [ErrEncoding].
package rsapss
