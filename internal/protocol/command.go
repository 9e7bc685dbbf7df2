// Package protocol implements the one-byte-opcode command protocol of
// the signing device.
//
// A request is an opcode byte followed by a fixed-size payload; the
// response, if any, has a fixed size as well:
//
//	0x00 Sign        in: 32-byte digest            out: signature, or 'E'
//	0x01 Verify      in: digest, signature         out: 0x01 valid, 0x00 invalid
//	0x02 GetOwner    (not implemented, no response)
//	0x03 GetAddress  (not implemented, no response)
//
// Any other opcode is ignored: no payload is read and nothing is sent.
package protocol

import "fmt"

// Command is a request opcode.
type Command byte

const (
	Sign       Command = 0x00
	Verify     Command = 0x01
	GetOwner   Command = 0x02
	GetAddress Command = 0x03
)

const (
	// DigestSize is the size of the SHA-256 digest in Sign and Verify
	// requests.
	DigestSize = 32

	// StatusEncodingError is sent instead of a signature when the
	// digest cannot be encoded.
	StatusEncodingError = 'E'

	// Verify responses.
	VerifyInvalid = 0x00
	VerifyValid   = 0x01
)

// ParseCommand decodes an opcode byte.
func ParseCommand(b byte) (Command, bool) {
	switch c := Command(b); c {
	case Sign, Verify, GetOwner, GetAddress:
		return c, true
	default:
		return 0, false
	}
}

func (c Command) String() string {
	switch c {
	case Sign:
		return "sign"
	case Verify:
		return "verify"
	case GetOwner:
		return "get-owner"
	case GetAddress:
		return "get-address"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(c))
	}
}
