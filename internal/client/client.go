// Package client is the host side of the device protocol.
package client

import (
	"github.com/pkg/errors"
	"github.com/vertohw/rsapss-signer/internal/protocol"
	"github.com/vertohw/rsapss-signer/internal/transport"
)

// ErrUnexpectedResponse is returned when the device answers with a byte
// the protocol does not allow.
var ErrUnexpectedResponse = errors.New("client: unexpected response")

// Client sends commands to a device over a link.
type Client struct {
	link    transport.Link
	sigSize int
}

// New returns a client for a device whose key has a sigSize-byte
// modulus (512 for the device key).
func New(link transport.Link, sigSize int) *Client {
	return &Client{link: link, sigSize: sigSize}
}

// Sign asks the device to sign a SHA-256 digest.
//
// The device answers with a lone 'E' only when the digest cannot be
// encoded, which does not happen for 32-byte digests and the key sizes
// the device supports, so the full signature is always read.
func (c *Client) Sign(digest []byte) ([]byte, error) {
	if len(digest) != protocol.DigestSize {
		return nil, errors.Errorf("client: digest has length %d, expected %d", len(digest), protocol.DigestSize)
	}
	if err := c.send(byte(protocol.Sign), digest); err != nil {
		return nil, err
	}
	sig := make([]byte, c.sigSize)
	if err := c.link.ReadFull(sig); err != nil {
		return nil, errors.WithMessage(err, "client: reading signature")
	}
	return sig, nil
}

// Verify asks the device whether sig is a valid signature of digest.
func (c *Client) Verify(digest []byte, sig []byte) (bool, error) {
	if len(digest) != protocol.DigestSize {
		return false, errors.Errorf("client: digest has length %d, expected %d", len(digest), protocol.DigestSize)
	}
	if len(sig) != c.sigSize {
		return false, errors.Errorf("client: signature has length %d, expected %d", len(sig), c.sigSize)
	}
	if err := c.send(byte(protocol.Verify), digest, sig); err != nil {
		return false, err
	}
	r, err := c.link.ReadByte()
	if err != nil {
		return false, errors.WithMessage(err, "client: reading verification result")
	}
	switch r {
	case protocol.VerifyValid:
		return true, nil
	case protocol.VerifyInvalid:
		return false, nil
	default:
		return false, errors.Wrapf(ErrUnexpectedResponse, "verify returned 0x%02x", r)
	}
}

func (c *Client) send(op byte, payload ...[]byte) error {
	if err := c.link.WriteByte(op); err != nil {
		return errors.WithMessage(err, "client: sending opcode")
	}
	for _, p := range payload {
		for _, b := range p {
			if err := c.link.WriteByte(b); err != nil {
				return errors.WithMessage(err, "client: sending payload")
			}
		}
	}
	return errors.WithMessage(transport.Flush(c.link), "client: flush")
}
