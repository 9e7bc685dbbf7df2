//go:build !linux

package transport

import (
	"github.com/pkg/errors"
)

// OpenSerial is only implemented on Linux.
func OpenSerial(path string, baud int) (*Stream, error) {
	return nil, errors.Errorf("transport: serial links are not supported on this platform (%s)", path)
}
