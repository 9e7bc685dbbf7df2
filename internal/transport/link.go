// Package transport provides the byte-stream links the signing loop runs
// over. The protocol and crypto code depend only on the Link interface;
// every board contributes one way of opening a Link.
package transport

import (
	"bufio"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Link is a duplex byte stream. All calls block.
type Link interface {
	// ReadByte returns the next byte received.
	ReadByte() (byte, error)

	// ReadFull fills buf completely.
	ReadFull(buf []byte) error

	// WriteByte sends one byte.
	WriteByte(b byte) error
}

// Flusher is implemented by links that buffer outgoing bytes. Callers
// flush once a complete response has been written.
type Flusher interface {
	Flush() error
}

// Flush flushes l if it buffers writes.
func Flush(l Link) error {
	if f, ok := l.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Stream is a Link over an io.ReadWriter (a tty, a socket, a pipe).
type Stream struct {
	r *bufio.Reader
	w *bufio.Writer
	c io.Closer
}

// NewStream wraps rw. If rw is also an io.Closer, Close closes it.
func NewStream(rw io.ReadWriter) *Stream {
	s := &Stream{
		r: bufio.NewReader(rw),
		w: bufio.NewWriter(rw),
	}
	if c, ok := rw.(io.Closer); ok {
		s.c = c
	}
	return s
}

func (s *Stream) ReadByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, errors.Wrap(err, "transport: read")
	}
	return b, nil
}

func (s *Stream) ReadFull(buf []byte) error {
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return errors.Wrapf(err, "transport: reading %d bytes", len(buf))
	}
	return nil
}

func (s *Stream) WriteByte(b byte) error {
	return errors.Wrap(s.w.WriteByte(b), "transport: write")
}

func (s *Stream) Flush() error {
	return errors.Wrap(s.w.Flush(), "transport: flush")
}

// Close flushes pending output and closes the underlying stream.
func (s *Stream) Close() error {
	err := s.w.Flush()
	if s.c != nil {
		if cerr := s.c.Close(); err == nil {
			err = cerr
		}
	}
	return errors.Wrap(err, "transport: close")
}

// DiagnosticPort is the handle fault paths use to emit a status byte.
// Concurrent Emit calls are serialized with each other, but not with
// other writers of the link: it must only be used once the command loop
// has stopped writing.
type DiagnosticPort struct {
	mu   sync.Mutex
	link Link
}

// NewDiagnosticPort returns a diagnostic handle writing to link. A nil
// link gives a handle that drops every byte.
func NewDiagnosticPort(link Link) *DiagnosticPort {
	return &DiagnosticPort{link: link}
}

// Emit sends code on a best-effort basis; errors are ignored.
func (d *DiagnosticPort) Emit(code byte) {
	if d == nil || d.link == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.link.WriteByte(code) == nil {
		Flush(d.link)
	}
}
