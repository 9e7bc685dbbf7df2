// Package device runs the signing device: it reads opcodes from the link,
// hands them to the command dispatcher and stops for good on the first
// fatal error.
package device

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/vertohw/rsapss-signer/internal/protocol"
	"github.com/vertohw/rsapss-signer/internal/transport"
	"go.uber.org/zap"
)

// Diagnostic codes emitted when the device halts.
const (
	CodeResource  byte = 'S'
	CodeTransport byte = 'T'
	CodePanic     byte = 'P'
)

// Fatal is the terminal error of the run loop.
type Fatal struct {
	Code byte
	Err  error
}

func (f *Fatal) Error() string {
	return fmt.Sprintf("device: fatal error '%c': %v", f.Code, f.Err)
}

func (f *Fatal) Unwrap() error { return f.Err }

// Handler executes one command. protocol.Dispatcher implements it.
type Handler interface {
	Handle(link transport.Link, op byte) error
}

// Loop is the command loop. The link is owned by the loop while Run is
// active.
type Loop struct {
	link    transport.Link
	diag    *transport.DiagnosticPort
	handler Handler
	logger  *zap.SugaredLogger

	// Cancellation state, guarded by mu. The link is closed on
	// cancellation only while idle (waiting for an opcode).
	mu          sync.Mutex
	idle        bool
	interrupted bool
}

// NewLoop returns a loop serving link. diag receives the fatal code; it
// normally wraps the same link. A nil logger disables logging.
//
// If link is an io.Closer, Run closes it when ctx ends while the loop is
// waiting for an opcode, so that a blocked read returns. A command that
// has started always runs to completion.
func NewLoop(link transport.Link, diag *transport.DiagnosticPort, handler Handler, logger *zap.SugaredLogger) *Loop {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Loop{
		link:    link,
		diag:    diag,
		handler: handler,
		logger:  logger,
	}
}

// Run serves commands until ctx is done or a fatal error occurs. After a
// fatal error the device is halted: the code is emitted on the
// diagnostic port, no further command is read and Run blocks until ctx
// is done, then returns the *Fatal. Otherwise Run returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, l.interrupt)
	defer stop()

	for {
		op, err := l.readOpcode(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return l.halt(ctx, &Fatal{Code: CodeTransport, Err: errors.WithMessage(err, "reading opcode")})
		}
		if f := l.step(op); f != nil {
			return l.halt(ctx, f)
		}
	}
}

func (l *Loop) readOpcode(ctx context.Context) (byte, error) {
	l.mu.Lock()
	if err := ctx.Err(); err != nil {
		l.mu.Unlock()
		return 0, err
	}
	l.idle = true
	l.mu.Unlock()

	op, err := l.link.ReadByte()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.idle = false
	if l.interrupted {
		// The link was closed under the read; whatever it returned is
		// not a command.
		return 0, ctx.Err()
	}
	return op, err
}

// Called once ctx is done.
func (l *Loop) interrupt() {
	c, ok := l.link.(io.Closer)
	if !ok {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.idle {
		l.interrupted = true
		c.Close()
	}
}

func (l *Loop) step(op byte) (f *Fatal) {
	defer func() {
		if r := recover(); r != nil {
			f = &Fatal{Code: CodePanic, Err: errors.Errorf("panic in command 0x%02x: %v", op, r)}
		}
	}()

	err := l.handler.Handle(l.link, op)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, protocol.ErrResource):
		return &Fatal{Code: CodeResource, Err: err}
	case errors.Is(err, protocol.ErrKey):
		// Unusable key material is an internal fault, like a panic.
		return &Fatal{Code: CodePanic, Err: err}
	default:
		return &Fatal{Code: CodeTransport, Err: err}
	}
}

func (l *Loop) halt(ctx context.Context, f *Fatal) error {
	l.logger.Errorw("device halted", "code", string(f.Code), "error", f.Err)
	l.diag.Emit(f.Code)
	<-ctx.Done()
	return f
}
