package protocol

import (
	"io"

	"code.cloudfoundry.org/clock"
	"github.com/pkg/errors"
	"github.com/vertohw/rsapss-signer/internal/transport"
	"github.com/vertohw/rsapss-signer/rsapss"
	"go.uber.org/zap"
)

var (
	// ErrResource reports that a resource needed by a command (such as
	// the salt source) is unavailable. It is fatal for the device.
	ErrResource = errors.New("protocol: resource unavailable")

	// ErrKey reports that the signing key cannot be used. It is fatal
	// for the device.
	ErrKey = errors.New("protocol: unusable key")
)

// fault tags err with one of the sentinels above while keeping err as
// the cause.
type fault struct {
	kind error
	err  error
}

func (f *fault) Error() string        { return f.kind.Error() + ": " + f.err.Error() }
func (f *fault) Unwrap() error        { return f.err }
func (f *fault) Is(target error) bool { return target == f.kind }
func (f *fault) Cause() error         { return f.err }

// Dispatcher executes commands read from a link. It owns the key pair,
// which it never modifies.
type Dispatcher struct {
	key     *rsapss.PrivateKey
	salt    io.Reader
	clock   clock.Clock
	metrics *Metrics
	logger  *zap.SugaredLogger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSaltSource sets the random source for salts. The default (nil)
// is the operating system's RNG.
func WithSaltSource(r io.Reader) Option {
	return func(d *Dispatcher) { d.salt = r }
}

// WithClock sets the clock used to time signatures.
func WithClock(c clock.Clock) Option {
	return func(d *Dispatcher) { d.clock = c }
}

// WithMetrics enables metrics.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// NewDispatcher returns a dispatcher signing with key.
func NewDispatcher(key *rsapss.PrivateKey, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		key:    key,
		clock:  clock.NewClock(),
		logger: zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// SignatureSize is the size of signatures in Sign responses and Verify
// requests (the modulus length of the key, 512 bytes for the device).
func (d *Dispatcher) SignatureSize() int {
	return d.key.Size()
}

// Handle executes the command with opcode op, reading its payload from
// link and writing the response to it. Unknown opcodes are ignored.
// A returned error means that the link (or another resource) failed;
// the caller must treat it as fatal.
func (d *Dispatcher) Handle(link transport.Link, op byte) error {
	cmd, ok := ParseCommand(op)
	if !ok {
		d.logger.Debugf("ignoring opcode 0x%02x", op)
		d.metrics.command("unknown", resultIgnored)
		return nil
	}

	d.logger.Debugw("processing command", "command", cmd)
	var err error
	switch cmd {
	case Sign:
		err = d.sign(link)
	case Verify:
		err = d.verify(link)
	case GetOwner, GetAddress:
		d.logger.Infow("command not implemented", "command", cmd)
		d.metrics.command(cmd.String(), resultUnimplemented)
		return nil
	}
	if err != nil {
		d.metrics.command(cmd.String(), resultFailed)
		return errors.WithMessagef(err, "%s", cmd)
	}
	return nil
}

func (d *Dispatcher) sign(link transport.Link) error {
	var digest [DigestSize]byte
	if err := link.ReadFull(digest[:]); err != nil {
		return errors.WithMessage(err, "reading digest")
	}

	start := d.clock.Now()
	sig, err := rsapss.Sign(d.salt, d.key, digest[:])
	switch {
	case errors.Is(err, rsapss.ErrEncoding):
		d.logger.Warnw("cannot encode digest", "error", err)
		d.metrics.command(Sign.String(), resultEncodingError)
		return respond(link, StatusEncodingError)
	case errors.Is(err, rsapss.ErrInvalidKey),
		errors.Is(err, rsapss.ErrEvenModulus),
		errors.Is(err, rsapss.ErrIntegerTooLarge):
		return &fault{kind: ErrKey, err: err}
	case err != nil:
		return &fault{kind: ErrResource, err: err}
	}
	elapsed := d.clock.Since(start)
	d.metrics.signed(elapsed.Seconds())
	d.logger.Debugw("signed digest", "duration", elapsed)

	d.metrics.command(Sign.String(), resultOK)
	return respond(link, sig...)
}

func (d *Dispatcher) verify(link transport.Link) error {
	var digest [DigestSize]byte
	var sig [rsapss.IntSize]byte
	if err := link.ReadFull(digest[:]); err != nil {
		return errors.WithMessage(err, "reading digest")
	}
	s := sig[:d.SignatureSize()]
	if err := link.ReadFull(s); err != nil {
		return errors.WithMessage(err, "reading signature")
	}

	if !rsapss.Verify(&d.key.PublicKey, digest[:], s) {
		d.metrics.command(Verify.String(), resultInvalid)
		return respond(link, VerifyInvalid)
	}
	d.metrics.command(Verify.String(), resultOK)
	return respond(link, VerifyValid)
}

// Write a complete response and flush it.
func respond(link transport.Link, data ...byte) error {
	for _, b := range data {
		if err := link.WriteByte(b); err != nil {
			return err
		}
	}
	return transport.Flush(link)
}
