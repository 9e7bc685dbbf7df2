package main

import (
	"context"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vertohw/rsapss-signer/internal/client"
	"github.com/vertohw/rsapss-signer/internal/config"
	"github.com/vertohw/rsapss-signer/internal/device"
	"github.com/vertohw/rsapss-signer/internal/keys"
	"github.com/vertohw/rsapss-signer/internal/logging"
	"github.com/vertohw/rsapss-signer/internal/protocol"
	"github.com/vertohw/rsapss-signer/internal/transport"
	"github.com/vertohw/rsapss-signer/rsapss"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"
)

// errInvalid makes the process exit with status 1 without an error
// message.
var errInvalid = errors.New("signature is not valid")

type cli struct {
	app *kingpin.Application

	configPath    *string
	board         *string
	device        *string
	baud          *int
	address       *string
	logLevel      *string
	logFormat     *string
	metricsListen *string
	testKey       *bool

	serve *kingpin.CmdClause

	sign        *kingpin.CmdClause
	signDigest  *string
	signMessage *string

	verify        *kingpin.CmdClause
	verifyDigest  *string
	verifyMessage *string
	verifySig     *string

	requestSign        *kingpin.CmdClause
	requestSignDigest  *string
	requestSignMessage *string

	requestVerify        *kingpin.CmdClause
	requestVerifyDigest  *string
	requestVerifyMessage *string
	requestVerifySig     *string

	pubkey *kingpin.CmdClause
}

func newCLI() *cli {
	c := &cli{app: kingpin.New("rsapss-signer", "RSA-4096 PSS signing device and host tools.")}
	a := c.app

	c.configPath = a.Flag("config", "YAML configuration file.").Short('c').String()
	c.board = a.Flag("board", fmt.Sprintf("Board profile %v.", transport.BoardNames())).String()
	c.device = a.Flag("device", "Serial device path.").String()
	c.baud = a.Flag("baud", "Serial baud rate.").Int()
	c.address = a.Flag("address", "host:port of an emulated UART.").String()
	c.logLevel = a.Flag("log-level", "Logging level.").String()
	c.logFormat = a.Flag("log-format", "Logging format (console or json).").String()
	c.metricsListen = a.Flag("metrics-listen", "Address of the Prometheus endpoint (serve only).").String()
	c.testKey = a.Flag("test-key", "Use the 2048-bit test key instead of the device key.").Bool()

	c.serve = a.Command("serve", "Run the signing loop on the board link.")

	c.sign = a.Command("sign", "Sign a digest locally and print the signature in hex.")
	c.signDigest = c.sign.Arg("digest", "SHA-256 digest in hex.").String()
	c.signMessage = c.sign.Flag("message", "Sign the SHA-256 digest of this text.").Short('m').String()

	c.verify = a.Command("verify", "Verify a signature locally.")
	c.verifySig = c.verify.Arg("signature", "Signature in hex.").Required().String()
	c.verifyDigest = c.verify.Arg("digest", "SHA-256 digest in hex.").String()
	c.verifyMessage = c.verify.Flag("message", "Verify against the SHA-256 digest of this text.").Short('m').String()

	c.requestSign = a.Command("request-sign", "Ask the device to sign a digest.")
	c.requestSignDigest = c.requestSign.Arg("digest", "SHA-256 digest in hex.").String()
	c.requestSignMessage = c.requestSign.Flag("message", "Sign the SHA-256 digest of this text.").Short('m').String()

	c.requestVerify = a.Command("request-verify", "Ask the device to verify a signature.")
	c.requestVerifySig = c.requestVerify.Arg("signature", "Signature in hex.").Required().String()
	c.requestVerifyDigest = c.requestVerify.Arg("digest", "SHA-256 digest in hex.").String()
	c.requestVerifyMessage = c.requestVerify.Flag("message", "Verify against the SHA-256 digest of this text.").Short('m').String()

	c.pubkey = a.Command("pubkey", "Print the public key in PEM format.")
	return c
}

// settings merges the configuration file, the environment and the
// command-line flags, in increasing priority.
func (c *cli) settings() (*config.Config, error) {
	cfg, err := config.Load(*c.configPath)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Transport.Board, *c.board)
	set(&cfg.Transport.Device, *c.device)
	set(&cfg.Transport.Address, *c.address)
	set(&cfg.Logging.Level, *c.logLevel)
	set(&cfg.Logging.Format, *c.logFormat)
	set(&cfg.Metrics.Listen, *c.metricsListen)
	if *c.baud != 0 {
		cfg.Transport.Baud = *c.baud
	}
	return cfg, nil
}

func (c *cli) key() *rsapss.PrivateKey {
	if *c.testKey {
		return keys.Test()
	}
	return keys.Device()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	switch {
	case err == errInvalid:
		fmt.Fprintln(os.Stdout, "invalid")
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "rsapss-signer: %s\n", err)
		os.Exit(2)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	c := newCLI()
	command, err := c.app.Parse(args)
	if err != nil {
		return errors.WithMessage(err, "parsing arguments (try --help)")
	}
	cfg, err := c.settings()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, nil)
	if err != nil {
		return err
	}
	defer logger.Sync()

	switch command {
	case c.serve.FullCommand():
		return serve(ctx, cfg, c.key(), logger)

	case c.sign.FullCommand():
		digest, err := parseDigest(*c.signDigest, *c.signMessage)
		if err != nil {
			return err
		}
		sig, err := rsapss.Sign(nil, c.key(), digest)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, hex.EncodeToString(sig))

	case c.verify.FullCommand():
		digest, sig, err := parseDigestAndSignature(*c.verifyDigest, *c.verifyMessage, *c.verifySig)
		if err != nil {
			return err
		}
		key := c.key()
		if !rsapss.Verify(&key.PublicKey, digest, sig) {
			return errInvalid
		}
		fmt.Fprintln(stdout, "valid")

	case c.requestSign.FullCommand():
		digest, err := parseDigest(*c.requestSignDigest, *c.requestSignMessage)
		if err != nil {
			return err
		}
		return withClient(cfg, c.key(), func(cl *client.Client) error {
			sig, err := cl.Sign(digest)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, hex.EncodeToString(sig))
			return nil
		})

	case c.requestVerify.FullCommand():
		digest, sig, err := parseDigestAndSignature(*c.requestVerifyDigest, *c.requestVerifyMessage, *c.requestVerifySig)
		if err != nil {
			return err
		}
		return withClient(cfg, c.key(), func(cl *client.Client) error {
			ok, err := cl.Verify(digest, sig)
			if err != nil {
				return err
			}
			if !ok {
				return errInvalid
			}
			fmt.Fprintln(stdout, "valid")
			return nil
		})

	case c.pubkey.FullCommand():
		key := c.key()
		der, err := x509.MarshalPKIXPublicKey(key.PublicKey.RSA())
		if err != nil {
			return errors.Wrap(err, "encoding public key")
		}
		return pem.Encode(stdout, &pem.Block{Type: "PUBLIC KEY", Bytes: der})
	}
	return nil
}

func openBoard(cfg *config.Config) (*transport.Stream, error) {
	b, err := transport.LookupBoard(cfg.Transport.Board)
	if err != nil {
		return nil, err
	}
	b = b.Override(cfg.Transport.Device, cfg.Transport.Baud, cfg.Transport.Address)
	return b.Open()
}

func withClient(cfg *config.Config, key *rsapss.PrivateKey, fn func(*client.Client) error) error {
	link, err := openBoard(cfg)
	if err != nil {
		return err
	}
	defer link.Close()
	return fn(client.New(link, key.Size()))
}

func serve(ctx context.Context, cfg *config.Config, key *rsapss.PrivateKey, logger *zap.Logger) error {
	log := logger.Sugar()
	link, err := openBoard(cfg)
	if err != nil {
		return err
	}
	defer link.Close()

	opts := []protocol.Option{protocol.WithLogger(log.Named("protocol"))}
	if cfg.Metrics.Listen != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, protocol.WithMetrics(protocol.NewMetrics(reg)))
		stopMetrics, err := serveMetrics(cfg.Metrics.Listen, reg, log)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	// On cancellation the loop closes the link itself once the command
	// in progress, if any, has completed.
	log.Infow("serving", "board", cfg.Transport.Board, "modulus_bits", key.N.BitLen())
	loop := device.NewLoop(link, transport.NewDiagnosticPort(link), protocol.NewDispatcher(key, opts...), log.Named("device"))
	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info("shutting down")
		return nil
	}
	return err
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.SugaredLogger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "metrics listener")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	log.Infow("serving metrics", "address", ln.Addr().String())
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Warnw("metrics listener failed", "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, nil
}

func parseDigest(digestHex string, message string) ([]byte, error) {
	switch {
	case message != "" && digestHex != "":
		return nil, errors.New("give either a digest or --message, not both")
	case message != "":
		h := sha256.Sum256([]byte(message))
		return h[:], nil
	case digestHex == "":
		return nil, errors.New("a digest or --message is required")
	}
	d, err := hex.DecodeString(digestHex)
	if err != nil {
		return nil, errors.Wrap(err, "decoding digest")
	}
	if len(d) != protocol.DigestSize {
		return nil, errors.Errorf("digest has length %d, expected %d", len(d), protocol.DigestSize)
	}
	return d, nil
}

func parseDigestAndSignature(digestHex string, message string, sigHex string) ([]byte, []byte, error) {
	digest, err := parseDigest(digestHex, message)
	if err != nil {
		return nil, nil, err
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decoding signature")
	}
	return digest, sig, nil
}
