package main

import (
	"bytes"
	"context"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vertohw/rsapss-signer/internal/device"
	"github.com/vertohw/rsapss-signer/internal/keys"
	"github.com/vertohw/rsapss-signer/internal/protocol"
	"github.com/vertohw/rsapss-signer/internal/transport"
	"github.com/vertohw/rsapss-signer/rsapss"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	err := run(context.Background(), append([]string{"--log-level", "error"}, args...), &out)
	return strings.TrimSpace(out.String()), err
}

func TestSignVerifyLocal(t *testing.T) {
	sigHex, err := runCLI(t, "--test-key", "sign", "-m", "swap wen?")
	require.NoError(t, err)
	sig, err := hex.DecodeString(sigHex)
	require.NoError(t, err)
	require.Len(t, sig, 256)

	digest := sha256.Sum256([]byte("swap wen?"))
	assert.True(t, rsapss.Verify(&keys.Test().PublicKey, digest[:], sig))

	out, err := runCLI(t, "--test-key", "verify", sigHex, hex.EncodeToString(digest[:]))
	require.NoError(t, err)
	assert.Equal(t, "valid", out)

	_, err = runCLI(t, "--test-key", "verify", "-m", "other", sigHex)
	assert.Equal(t, errInvalid, err)
}

func TestPubkey(t *testing.T) {
	out, err := runCLI(t, "pubkey")
	require.NoError(t, err)
	block, _ := pem.Decode([]byte(out))
	require.NotNil(t, block)
	assert.Equal(t, "PUBLIC KEY", block.Type)

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)
	rpub, ok := pub.(*rsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, 4096, rpub.N.BitLen())
	assert.Equal(t, keys.PublicExponent, rpub.E)
}

func TestArgumentErrors(t *testing.T) {
	_, err := runCLI(t, "sign", "abcd")
	assert.EqualError(t, err, "digest has length 2, expected 32")

	_, err = runCLI(t, "sign")
	assert.Error(t, err)

	_, err = runCLI(t, "sign", "-m", "x", strings.Repeat("00", 32))
	assert.Error(t, err)

	_, err = runCLI(t, "verify", "zz", "-m", "x")
	assert.Error(t, err)

	_, err = runCLI(t, "--board", "nosuchboard", "request-sign", "-m", "x")
	assert.Error(t, err)

	_, err = runCLI(t, "frobnicate")
	assert.Error(t, err)
}

// startEmulator runs a device loop with the test key behind a TCP
// listener, the way an emulator exposes its UART.
func startEmulator(t *testing.T) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		ln.Close()
	})

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			link := transport.NewStream(conn)
			loop := device.NewLoop(link, transport.NewDiagnosticPort(link), protocol.NewDispatcher(keys.Test()), nil)
			go func() {
				loop.Run(ctx)
				conn.Close()
			}()
		}
	}()
	return ln.Addr().String()
}

func TestRequestSignVerify(t *testing.T) {
	addr := startEmulator(t)
	remote := []string{"--test-key", "--board", "lm3s6965-qemu", "--address", addr}

	sigHex, err := runCLI(t, append(remote, "request-sign", "-m", "hello")...)
	require.NoError(t, err)
	require.Len(t, sigHex, 512)

	out, err := runCLI(t, append(remote, "request-verify", "-m", "hello", sigHex)...)
	require.NoError(t, err)
	assert.Equal(t, "valid", out)

	_, err = runCLI(t, append(remote, "request-verify", "-m", "bye", sigHex)...)
	assert.Equal(t, errInvalid, err)
}

func freeAddr(t *testing.T) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().String()
}

func scrape(t *testing.T, addr string) string {
	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestServe(t *testing.T) {
	// The listener plays the emulator UART that serve dials.
	uart, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer uart.Close()
	metricsAddr := freeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, []string{
			"--log-level", "error", "--test-key",
			"--board", "lm3s6965-qemu", "--address", uart.Addr().String(),
			"--metrics-listen", metricsAddr,
			"serve",
		}, io.Discard)
	}()

	conn, err := uart.Accept()
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(time.Minute)))
	pub := keys.Test().PublicKey

	first := sha256.Sum256([]byte("first"))
	_, err = conn.Write(append([]byte{byte(protocol.Sign)}, first[:]...))
	require.NoError(t, err)
	sig := make([]byte, pub.Size())
	_, err = io.ReadFull(conn, sig)
	require.NoError(t, err)
	assert.True(t, rsapss.Verify(&pub, first[:], sig))

	body := scrape(t, metricsAddr)
	assert.Contains(t, body, `rsapss_commands_total{command="sign",result="ok"} 1`)
	assert.Contains(t, body, "rsapss_sign_duration_seconds_count 1")

	// A verify (of a bogus signature) followed by a sign; cancel once the
	// sign is under way. The signature must still be delivered.
	second := sha256.Sum256([]byte("second"))
	req := []byte{byte(protocol.Verify)}
	req = append(req, first[:]...)
	req = append(req, make([]byte, pub.Size())...)
	req = append(req, byte(protocol.Sign))
	req = append(req, second[:]...)
	_, err = conn.Write(req)
	require.NoError(t, err)

	resp := make([]byte, 1)
	_, err = io.ReadFull(conn, resp)
	require.NoError(t, err)
	assert.Equal(t, byte(protocol.VerifyInvalid), resp[0])
	time.Sleep(20 * time.Millisecond)
	cancel()

	_, err = io.ReadFull(conn, sig)
	require.NoError(t, err)
	assert.True(t, rsapss.Verify(&pub, second[:], sig))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestServeIdleCancel(t *testing.T) {
	uart, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer uart.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, []string{"--log-level", "error", "--test-key",
			"--board", "lm3s6965-qemu", "--address", uart.Addr().String(), "serve"}, io.Discard)
	}()
	conn, err := uart.Accept()
	require.NoError(t, err)
	defer conn.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestServeMetricsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	uart, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer uart.Close()
	go func() {
		if conn, err := uart.Accept(); err == nil {
			conn.Close()
		}
	}()

	_, err = runCLI(t, "--test-key", "--board", "lm3s6965-qemu", "--address", uart.Addr().String(),
		"--metrics-listen", busy.Addr().String(), "serve")
	assert.Error(t, err)
}
