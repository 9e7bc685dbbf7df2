package transport

import (
	"net"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// Kind is how a board's UART is reached from the host.
type Kind string

const (
	// A serial port (USB adapter or on-board bridge).
	KindSerial Kind = "serial"

	// A UART exposed on a TCP socket, as emulators do.
	KindTCP Kind = "tcp"

	// The standard input and output of the process.
	KindStdio Kind = "stdio"
)

// Board describes how to reach the signing loop of one target.
type Board struct {
	Name    string
	Kind    Kind
	Device  string // serial device path
	Baud    int    // serial baud rate
	Address string // host:port for KindTCP
}

// Boards lists the known targets with their default settings.
var Boards = map[string]Board{
	"longan-nano": {
		Name: "longan-nano", Kind: KindSerial,
		Device: "/dev/ttyUSB0", Baud: 115200,
	},
	"stm32f1xx": {
		Name: "stm32f1xx", Kind: KindSerial,
		Device: "/dev/ttyUSB0", Baud: 9600,
	},
	"lm3s6965-qemu": {
		Name: "lm3s6965-qemu", Kind: KindTCP,
		Address: "127.0.0.1:4444",
	},
	"stm32p103-qemu": {
		Name: "stm32p103-qemu", Kind: KindTCP,
		Address: "127.0.0.1:4445",
	},
	"stdio": {
		Name: "stdio", Kind: KindStdio,
	},
}

// BoardNames returns the known board names, sorted.
func BoardNames() []string {
	names := make([]string, 0, len(Boards))
	for n := range Boards {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupBoard returns the profile for name.
func LookupBoard(name string) (Board, error) {
	b, ok := Boards[name]
	if !ok {
		return Board{}, errors.Errorf("transport: unknown board %q (known: %v)", name, BoardNames())
	}
	return b, nil
}

// Override returns a copy of b where the non-empty arguments replace
// the profile defaults.
func (b Board) Override(device string, baud int, address string) Board {
	if device != "" {
		b.Device = device
	}
	if baud != 0 {
		b.Baud = baud
	}
	if address != "" {
		b.Address = address
	}
	return b
}

// Open opens the link to the board.
func (b Board) Open() (*Stream, error) {
	switch b.Kind {
	case KindSerial:
		return OpenSerial(b.Device, b.Baud)
	case KindTCP:
		return Dial("tcp", b.Address)
	case KindStdio:
		return NewStream(stdio{}), nil
	default:
		return nil, errors.Errorf("transport: board %q has unknown kind %q", b.Name, b.Kind)
	}
}

// Dial connects to a UART exposed on a network socket.
func Dial(network string, address string) (*Stream, error) {
	conn, err := net.Dial(network, address)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: dialing %s", address)
	}
	return NewStream(conn), nil
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
