//go:build linux

package transport

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var baudRates = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

// OpenSerial opens a tty in raw mode (8N1, no flow control, reads of at
// least one byte) at the given baud rate. The descriptor is non-blocking
// so that the runtime poller manages it: Close interrupts a pending read.
func OpenSerial(path string, baud int) (*Stream, error) {
	rate, ok := baudRates[baud]
	if !ok {
		return nil, errors.Errorf("transport: unsupported baud rate %d", baud)
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "transport: opening %s", path)
	}
	if err := setRaw(fd, rate); err != nil {
		unix.Close(fd)
		return nil, errors.WithMessagef(err, "transport: configuring %s", path)
	}
	return NewStream(os.NewFile(uintptr(fd), path)), nil
}

func setRaw(fd int, rate uint32) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return errors.Wrap(err, "reading termios")
	}
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CRTSCTS | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL | rate
	t.Ispeed = rate
	t.Ospeed = rate
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return errors.Wrap(unix.IoctlSetTermios(fd, unix.TCSETS, t), "writing termios")
}
