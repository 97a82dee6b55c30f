// Package serial implements protocol.Link over a real serial port using
// github.com/pkg/term, hiding the same operating-system differences the
// source collection's serial_port.c wrapper did. RTS/DTR line control is
// exposed separately via golang.org/x/sys/unix TIOCM ioctls, the same
// mechanism the teacher's ptt.go uses for push-to-talk keying.
package serial

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pkg/term"
	"golang.org/x/sys/unix"
)

// supportedBauds mirrors the fixed rate list the teacher's serial port
// wrapper accepts; anything else falls back to 4800, matching source parity.
var supportedBauds = map[int]bool{
	1200: true, 2400: true, 4800: true, 9600: true,
	19200: true, 38400: true, 57600: true, 115200: true,
}

// Port is a protocol.Link backed by a raw serial device node.
type Port struct {
	t      *term.Term
	logger *log.Logger
}

// Open opens devicename (e.g. "/dev/ttyUSB0") in raw mode at baud bits per
// second. A baud of 0 leaves the port's current speed alone.
func Open(devicename string, baud int, logger *log.Logger) (*Port, error) {
	if logger == nil {
		logger = log.Default()
	}

	t, err := term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", devicename, err)
	}

	switch {
	case baud == 0:
		// Leave it alone.
	case supportedBauds[baud]:
		if err := t.SetSpeed(baud); err != nil {
			t.Close()

			return nil, fmt.Errorf("serial: set speed %d on %s: %w", baud, devicename, err)
		}
	default:
		logger.Warn("unsupported baud rate, falling back to 4800", "requested", baud, "device", devicename)

		if err := t.SetSpeed(4800); err != nil {
			t.Close()

			return nil, fmt.Errorf("serial: set fallback speed on %s: %w", devicename, err)
		}
	}

	logger.Info("serial port opened", "device", devicename, "baud", baud)

	return &Port{t: t, logger: logger}, nil
}

// Write implements protocol.Link.
func (p *Port) Write(data []byte) (int, error) {
	n, err := p.t.Write(data)
	if err != nil {
		return n, fmt.Errorf("serial: write: %w", err)
	}

	return n, nil
}

// Read implements protocol.Link. It blocks until at least one byte is
// available, matching the teacher's serial_port_get1 semantics.
func (p *Port) Read(buf []byte) (int, error) {
	n, err := p.t.Read(buf)
	if err != nil {
		return n, fmt.Errorf("serial: read: %w", err)
	}

	return n, nil
}

// BytesAvailable reports how many bytes can be read without blocking.
// github.com/pkg/term exposes no non-blocking peek, so a Port always
// reports 1, and a following Read blocks until a byte arrives; callers that need true
// non-blocking polling should put the terminal in non-canonical VMIN=0 mode
// themselves or prefer a link with a native queue depth (e.g. netpeer, or
// the in-memory link used in protocol's own tests).
func (p *Port) BytesAvailable() (int, error) {
	return 1, nil
}

// setModemLine does a read-modify-write of the TIOCM modem control bits,
// the same TIOCMGET/TIOCMSET pair the teacher's ptt.go uses for RTS/DTR
// (its _TIOCM helper), applied here to line control on Port instead of
// push-to-talk keying.
func setModemLine(fd uintptr, bit int, on bool) error {
	bits, err := unix.IoctlGetInt(int(fd), unix.TIOCMGET)
	if err != nil {
		return fmt.Errorf("serial: TIOCMGET: %w", err)
	}

	if on {
		bits |= bit
	} else {
		bits &^= bit
	}

	if err := unix.IoctlSetInt(int(fd), unix.TIOCMSET, bits); err != nil {
		return fmt.Errorf("serial: TIOCMSET: %w", err)
	}

	return nil
}

// SetRTS drives the port's RTS line, spec.md §5's flow control being out of
// scope but the line itself also being how some microcontroller targets
// latch into bootloader/reset mode on open.
func (p *Port) SetRTS(on bool) error {
	return setModemLine(p.t.Fd(), unix.TIOCM_RTS, on)
}

// SetDTR drives the port's DTR line; see SetRTS.
func (p *Port) SetDTR(on bool) error {
	return setModemLine(p.t.Fd(), unix.TIOCM_DTR, on)
}

// Close releases the underlying file descriptor.
func (p *Port) Close() error {
	p.logger.Info("serial port closed")

	if err := p.t.Close(); err != nil {
		return fmt.Errorf("serial: close: %w", err)
	}

	return nil
}
