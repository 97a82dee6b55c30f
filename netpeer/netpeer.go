// Package netpeer supplies a protocol.Link backed by a plain net.Conn, and
// announces the listening side over mDNS/DNS-SD with
// github.com/brutella/dnssd. This mirrors the source collection's
// dns_sd.go, which announces a KISS-over-TCP service the same way; here the
// service type and payload are the framed protocol instead of KISS. The
// package does not browse for services: Dial takes an explicit host and port.
package netpeer

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/brutella/dnssd"
)

// ServiceType is the DNS-SD service type this package announces,
// following the _service._proto convention dnssd expects.
const ServiceType = "_sbcserial._tcp"

// Announce advertises a TCP listener on port under name via mDNS/DNS-SD and
// keeps responding until ctx is canceled. It returns once the service is
// registered; the responder itself runs in the background.
func Announce(ctx context.Context, name string, port int) error {
	cfg := dnssd.Config{
		Name: name,
		Type: ServiceType,
		Port: port,
	}

	svc, err := dnssd.NewService(cfg)
	if err != nil {
		return fmt.Errorf("netpeer: create service: %w", err)
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return fmt.Errorf("netpeer: create responder: %w", err)
	}

	if _, err := responder.Add(svc); err != nil {
		return fmt.Errorf("netpeer: add service: %w", err)
	}

	go func() {
		if err := responder.Respond(ctx); err != nil && ctx.Err() == nil {
			// Nothing useful to do with this beyond logging; the
			// caller owns the context's lifetime.
			_ = err
		}
	}()

	return nil
}

// Dial connects to host:port and wraps the resulting connection as a
// protocol.Link.
func Dial(ctx context.Context, host string, port int) (*Conn, error) {
	var d net.Dialer

	c, err := d.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return nil, fmt.Errorf("netpeer: dial %s:%d: %w", host, port, err)
	}

	return &Conn{conn: c}, nil
}

// Conn adapts a net.Conn to protocol.Link. Bytes pulled off the wire while
// probing for availability are held in pending rather than discarded, so
// BytesAvailable can be polled without losing data.
type Conn struct {
	conn    net.Conn
	pending []byte
}

// Write implements protocol.Link.
func (c *Conn) Write(p []byte) (int, error) {
	n, err := c.conn.Write(p)
	if err != nil {
		return n, fmt.Errorf("netpeer: write: %w", err)
	}

	return n, nil
}

// Read implements protocol.Link, serving from pending before touching the
// connection.
func (c *Conn) Read(p []byte) (int, error) {
	if len(c.pending) > 0 {
		n := copy(p, c.pending)
		c.pending = c.pending[n:]

		return n, nil
	}

	n, err := c.conn.Read(p)
	if err != nil {
		return n, fmt.Errorf("netpeer: read: %w", err)
	}

	return n, nil
}

// BytesAvailable reports how many bytes can be read without blocking. Since
// net.Conn exposes no portable non-blocking peek, it briefly sets a read
// deadline and pulls whatever has already arrived into pending, restoring
// the connection to blocking mode afterward.
func (c *Conn) BytesAvailable() (int, error) {
	if len(c.pending) > 0 {
		return len(c.pending), nil
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return 0, fmt.Errorf("netpeer: set read deadline: %w", err)
	}
	defer c.conn.SetReadDeadline(time.Time{})

	var scratch [4096]byte

	n, err := c.conn.Read(scratch[:])
	if n > 0 {
		c.pending = append(c.pending, scratch[:n]...)
	}

	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return len(c.pending), nil
		}

		return len(c.pending), fmt.Errorf("netpeer: probe read: %w", err)
	}

	return len(c.pending), nil
}

// Close implements protocol.Link.
func (c *Conn) Close() error {
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("netpeer: close: %w", err)
	}

	return nil
}
