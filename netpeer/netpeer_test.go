package netpeer

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// loopback gives a Conn a real TCP pipe to a peer, without going through
// mDNS announcement (not covered by these tests; it is only meaningful on a
// real LAN).
func loopback(t *testing.T) (c *Conn, peer net.Conn) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	peerCh := make(chan net.Conn, 1)
	go func() {
		conn, _ := ln.Accept()
		peerCh <- conn
	}()

	clientConn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	peer = <-peerCh
	t.Cleanup(func() { peer.Close() })

	return &Conn{conn: clientConn}, peer
}

func TestWriteReachesPeer(t *testing.T) {
	c, peer := loopback(t)

	_, err := c.Write([]byte("abc"))
	require.NoError(t, err)

	buf := make([]byte, 3)
	_, err = peer.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "abc", string(buf))
}

func TestBytesAvailableThenReadServesFromPending(t *testing.T) {
	c, peer := loopback(t)

	_, err := peer.Write([]byte{1, 2, 3})
	require.NoError(t, err)

	// Give the byte time to actually land before probing.
	time.Sleep(20 * time.Millisecond)

	n, err := c.BytesAvailable()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	buf := make([]byte, 3)
	read, err := c.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 3, read)
	require.Equal(t, []byte{1, 2, 3}, buf)
}

func TestBytesAvailableZeroWhenIdle(t *testing.T) {
	c, _ := loopback(t)

	n, err := c.BytesAvailable()
	require.NoError(t, err)
	require.Equal(t, 0, n)
}
