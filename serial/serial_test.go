package serial

import (
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

// openLoopback gives a Port a real kernel-backed pseudo-terminal to talk to,
// standing in for a physical serial cable: writes on pts arrive on ptm and
// vice versa.
func openLoopback(t *testing.T) (port *Port, peer *pty.File) {
	t.Helper()

	ptm, pts, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { ptm.Close() })

	p, err := Open(pts.Name(), 0, nil)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	pts.Close() // the Port now owns its own fd on the same device node

	return p, ptm
}

func TestWriteReachesPeer(t *testing.T) {
	port, peer := openLoopback(t)

	n, err := port.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)

	buf := make([]byte, 5)
	_, err = peer.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))
}

func TestReadReceivesFromPeer(t *testing.T) {
	port, peer := openLoopback(t)

	_, err := peer.Write([]byte{0x42})
	require.NoError(t, err)

	buf := make([]byte, 1)
	n, err := port.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, byte(0x42), buf[0])
}

// TestSetRTSAndDTR only exercises that the TIOCM ioctls succeed against a
// pty's subordinate side, which the Linux pty driver tracks even without
// physical signal lines; it can't observe a voltage change the way it could
// against real hardware.
func TestSetRTSAndDTR(t *testing.T) {
	port, _ := openLoopback(t)

	require.NoError(t, port.SetRTS(true))
	require.NoError(t, port.SetRTS(false))
	require.NoError(t, port.SetDTR(true))
	require.NoError(t, port.SetDTR(false))
}
