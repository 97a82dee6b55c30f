package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohand2412/sbcserial/protocol"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sbcserial.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeTemp(t, "device: /dev/ttyUSB0\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Device)
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, "sign-magnitude", cfg.SignConvention)
	assert.Equal(t, 32, cfg.PacketCapacity)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTemp(t, "baud: 115200\nsign_convention: twos-complement\nreport_corrupt: true\npacket_capacity: 8\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 115200, cfg.Baud)
	assert.True(t, cfg.ReportCorrupt)
	assert.Equal(t, 8, cfg.PacketCapacity)

	sessionCfg, err := cfg.SessionConfig()
	require.NoError(t, err)
	assert.Equal(t, protocol.TwosComplement, sessionCfg.SignMode)
	assert.True(t, sessionCfg.ReportCorrupt)
}

func TestSignModeRejectsUnknownConvention(t *testing.T) {
	cfg := Config{SignConvention: "ones-complement"}
	_, err := cfg.SignMode()
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
