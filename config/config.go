// Package config loads the small YAML session configuration a
// sbcserial endpoint needs: which device to open, at what speed, and which
// protocol conventions the two ends have agreed on out of band. This
// replaces the source collection's hand-rolled ".conf" line-by-line parser
// with a flat YAML document, a better fit for a config this small.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rohand2412/sbcserial/protocol"
)

// Config is the on-disk session configuration.
type Config struct {
	// Device is the serial device node to open, e.g. "/dev/ttyUSB0".
	// Left empty when the session runs over netpeer instead.
	Device string `yaml:"device"`

	// Baud is the serial port speed in bits per second. 0 leaves the
	// port's current speed alone.
	Baud int `yaml:"baud"`

	// SignConvention selects the item codec's sign convention: one of
	// "sign-magnitude" (default) or "twos-complement". Both ends of a
	// link must agree on this out of band.
	SignConvention string `yaml:"sign_convention"`

	// ReportCorrupt makes Session.Receive surface OutcomeCorrupt instead
	// of silently folding check-code failures into Pending.
	ReportCorrupt bool `yaml:"report_corrupt"`

	// PacketCapacity bounds how many items a single received packet may
	// carry; it sizes the buffer passed to Session.Receive.
	PacketCapacity int `yaml:"packet_capacity"`

	// TraceLogDir, when non-empty, enables a daily-rotated CSV trace of
	// every decoded packet in this directory. See package tracelog.
	TraceLogDir string `yaml:"trace_log_dir"`
}

// defaults mirror spec.md's resolved Open Questions: sign-magnitude is
// authoritative, corruption reporting is off for source parity.
func defaults() Config {
	return Config{
		Baud:           9600,
		SignConvention: "sign-magnitude",
		ReportCorrupt:  false,
		PacketCapacity: 32,
	}
}

// Load reads and parses a YAML config file at path, filling in defaults for
// anything the file omits.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// SignMode maps SignConvention onto the protocol.SignMode it selects.
func (c Config) SignMode() (protocol.SignMode, error) {
	switch c.SignConvention {
	case "", "sign-magnitude":
		return protocol.SignMagnitude, nil
	case "twos-complement":
		return protocol.TwosComplement, nil
	default:
		return 0, fmt.Errorf("config: unknown sign_convention %q", c.SignConvention)
	}
}

// SessionConfig builds the protocol.Config this Config selects.
func (c Config) SessionConfig() (protocol.Config, error) {
	mode, err := c.SignMode()
	if err != nil {
		return protocol.Config{}, err
	}

	return protocol.Config{SignMode: mode, ReportCorrupt: c.ReportCorrupt}, nil
}
