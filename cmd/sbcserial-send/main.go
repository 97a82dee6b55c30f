// Command sbcserial-send reads whitespace-separated integers from stdin,
// one packet per line, and frames each onto a serial link.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/rohand2412/sbcserial/config"
	"github.com/rohand2412/sbcserial/protocol"
	"github.com/rohand2412/sbcserial/serial"
)

func main() {
	device := pflag.StringP("device", "d", "", "Serial device to open, e.g. /dev/ttyUSB0")
	baud := pflag.IntP("baud", "b", 9600, "Serial port speed")
	configPath := pflag.StringP("config", "c", "", "YAML config file (overrides --device/--baud/--sign-convention defaults)")
	signConvention := pflag.String("sign-convention", "sign-magnitude", "sign-magnitude or twos-complement")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - frame and send integer packets read from stdin.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Each line of stdin is one packet of whitespace-separated integers.\n\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := log.Default()

	cfg := config.Config{Device: *device, Baud: *baud, SignConvention: *signConvention}

	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal("load config", "err", err)
		}

		cfg = loaded
	}

	if cfg.Device == "" {
		logger.Fatal("no device specified; use --device or --config")
	}

	port, err := serial.Open(cfg.Device, cfg.Baud, logger)
	if err != nil {
		logger.Fatal("open serial port", "err", err)
	}
	defer port.Close()

	sessionCfg, err := cfg.SessionConfig()
	if err != nil {
		logger.Fatal("session config", "err", err)
	}

	session, err := protocol.Open(port, sessionCfg)
	if err != nil {
		logger.Fatal("open session", "err", err)
	}
	defer session.Close()

	scanner := bufio.NewScanner(os.Stdin)
	lineNum := 0

	for scanner.Scan() {
		lineNum++

		items, err := parseLine(scanner.Text())
		if err != nil {
			logger.Error("skipping unparseable line", "line", lineNum, "err", err)

			continue
		}

		if err := session.Send(items); err != nil {
			logger.Error("send failed", "line", lineNum, "err", err)

			continue
		}

		logger.Info("sent packet", "line", lineNum, "items", len(items))
	}

	if err := scanner.Err(); err != nil {
		logger.Fatal("reading stdin", "err", err)
	}
}

func parseLine(line string) ([]int64, error) {
	fields := strings.Fields(line)
	items := make([]int64, len(fields))

	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("field %d (%q): %w", i, f, err)
		}

		items[i] = v
	}

	return items, nil
}
