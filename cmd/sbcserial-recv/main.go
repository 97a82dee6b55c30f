// Command sbcserial-recv polls a serial link and prints each decoded
// packet as it completes.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/rohand2412/sbcserial/config"
	"github.com/rohand2412/sbcserial/protocol"
	"github.com/rohand2412/sbcserial/serial"
	"github.com/rohand2412/sbcserial/tracelog"
)

func main() {
	device := pflag.StringP("device", "d", "", "Serial device to open, e.g. /dev/ttyUSB0")
	baud := pflag.IntP("baud", "b", 9600, "Serial port speed")
	configPath := pflag.StringP("config", "c", "", "YAML config file (overrides --device/--baud/--sign-convention defaults)")
	signConvention := pflag.String("sign-convention", "sign-magnitude", "sign-magnitude or twos-complement")
	capacity := pflag.IntP("capacity", "n", 32, "Maximum items per packet")
	pollInterval := pflag.Duration("poll-interval", 20*time.Millisecond, "How often to poll the link for new bytes")
	help := pflag.BoolP("help", "h", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - poll a serial link and print decoded packets.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := log.Default()

	cfg := config.Config{Device: *device, Baud: *baud, SignConvention: *signConvention, PacketCapacity: *capacity}

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

	var trace *tracelog.Logger

	if cfg.TraceLogDir != "" {
		trace, err = tracelog.Open(cfg.TraceLogDir)
		if err != nil {
			logger.Fatal("open trace log", "err", err)
		}
		defer trace.Close()
	}

	buf := make([]int64, cfg.PacketCapacity)

	for {
		outcome, err := session.Receive(buf)

		switch outcome.Kind {
		case protocol.OutcomeComplete:
			items := buf[:outcome.Count]
			printPacket(items)

			if trace != nil {
				if err := trace.Record(time.Now(), items); err != nil {
					logger.Error("trace log write failed", "err", err)
				}
			}
		case protocol.OutcomeOverflow:
			logger.Warn("packet overflowed receive buffer; dropped", "err", err)
		case protocol.OutcomeCorrupt:
			logger.Warn("corrupt byte on link; receiver resynced", "err", err)
		case protocol.OutcomePending:
			if err != nil {
				logger.Error("receive failed", "err", err)
			}
		}

		time.Sleep(*pollInterval)
	}
}

func printPacket(items []int64) {
	fields := make([]string, len(items))
	for i, v := range items {
		fields[i] = fmt.Sprintf("%d", v)
	}

	fmt.Println(strings.Join(fields, " "))
}
