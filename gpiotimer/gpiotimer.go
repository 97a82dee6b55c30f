// Package gpiotimer derives a pulse rate from a GPIO line's edge
// transitions, using github.com/warthog618/go-gpiocdev — the idiomatic Go
// character-device equivalent of the source collection's ptt.go, which
// drives a GPIO line for PTT control through either the legacy sysfs
// interface or, in its later variant, raw <gpiod.h> cgo calls
// (gpiod_chip_open / gpiod_chip_get_line_info).
package gpiotimer

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// PulseCounter counts edge transitions on one GPIO line and reports the
// rate of pulses seen over a trailing window, e.g. to derive a
// frame/sample rate from a microcontroller's heartbeat pin.
type PulseCounter struct {
	line *gpiocdev.Line

	mu     sync.Mutex
	times  []time.Time
	window time.Duration
}

// Open requests offset on chip (e.g. "/dev/gpiochip0") for both-edge
// detection and starts counting pulses within window of the current time.
func Open(chip string, offset int, window time.Duration) (*PulseCounter, error) {
	pc := newPulseCounter(window)

	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(pc.handleEvent),
	)
	if err != nil {
		return nil, fmt.Errorf("gpiotimer: request %s line %d: %w", chip, offset, err)
	}

	pc.line = line

	return pc, nil
}

func newPulseCounter(window time.Duration) *PulseCounter {
	return &PulseCounter{window: window}
}

// handleEvent stamps each edge with time.Now(), the same clock RateHz
// measures its window against; the event's own Timestamp is a kernel
// duration, not a Unix time.
func (pc *PulseCounter) handleEvent(evt gpiocdev.LineEvent) {
	pc.recordPulse(time.Now())
}

// recordPulse records one pulse observed at when and prunes anything that
// has since fallen outside the trailing window. Split out from
// handleEvent so it can be driven directly in tests, without a real GPIO
// chip.
func (pc *PulseCounter) recordPulse(when time.Time) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.times = append(pc.times, when)
	pc.prune(when)
}

// prune drops recorded pulse times older than window relative to now.
// Caller must hold pc.mu.
func (pc *PulseCounter) prune(now time.Time) {
	cutoff := now.Add(-pc.window)

	i := 0
	for i < len(pc.times) && pc.times[i].Before(cutoff) {
		i++
	}

	pc.times = pc.times[i:]
}

// RateHz returns the number of pulses observed within the trailing window,
// divided by the window length, in Hz.
func (pc *PulseCounter) RateHz() float64 {
	return pc.rateAt(time.Now())
}

func (pc *PulseCounter) rateAt(asOf time.Time) float64 {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.prune(asOf)

	if pc.window <= 0 {
		return 0
	}

	return float64(len(pc.times)) / pc.window.Seconds()
}

// Close releases the requested GPIO line.
func (pc *PulseCounter) Close() error {
	if err := pc.line.Close(); err != nil {
		return fmt.Errorf("gpiotimer: close line: %w", err)
	}

	return nil
}
