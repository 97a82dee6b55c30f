package protocol

import "fmt"

// receiverState is the receiver state machine from the wire format: INIT
// searches for the opening delimiter, NORMAL accumulates digits, ESCAPE
// expects one literal digit, and DISCARD skips the rest of a packet that
// overflowed the caller's buffer, up to and including its closing delimiter.
type receiverState int

const (
	stateInit receiverState = iota
	stateNormal
	stateEscape
	stateDiscard
)

// Config selects the per-session behavior that two endpoints must agree on
// out of band: the sign convention and whether the receiver reports
// corruption or folds it silently into Pending.
type Config struct {
	SignMode SignMode

	// ReportCorrupt, when true, makes Receive return OutcomeCorrupt as
	// soon as a check-code mismatch is seen. When false (the default,
	// matching the source this protocol was distilled from) corruption
	// resets the receiver to INIT without being distinguished from
	// Pending.
	ReportCorrupt bool
}

// Session is a live association with one Link endpoint: the receiver state
// machine plus the link handle. State lives on the Session value, not on
// any package-level variable, so independent endpoints can coexist in the
// same process without interference.
type Session struct {
	link   Link
	config Config

	state      receiverState
	itemAccum  uint64
	digitsSeen int
	itemCount  int
}

// Open acquires a session over link with the given configuration. The
// caller owns link's lifetime via Session.Close.
func Open(link Link, config Config) (*Session, error) {
	if link == nil {
		return nil, fmt.Errorf("protocol: Open requires a non-nil Link")
	}

	return &Session{link: link, config: config, state: stateInit}, nil
}

// Close releases the underlying link.
func (s *Session) Close() error {
	return s.link.Close()
}

// Reset returns the receiver state machine to INIT and clears its
// accumulators, discarding any partially reassembled packet. Callers that
// wrap Receive with their own deadline call this on timeout (spec.md §5).
func (s *Session) Reset() {
	s.state = stateInit
	s.itemAccum = 0
	s.digitsSeen = 0
	s.itemCount = 0
}

// Send writes one complete packet atomically from the caller's
// perspective: opening delimiter, every item (each followed by its item
// delimiter), closing delimiter. It fails with ErrRange, without writing
// anything, if any item falls outside the 32-bit signed range.
func (s *Session) Send(items []int64) error {
	digitsPerItem := make([][]byte, len(items))

	for i, v := range items {
		digits, err := encodeItem(v, s.config.SignMode)
		if err != nil {
			return err
		}

		digitsPerItem[i] = digits
	}

	var out []byte
	out = append(out, process(PacketDelim))

	for _, digits := range digitsPerItem {
		for _, d := range digits {
			if isReserved(d) {
				out = append(out, process(Escape), process(escapeDigit(d)))
			} else {
				out = append(out, process(d))
			}
		}

		out = append(out, process(ItemDelim))
	}

	out = append(out, process(PacketDelim))

	if _, err := s.link.Write(out); err != nil {
		return fmt.Errorf("%w: %w", ErrLink, err)
	}

	return nil
}

// OutcomeKind tags the shape of a Receive result, replacing the source's
// mix of sentinel return values with one outcome type.
type OutcomeKind int

const (
	// OutcomePending means no complete packet has arrived yet; receiver
	// state is preserved for the next call.
	OutcomePending OutcomeKind = iota

	// OutcomeComplete means a packet was finalized; Outcome.Count items
	// were written into the caller's buffer.
	OutcomeComplete

	// OutcomeOverflow means the packet would have needed more items than
	// the caller's buffer can hold; the receiver has been reset, skips the
	// rest of that packet up to its closing delimiter, and the in-flight
	// packet is lost. Receive's error return is ErrOverflow.
	OutcomeOverflow

	// OutcomeCorrupt means at least one wire byte failed its check code;
	// only returned when Config.ReportCorrupt is true. The receiver has
	// been reset to INIT. Receive's error return is ErrCorrupt.
	OutcomeCorrupt
)

// Outcome is the tagged result of one Receive call.
type Outcome struct {
	Kind  OutcomeKind
	Count int
}

// Receive drains whatever bytes are currently available on the link and
// feeds them through the receiver state machine. It never blocks: with
// nothing available it returns OutcomePending immediately, leaving state
// in place for the next poll. OutcomeOverflow and OutcomeCorrupt are
// accompanied by ErrOverflow and ErrCorrupt respectively (checkable with
// errors.Is), alongside the Outcome so callers can branch on either.
func (s *Session) Receive(buf []int64) (Outcome, error) {
	available, err := s.link.BytesAvailable()
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrLink, err)
	}

	one := make([]byte, 1)

	for i := 0; i < available; i++ {
		if _, err := s.link.Read(one); err != nil {
			return Outcome{}, fmt.Errorf("%w: %w", ErrLink, err)
		}

		payload, ok := unprocess(one[0])
		if !ok {
			s.Reset()

			if s.config.ReportCorrupt {
				return Outcome{Kind: OutcomeCorrupt}, fmt.Errorf("protocol: %w", ErrCorrupt)
			}

			continue
		}

		outcome, overflowed := s.step(payload, buf)
		if overflowed {
			return Outcome{Kind: OutcomeOverflow}, fmt.Errorf("protocol: %w", ErrOverflow)
		}

		if outcome.Kind == OutcomeComplete {
			return outcome, nil
		}
	}

	return Outcome{Kind: OutcomePending}, nil
}

// step feeds one decoded payload through the receiver state machine.
func (s *Session) step(payload byte, buf []int64) (outcome Outcome, overflowed bool) {
	switch s.state {
	case stateInit:
		if payload == PacketDelim {
			s.itemAccum = 0
			s.digitsSeen = 0
			s.itemCount = 0
			s.state = stateNormal
		}

		return Outcome{Kind: OutcomePending}, false

	case stateNormal:
		switch payload {
		case PacketDelim:
			count := s.itemCount
			s.state = stateInit
			s.itemAccum = 0
			s.digitsSeen = 0
			s.itemCount = 0

			return Outcome{Kind: OutcomeComplete, Count: count}, false

		case ItemDelim:
			if s.itemCount >= len(buf) {
				s.Reset()
				s.state = stateDiscard

				return Outcome{}, true
			}

			buf[s.itemCount] = decodeItem(s.itemAccum, s.digitsSeen, s.config.SignMode)
			s.itemCount++
			s.itemAccum = 0
			s.digitsSeen = 0

			return Outcome{Kind: OutcomePending}, false

		case Escape:
			s.state = stateEscape

			return Outcome{Kind: OutcomePending}, false

		default:
			s.itemAccum = (s.itemAccum << digitWidth) | uint64(payload)
			s.digitsSeen++

			return Outcome{Kind: OutcomePending}, false
		}

	case stateEscape:
		s.itemAccum = (s.itemAccum << digitWidth) | uint64(unescapeDigit(payload))
		s.digitsSeen++
		s.state = stateNormal

		return Outcome{Kind: OutcomePending}, false

	case stateDiscard:
		if payload == PacketDelim {
			s.state = stateInit
		}

		return Outcome{Kind: OutcomePending}, false

	default:
		return Outcome{Kind: OutcomePending}, false
	}
}
