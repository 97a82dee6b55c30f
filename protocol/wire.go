// Package protocol implements the framed serial protocol used to exchange
// variable-width signed integers between a single-board computer and a
// microcontroller peer over a raw byte-oriented link.
//
// The wire format is layered bottom-up:
//
//	byte codec    5-bit payload <-> 8-bit wire byte with a 3-bit check code
//	escape codec  transparency of reserved control payloads
//	framer        packet/item delimiters and the receiver state machine
//	item codec    variable-length signed integers as 5-bit digit runs
//
// See the protocol's wire-format notes for the normative constants and
// state tables; this package is the implementation of record.
package protocol

// Reserved payload values. These are the only 5-bit values that can never
// appear as a literal digit inside an item without escaping.
const (
	PacketDelim byte = 0x1F // marks the opening and closing boundary of a packet
	ItemDelim   byte = 0x1D // separates successive items inside a packet
	Escape      byte = 0x1E // next payload is a literal, XOR-ed with escapeMask
)

// escapeMask is XORed into an escaped literal so the reserved set
// {0x1D, 0x1E, 0x1F} and its escaped image {0x0D, 0x0E, 0x0F} stay disjoint.
const escapeMask byte = 0x10

// digitWidth is the width, in bits, of one payload digit.
const digitWidth = 5

// MaxItemDigits is the most digits a well-formed item ever needs: a 32-bit
// value plus a sign bit needs ceil(33/5) = 7 digits in either convention.
const MaxItemDigits = 7

// checkTable is the fixed 32-entry check-code table from the wire format.
// It is a constant lookup table, not an algebraically-derived CRC: decoders
// must compare against these exact values.
var checkTable = [32]byte{
	0, 3, 6, 5, 7, 4, 1, 2, 5, 6, 3, 0, 2, 1, 4, 7,
	1, 2, 7, 4, 6, 5, 0, 3, 4, 7, 2, 1, 3, 0, 5, 6,
}

// process encodes a 5-bit payload into its 8-bit wire byte by attaching the
// check code in the low 3 bits.
func process(payload byte) byte {
	return (payload << 3) | checkTable[payload&0x1F]
}

// unprocess decodes a wire byte back to its 5-bit payload, verifying the
// check code. ok is false if the byte is corrupt (check code mismatch).
func unprocess(wire byte) (payload byte, ok bool) {
	payload = (wire >> 3) & 0x1F
	check := wire & 0x07

	return payload, checkTable[payload] == check
}
