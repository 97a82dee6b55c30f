package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestProcessUnprocessRoundTrip(t *testing.T) {
	for m := 0; m < 32; m++ {
		wire := process(byte(m))
		got, ok := unprocess(wire)
		assert.True(t, ok, "payload %d", m)
		assert.Equal(t, byte(m), got, "payload %d", m)
	}
}

func TestUnprocessRejectsNonConformingBytes(t *testing.T) {
	for w := 0; w < 256; w++ {
		payload := (byte(w) >> 3) & 0x1F
		want := checkTable[payload] == byte(w)&0x07

		_, ok := unprocess(byte(w))
		assert.Equal(t, want, ok, "wire byte 0x%02x", w)
	}
}

func TestZeroPayloadEncodesCleanly(t *testing.T) {
	// C[0] == 0, so the all-zero byte decodes to payload 0.
	assert.Equal(t, byte(0), process(0))
	payload, ok := unprocess(0)
	assert.True(t, ok)
	assert.Equal(t, byte(0), payload)
}

func TestCheckCodeSoundnessProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := byte(rapid.IntRange(0, 31).Draw(rt, "payload"))
		got, ok := unprocess(process(m))
		assert.True(rt, ok)
		assert.Equal(rt, m, got)
	})
}
