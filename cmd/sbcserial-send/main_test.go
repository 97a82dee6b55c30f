package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineSplitsOnWhitespace(t *testing.T) {
	items, err := parseLine("1  -2\t3")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -2, 3}, items)
}

func TestParseLineEmptyIsEmptyPacket(t *testing.T) {
	items, err := parseLine("   ")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParseLineRejectsNonInteger(t *testing.T) {
	_, err := parseLine("1 two 3")
	assert.Error(t, err)
}
