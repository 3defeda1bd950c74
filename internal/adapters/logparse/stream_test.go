package logparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamParser_EmitsOnPairCompletion(t *testing.T) {
	sp := NewStreamParser()

	_, _, ok := sp.Feed("TX counter (payload): 10")
	assert.False(t, ok)

	counter, rssi, ok := sp.Feed("RSSI: -55 dBm")
	require.True(t, ok)
	assert.Equal(t, 10, counter)
	assert.Equal(t, -55, rssi)

	// The pair resets after emission: a lone reading does not pair with
	// state left over from the previous point.
	_, _, ok = sp.Feed("RSSI: -57 dBm")
	assert.False(t, ok)

	counter, rssi, ok = sp.Feed("TX counter (payload): 11")
	require.True(t, ok)
	assert.Equal(t, 11, counter)
	assert.Equal(t, -57, rssi)
}

func TestStreamParser_LastWriteWinsBeforePairing(t *testing.T) {
	sp := NewStreamParser()

	sp.Feed("TX counter (payload): 1")
	sp.Feed("TX counter (payload): 2")

	counter, _, ok := sp.Feed("RSSI: -60 dBm")
	require.True(t, ok)
	assert.Equal(t, 2, counter)
}

func TestStreamParser_IgnoresNoise(t *testing.T) {
	sp := NewStreamParser()

	_, _, ok := sp.Feed("free heap: 182204")
	assert.False(t, ok)
	_, _, ok = sp.Feed("")
	assert.False(t, ok)
}
