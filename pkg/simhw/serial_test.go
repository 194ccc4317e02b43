package simhw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_CapPerCallLimitsAcceptedBytes(t *testing.T) {
	w := &Writer{CapPerCall: 4}
	n := w.Write([]byte{1, 2, 3, 4, 5, 6})
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{1, 2, 3, 4}, w.Accepted)
}

func TestWriter_Take_DrainsAndClears(t *testing.T) {
	w := NewWriter()
	w.Write([]byte{9, 9})
	got := w.Take()
	assert.Equal(t, []byte{9, 9}, got)
	assert.Empty(t, w.Accepted)
}

func TestReader_FeedAndReadByte(t *testing.T) {
	r := NewReader()
	r.Feed([]byte("PING\n"))
	assert.Equal(t, 5, r.Available())

	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('P'), b)
	assert.Equal(t, 4, r.Available())
}

func TestReader_ReadByte_EmptyReturnsError(t *testing.T) {
	r := NewReader()
	_, err := r.ReadByte()
	assert.Error(t, err)
}

func TestGPIO_HighLowRead(t *testing.T) {
	g := NewGPIO()
	assert.False(t, g.Read())
	g.High()
	assert.True(t, g.Read())
	g.Low()
	assert.False(t, g.Read())
}

func TestWatchdog_FeedCounts(t *testing.T) {
	w := NewWatchdog(true)
	assert.True(t, w.Supported())
	w.Feed()
	w.Feed()
	assert.Equal(t, 2, w.FeedCount())
}
