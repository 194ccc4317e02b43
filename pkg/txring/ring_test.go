package txring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter is a hal.Writer that accepts up to a configurable number of
// bytes per Write call, letting tests simulate a serial peripheral with a
// small or momentarily-full output buffer.
type fakeWriter struct {
	accepted   []byte
	capPerCall int
}

func (w *fakeWriter) AvailableForWrite() int {
	if w.capPerCall == 0 {
		return 1 << 20
	}
	return w.capPerCall
}

func (w *fakeWriter) Write(p []byte) int {
	n := len(p)
	if w.capPerCall != 0 && n > w.capPerCall {
		n = w.capPerCall
	}
	w.accepted = append(w.accepted, p[:n]...)
	return n
}

func TestRing_WriteBytes_FitsWhole(t *testing.T) {
	r := New(16)
	ok := r.WriteBytes([]byte{1, 2, 3, 4})
	require.True(t, ok)
	assert.Equal(t, 4, r.QueuedBytes())
	assert.Equal(t, 12, r.FreeBytes())
}

func TestRing_WriteBytes_RejectsWhenTooLarge_AllOrNothing(t *testing.T) {
	r := New(4)
	ok := r.WriteBytes([]byte{1, 2, 3, 4, 5})
	require.False(t, ok)
	assert.Equal(t, 0, r.QueuedBytes(), "a rejected write must not admit a partial prefix")
	assert.Equal(t, uint32(5), r.BytesDroppedTotal())
	assert.Equal(t, uint32(1), r.PacketsDroppedTotal())
	assert.True(t, r.TakeOverflowFlag())
	assert.False(t, r.TakeOverflowFlag(), "overflow flag must clear after being taken")
}

func TestRing_WriteBytes_WrapsAround(t *testing.T) {
	r := New(4)
	require.True(t, r.WriteBytes([]byte{1, 2, 3}))
	w := &fakeWriter{}
	r.Service(w)
	require.True(t, r.WriteBytes([]byte{4, 5}))

	for r.QueuedBytes() > 0 {
		r.Service(w)
	}
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, w.accepted)
}

func TestRing_Service_NoRoomIsNoOp(t *testing.T) {
	r := New(16)
	require.True(t, r.WriteBytes([]byte{1, 2, 3}))

	r.Service(noRoomWriter{})
	assert.Equal(t, 3, r.QueuedBytes())
}

type noRoomWriter struct{}

func (noRoomWriter) AvailableForWrite() int { return 0 }
func (noRoomWriter) Write(p []byte) int     { return len(p) }

func TestRing_Service_DrainsInChunksLimitedByWriter(t *testing.T) {
	r := New(64)
	require.True(t, r.WriteBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
	w := &fakeWriter{capPerCall: 3}

	r.Service(w)
	assert.Equal(t, 3, len(w.accepted))
	assert.Equal(t, 5, r.QueuedBytes())

	r.Service(w)
	r.Service(w)
	r.Service(w)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, w.accepted)
	assert.Equal(t, 0, r.QueuedBytes())
}

func TestRing_MaxQueuedBytes_TracksHighWaterMark(t *testing.T) {
	r := New(32)
	w := &fakeWriter{}
	require.True(t, r.WriteBytes([]byte{1, 2, 3, 4, 5}))
	assert.Equal(t, 5, r.MaxQueuedBytes())
	r.Service(w)
	require.True(t, r.WriteBytes([]byte{1, 2}))
	assert.Equal(t, 5, r.MaxQueuedBytes(), "high-water mark must not decrease")
}
