package simhw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSPI_ChipID_IsPlausible(t *testing.T) {
	spi := NewSPI(DefaultProfile(), NewClock(), 1)
	id, err := spi.ReadRegister(regID)
	require.NoError(t, err)
	assert.NotEqual(t, byte(0x00), id)
	assert.NotEqual(t, byte(0xFF), id)
}

func TestSPI_RegisterWriteReadRoundTrip(t *testing.T) {
	spi := NewSPI(DefaultProfile(), NewClock(), 1)
	require.NoError(t, spi.WriteRegister(0x01, 0x96))
	got, err := spi.ReadRegister(0x01)
	require.NoError(t, err)
	assert.Equal(t, byte(0x96), got)
}

func TestSPI_ReadFrame_ValidHeaderByDefault(t *testing.T) {
	spi := NewSPI(DefaultProfile(), NewClock(), 1)
	frame := make([]byte, 15)
	require.NoError(t, spi.ReadFrame(frame))

	status := uint32(frame[0])<<16 | uint32(frame[1])<<8 | uint32(frame[2])
	assert.Equal(t, uint32(0xC00000), status&0xF00000)
}

func TestSPI_ReadFrame_DropFrameFault(t *testing.T) {
	p := DefaultProfile()
	p.Faults.DropFrameEveryN = 3
	spi := NewSPI(p, NewClock(), 1)
	frame := make([]byte, 15)

	require.NoError(t, spi.ReadFrame(frame))
	require.NoError(t, spi.ReadFrame(frame))
	err := spi.ReadFrame(frame)
	assert.Error(t, err, "third frame should be dropped per profile")
}

func TestSPI_ReadFrame_CorruptHeaderFault(t *testing.T) {
	p := DefaultProfile()
	p.Faults.CorruptHeaderEveryN = 2
	spi := NewSPI(p, NewClock(), 1)
	frame := make([]byte, 15)

	require.NoError(t, spi.ReadFrame(frame))
	require.NoError(t, spi.ReadFrame(frame))
	status := uint32(frame[0])<<16 | uint32(frame[1])<<8 | uint32(frame[2])
	assert.NotEqual(t, uint32(0xC00000), status&0xF00000, "second frame should have a corrupted header")
}

func TestSPI_ReadFrame_StuckBusFault(t *testing.T) {
	p := DefaultProfile()
	p.Faults.StuckAfterFrames = 2
	spi := NewSPI(p, NewClock(), 1)
	frame := make([]byte, 15)

	require.NoError(t, spi.ReadFrame(frame))
	require.NoError(t, spi.ReadFrame(frame))
	require.Error(t, spi.ReadFrame(frame))
	require.Error(t, spi.ReadFrame(frame), "bus should stay stuck on every subsequent read")
}

func TestSPI_InternalTestSignal_ProducesSquareWave(t *testing.T) {
	spi := NewSPI(DefaultProfile(), NewClock(), 1)
	require.NoError(t, spi.WriteRegister(regCH1Set, chTest24x))

	frame := make([]byte, 15)
	require.NoError(t, spi.ReadFrame(frame))
	ch1 := int32(frame[3])<<16 | int32(frame[4])<<8 | int32(frame[5])
	assert.NotEqual(t, int32(0), ch1)
}
