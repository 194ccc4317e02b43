package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheusHen/EEGFrontier/pkg/ads1299"
	"github.com/TheusHen/EEGFrontier/pkg/drdy"
	"github.com/TheusHen/EEGFrontier/pkg/simhw"
	"github.com/TheusHen/EEGFrontier/pkg/txring"
	"github.com/TheusHen/EEGFrontier/pkg/wire"
)

// decodeSample strips the trailing COBS delimiter and decodes exactly one
// sample packet, failing the test if the frame doesn't parse as one.
func decodeSample(t *testing.T, frame []byte) *wire.Sample {
	t.Helper()
	raw, err := wire.COBSDecode(frame[:len(frame)-1])
	require.NoError(t, err)
	s, ev, ep, err := wire.ParseRaw(raw)
	require.NoError(t, err)
	require.Nil(t, ev)
	require.Nil(t, ep)
	require.NotNil(t, s)
	return s
}

type noopCS struct{}

func (noopCS) Enter() {}
func (noopCS) Exit()  {}

// newTestSupervisor builds a fully wired Supervisor against simhw fakes,
// same as pkg/ads1299's own driver tests. Living in this package (rather
// than pipeline_test) gives tests access to the Supervisor's unexported
// driver, ring, sampleIndex and lastGoodFrameUs; tracker.OnFallingEdge
// stands in for a DRDY interrupt.
func newTestSupervisor(t *testing.T, profile *simhw.Profile) (*Supervisor, *simhw.SPI, *simhw.Writer, *drdy.Tracker, *simhw.Clock) {
	t.Helper()
	clock := simhw.NewClock()
	spi := simhw.NewSPI(profile, clock, 3)
	pins := ads1299.Pins{
		Reset:  simhw.NewGPIO(),
		Start:  simhw.NewGPIO(),
		LEDRun: simhw.NewGPIO(),
		Drdy:   simhw.NewGPIO(),
	}
	wdt := simhw.NewWatchdog(true)
	driver := ads1299.New(spi, pins, clock, wdt)
	tracker := drdy.New(noopCS{}, ads1299.DefaultSampleRateSps, ads1299.DrdyPeriodUs)
	ring := txring.New(4096)
	writer := simhw.NewWriter()
	reader := simhw.NewReader()
	button := simhw.NewGPIO()
	button.Set(true)

	sup := New(DefaultConfig(), driver, tracker, ring, writer, reader, button, clock, wdt, nil)
	return sup, spi, writer, tracker, clock
}

func TestHandleOneSampleFrame_NoEdgePending_DoesNothing(t *testing.T) {
	sup, _, writer, _, _ := newTestSupervisor(t, simhw.DefaultProfile())
	_, _, err := sup.driver.InitRobust(3)
	require.NoError(t, err)
	require.NoError(t, sup.driver.StartStreaming())
	writer.Take()

	emitted := sup.handleOneSampleFrame()
	assert.False(t, emitted)
	assert.Empty(t, writer.Accepted)
}

func TestHandleOneSampleFrame_EdgePending_EmitsFramedSample(t *testing.T) {
	sup, _, writer, tracker, clock := newTestSupervisor(t, simhw.DefaultProfile())
	_, _, err := sup.driver.InitRobust(3)
	require.NoError(t, err)
	require.NoError(t, sup.driver.StartStreaming())
	writer.Take()

	tracker.OnFallingEdge(clock.Micros())

	emitted := sup.handleOneSampleFrame()
	require.True(t, emitted)
	assert.Equal(t, uint32(1), sup.sampleIndex, "counter has advanced past the first sample")

	sup.ring.Service(sup.writer)
	require.NotEmpty(t, writer.Accepted, "a sample packet should have been admitted to the ring and drained")

	s := decodeSample(t, writer.Accepted)
	assert.Equal(t, uint32(0), s.SampleIndex, "the first emitted sample must carry sample_index=0")
}

func TestSupervisor_Step_DrdyEdgeProducesOneFrame(t *testing.T) {
	sup, _, writer, tracker, clock := newTestSupervisor(t, simhw.DefaultProfile())
	sup.reader.(*simhw.Reader).Feed([]byte("START\n"))
	sup.Step()
	writer.Take()

	tracker.OnFallingEdge(clock.Micros())
	sup.Step()

	assert.Equal(t, uint32(1), sup.SampleIndex(), "counter has advanced past the first sample")
	require.NotEmpty(t, writer.Accepted)

	s := decodeSample(t, writer.Accepted)
	assert.Equal(t, uint32(0), s.SampleIndex, "the first emitted sample must carry sample_index=0")
}

func TestRecoverIfNeeded_StallTriggersReinitAndErrorPacket(t *testing.T) {
	profile := simhw.DefaultProfile()
	profile.Faults.StuckAfterFrames = 1
	sup, _, writer, tracker, clock := newTestSupervisor(t, profile)

	_, _, err := sup.driver.InitRobust(3)
	require.NoError(t, err)
	require.NoError(t, sup.driver.StartStreaming())
	writer.Take()

	tracker.OnFallingEdge(clock.Micros())
	sup.handleOneSampleFrame() // consumes the one frame the stuck bus still allows
	writer.Take()

	// Force the stall threshold to read as elapsed regardless of how much
	// wall-clock time this test actually took; uint32 wraparound makes
	// this equivalent to lastGoodFrameUs having been set 100ms ago.
	sup.lastGoodFrameUs = clock.Micros() - 100000
	sup.recoverIfNeeded()
	sup.ring.Service(sup.writer)

	assert.NotEmpty(t, writer.Accepted, "an error packet should have been framed and enqueued")
	assert.True(t, sup.driver.RecoveriesTotal() >= 1)
}

func TestSupervisor_CSVMode_WritesRowsInsteadOfFramedPackets(t *testing.T) {
	csv := &strings.Builder{}
	clock := simhw.NewClock()
	spi := simhw.NewSPI(simhw.DefaultProfile(), clock, 5)
	pins := ads1299.Pins{Reset: simhw.NewGPIO(), Start: simhw.NewGPIO(), LEDRun: simhw.NewGPIO(), Drdy: simhw.NewGPIO()}
	wdt := simhw.NewWatchdog(true)
	driver := ads1299.New(spi, pins, clock, wdt)
	tracker := drdy.New(noopCS{}, ads1299.DefaultSampleRateSps, ads1299.DrdyPeriodUs)
	ring := txring.New(4096)
	writer := simhw.NewWriter()
	reader := simhw.NewReader()
	button := simhw.NewGPIO()
	button.Set(true)

	sup := New(DefaultConfig(), driver, tracker, ring, writer, reader, button, clock, wdt, csv)
	reader.Feed([]byte("MODE CSV\nSTART\n"))
	sup.Step()
	writer.Take()

	tracker.OnFallingEdge(clock.Micros())
	sup.handleOneSampleFrame()

	assert.Empty(t, writer.Accepted, "CSV rows bypass the transmit ring entirely")
	assert.Contains(t, csv.String(), "sample,drdy_t_us")
}
