package pipeline_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheusHen/EEGFrontier/pkg/ads1299"
	"github.com/TheusHen/EEGFrontier/pkg/drdy"
	"github.com/TheusHen/EEGFrontier/pkg/pipeline"
	"github.com/TheusHen/EEGFrontier/pkg/simhw"
	"github.com/TheusHen/EEGFrontier/pkg/txring"
	"github.com/TheusHen/EEGFrontier/pkg/wire"
)

type stringCSV struct {
	strings.Builder
}

func (c *stringCSV) WriteString(s string) (int, error) {
	return c.Builder.WriteString(s)
}

type harness struct {
	sup     *pipeline.Supervisor
	spi     *simhw.SPI
	writer  *simhw.Writer
	reader  *simhw.Reader
	button  *simhw.GPIO
	drdyPin *simhw.GPIO
	csv     *stringCSV
	clock   *simhw.Clock
	ring    *txring.Ring
}

func newHarness(t *testing.T, profile *simhw.Profile) *harness {
	t.Helper()
	clock := simhw.NewClock()
	spi := simhw.NewSPI(profile, clock, 7)
	pins := ads1299.Pins{
		Reset:  simhw.NewGPIO(),
		Start:  simhw.NewGPIO(),
		LEDRun: simhw.NewGPIO(),
		Drdy:   simhw.NewGPIO(),
	}
	wdt := simhw.NewWatchdog(true)
	driver := ads1299.New(spi, pins, clock, wdt)
	cs := noopCS{}
	tracker := drdy.New(cs, ads1299.DefaultSampleRateSps, ads1299.DrdyPeriodUs)
	ring := txring.New(4096)
	writer := simhw.NewWriter()
	reader := simhw.NewReader()
	button := simhw.NewGPIO()
	button.Set(true) // idle high, pull-up
	csv := &stringCSV{}

	sup := pipeline.New(pipeline.DefaultConfig(), driver, tracker, ring, writer, reader, button, clock, wdt, csv)
	return &harness{sup: sup, spi: spi, writer: writer, reader: reader, button: button, drdyPin: pins.Drdy.(*simhw.GPIO), csv: csv, clock: clock, ring: ring}
}

type noopCS struct{}

func (noopCS) Enter() {}
func (noopCS) Exit()  {}

func TestSupervisor_PingCommand_RespondsPong(t *testing.T) {
	h := newHarness(t, simhw.DefaultProfile())
	h.reader.Feed([]byte("PING\n"))
	h.sup.Step()

	out := string(h.writer.Take())
	assert.Contains(t, out, "# PONG")
}

func TestSupervisor_StartCommand_BeginsStreaming(t *testing.T) {
	h := newHarness(t, simhw.DefaultProfile())
	h.reader.Feed([]byte("START\n"))
	h.sup.Step()

	assert.NotZero(t, len(h.writer.Accepted), "starting should emit a stream-state-change event")
}

func TestSupervisor_UnknownCommand_ReportsError(t *testing.T) {
	h := newHarness(t, simhw.DefaultProfile())
	h.reader.Feed([]byte("BOGUS\n"))
	h.sup.Step()

	assert.Contains(t, string(h.writer.Take()), "# ERR UNKNOWN_CMD BOGUS")
}

func TestSupervisor_ModeCSV_WritesHeaderAndDisablesBinaryEnvelope(t *testing.T) {
	h := newHarness(t, simhw.DefaultProfile())
	h.reader.Feed([]byte("MODE CSV\n"))
	h.sup.Step()

	assert.Equal(t, pipeline.ModeCSV, h.sup.Mode())
	assert.Contains(t, h.csv.String(), "sample,drdy_t_us")
}

func TestSupervisor_ModeCSV_DisabledByConfig(t *testing.T) {
	clock := simhw.NewClock()
	spi := simhw.NewSPI(simhw.DefaultProfile(), clock, 1)
	pins := ads1299.Pins{Reset: simhw.NewGPIO(), Start: simhw.NewGPIO(), LEDRun: simhw.NewGPIO(), Drdy: simhw.NewGPIO()}
	wdt := simhw.NewWatchdog(true)
	driver := ads1299.New(spi, pins, clock, wdt)
	tracker := drdy.New(noopCS{}, ads1299.DefaultSampleRateSps, ads1299.DrdyPeriodUs)
	ring := txring.New(1024)
	writer := simhw.NewWriter()
	reader := simhw.NewReader()
	button := simhw.NewGPIO()
	button.Set(true)
	csv := &stringCSV{}

	cfg := pipeline.DefaultConfig()
	cfg.CSVEnabled = false
	sup := pipeline.New(cfg, driver, tracker, ring, writer, reader, button, clock, wdt, csv)

	reader.Feed([]byte("MODE CSV\n"))
	sup.Step()
	assert.Equal(t, pipeline.ModeBIN, sup.Mode())
	assert.Contains(t, string(writer.Take()), "CSV_DISABLED")
}

func TestSupervisor_SelfTestCommand_ReportsPass(t *testing.T) {
	h := newHarness(t, simhw.DefaultProfile())
	h.reader.Feed([]byte("SELFTEST\n"))
	h.sup.Step()

	out := string(h.writer.Take())
	assert.Contains(t, out, "SELFTEST RUNNING")
	assert.Contains(t, out, "SELFTEST PASS")
}

func TestSupervisor_ButtonDebounce_TogglesStreamingOnFallingEdge(t *testing.T) {
	h := newHarness(t, simhw.DefaultProfile())

	h.button.Set(false) // simulate press
	h.sup.Step()
	assert.NotZero(t, len(h.writer.Accepted), "button press should start streaming and emit an event")
}

func TestFramer_WireDecodesBackToSample_SmokeCheck(t *testing.T) {
	// Regression guard: EncodeSample/COBS/CRC stay consistent when driven
	// through the Framer used by pipeline, not just wire's own tests.
	ring := txring.New(256)
	f := wire.NewFramer(ring)
	require.True(t, f.EmitSample(1, 2, wire.StatusHeaderOK, 1, 2, 3, 4, 0, 0, 0))

	w := simhw.NewWriter()
	ring.Service(w)
	require.NotEmpty(t, w.Accepted)
	raw, err := wire.COBSDecode(w.Accepted[:len(w.Accepted)-1])
	require.NoError(t, err)
	s, _, _, err := wire.ParseRaw(raw)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, uint32(1), s.SampleIndex)
}
