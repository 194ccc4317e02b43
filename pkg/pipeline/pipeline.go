// Package pipeline wires pkg/drdy, pkg/ads1299, pkg/txring and pkg/wire
// into the firmware's main-loop supervisor: the DRDY-driven sample
// acquisition step, the serial command parser, button debouncing, and the
// stall-recovery watchdog. Nothing here touches a goroutine, channel, or
// mutex; the only synchronization primitive it uses is hal.CriticalSection,
// taken indirectly through pkg/drdy.
package pipeline

import (
	"github.com/TheusHen/EEGFrontier/pkg/ads1299"
	"github.com/TheusHen/EEGFrontier/pkg/drdy"
	"github.com/TheusHen/EEGFrontier/pkg/hal"
	"github.com/TheusHen/EEGFrontier/pkg/txring"
	"github.com/TheusHen/EEGFrontier/pkg/wire"
)

// OutputMode selects how sample frames leave the firmware.
type OutputMode uint8

const (
	// ModeBIN streams COBS+CRC framed binary packets, the production
	// transport.
	ModeBIN OutputMode = iota
	// ModeCSV prints a human-readable comma-separated row per sample,
	// bypassing the transmit ring entirely. It exists for bench debugging
	// and is heavier than the binary transport.
	ModeCSV
)

// Config are the fixed parameters a Supervisor is built with.
type Config struct {
	CSVEnabled       bool
	ButtonDebounceMs uint32
	CmdBufferSize    int
}

// DefaultConfig matches the V1 hardware's firmware defaults.
func DefaultConfig() Config {
	return Config{
		CSVEnabled:       true,
		ButtonDebounceMs: 250,
		CmdBufferSize:    96,
	}
}

// Supervisor is the main-loop orchestrator. One Step call corresponds to
// one pass through the firmware's loop() function: feed the watchdog,
// drain the transmit ring, handle any pending serial command, poll the
// button, process one sample if streaming, and check for a stalled stream.
type Supervisor struct {
	cfg Config

	driver  *ads1299.Driver
	tracker *drdy.Tracker
	ring    *txring.Ring
	framer  *wire.Framer

	writer hal.Writer
	reader hal.Reader
	button hal.GPIO
	clock  hal.Clock
	wdt    hal.Watchdog
	csv    CSVWriter

	mode        OutputMode
	sampleIndex uint32

	cmdBuf []byte

	lastButtonState      bool
	lastButtonToggleMs   uint32
	pendingButtonFlag    bool
	pendingRecoveredFlag bool

	lastGoodFrameUs uint32
}

// CSVWriter is the sink CSV rows are written to; tests pass a
// *strings.Builder. cmd/benchsim and cmd/firmware pass nil, and with a nil
// sink the CSV header and rows are not written anywhere.
type CSVWriter interface {
	WriteString(s string) (int, error)
}

// New returns a Supervisor. lastGoodFrameUs should be the clock's current
// reading at construction time, matching main()'s g_lastGoodFrameUs
// initialization right after boot.
func New(cfg Config, driver *ads1299.Driver, tracker *drdy.Tracker, ring *txring.Ring, writer hal.Writer, reader hal.Reader, button hal.GPIO, clock hal.Clock, wdt hal.Watchdog, csv CSVWriter) *Supervisor {
	return &Supervisor{
		cfg:             cfg,
		driver:          driver,
		tracker:         tracker,
		ring:            ring,
		framer:          wire.NewFramer(ring),
		writer:          writer,
		reader:          reader,
		button:          button,
		clock:           clock,
		wdt:             wdt,
		csv:             csv,
		mode:            ModeBIN,
		cmdBuf:          make([]byte, 0, cfg.CmdBufferSize),
		lastButtonState: true, // pull-up idle-high
		// Placed one debounce window (plus 1ms) in the past so the first
		// press after construction toggles at once.
		lastButtonToggleMs: clock.Millis() - cfg.ButtonDebounceMs - 1,
		lastGoodFrameUs:    clock.Micros(),
	}
}

// Mode reports the current output mode.
func (s *Supervisor) Mode() OutputMode { return s.mode }

// SampleIndex reports how many samples have been emitted since REINIT or
// boot.
func (s *Supervisor) SampleIndex() uint32 { return s.sampleIndex }

// Step runs one main-loop iteration.
func (s *Supervisor) Step() {
	if s.wdt.Supported() {
		s.wdt.Feed()
	}
	s.ring.Service(s.writer)

	s.handleSerialCommands()
	s.handleButton()
	s.ring.Service(s.writer)

	if s.driver.Streaming() {
		s.handleOneSampleFrame()
	}

	s.recoverIfNeeded()
	s.ring.Service(s.writer)
}
