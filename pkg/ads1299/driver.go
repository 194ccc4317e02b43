package ads1299

import (
	"fmt"

	"github.com/TheusHen/EEGFrontier/pkg/hal"
	"github.com/TheusHen/EEGFrontier/pkg/wire"
)

// Pins bundles the GPIO lines the driver toggles directly. DRDY is read-only
// here; edge-triggered acquisition is handled by pkg/drdy, this field only
// supports the self-test's polling wait.
type Pins struct {
	Reset  hal.GPIO
	Start  hal.GPIO
	LEDRun hal.GPIO
	Drdy   hal.GPIO
}

// Frame is one raw 15-byte RDATAC capture: 3 status bytes followed by four
// 3-byte channel words.
type Frame [15]byte

// Status24 returns the 24-bit status word from the frame header.
func (f Frame) Status24() uint32 {
	return uint32(f[0])<<16 | uint32(f[1])<<8 | uint32(f[2])
}

// Channels returns the four sign-extended channel readings.
func (f Frame) Channels() (ch1, ch2, ch3, ch4 int32) {
	ch1 = wire.SignExtend24(uint32(f[3])<<16 | uint32(f[4])<<8 | uint32(f[5]))
	ch2 = wire.SignExtend24(uint32(f[6])<<16 | uint32(f[7])<<8 | uint32(f[8]))
	ch3 = wire.SignExtend24(uint32(f[9])<<16 | uint32(f[10])<<8 | uint32(f[11]))
	ch4 = wire.SignExtend24(uint32(f[12])<<16 | uint32(f[13])<<8 | uint32(f[14]))
	return
}

// Driver owns the ADS1299's register-level state and the streaming
// configuration derived from it. It never emits a wire packet: callers
// inspect its return values and decide what to report.
type Driver struct {
	spi   hal.SPI
	pins  Pins
	clock hal.Clock
	wdt   hal.Watchdog

	ready                     bool
	streaming                 bool
	internalTestSignalEnabled bool
	leadOffDiagEnabled        bool

	sampleRateSps uint32
	gain          uint8
	vrefUv        uint32

	lastStatus24       uint32
	lastLeadOffP       uint8
	lastLeadOffN       uint8
	statusInvalidTotal uint32
	leadOffAnyTotal    uint32
	recoveriesTotal    uint32
}

// New returns a Driver bound to the given hardware interfaces. Register
// state is uninitialized until InitOnce or InitRobust succeeds.
func New(spi hal.SPI, pins Pins, clock hal.Clock, wdt hal.Watchdog) *Driver {
	return &Driver{
		spi:           spi,
		pins:          pins,
		clock:         clock,
		wdt:           wdt,
		sampleRateSps: DefaultSampleRateSps,
		gain:          DefaultGain,
		vrefUv:        DefaultVrefUv,
	}
}

// Ready reports whether the last (Init/Robust) initialization succeeded.
func (d *Driver) Ready() bool { return d.ready }

// Streaming reports whether RDATAC is currently active.
func (d *Driver) Streaming() bool { return d.streaming }

// SampleRateSps, Gain, and VrefUv report the currently configured scaling.
func (d *Driver) SampleRateSps() uint32 { return d.sampleRateSps }
func (d *Driver) Gain() uint8           { return d.gain }
func (d *Driver) VrefUv() uint32        { return d.vrefUv }

// LastStatus tells the caller the most recent status word and its decoded
// lead-off diagnostic bytes, for the LOFF command.
func (d *Driver) LastStatus() (status24 uint32, leadOffP, leadOffN uint8) {
	return d.lastStatus24, d.lastLeadOffP, d.lastLeadOffN
}

// StatusInvalidTotal and LeadOffAnyTotal are cumulative diagnostic counters
// for the STATS command.
func (d *Driver) StatusInvalidTotal() uint32 { return d.statusInvalidTotal }
func (d *Driver) LeadOffAnyTotal() uint32    { return d.leadOffAnyTotal }
func (d *Driver) RecoveriesTotal() uint32    { return d.recoveriesTotal }

// InternalTestSignalEnabled and LeadOffDiagEnabled report the current mode
// flags, for the INFO command.
func (d *Driver) InternalTestSignalEnabled() bool { return d.internalTestSignalEnabled }
func (d *Driver) LeadOffDiagEnabled() bool        { return d.leadOffDiagEnabled }

func (d *Driver) channelConfigValue() byte {
	if d.internalTestSignalEnabled {
		return chTest24x
	}
	return chNormal24x
}

func (d *Driver) config2Value() byte {
	if d.internalTestSignalEnabled {
		return config2TestFast
	}
	return config2Normal
}

// HardwareReset pulses the ADS1299's reset line following the datasheet's
// power-up timing: 5ms high, 10ms low, 25ms settle after the rising edge.
func (d *Driver) HardwareReset() {
	d.pins.Reset.High()
	d.clock.SleepMillis(5)
	d.pins.Reset.Low()
	d.clock.SleepMillis(10)
	d.pins.Reset.High()
	d.clock.SleepMillis(25)
}

func (d *Driver) writeChannelMuxAll(value byte) error {
	regs := []byte{regCH1Set, regCH2Set, regCH3Set, regCH4Set}
	for _, r := range regs {
		if err := d.spi.WriteRegister(r, value); err != nil {
			return err
		}
	}
	for _, r := range regs {
		got, err := d.spi.ReadRegister(r)
		if err != nil {
			return err
		}
		if got != value {
			return fmt.Errorf("ads1299: channel mux readback mismatch on reg %#02x: got %#02x want %#02x", r, got, value)
		}
	}
	return nil
}

// ConfigureRegisters writes and verifies the full V1 register set. It is
// idempotent and safe to call repeatedly, including from SetInternalTestSignal
// and SetLeadOffDiagnostics.
func (d *Driver) ConfigureRegisters() error {
	if err := d.spi.Command(cmdSDATAC); err != nil {
		return err
	}
	d.clock.SleepMillis(5)

	loffVal := byte(0x00)
	loffSensVal := byte(0x00)
	if d.leadOffDiagEnabled {
		loffVal = loffDiagConfig
		loffSensVal = loffAll4ChMask
	}

	writes := []struct {
		reg, val byte
	}{
		{regConfig1, 0x96},
		{regConfig2, d.config2Value()},
		{regConfig3, 0xEC},
		{regLoff, loffVal},
	}
	for _, w := range writes {
		if err := d.spi.WriteRegister(w.reg, w.val); err != nil {
			return err
		}
	}
	if err := d.writeChannelMuxAll(d.channelConfigValue()); err != nil {
		return err
	}
	moreWrites := []struct {
		reg, val byte
	}{
		{regBiasSensP, 0x0F},
		{regBiasSensN, 0x0F},
		{regLoffSensP, loffSensVal},
		{regLoffSensN, loffSensVal},
		{regGPIO, 0x0C},
		{regMisc1, 0x00},
		{regMisc2, 0x00},
		{regConfig4, 0x00},
	}
	for _, w := range moreWrites {
		if err := d.spi.WriteRegister(w.reg, w.val); err != nil {
			return err
		}
	}

	d.clock.SleepMillis(2)

	checks := []struct {
		reg, want byte
	}{
		{regConfig1, 0x96},
		{regConfig2, d.config2Value()},
		{regConfig3, 0xEC},
		{regLoff, loffVal},
		{regLoffSensP, loffSensVal},
		{regLoffSensN, loffSensVal},
	}
	for _, c := range checks {
		got, err := d.spi.ReadRegister(c.reg)
		if err != nil {
			return err
		}
		if got != c.want {
			return fmt.Errorf("ads1299: register %#02x readback mismatch: got %#02x want %#02x", c.reg, got, c.want)
		}
	}
	if err := d.writeChannelMuxAll(d.channelConfigValue()); err != nil {
		return err
	}

	d.sampleRateSps = DefaultSampleRateSps
	d.gain = DefaultGain
	d.vrefUv = DefaultVrefUv
	return nil
}

// InitOnce performs one hardware reset, verifies the chip ID, and applies
// ConfigureRegisters. It returns the chip ID read for diagnostics.
func (d *Driver) InitOnce() (chipID byte, err error) {
	d.pins.Start.Low()
	d.HardwareReset()

	if err := d.spi.Command(cmdSDATAC); err != nil {
		return 0, err
	}
	d.clock.SleepMillis(5)

	id, err := d.spi.ReadRegister(regID)
	if err != nil {
		return 0, err
	}
	if id == 0x00 || id == 0xFF {
		return id, fmt.Errorf("ads1299: implausible chip id %#02x", id)
	}

	if err := d.ConfigureRegisters(); err != nil {
		return id, err
	}
	return id, nil
}

// InitRobust retries InitOnce up to attempts times, feeding the watchdog
// between tries and sleeping 20ms after each failure. It returns the chip
// ID and the attempt number (1-based) on success.
func (d *Driver) InitRobust(attempts uint8) (chipID byte, attempt uint8, err error) {
	if attempts == 0 {
		attempts = 1
	}
	var lastErr error
	for i := uint8(0); i < attempts; i++ {
		if d.wdt.Supported() {
			d.wdt.Feed()
		}
		id, err := d.InitOnce()
		if err == nil {
			d.ready = true
			return id, i + 1, nil
		}
		lastErr = err
		d.clock.SleepMillis(20)
	}
	d.ready = false
	return 0, 0, fmt.Errorf("ads1299: init failed after %d attempts: %w", attempts, lastErr)
}

// StartStreaming initializes the ADS1299 if it is not ready, then issues
// START/RDATAC. It returns an error and the driver stays stopped if
// initialization was required and failed.
func (d *Driver) StartStreaming() error {
	if !d.ready {
		if _, _, err := d.InitRobust(3); err != nil {
			return err
		}
	}

	if err := d.spi.Command(cmdSDATAC); err != nil {
		return err
	}
	d.clock.SleepMicros(10)

	d.pins.Start.High()
	if err := d.spi.Command(cmdStart); err != nil {
		return err
	}
	d.clock.SleepMicros(10)
	if err := d.spi.Command(cmdRDATAC); err != nil {
		return err
	}
	d.clock.SleepMicros(10)

	d.streaming = true
	d.pins.LEDRun.High()
	return nil
}

// StopStreaming issues SDATAC/STOP and de-asserts START.
func (d *Driver) StopStreaming() error {
	if err := d.spi.Command(cmdSDATAC); err != nil {
		return err
	}
	d.clock.SleepMicros(10)
	if err := d.spi.Command(cmdStop); err != nil {
		return err
	}
	d.pins.Start.Low()

	d.streaming = false
	d.pins.LEDRun.Low()
	return nil
}

// SampleResult is one parsed RDATAC frame plus the diagnostic bits
// ReadSample derives from its status word.
type SampleResult struct {
	Status24           uint32
	Ch1, Ch2, Ch3, Ch4 int32
	HeaderOK           bool
	LeadOffAny         bool
}

// ReadSample reads one 15-byte RDATAC frame and decodes it, updating the
// driver's running diagnostic counters.
func (d *Driver) ReadSample() (SampleResult, error) {
	var raw Frame
	if err := d.spi.ReadFrame(raw[:]); err != nil {
		return SampleResult{}, fmt.Errorf("ads1299: frame read: %w", err)
	}

	status24 := raw.Status24()
	ch1, ch2, ch3, ch4 := raw.Channels()

	headerOK := statusHeaderValid(status24)
	loffP := statusLeadOffP(status24)
	loffN := statusLeadOffN(status24)
	loffAny := (loffP | loffN) != 0

	d.lastStatus24 = status24
	d.lastLeadOffP = loffP
	d.lastLeadOffN = loffN
	if !headerOK {
		d.statusInvalidTotal++
	}
	if loffAny {
		d.leadOffAnyTotal++
	}

	return SampleResult{
		Status24:   status24,
		Ch1:        ch1,
		Ch2:        ch2,
		Ch3:        ch3,
		Ch4:        ch4,
		HeaderOK:   headerOK,
		LeadOffAny: loffAny,
	}, nil
}

// SetInternalTestSignal toggles the internal test signal mux and reapplies
// the full register set. On failure the flag is restored and the registers
// are reconfigured a second time to leave the chip in its prior state.
func (d *Driver) SetInternalTestSignal(enable bool) error {
	old := d.internalTestSignalEnabled
	d.internalTestSignalEnabled = enable
	if err := d.ConfigureRegisters(); err != nil {
		d.internalTestSignalEnabled = old
		_ = d.ConfigureRegisters()
		return err
	}
	return nil
}

// SetLeadOffDiagnostics toggles lead-off detection and reapplies the full
// register set, with the same rollback-on-failure behavior as
// SetInternalTestSignal.
func (d *Driver) SetLeadOffDiagnostics(enable bool) error {
	old := d.leadOffDiagEnabled
	d.leadOffDiagEnabled = enable
	if err := d.ConfigureRegisters(); err != nil {
		d.leadOffDiagEnabled = old
		_ = d.ConfigureRegisters()
		return err
	}
	return nil
}

// CountsToMicrovolts converts a raw 24-bit ADC code to microvolts using the
// driver's currently configured gain and reference voltage.
func (d *Driver) CountsToMicrovolts(counts int32) int32 {
	const fullScaleCode = 8388607
	if d.gain == 0 {
		return 0
	}
	numerator := int64(counts) * int64(d.vrefUv)
	denominator := int64(d.gain) * fullScaleCode
	return int32(numerator / denominator)
}

// RecoverElapsedThreshold returns the DRDY-silence timeout, in
// microseconds, after which the caller should consider the stream stalled:
// eight sample periods, floored at 50ms.
func (d *Driver) RecoverElapsedThreshold() uint32 {
	var periodUs uint32 = DrdyPeriodUs
	if d.sampleRateSps > 0 {
		periodUs = 1000000 / d.sampleRateSps
	}
	threshold := periodUs * 8
	if threshold < 50000 {
		threshold = 50000
	}
	return threshold
}

// NoteRecovered marks that a stall recovery just completed, incrementing
// the cumulative counter the pipeline reports in STATS and in the
// recoveries_total sample field.
func (d *Driver) NoteRecovered() {
	d.recoveriesTotal++
}

// numDumpRegisters is the number of consecutive registers, starting at 0,
// the REGS command dumps.
const numDumpRegisters = 0x18

// DumpRegisters reads back the full 0x00-0x17 register range for the REGS
// command.
func (d *Driver) DumpRegisters() ([numDumpRegisters]byte, error) {
	var out [numDumpRegisters]byte
	if err := d.spi.ReadRegisters(0x00, numDumpRegisters, out[:]); err != nil {
		return out, err
	}
	return out, nil
}
