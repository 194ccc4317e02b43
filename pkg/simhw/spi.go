package simhw

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	cmdWakeup  = 0x02
	cmdStandby = 0x04
	cmdReset   = 0x06
	cmdStart   = 0x08
	cmdStop    = 0x0A
	cmdRDATAC  = 0x10
	cmdSDATAC  = 0x11
	cmdRDATA   = 0x12
)

const (
	regID     = 0x00
	regCH1Set = 0x05
)

const chTest24x = 0x65

// deviceID is a plausible, non-boundary ADS1299 chip ID: implementations
// reject 0x00 and 0xFF as implausible readbacks.
const deviceID = 0x3E

// SPI simulates the ADS1299 register file and RDATAC data stream. It
// implements hal.SPI. Register writes and reads behave like the real part
// for every register the driver touches; everything else defaults to zero
// and is accepted without complaint.
type SPI struct {
	profile *Profile
	rng     *rand.Rand
	clock   *Clock

	regs      map[byte]byte
	streaming bool

	frameCount   int
	sampleIndex  int
	stuckReturns int
}

// NewSPI returns an SPI simulator driven by profile and clock. clock
// supplies the timestamp used to synthesize the alpha rhythm.
func NewSPI(profile *Profile, clock *Clock, seed int64) *SPI {
	if profile == nil {
		profile = DefaultProfile()
	}
	return &SPI{
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
		clock:   clock,
		regs:    map[byte]byte{regID: deviceID},
	}
}

func (s *SPI) Command(cmd byte) error {
	switch cmd {
	case cmdRDATAC:
		s.streaming = true
	case cmdSDATAC, cmdStop:
		s.streaming = false
	case cmdStart, cmdReset, cmdWakeup, cmdStandby, cmdRDATA:
		// No state change the simulator needs to track.
	default:
		return fmt.Errorf("simhw: spi: unknown command %#02x", cmd)
	}
	return nil
}

func (s *SPI) ReadRegister(reg byte) (byte, error) {
	return s.regs[reg], nil
}

func (s *SPI) WriteRegister(reg, value byte) error {
	s.regs[reg] = value
	return nil
}

func (s *SPI) ReadRegisters(start, count byte, dest []byte) error {
	for i := byte(0); i < count; i++ {
		dest[i] = s.regs[start+i]
	}
	return nil
}

func (s *SPI) internalTestActive() bool {
	return s.regs[regCH1Set] == chTest24x
}

// ReadFrame synthesizes one 15-byte RDATAC frame: a valid status header
// (corrupted per the fault profile), and four channels carrying either the
// ADS1299 internal test square wave or a synthetic alpha-rhythm-plus-noise
// signal, depending on the channel mux register the driver last wrote.
func (s *SPI) ReadFrame(dst []byte) error {
	if len(dst) != 15 {
		return fmt.Errorf("simhw: spi: ReadFrame dst must be 15 bytes, got %d", len(dst))
	}

	s.frameCount++

	if s.profile.Faults.StuckAfterFrames > 0 && s.frameCount > s.profile.Faults.StuckAfterFrames {
		s.stuckReturns++
		return fmt.Errorf("simhw: spi: bus stuck (simulated) after %d frames", s.profile.Faults.StuckAfterFrames)
	}
	if n := s.profile.Faults.DropFrameEveryN; n > 0 && s.frameCount%n == 0 {
		return fmt.Errorf("simhw: spi: frame drop (simulated) at frame %d", s.frameCount)
	}

	status := uint32(0xC00000)
	if n := s.profile.Faults.CorruptHeaderEveryN; n > 0 && s.frameCount%n == 0 {
		status = 0x500000 // invalid header nibble
	}

	s.sampleIndex++
	var counts [4]int32
	if s.internalTestActive() {
		counts = s.testSquareWave()
	} else {
		counts = s.syntheticEEG()
	}

	dst[0] = byte(status >> 16)
	dst[1] = byte(status >> 8)
	dst[2] = byte(status)
	for ch := 0; ch < 4; ch++ {
		put24(dst[3+ch*3:], counts[ch])
	}
	return nil
}

func put24(dst []byte, v int32) {
	dst[0] = byte(v >> 16)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v)
}

// testSquareWave mimics the ADS1299's internal test signal: a square wave
// alternating every 256 samples, scaled well within the self-test's
// peak-to-peak threshold.
func (s *SPI) testSquareWave() [4]int32 {
	amplitude := int32(200000)
	v := amplitude
	if (s.sampleIndex/256)%2 == 1 {
		v = -amplitude
	}
	var counts [4]int32
	for ch := range counts {
		counts[ch] = v + int32(s.rng.NormFloat64()*100)
	}
	return counts
}

// syntheticEEG produces a per-channel alpha rhythm with independent phase
// offsets plus Gaussian noise, using the profile's configured amplitudes.
func (s *SPI) syntheticEEG() [4]int32 {
	tSec := float64(s.clock.Micros()) / 1e6
	amp := float64(s.profile.Signal.AlphaAmplitudeCounts)
	freq := s.profile.Signal.AlphaFrequencyHz
	noise := float64(s.profile.Signal.NoiseAmplitudeCounts)

	var counts [4]int32
	for ch := 0; ch < 4; ch++ {
		phase := float64(ch) * math.Pi / 4
		v := amp*math.Sin(2*math.Pi*freq*tSec+phase) + s.rng.NormFloat64()*noise
		counts[ch] = int32(v)
	}
	return counts
}
