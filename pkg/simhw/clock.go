// Package simhw implements the pkg/hal interfaces other than
// CriticalSection against synthetic state instead of real silicon: an
// in-memory ADS1299 register file and RDATAC frame generator, GPIO pins, a
// watchdog, a wall-clock-backed Clock, a byte-sink Writer and a queue-backed
// Reader. cmd/benchsim assembles these into a full firmware core running
// in-process against a configurable bench profile; pkg/ads1299 and
// pkg/pipeline's tests use the same pieces directly.
package simhw

import "time"

// Clock implements hal.Clock against the real wall clock, anchored at
// construction time so Micros()/Millis() start near zero.
type Clock struct {
	epoch time.Time
}

// NewClock returns a Clock anchored to the current time.
func NewClock() *Clock {
	return &Clock{epoch: time.Now()}
}

// Micros returns elapsed microseconds since the Clock was constructed,
// wrapping the same way a 32-bit hardware microsecond counter would.
func (c *Clock) Micros() uint32 {
	return uint32(time.Since(c.epoch).Microseconds())
}

// Millis returns elapsed milliseconds since construction.
func (c *Clock) Millis() uint32 {
	return uint32(time.Since(c.epoch).Milliseconds())
}

// SleepMicros blocks for the given number of microseconds.
func (c *Clock) SleepMicros(us uint32) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}

// SleepMillis blocks for the given number of milliseconds.
func (c *Clock) SleepMillis(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
