//go:build tinygo

package main

import "time"

// mcuClock adapts time.Now()/time.Sleep to hal.Clock. The core only ever
// takes differences of Micros(), so wraparound at the uint32 boundary is
// handled the same way the ADS1299's own DRDY timestamps are.
type mcuClock struct {
	start time.Time
}

func newMcuClock() *mcuClock {
	return &mcuClock{start: time.Now()}
}

func (c *mcuClock) Micros() uint32 {
	return uint32(time.Since(c.start).Microseconds())
}

func (c *mcuClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

func (c *mcuClock) SleepMicros(us uint32) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}

func (c *mcuClock) SleepMillis(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
