package simhw

import (
	"math/rand"
	"time"
)

// DrdyGenerator pulses a GPIO pin low then high on a timer to stand in for
// the ADS1299 driving its DRDY line, with optional Gaussian jitter around
// the nominal period. It is host-tooling only: nothing under pkg/ads1299,
// pkg/drdy, or pkg/pipeline may depend on it.
type DrdyGenerator struct {
	pin      *GPIO
	periodUs int
	jitterUs int
	rng      *rand.Rand
	onEdge   func()
	stop     chan struct{}
}

// NewDrdyGenerator returns a generator driving pin at periodUs microseconds
// with the given jitter standard deviation. onEdge, if non-nil, is called
// synchronously on every falling edge before the pin is raised back high.
func NewDrdyGenerator(pin *GPIO, periodUs, jitterUs int, seed int64, onEdge func()) *DrdyGenerator {
	return &DrdyGenerator{
		pin:      pin,
		periodUs: periodUs,
		jitterUs: jitterUs,
		rng:      rand.New(rand.NewSource(seed)),
		onEdge:   onEdge,
		stop:     make(chan struct{}),
	}
}

// Run drives falling edges until Stop is called. It is meant to be run in
// its own goroutine by the bench simulator.
func (g *DrdyGenerator) Run() {
	for {
		delay := g.nextDelay()
		select {
		case <-g.stop:
			return
		case <-time.After(delay):
		}

		g.pin.Low()
		if g.onEdge != nil {
			g.onEdge()
		}
		g.pin.High()
	}
}

// Stop halts Run. It is safe to call at most once.
func (g *DrdyGenerator) Stop() {
	close(g.stop)
}

func (g *DrdyGenerator) nextDelay() time.Duration {
	us := g.periodUs
	if g.jitterUs > 0 {
		us += int(g.rng.NormFloat64() * float64(g.jitterUs))
		if us < 1 {
			us = 1
		}
	}
	return time.Duration(us) * time.Microsecond
}
