//go:build tinygo

// Command firmware is the real-hardware entry point: it binds the ADS1299
// driver and pipeline supervisor to actual TinyGo machine peripherals and
// runs the acquisition loop. cmd/benchsim exercises the same pkg/pipeline
// and pkg/ads1299 code against pkg/simhw instead, for development away from
// the bench.
package main

import (
	"device/arm"
	"machine"

	"github.com/TheusHen/EEGFrontier/pkg/ads1299"
	"github.com/TheusHen/EEGFrontier/pkg/drdy"
	"github.com/TheusHen/EEGFrontier/pkg/pipeline"
	"github.com/TheusHen/EEGFrontier/pkg/txring"
)

const txRingBytes = 8192

func main() {
	configurePins()

	clock := newMcuClock()
	spi := newMcuSPI(spiBus, pinCS)
	pins := ads1299.Pins{
		Reset:  mcuGPIO{pinReset},
		Start:  mcuGPIO{pinStart},
		LEDRun: mcuGPIO{pinLEDRun},
		Drdy:   mcuGPIO{pinDrdy},
	}
	wdt := newMcuWatchdog(2000)
	driver := ads1299.New(spi, pins, clock, wdt)

	tracker := drdy.New(&interruptCriticalSection{}, ads1299.DefaultSampleRateSps, ads1299.DrdyPeriodUs)
	if err := pinDrdy.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		tracker.OnFallingEdge(clock.Micros())
	}); err != nil {
		panic("firmware: attach drdy interrupt: " + err.Error())
	}

	ring := txring.New(txRingBytes)
	writer := mcuWriter{uart: uart}
	reader := mcuReader{uart: uart}
	button := mcuGPIO{pinButton}

	sup := pipeline.New(pipeline.DefaultConfig(), driver, tracker, ring, writer, reader, button, clock, wdt, nil)

	if _, _, err := driver.InitRobust(3); err != nil {
		// The board can't talk to the ADS1299 at all; blink the run LED
		// fast forever rather than silently doing nothing.
		for {
			pinLEDRun.High()
			clock.SleepMillis(100)
			pinLEDRun.Low()
			clock.SleepMillis(100)
		}
	}

	for {
		sup.Step()
	}
}

// interruptCriticalSection disables and re-enables interrupts around the
// tracker's shared state, since DRDY fires from an ISR context on this
// single-core Cortex-M target. Enter/Exit calls never nest in this core, so
// a single saved mask is enough.
type interruptCriticalSection struct {
	mask uintptr
}

func (c *interruptCriticalSection) Enter() { c.mask = arm.DisableInterrupts() }
func (c *interruptCriticalSection) Exit()  { arm.EnableInterrupts(c.mask) }
