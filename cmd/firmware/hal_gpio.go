//go:build tinygo

package main

import "machine"

// mcuGPIO adapts a machine.Pin to hal.GPIO.
type mcuGPIO struct {
	pin machine.Pin
}

func (g mcuGPIO) High()      { g.pin.High() }
func (g mcuGPIO) Low()       { g.pin.Low() }
func (g mcuGPIO) Read() bool { return g.pin.Get() }
