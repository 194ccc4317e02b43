//go:build tinygo

package main

import "machine"

// Pin assignments and bus configuration for the V1 acquisition board.
const (
	pinReset  = machine.D2
	pinStart  = machine.D3
	pinLEDRun = machine.D13
	pinDrdy   = machine.D4
	pinCS     = machine.D10
	pinButton = machine.D5

	spiFrequencyHz = 1_000_000
	uartBaudRate   = 921600
)

var (
	spiBus = machine.SPI0
	uart   = machine.UART0
)

func configurePins() {
	pinReset.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinStart.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinLEDRun.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinCS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinCS.High()

	pinDrdy.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pinButton.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	if err := spiBus.Configure(machine.SPIConfig{
		Frequency: spiFrequencyHz,
		Mode:      1, // ADS1299 samples on SCLK falling edge, CPOL=0 CPHA=1
	}); err != nil {
		panic("firmware: configure spi: " + err.Error())
	}

	uart.Configure(machine.UARTConfig{BaudRate: uartBaudRate})
}
