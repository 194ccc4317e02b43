//go:build tinygo

package main

import "machine"

// mcuWriter adapts machine.UART to hal.Writer.
type mcuWriter struct {
	uart *machine.UART
}

func (w mcuWriter) AvailableForWrite() int { return w.uart.Buffered() }

func (w mcuWriter) Write(p []byte) int {
	n, err := w.uart.Write(p)
	if err != nil {
		return n
	}
	return n
}

// mcuReader adapts machine.UART to hal.Reader.
type mcuReader struct {
	uart *machine.UART
}

func (r mcuReader) Available() int         { return r.uart.Buffered() }
func (r mcuReader) ReadByte() (byte, error) { return r.uart.ReadByte() }

// mcuWatchdog adapts machine.Watchdog to hal.Watchdog. Boards without a
// hardware watchdog peripheral report Supported() false and Feed is a
// silent no-op, matching the core's expectations.
type mcuWatchdog struct {
	supported bool
}

func newMcuWatchdog(timeoutMs uint32) *mcuWatchdog {
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: timeoutMs}); err != nil {
		return &mcuWatchdog{supported: false}
	}
	if err := machine.Watchdog.Start(); err != nil {
		return &mcuWatchdog{supported: false}
	}
	return &mcuWatchdog{supported: true}
}

func (w *mcuWatchdog) Feed() {
	if w.supported {
		machine.Watchdog.Update()
	}
}

func (w *mcuWatchdog) Supported() bool { return w.supported }
