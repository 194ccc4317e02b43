// Package hal defines the narrow hardware interfaces the firmware core
// depends on. Concrete implementations live in pkg/simhw (host tests and
// the bench simulator) and cmd/firmware (the real TinyGo target).
package hal

// GPIO is a single digital pin, driven or read by the core.
type GPIO interface {
	High()
	Low()
	Read() bool
}

// SPI is the ADS1299 register/data bus. Every method brackets its own
// chip-select and begin/end transaction, released on every exit path
// including error returns.
type SPI interface {
	// Command sends a single-byte opcode with CS held low for the exchange.
	Command(cmd byte) error
	// ReadRegister issues the register-read opcode for reg and returns the
	// single byte that comes back.
	ReadRegister(reg byte) (byte, error)
	// WriteRegister issues the register-write opcode for reg with value.
	WriteRegister(reg, value byte) error
	// ReadRegisters performs a burst register read of count registers
	// starting at start, filling dest (len(dest) must be >= count).
	ReadRegisters(start, count byte, dest []byte) error
	// ReadFrame performs a 15-byte all-zero-byte burst transfer, used to
	// pull one ADS1299 status+channel frame. CS is held low for the whole
	// burst.
	ReadFrame(dst []byte) error
}

// Clock is the only source of time and delay the core ever calls.
type Clock interface {
	Micros() uint32
	Millis() uint32
	SleepMicros(us uint32)
	SleepMillis(ms uint32)
}

// Watchdog feeds a hardware watchdog. Supported reports false on platforms
// without one, in which case Feed is a silent no-op.
type Watchdog interface {
	Feed()
	Supported() bool
}

// Writer is the serial peripheral the transmit ring drains into. Write must
// never block and returns the number of bytes actually accepted.
type Writer interface {
	AvailableForWrite() int
	Write(p []byte) int
}

// CriticalSection brackets the ISR-visible state snapshot the main loop
// takes from the DRDY tracker. On single-core MCUs this disables and
// re-enables interrupts; on platforms with a native atomic/sequence-lock
// primitive an implementer may substitute an equivalent lock-free protocol.
type CriticalSection interface {
	Enter()
	Exit()
}

// Reader is the serial peripheral the command parser drains from.
type Reader interface {
	Available() int
	ReadByte() (byte, error)
}
