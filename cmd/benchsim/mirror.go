package main

import (
	"fmt"

	"go.bug.st/serial"
)

// mirrorPort adapts a go.bug.st/serial port to the hal.Writer-shaped
// benchWriter interface the Supervisor drains its ring into.
type mirrorPort struct {
	port serial.Port
}

func (m *mirrorPort) AvailableForWrite() int { return 1 << 16 }

func (m *mirrorPort) Write(p []byte) int {
	n, err := m.port.Write(p)
	if err != nil {
		return 0
	}
	return n
}

func (m *mirrorPort) Close() error {
	return m.port.Close()
}

// openMirror opens portName at the firmware's fixed 921600 baud, mirroring
// the exact byte stream the transmit ring drains so it can be captured on a
// logic analyzer or a second machine during bring-up. An empty portName
// disables mirroring and returns a nil port with no error.
func openMirror(portName string) (*mirrorPort, error) {
	if portName == "" {
		return nil, nil
	}

	mode := &serial.Mode{
		BaudRate: 921600,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("benchsim: open mirror serial port %s: %w", portName, err)
	}
	return &mirrorPort{port: port}, nil
}
