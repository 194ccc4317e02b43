//go:build tinygo

package main

import "machine"

// ADS1299 SPI opcodes. RREG/WREG are ORed with the target register address;
// the byte that follows carries (count-1) registers to transfer.
const (
	opRREG = 0x20
	opWREG = 0x40
)

// mcuSPI adapts machine.SPI0 plus a manually-toggled chip-select pin to
// hal.SPI. Every method brackets its own CS assertion so a caller never has
// to remember to release the bus on an error path.
type mcuSPI struct {
	bus machine.SPI
	cs  machine.Pin
}

func newMcuSPI(bus machine.SPI, cs machine.Pin) *mcuSPI {
	return &mcuSPI{bus: bus, cs: cs}
}

func (s *mcuSPI) Command(cmd byte) error {
	s.cs.Low()
	defer s.cs.High()
	_, err := s.bus.Transfer(cmd)
	return err
}

func (s *mcuSPI) ReadRegister(reg byte) (byte, error) {
	s.cs.Low()
	defer s.cs.High()

	if _, err := s.bus.Transfer(opRREG | reg); err != nil {
		return 0, err
	}
	if _, err := s.bus.Transfer(0x00); err != nil {
		return 0, err
	}
	v, err := s.bus.Transfer(0x00)
	return v, err
}

func (s *mcuSPI) WriteRegister(reg, value byte) error {
	s.cs.Low()
	defer s.cs.High()

	if _, err := s.bus.Transfer(opWREG | reg); err != nil {
		return err
	}
	if _, err := s.bus.Transfer(0x00); err != nil {
		return err
	}
	_, err := s.bus.Transfer(value)
	return err
}

func (s *mcuSPI) ReadRegisters(start, count byte, dest []byte) error {
	s.cs.Low()
	defer s.cs.High()

	if _, err := s.bus.Transfer(opRREG | start); err != nil {
		return err
	}
	if _, err := s.bus.Transfer(count - 1); err != nil {
		return err
	}
	for i := byte(0); i < count; i++ {
		v, err := s.bus.Transfer(0x00)
		if err != nil {
			return err
		}
		dest[i] = v
	}
	return nil
}

func (s *mcuSPI) ReadFrame(dst []byte) error {
	if len(dst) != 15 {
		panic("firmware: ReadFrame dst must be 15 bytes")
	}
	s.cs.Low()
	defer s.cs.High()

	return s.bus.Tx(nil, dst)
}
