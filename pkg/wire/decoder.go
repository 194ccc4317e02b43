package wire

import "fmt"

// Decoder reassembles zero-delimited COBS frames byte-at-a-time and parses
// the resulting envelope into a Sample, Event, or ErrorPkt. It exists only
// for tests — neither the firmware nor the bench simulator runs this in the
// other direction.
type Decoder struct {
	buf []byte
}

// PushByte feeds one wire byte into the decoder. When b completes a frame
// (b == 0x00), it decodes and parses the accumulated frame and returns the
// result; ok is false while a frame is still being accumulated.
func (d *Decoder) PushByte(b byte) (sample *Sample, event *Event, errPkt *ErrorPkt, err error, ok bool) {
	if b != 0x00 {
		d.buf = append(d.buf, b)
		return nil, nil, nil, nil, false
	}
	frame := d.buf
	d.buf = nil
	if len(frame) == 0 {
		return nil, nil, nil, nil, false
	}
	raw, decErr := COBSDecode(frame)
	if decErr != nil {
		return nil, nil, nil, fmt.Errorf("wire: decode: %w", decErr), true
	}
	s, e, ep, pErr := ParseRaw(raw)
	return s, e, ep, pErr, true
}

// ParseRaw validates and parses a fully COBS-decoded raw envelope: type,
// version, CRC, and payload length must all match.
func ParseRaw(raw []byte) (*Sample, *Event, *ErrorPkt, error) {
	if len(raw) < rawEnvelopeOverhead {
		return nil, nil, nil, fmt.Errorf("wire: parse: frame too short (%d bytes)", len(raw))
	}
	body := raw[:len(raw)-2]
	want := CRC16CCITTFalse(body)
	got := uint16(raw[len(raw)-2]) | uint16(raw[len(raw)-1])<<8
	if want != got {
		return nil, nil, nil, fmt.Errorf("wire: parse: crc mismatch: want %#04x got %#04x", want, got)
	}
	if raw[1] != ProtocolVersion {
		return nil, nil, nil, fmt.Errorf("wire: parse: unsupported version %d", raw[1])
	}
	p := raw[2 : len(raw)-2]
	switch raw[0] {
	case TypeSample:
		if len(p) != 40 {
			return nil, nil, nil, fmt.Errorf("wire: parse: sample payload length %d, want 40", len(p))
		}
		s := &Sample{
			SampleIndex:     u32le(p[0:4]),
			TimestampUs:     u32le(p[4:8]),
			Status24:        u32le(p[8:12]),
			Ch1:             int32(u32le(p[12:16])),
			Ch2:             int32(u32le(p[16:20])),
			Ch3:             int32(u32le(p[20:24])),
			Ch4:             int32(u32le(p[24:28])),
			Flags:           u32le(p[28:32]),
			MissedDrdyFrame: u32le(p[32:36]),
			RecoveriesTotal: u32le(p[36:40]),
		}
		return s, nil, nil, nil
	case TypeEvent:
		if len(p) != 13 {
			return nil, nil, nil, fmt.Errorf("wire: parse: event payload length %d, want 13", len(p))
		}
		e := &Event{Code: p[0], A: u32le(p[1:5]), B: u32le(p[5:9]), C: u32le(p[9:13])}
		return nil, e, nil, nil
	case TypeError:
		if len(p) != 9 {
			return nil, nil, nil, fmt.Errorf("wire: parse: error payload length %d, want 9", len(p))
		}
		ep := &ErrorPkt{Code: p[0], A: u32le(p[1:5]), B: u32le(p[5:9])}
		return nil, nil, ep, nil
	default:
		return nil, nil, nil, fmt.Errorf("wire: parse: unknown packet type %#02x", raw[0])
	}
}

func u32le(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
}
