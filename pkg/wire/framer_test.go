package wire

import "testing"

// fakeRing is a minimal Ring that just captures every admitted frame,
// enough to exercise Framer without depending on pkg/txring.
type fakeRing struct {
	frames [][]byte
	reject bool
}

func (r *fakeRing) WriteBytes(p []byte) bool {
	if r.reject {
		return false
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	r.frames = append(r.frames, cp)
	return true
}

func TestFramer_EmitSample_RoundTrip(t *testing.T) {
	ring := &fakeRing{}
	f := NewFramer(ring)

	ok := f.EmitSample(1, 100, StatusHeaderOK, 111, -222, 333, -444, FlagStreaming, 0, 0)
	if !ok {
		t.Fatal("EmitSample rejected by ring")
	}
	if len(ring.frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(ring.frames))
	}
	frame := ring.frames[0]
	if frame[len(frame)-1] != 0x00 {
		t.Fatalf("frame not zero-terminated: %v", frame)
	}
	raw, err := COBSDecode(frame[:len(frame)-1])
	if err != nil {
		t.Fatalf("COBSDecode: %v", err)
	}
	s, ev, ep, err := ParseRaw(raw)
	if err != nil {
		t.Fatalf("ParseRaw: %v", err)
	}
	if ev != nil || ep != nil {
		t.Fatal("expected a sample, got event or error")
	}
	if s.SampleIndex != 1 || s.TimestampUs != 100 || s.Status24 != StatusHeaderOK {
		t.Errorf("unexpected sample header: %+v", s)
	}
	if s.Ch1 != 111 || s.Ch2 != -222 || s.Ch3 != 333 || s.Ch4 != -444 {
		t.Errorf("unexpected channel values: %+v", s)
	}
	if s.Flags != FlagStreaming {
		t.Errorf("Flags = %#x, want %#x", s.Flags, FlagStreaming)
	}
}

func TestFramer_EmitEvent_RoundTrip(t *testing.T) {
	ring := &fakeRing{}
	f := NewFramer(ring)

	if !f.EmitEvent(EventAdsInitOK, 1, 2, 3) {
		t.Fatal("EmitEvent rejected by ring")
	}
	raw, err := COBSDecode(ring.frames[0][:len(ring.frames[0])-1])
	if err != nil {
		t.Fatalf("COBSDecode: %v", err)
	}
	_, ev, _, err := ParseRaw(raw)
	if err != nil {
		t.Fatalf("ParseRaw: %v", err)
	}
	if ev == nil {
		t.Fatal("expected an event")
	}
	if ev.Code != EventAdsInitOK || ev.A != 1 || ev.B != 2 || ev.C != 3 {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestFramer_EmitError_RoundTrip(t *testing.T) {
	ring := &fakeRing{}
	f := NewFramer(ring)

	if !f.EmitError(ErrorDrdyTimeout, 7, 8) {
		t.Fatal("EmitError rejected by ring")
	}
	raw, err := COBSDecode(ring.frames[0][:len(ring.frames[0])-1])
	if err != nil {
		t.Fatalf("COBSDecode: %v", err)
	}
	_, _, ep, err := ParseRaw(raw)
	if err != nil {
		t.Fatalf("ParseRaw: %v", err)
	}
	if ep == nil || ep.Code != ErrorDrdyTimeout || ep.A != 7 || ep.B != 8 {
		t.Errorf("unexpected error packet: %+v", ep)
	}
}

func TestFramer_RingRejection_ReturnsFalse(t *testing.T) {
	ring := &fakeRing{reject: true}
	f := NewFramer(ring)
	if f.EmitSample(0, 0, 0, 0, 0, 0, 0, 0, 0, 0) {
		t.Error("expected EmitSample to report rejection")
	}
	if len(ring.frames) != 0 {
		t.Error("no frame should have been admitted")
	}
}

func TestDecoder_PushByte_StreamOfFrames(t *testing.T) {
	ring := &fakeRing{}
	f := NewFramer(ring)
	f.EmitSample(1, 10, StatusHeaderOK, 1, 2, 3, 4, 0, 0, 0)
	f.EmitEvent(EventAdsInitOK, 0, 0, 0)

	var d Decoder
	var samples int
	var events int
	for _, frame := range ring.frames {
		for _, b := range frame {
			s, e, _, err := decodeByte(&d, b)
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if s != nil {
				samples++
			}
			if e != nil {
				events++
			}
		}
	}
	if samples != 1 || events != 1 {
		t.Errorf("samples=%d events=%d, want 1 and 1", samples, events)
	}
}

// decodeByte adapts Decoder.PushByte's five-return signature into the
// three values this test cares about.
func decodeByte(d *Decoder, b byte) (*Sample, *Event, *ErrorPkt, error) {
	s, e, ep, err, _ := d.PushByte(b)
	return s, e, ep, err
}
