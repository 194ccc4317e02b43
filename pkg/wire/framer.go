package wire

// Ring is the subset of pkg/txring.Ring the framer needs: bounded,
// non-blocking, all-or-nothing admission of one encoded frame.
type Ring interface {
	WriteBytes(p []byte) bool
}

// maxRawLen is the largest raw body any packet type can produce; it sizes
// the framer's scratch buffers so no packet type ever allocates.
const maxRawLen = SampleRawLen

// Framer turns packet payloads into COBS-framed, zero-terminated wire bytes
// and hands them to a Ring as a single admission. It owns no state besides
// two scratch buffers and is safe to call only from the main loop context
// (never from an ISR).
type Framer struct {
	ring Ring
	raw  [maxRawLen]byte
	enc  [COBSMaxEncodedLenConst + 1]byte
}

// COBSMaxEncodedLenConst is COBSMaxEncodedLen(maxRawLen), computed once so
// Framer's scratch buffer can be a fixed-size array instead of a slice.
const COBSMaxEncodedLenConst = maxRawLen + (maxRawLen+253)/254 + 1

// NewFramer returns a Framer that admits frames into ring.
func NewFramer(ring Ring) *Framer {
	return &Framer{ring: ring}
}

// emit COBS-encodes raw, appends the 0x00 delimiter, and attempts one
// all-or-nothing admission to the ring. It reports whether the frame was
// admitted; counting a rejected frame is left to the Ring implementation
// (txring.Ring does it inside WriteBytes).
func (f *Framer) emit(raw []byte) bool {
	n := COBSEncode(raw, f.enc[:])
	f.enc[n] = 0x00
	return f.ring.WriteBytes(f.enc[:n+1])
}

// EmitSample builds, frames, and enqueues a sample packet.
func (f *Framer) EmitSample(sampleIndex, tUs, status24 uint32, ch1, ch2, ch3, ch4 int32, flags, missedDrdyFrame, recoveriesTotal uint32) bool {
	raw := f.raw[:SampleRawLen]
	EncodeSample(raw, sampleIndex, tUs, status24, ch1, ch2, ch3, ch4, flags, missedDrdyFrame, recoveriesTotal)
	return f.emit(raw)
}

// EmitEvent builds, frames, and enqueues an event packet.
func (f *Framer) EmitEvent(code byte, a, b, c uint32) bool {
	raw := f.raw[:EventRawLen]
	EncodeEvent(raw, code, a, b, c)
	return f.emit(raw)
}

// EmitError builds, frames, and enqueues an error packet.
func (f *Framer) EmitError(code byte, a, b uint32) bool {
	raw := f.raw[:ErrorRawLen]
	EncodeError(raw, code, a, b)
	return f.emit(raw)
}
