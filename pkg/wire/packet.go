package wire

// rawEnvelopeOverhead is [type:1][version:1] ... [crc16:2].
const rawEnvelopeOverhead = 1 + 1 + 2

// SampleRawLen is the exact length of a serialized sample packet's raw body
// (envelope + payload + CRC): 2 + 40 + 2.
const SampleRawLen = rawEnvelopeOverhead + 40

// EventRawLen is the exact length of a serialized event packet's raw body.
const EventRawLen = rawEnvelopeOverhead + 1 + 4 + 4 + 4

// ErrorRawLen is the exact length of a serialized error packet's raw body.
const ErrorRawLen = rawEnvelopeOverhead + 1 + 4 + 4

// Sample is the decoded form of a type-0x01 packet, produced only by the
// test/dev ParseRaw/Decoder in decoder.go (the firmware itself never decodes
// its own wire format).
type Sample struct {
	SampleIndex        uint32
	TimestampUs        uint32
	Status24           uint32
	Ch1, Ch2, Ch3, Ch4 int32
	Flags              uint32
	MissedDrdyFrame    uint32
	RecoveriesTotal    uint32
}

// Event is the decoded form of a type-0x02 packet.
type Event struct {
	Code    uint8
	A, B, C uint32
}

// ErrorPkt is the decoded form of a type-0x7F packet.
type ErrorPkt struct {
	Code uint8
	A, B uint32
}

// buildEnvelope writes [type][version] at raw[0:2] and the little-endian
// CRC at raw[len-2:]; raw must be exactly len bytes
// with the payload already written at raw[2:len-2].
func buildEnvelope(raw []byte, typ byte) {
	raw[0] = typ
	raw[1] = ProtocolVersion
	body := raw[:len(raw)-2]
	crc := CRC16CCITTFalse(body)
	PackU16LE(raw[len(raw)-2:], crc)
}

// EncodeSample serializes a sample packet's raw body (envelope + payload +
// CRC) into raw, which must be SampleRawLen bytes. sampleIndex is supplied
// by the caller (pipeline.Supervisor owns the counter and increments it
// after a sample is emitted, so the first sample reads 0).
func EncodeSample(raw []byte, sampleIndex, tUs, status24 uint32, ch1, ch2, ch3, ch4 int32, flags, missedDrdyFrame, recoveriesTotal uint32) {
	p := raw[2:]
	PackU32LE(p[0:4], sampleIndex)
	PackU32LE(p[4:8], tUs)
	PackU32LE(p[8:12], status24)
	PackI32LE(p[12:16], ch1)
	PackI32LE(p[16:20], ch2)
	PackI32LE(p[20:24], ch3)
	PackI32LE(p[24:28], ch4)
	PackU32LE(p[28:32], flags)
	PackU32LE(p[32:36], missedDrdyFrame)
	PackU32LE(p[36:40], recoveriesTotal)
	buildEnvelope(raw, TypeSample)
}

// EncodeEvent serializes an event packet's raw body into raw, which must be
// EventRawLen bytes.
func EncodeEvent(raw []byte, code byte, a, b, c uint32) {
	p := raw[2:]
	p[0] = code
	PackU32LE(p[1:5], a)
	PackU32LE(p[5:9], b)
	PackU32LE(p[9:13], c)
	buildEnvelope(raw, TypeEvent)
}

// EncodeError serializes an error packet's raw body into raw, which must be
// ErrorRawLen bytes.
func EncodeError(raw []byte, code byte, a, b uint32) {
	p := raw[2:]
	p[0] = code
	PackU32LE(p[1:5], a)
	PackU32LE(p[5:9], b)
	buildEnvelope(raw, TypeError)
}
