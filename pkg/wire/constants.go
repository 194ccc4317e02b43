// Package wire implements the binary framing protocol: little-endian
// packing, CRC-16/CCITT-FALSE, COBS encoding, the sample/event/error packet
// envelopes, and a byte-at-a-time decoder used only by tests.
package wire

// ProtocolVersion is the envelope version byte.
const ProtocolVersion = 0x01

// Packet types.
const (
	TypeSample = 0x01
	TypeEvent  = 0x02
	TypeError  = 0x7F
)

// Sample flag bits, OR-combined per sample.
const (
	FlagStreaming           uint32 = 1 << 0
	FlagRecoveredThisSample uint32 = 1 << 1
	FlagButtonToggled       uint32 = 1 << 2
	FlagDrdyMissed          uint32 = 1 << 3
	FlagStatusHeaderInvalid uint32 = 1 << 4
	FlagLeadOffAny          uint32 = 1 << 5
	FlagTxOverflow          uint32 = 1 << 6
)

// Event codes (type 0x02).
const (
	EventStreamStateChange = 0x01
	EventAdsInitOK         = 0x10
	EventSelfTestResult    = 0x30
)

// Error codes (type 0x7F).
const (
	ErrorInitFailed  = 0xE1
	ErrorFrameRead   = 0xE2
	ErrorDrdyTimeout = 0xE3
)

// ADS1299 status word header (top nibble of the 24-bit status word).
const (
	StatusHeaderMask = 0xF00000
	StatusHeaderOK   = 0xC00000
)
