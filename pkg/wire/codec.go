package wire

// PackU16LE writes v little-endian into p[0:2].
func PackU16LE(p []byte, v uint16) {
	p[0] = byte(v)
	p[1] = byte(v >> 8)
}

// PackU32LE writes v little-endian into p[0:4].
func PackU32LE(p []byte, v uint32) {
	p[0] = byte(v)
	p[1] = byte(v >> 8)
	p[2] = byte(v >> 16)
	p[3] = byte(v >> 24)
}

// PackI32LE writes v little-endian into p[0:4] via its two's-complement bit
// pattern.
func PackI32LE(p []byte, v int32) {
	PackU32LE(p, uint32(v))
}

// SignExtend24 interprets the low 24 bits of x as a signed two's-complement
// value and sign-extends it to int32.
func SignExtend24(x uint32) int32 {
	x &= 0x00FFFFFF
	if x&0x00800000 != 0 {
		x |= 0xFF000000
	}
	return int32(x)
}
