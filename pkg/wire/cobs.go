package wire

import "fmt"

// COBSMaxEncodedLen returns the largest possible encoded length for an input
// of n bytes: n expands by at most ceil(n/254) plus the leading code byte.
func COBSMaxEncodedLen(n int) int {
	return n + (n+253)/254 + 1
}

// COBSEncode consistent-overhead byte-stuffs src into dst, returning the
// number of bytes written. dst must be at least COBSMaxEncodedLen(len(src))
// long. The output never contains a 0x00 byte; the caller appends the
// wire-level 0x00 terminator separately.
func COBSEncode(src []byte, dst []byte) int {
	codeIdx := 0
	out := 1
	code := byte(1)

	for _, b := range src {
		if b == 0 {
			dst[codeIdx] = code
			codeIdx = out
			out++
			code = 1
			continue
		}
		dst[out] = b
		out++
		code++
		if code == 0xFF {
			dst[codeIdx] = code
			codeIdx = out
			out++
			code = 1
		}
	}
	dst[codeIdx] = code
	return out
}

// COBSDecode reverses COBSEncode. It returns an error if src is malformed
// (a code byte pointing past the end of the buffer, or an embedded 0x00).
func COBSDecode(src []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src))
	i := 0
	for i < len(src) {
		code := src[i]
		if code == 0 {
			return nil, fmt.Errorf("wire: cobs decode: unexpected zero code byte at %d", i)
		}
		i++
		for j := byte(1); j < code; j++ {
			if i >= len(src) {
				return nil, fmt.Errorf("wire: cobs decode: code %d overruns buffer", code)
			}
			dst = append(dst, src[i])
			i++
		}
		if code < 0xFF && i < len(src) {
			dst = append(dst, 0)
		}
	}
	return dst, nil
}
