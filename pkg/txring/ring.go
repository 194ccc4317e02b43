// Package txring implements the bounded, non-blocking transmit ring buffer
// that sits between the framing layer and the serial peripheral. Admission
// is all-or-nothing: a frame either fits whole or is rejected and counted
// as an overflow, never partially written.
package txring

import "github.com/TheusHen/EEGFrontier/pkg/hal"

// Ring is a byte ring buffer of fixed capacity with single-producer
// (main loop), single-consumer (Service, also main loop) semantics. It is
// not safe for concurrent producer/consumer use from an ISR; the firmware
// only ever calls it from the main loop.
type Ring struct {
	buf   []byte
	head  int
	tail  int
	count int

	bytesDroppedTotal   uint32
	packetsDroppedTotal uint32
	maxQueuedBytes      int
	overflowPending     bool
}

// New returns a Ring with the given byte capacity.
func New(capacity int) *Ring {
	return &Ring{buf: make([]byte, capacity)}
}

// QueuedBytes returns the number of bytes currently buffered.
func (r *Ring) QueuedBytes() int {
	return r.count
}

// FreeBytes returns the number of bytes that can still be admitted.
func (r *Ring) FreeBytes() int {
	return len(r.buf) - r.count
}

// MaxQueuedBytes returns the high-water mark of QueuedBytes ever observed,
// for diagnostics (the STATS command).
func (r *Ring) MaxQueuedBytes() int {
	return r.maxQueuedBytes
}

// BytesDroppedTotal returns the cumulative number of payload bytes rejected
// by WriteBytes due to insufficient space.
func (r *Ring) BytesDroppedTotal() uint32 {
	return r.bytesDroppedTotal
}

// PacketsDroppedTotal returns the cumulative number of WriteBytes calls that
// were rejected outright.
func (r *Ring) PacketsDroppedTotal() uint32 {
	return r.packetsDroppedTotal
}

// TakeOverflowFlag reports whether an overflow occurred since the last call
// and clears the flag. The pipeline latches this into FlagTxOverflow on the
// next emitted sample.
func (r *Ring) TakeOverflowFlag() bool {
	v := r.overflowPending
	r.overflowPending = false
	return v
}

// WriteBytes admits p as a single unit if it fits in the free space, or
// rejects it entirely and counts the drop. It never writes a prefix of p.
func (r *Ring) WriteBytes(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	if len(p) > r.FreeBytes() {
		r.bytesDroppedTotal += uint32(len(p))
		r.packetsDroppedTotal++
		r.overflowPending = true
		return false
	}

	firstChunk := len(r.buf) - r.head
	if firstChunk > len(p) {
		firstChunk = len(p)
	}
	copy(r.buf[r.head:], p[:firstChunk])
	if len(p) > firstChunk {
		copy(r.buf, p[firstChunk:])
	}

	r.head = (r.head + len(p)) % len(r.buf)
	r.count += len(p)
	if r.count > r.maxQueuedBytes {
		r.maxQueuedBytes = r.count
	}
	return true
}

// contiguousReadable returns how many buffered bytes can be handed to the
// writer in one call without wrapping around the ring.
func (r *Ring) contiguousReadable() int {
	if r.count == 0 {
		return 0
	}
	if r.tail < r.head {
		return r.head - r.tail
	}
	return len(r.buf) - r.tail
}

// Service drains as many queued bytes as w will currently accept, in one
// contiguous chunk per call. It never blocks: if w has no room, Service is
// a no-op.
func (r *Ring) Service(w hal.Writer) {
	if r.count == 0 {
		return
	}
	available := w.AvailableForWrite()
	if available <= 0 {
		return
	}

	chunk := r.contiguousReadable()
	if chunk > available {
		chunk = available
	}
	if chunk == 0 {
		return
	}

	written := w.Write(r.buf[r.tail : r.tail+chunk])
	if written <= 0 {
		return
	}

	r.tail = (r.tail + written) % len(r.buf)
	r.count -= written
}
