// Package drdy tracks ADS1299 DRDY falling edges: timestamping, interval
// jitter accounting, and the pending/missed-edge handoff between the
// interrupt context and the main loop. It touches no hardware directly;
// timestamps and locking are supplied by the caller through hal.Clock and
// hal.CriticalSection.
package drdy

import "github.com/TheusHen/EEGFrontier/pkg/hal"

// FrameSnapshot is the state CapturePending hands to the main loop for the
// sample currently being assembled.
type FrameSnapshot struct {
	Ready           bool
	TimestampUs     uint32
	IntervalLastUs  uint32
	MissedDrdyFrame uint32
	MissedDrdyTotal uint32
	EdgesTotal      uint32
}

// JitterSnapshot is a read-only copy of the running interval/jitter
// statistics, for the STATS command.
type JitterSnapshot struct {
	IntervalLastUs  uint32
	IntervalMinUs   uint32
	IntervalMaxUs   uint32
	JitterAbsLastUs uint32
	JitterAbsMinUs  uint32
	JitterAbsMaxUs  uint32
	IntervalCount   uint32
	IntervalSumUs   uint64
	JitterAbsSumUs  uint64
}

// Tracker accumulates DRDY edge timing. OnFallingEdge runs in interrupt
// context; every other method runs in the main loop and brackets its access
// to the shared fields with a CriticalSection so the two contexts never
// observe a torn update.
type Tracker struct {
	cs hal.CriticalSection

	sampleRateSps uint32
	drdyPeriodUs  uint32

	pending         bool
	lastTimestampUs uint32
	prevTimestampUs uint32
	intervalLastUs  uint32
	missedFrame     uint32
	missedTotal     uint32
	edgesTotal      uint32

	intervalMinUs  uint32
	intervalMaxUs  uint32
	intervalCount  uint32
	intervalSumUs  uint64
	jitterAbsLast  uint32
	jitterAbsMin   uint32
	jitterAbsMax   uint32
	jitterAbsSumUs uint64
}

// New returns a Tracker. sampleRateSps configures the expected DRDY period
// used for jitter accounting; drdyPeriodUs is the fallback used when
// sampleRateSps is zero.
func New(cs hal.CriticalSection, sampleRateSps, drdyPeriodUs uint32) *Tracker {
	return &Tracker{
		cs:            cs,
		sampleRateSps: sampleRateSps,
		drdyPeriodUs:  drdyPeriodUs,
		intervalMinUs: 0xFFFFFFFF,
		jitterAbsMin:  0xFFFFFFFF,
	}
}

// SetSampleRate updates the expected DRDY rate used to compute jitter.
func (t *Tracker) SetSampleRate(sps uint32) {
	t.cs.Enter()
	defer t.cs.Exit()
	t.sampleRateSps = sps
}

func absDiffU32(a, b uint32) uint32 {
	if a >= b {
		return a - b
	}
	return b - a
}

// OnFallingEdge records one DRDY falling edge. It must only be called from
// the DRDY interrupt handler, with nowUs taken from hal.Clock.Micros() at
// the moment the edge fired.
func (t *Tracker) OnFallingEdge(nowUs uint32) {
	t.edgesTotal++
	t.lastTimestampUs = nowUs

	if t.prevTimestampUs != 0 {
		dt := nowUs - t.prevTimestampUs
		expected := t.drdyPeriodUs
		if t.sampleRateSps > 0 {
			expected = 1000000 / t.sampleRateSps
		}
		jitterAbs := absDiffU32(dt, expected)

		t.intervalLastUs = dt
		if dt < t.intervalMinUs {
			t.intervalMinUs = dt
		}
		if dt > t.intervalMaxUs {
			t.intervalMaxUs = dt
		}
		t.intervalCount++
		t.intervalSumUs += uint64(dt)

		t.jitterAbsLast = jitterAbs
		if jitterAbs < t.jitterAbsMin {
			t.jitterAbsMin = jitterAbs
		}
		if jitterAbs > t.jitterAbsMax {
			t.jitterAbsMax = jitterAbs
		}
		t.jitterAbsSumUs += uint64(jitterAbs)
	}

	t.prevTimestampUs = nowUs

	if t.pending {
		t.missedTotal++
		t.missedFrame++
	} else {
		t.pending = true
	}
}

// CapturePending atomically takes and clears the pending flag along with
// the per-frame missed-edge counter, reporting whether a new edge had
// arrived since the last call.
func (t *Tracker) CapturePending() FrameSnapshot {
	t.cs.Enter()
	defer t.cs.Exit()

	if !t.pending {
		return FrameSnapshot{Ready: false}
	}

	snap := FrameSnapshot{
		Ready:           true,
		TimestampUs:     t.lastTimestampUs,
		IntervalLastUs:  t.intervalLastUs,
		MissedDrdyFrame: t.missedFrame,
		MissedDrdyTotal: t.missedTotal,
		EdgesTotal:      t.edgesTotal,
	}
	t.pending = false
	t.missedFrame = 0
	return snap
}

// CaptureJitter returns a consistent snapshot of the running interval and
// jitter statistics, for the STATS command.
func (t *Tracker) CaptureJitter() JitterSnapshot {
	t.cs.Enter()
	defer t.cs.Exit()

	return JitterSnapshot{
		IntervalLastUs:  t.intervalLastUs,
		IntervalMinUs:   t.intervalMinUs,
		IntervalMaxUs:   t.intervalMaxUs,
		JitterAbsLastUs: t.jitterAbsLast,
		JitterAbsMinUs:  t.jitterAbsMin,
		JitterAbsMaxUs:  t.jitterAbsMax,
		IntervalCount:   t.intervalCount,
		IntervalSumUs:   t.intervalSumUs,
		JitterAbsSumUs:  t.jitterAbsSumUs,
	}
}

// EdgesTotal returns the cumulative count of DRDY falling edges observed.
func (t *Tracker) EdgesTotal() uint32 {
	t.cs.Enter()
	defer t.cs.Exit()
	return t.edgesTotal
}

// Reset clears all counters and pending state, used by REINIT.
func (t *Tracker) Reset() {
	t.cs.Enter()
	defer t.cs.Exit()

	*t = Tracker{
		cs:            t.cs,
		sampleRateSps: t.sampleRateSps,
		drdyPeriodUs:  t.drdyPeriodUs,
		intervalMinUs: 0xFFFFFFFF,
		jitterAbsMin:  0xFFFFFFFF,
	}
}
