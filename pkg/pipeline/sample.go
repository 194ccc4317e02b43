package pipeline

import "github.com/TheusHen/EEGFrontier/pkg/wire"

// handleOneSampleFrame is the acquisition step: if a DRDY edge is pending,
// read one frame off the ADS1299, build its flags, and emit either a
// binary sample packet or a CSV row. It advances sampleIndex and clears
// the one-shot button/recovered flags regardless of transport.
func (s *Supervisor) handleOneSampleFrame() bool {
	snap := s.tracker.CapturePending()
	if !snap.Ready {
		return false
	}

	res, err := s.driver.ReadSample()
	if err != nil {
		if s.mode == ModeBIN {
			s.framer.EmitError(wire.ErrorFrameRead, 0, 0)
		}
		return false
	}

	var flags uint32
	if s.driver.Streaming() {
		flags |= wire.FlagStreaming
	}
	if s.pendingRecoveredFlag {
		flags |= wire.FlagRecoveredThisSample
	}
	if s.pendingButtonFlag {
		flags |= wire.FlagButtonToggled
	}
	if snap.MissedDrdyFrame > 0 {
		flags |= wire.FlagDrdyMissed
	}
	if s.ring.TakeOverflowFlag() {
		flags |= wire.FlagTxOverflow
	}
	if !res.HeaderOK {
		flags |= wire.FlagStatusHeaderInvalid
	}
	if res.LeadOffAny {
		flags |= wire.FlagLeadOffAny
	}

	nowUs := s.clock.Micros()
	sampleTimestampUs := snap.TimestampUs
	if sampleTimestampUs == 0 {
		sampleTimestampUs = nowUs
	}
	s.lastGoodFrameUs = nowUs

	var emitted bool
	if s.mode == ModeBIN {
		emitted = s.framer.EmitSample(s.sampleIndex, sampleTimestampUs, res.Status24,
			res.Ch1, res.Ch2, res.Ch3, res.Ch4, flags, snap.MissedDrdyFrame, s.driver.RecoveriesTotal())
	} else {
		s.writeCSVRow(sampleTimestampUs, nowUs, snap.IntervalLastUs, res, flags, snap.MissedDrdyFrame, snap.MissedDrdyTotal)
		emitted = true
	}
	s.sampleIndex++

	s.pendingButtonFlag = false
	s.pendingRecoveredFlag = false
	return emitted
}

// recoverIfNeeded stops, reinitializes, and (if it had been streaming)
// restarts the ADS1299 once DRDY has been silent for longer than the
// driver's stall threshold. It is a no-op while not streaming.
func (s *Supervisor) recoverIfNeeded() {
	if !s.driver.Streaming() {
		return
	}

	timeoutUs := s.driver.RecoverElapsedThreshold()
	nowUs := s.clock.Micros()
	if nowUs-s.lastGoodFrameUs <= timeoutUs {
		return
	}

	wasStreaming := s.driver.Streaming()
	_ = s.driver.StopStreaming()

	if s.mode == ModeBIN {
		s.framer.EmitError(wire.ErrorDrdyTimeout, nowUs, s.driver.RecoveriesTotal())
	}

	chipID, attempt, err := s.driver.InitRobust(3)
	if s.mode == ModeBIN {
		if err == nil {
			s.framer.EmitEvent(wire.EventAdsInitOK, uint32(chipID), uint32(attempt), 0)
		} else {
			s.framer.EmitError(wire.ErrorInitFailed, 0, 0)
		}
	}
	if err == nil {
		s.driver.NoteRecovered()
		s.pendingRecoveredFlag = true
		if wasStreaming {
			_ = s.driver.StartStreaming()
		}
	}
}
