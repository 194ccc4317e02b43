package pipeline

// handleButton polls the debounced start/stop button, held on a pull-up so
// idle is high. A falling edge toggles streaming, no more often than once
// per ButtonDebounceMs.
func (s *Supervisor) handleButton() {
	now := s.button.Read()

	if s.lastButtonState && !now {
		nowMs := s.clock.Millis()
		if nowMs-s.lastButtonToggleMs > s.cfg.ButtonDebounceMs {
			s.lastButtonToggleMs = nowMs
			s.pendingButtonFlag = true
			if s.driver.Streaming() {
				_ = s.driver.StopStreaming()
				s.emitStreamStateEvent(false)
			} else {
				if err := s.driver.StartStreaming(); err == nil {
					s.emitStreamStateEvent(true)
				}
			}
		}
	}

	s.lastButtonState = now
}
