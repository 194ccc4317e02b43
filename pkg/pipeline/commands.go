package pipeline

import (
	"fmt"
	"strings"

	"github.com/TheusHen/EEGFrontier/pkg/wire"
)

// handleSerialCommands drains every byte currently available from the
// reader, accumulating a line into cmdBuf and dispatching it to
// processCommand on '\n'. '\r' is ignored; an oversized line is discarded
// with an error response rather than silently truncated.
func (s *Supervisor) handleSerialCommands() {
	for s.reader.Available() > 0 {
		b, err := s.reader.ReadByte()
		if err != nil {
			return
		}
		switch b {
		case '\r':
			continue
		case '\n':
			s.processCommand(string(s.cmdBuf))
			s.cmdBuf = s.cmdBuf[:0]
			continue
		}
		if len(s.cmdBuf) < cap(s.cmdBuf)-1 {
			s.cmdBuf = append(s.cmdBuf, b)
		} else {
			s.cmdBuf = s.cmdBuf[:0]
			s.writeLine("# ERR CMD_TOO_LONG")
		}
	}
}

// writeLine sends a plain-text diagnostic line straight to the transmit
// ring, outside the COBS/CRC envelope: command responses share the wire
// with binary sample packets in both output modes.
func (s *Supervisor) writeLine(line string) {
	s.ring.WriteBytes([]byte(line + "\n"))
}

func (s *Supervisor) emitStreamStateEvent(streaming bool) {
	if s.mode != ModeBIN {
		if streaming {
			s.writeLine("# STREAM_ON")
		} else {
			s.writeLine("# STREAM_OFF")
		}
		return
	}
	var v uint32
	if streaming {
		v = 1
	}
	s.framer.EmitEvent(wire.EventStreamStateChange, v, 0, 0)
}

func (s *Supervisor) processCommand(raw string) {
	cmd := strings.ToUpper(strings.TrimSpace(raw))
	if cmd == "" {
		return
	}

	switch cmd {
	case "HELP", "?":
		s.printHelp()
	case "PING":
		s.writeLine("# PONG")
	case "INFO":
		s.printInfo()
	case "STATS":
		s.printStats()
	case "REGS":
		s.dumpRegisters()
	case "START":
		if err := s.driver.StartStreaming(); err == nil {
			s.emitStreamStateEvent(true)
		}
	case "STOP":
		if s.driver.Streaming() {
			_ = s.driver.StopStreaming()
			s.emitStreamStateEvent(false)
		}
	case "REINIT":
		s.reinit()
	case "MODE BIN":
		s.setMode(ModeBIN)
	case "MODE CSV":
		s.setModeCSV()
	case "TEST ON":
		s.toggleTestSignal(true)
	case "TEST OFF":
		s.toggleTestSignal(false)
	case "SELFTEST":
		s.runSelfTest()
	case "LOFF ON":
		s.toggleLeadOff(true)
	case "LOFF OFF":
		s.toggleLeadOff(false)
	case "LOFF STATUS":
		s.printLeadOffStatus()
	default:
		s.writeLine("# ERR UNKNOWN_CMD " + cmd)
	}
}

func (s *Supervisor) reinit() {
	wasStreaming := s.driver.Streaming()
	if wasStreaming {
		_ = s.driver.StopStreaming()
	}
	s.tracker.Reset()
	s.sampleIndex = 0
	chipID, attempt, err := s.driver.InitRobust(3)
	if s.mode == ModeBIN {
		if err == nil {
			s.framer.EmitEvent(wire.EventAdsInitOK, uint32(chipID), uint32(attempt), 0)
		} else {
			s.framer.EmitError(wire.ErrorInitFailed, 0, 0)
		}
	}
	if err == nil && wasStreaming {
		_ = s.driver.StartStreaming()
	}
}

func (s *Supervisor) setMode(m OutputMode) {
	if s.driver.Streaming() {
		_ = s.driver.StopStreaming()
	}
	s.mode = m
	if m == ModeBIN {
		s.writeLine("# OK MODE BIN")
	}
}

func (s *Supervisor) setModeCSV() {
	if !s.cfg.CSVEnabled {
		s.writeLine("# ERR CSV_DISABLED")
		return
	}
	if s.driver.Streaming() {
		_ = s.driver.StopStreaming()
	}
	s.mode = ModeCSV
	s.writeLine("# OK MODE CSV")
	s.writeLine("# WARN CSV_DEBUG_ONLY")
	s.writeCSVHeader()
}

func (s *Supervisor) toggleTestSignal(enable bool) {
	wasStreaming := s.driver.Streaming()
	if wasStreaming {
		_ = s.driver.StopStreaming()
	}
	if err := s.driver.SetInternalTestSignal(enable); err != nil {
		s.writeLine(fmt.Sprintf("# ERR TEST_%s_FAIL", onOff(enable)))
		return
	}
	s.writeLine(fmt.Sprintf("# OK TEST %s", onOff(enable)))
	if wasStreaming {
		_ = s.driver.StartStreaming()
	}
}

func (s *Supervisor) toggleLeadOff(enable bool) {
	wasStreaming := s.driver.Streaming()
	if wasStreaming {
		_ = s.driver.StopStreaming()
	}
	if err := s.driver.SetLeadOffDiagnostics(enable); err != nil {
		s.writeLine(fmt.Sprintf("# ERR LOFF_%s_FAIL", onOff(enable)))
		return
	}
	s.writeLine(fmt.Sprintf("# OK LOFF %s", onOff(enable)))
	if wasStreaming {
		_ = s.driver.StartStreaming()
	}
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func (s *Supervisor) runSelfTest() {
	s.writeLine("# SELFTEST RUNNING")
	result, err := s.driver.SelfTest(32, func() { s.ring.Service(s.writer) })
	if err != nil {
		s.writeLine("# SELFTEST FAIL")
		return
	}
	if s.mode == ModeBIN {
		var passed uint32
		if result.Passed {
			passed = 1
		}
		s.framer.EmitEvent(wire.EventSelfTestResult, passed, uint32(result.GoodFrames), uint32(result.StatusBad))
	}
	if result.Passed {
		s.writeLine("# SELFTEST PASS")
	} else {
		s.writeLine("# SELFTEST FAIL")
	}
}

func (s *Supervisor) printHelp() {
	lines := []string{
		"",
		"EEGFrontier V1 commands:",
		"  HELP",
		"  INFO",
		"  STATS",
		"  REGS",
		"  START",
		"  STOP",
		"  MODE BIN",
		"  MODE CSV   (debug)",
		"  REINIT",
		"  TEST ON",
		"  TEST OFF",
		"  SELFTEST",
		"  LOFF ON",
		"  LOFF OFF",
		"  LOFF STATUS",
		"  PING",
		"",
	}
	s.writeLine(strings.Join(lines, "\n"))
}

func (s *Supervisor) printInfo() {
	streamingV, readyV, testV, loffV := boolFields(s.driver.Streaming(), s.driver.Ready(),
		s.driver.InternalTestSignalEnabled(), s.driver.LeadOffDiagEnabled())
	transport := "bin+cobs+crc16"
	if s.mode == ModeCSV {
		transport = "csv(debug)"
	}
	js := s.tracker.CaptureJitter()
	status24, loffP, loffN := s.driver.LastStatus()

	s.writeLine(fmt.Sprintf("# EEGFrontier V1\n"+
		"firmware=robust+diag\n"+
		"transport=%s\n"+
		"sample_rate_sps=%d\n"+
		"drdy_expected_period_us=%d\n"+
		"ads_vref_uv=%d\n"+
		"ads_gain=%d\n"+
		"streaming=%d\n"+
		"ads_ready=%d\n"+
		"test_signal=%d\n"+
		"loff_diag=%d\n"+
		"recoveries_total=%d\n"+
		"status_invalid_total=%d\n"+
		"lead_off_any_total=%d\n"+
		"tx_bytes_dropped_total=%d\n"+
		"tx_packets_dropped_total=%d\n"+
		"tx_queued_bytes=%d\n"+
		"tx_max_queued_bytes=%d\n"+
		"drdy_edges_total=%d\n"+
		"last_drdy_to_process_latency_us=%d\n"+
		"last_status24=%#x\n"+
		"last_loff_statp=%#x\n"+
		"last_loff_statn=%#x",
		transport,
		s.driver.SampleRateSps(), expectedPeriodUs(s.driver.SampleRateSps()),
		s.driver.VrefUv(), s.driver.Gain(),
		streamingV, readyV, testV, loffV,
		s.driver.RecoveriesTotal(), s.driver.StatusInvalidTotal(), s.driver.LeadOffAnyTotal(),
		s.ring.BytesDroppedTotal(), s.ring.PacketsDroppedTotal(), s.ring.QueuedBytes(), s.ring.MaxQueuedBytes(),
		s.tracker.EdgesTotal(), js.IntervalLastUs,
		status24, loffP, loffN,
	))
}

func expectedPeriodUs(sps uint32) uint32 {
	if sps == 0 {
		return 0
	}
	return 1000000 / sps
}

func boolFields(a, b, c, d bool) (int, int, int, int) {
	toInt := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	return toInt(a), toInt(b), toInt(c), toInt(d)
}

func (s *Supervisor) printStats() {
	js := s.tracker.CaptureJitter()
	status24, loffP, loffN := s.driver.LastStatus()
	s.writeLine(fmt.Sprintf("# STATS\n"+
		"sample_index=%d\n"+
		"recoveries_total=%d\n"+
		"status_invalid_total=%d\n"+
		"lead_off_any_total=%d\n"+
		"tx_bytes_dropped_total=%d\n"+
		"tx_packets_dropped_total=%d\n"+
		"tx_queued_bytes=%d\n"+
		"tx_free_bytes=%d\n"+
		"tx_max_queued_bytes=%d\n"+
		"drdy_interval_last_us=%d\n"+
		"drdy_jitter_abs_last_us=%d\n"+
		"# LOFF status24=%#x p=%#x n=%#x header_ok=%d",
		s.sampleIndex,
		s.driver.RecoveriesTotal(), s.driver.StatusInvalidTotal(), s.driver.LeadOffAnyTotal(),
		s.ring.BytesDroppedTotal(), s.ring.PacketsDroppedTotal(), s.ring.QueuedBytes(), s.ring.FreeBytes(), s.ring.MaxQueuedBytes(),
		js.IntervalLastUs, js.JitterAbsLastUs,
		status24, loffP, loffN, headerOkFlag(status24),
	))
}

func headerOkFlag(status24 uint32) int {
	if status24&wire.StatusHeaderMask == wire.StatusHeaderOK {
		return 1
	}
	return 0
}

func (s *Supervisor) printLeadOffStatus() {
	status24, loffP, loffN := s.driver.LastStatus()
	s.writeLine(fmt.Sprintf("# LOFF status24=%#x p=%#x n=%#x header_ok=%d", status24, loffP, loffN, headerOkFlag(status24)))
}

func (s *Supervisor) dumpRegisters() {
	s.writeLine("# REG_DUMP_BEGIN")
	// The register map is opaque to the pipeline; REGS delegates entirely
	// to the driver, which owns the SPI bus.
	dump, err := s.driver.DumpRegisters()
	if err != nil {
		s.writeLine("# ERR REGS_READ_FAIL")
		return
	}
	for i, v := range dump {
		s.writeLine(fmt.Sprintf("%#02x,%#02x", i, v))
	}
	s.writeLine("# REG_DUMP_END")
}
