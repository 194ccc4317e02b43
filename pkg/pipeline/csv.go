package pipeline

import (
	"fmt"

	"github.com/TheusHen/EEGFrontier/pkg/ads1299"
)

const csvHeader = "sample,drdy_t_us,proc_t_us,drdy_interval_us,status,ch1,ch2,ch3,ch4,ch1_uv,ch2_uv,ch3_uv,ch4_uv,flags,missed_drdy_frame,missed_drdy_total,recoveries_total\n"

// writeCSVHeader writes the CSV column header directly to the CSV sink,
// same as writeCSVRow: CSV mode is debug-only and heavier than the binary
// transport, so it bypasses the transmit ring entirely rather than
// competing with sample packets for ring space.
func (s *Supervisor) writeCSVHeader() {
	if s.csv == nil {
		return
	}
	_, _ = s.csv.WriteString(csvHeader)
}

// writeCSVRow emits one CSV sample row. sampleIndex is shared with the
// binary transport's counter: switching modes mid-stream does not reset
// numbering.
func (s *Supervisor) writeCSVRow(drdyTUs, procTUs, drdyIntervalUs uint32, res ads1299.SampleResult, flags, missedFrame, missedTotal uint32) {
	if s.csv == nil {
		return
	}
	uv1 := s.driver.CountsToMicrovolts(res.Ch1)
	uv2 := s.driver.CountsToMicrovolts(res.Ch2)
	uv3 := s.driver.CountsToMicrovolts(res.Ch3)
	uv4 := s.driver.CountsToMicrovolts(res.Ch4)

	row := fmt.Sprintf("%d,%d,%d,%d,%#x,%d,%d,%d,%d,%d,%d,%d,%d,%#x,%d,%d,%d\n",
		s.sampleIndex, drdyTUs, procTUs, drdyIntervalUs, res.Status24,
		res.Ch1, res.Ch2, res.Ch3, res.Ch4,
		uv1, uv2, uv3, uv4,
		flags, missedFrame, missedTotal, s.driver.RecoveriesTotal(),
	)
	_, _ = s.csv.WriteString(row)
}
