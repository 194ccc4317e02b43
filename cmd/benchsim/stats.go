package main

import (
	"github.com/TheusHen/EEGFrontier/pkg/ads1299"
	"github.com/TheusHen/EEGFrontier/pkg/drdy"
	"github.com/TheusHen/EEGFrontier/pkg/txring"
)

// liveStats is a JSON-friendly snapshot of the simulated core's internal
// state, shared by the dashboard TUI and the websocket push feed. It
// mirrors what INFO/STATS reports over the wire, read directly off the
// driver/tracker/ring rather than by decoding the firmware's own protocol.
type liveStats struct {
	driver  *ads1299.Driver
	tracker *drdy.Tracker
	ring    *txring.Ring
}

func newLiveStats(driver *ads1299.Driver, tracker *drdy.Tracker, ring *txring.Ring) *liveStats {
	return &liveStats{driver: driver, tracker: tracker, ring: ring}
}

// Snapshot is the JSON payload pushed to websocket clients and rendered by
// the dashboard. Field names are lowerCamelCase to read naturally in a
// browser console, unlike the wire protocol's packed binary fields.
type Snapshot struct {
	SampleRateSps         uint32 `json:"sampleRateSps"`
	Streaming             bool   `json:"streaming"`
	RecoveriesTotal       uint32 `json:"recoveriesTotal"`
	StatusInvalidTotal    uint32 `json:"statusInvalidTotal"`
	LeadOffAnyTotal       uint32 `json:"leadOffAnyTotal"`
	EdgesTotal            uint32 `json:"edgesTotal"`
	IntervalLastUs        uint32 `json:"intervalLastUs"`
	IntervalMinUs         uint32 `json:"intervalMinUs"`
	IntervalMaxUs         uint32 `json:"intervalMaxUs"`
	JitterAbsLastUs       uint32 `json:"jitterAbsLastUs"`
	JitterAbsMaxUs        uint32 `json:"jitterAbsMaxUs"`
	TxQueuedBytes         int    `json:"txQueuedBytes"`
	TxMaxQueuedBytes      int    `json:"txMaxQueuedBytes"`
	TxBytesDroppedTotal   uint32 `json:"txBytesDroppedTotal"`
	TxPacketsDroppedTotal uint32 `json:"txPacketsDroppedTotal"`
}

func (s *liveStats) Snapshot() Snapshot {
	js := s.tracker.CaptureJitter()
	return Snapshot{
		SampleRateSps:         s.driver.SampleRateSps(),
		Streaming:             s.driver.Streaming(),
		RecoveriesTotal:       s.driver.RecoveriesTotal(),
		StatusInvalidTotal:    s.driver.StatusInvalidTotal(),
		LeadOffAnyTotal:       s.driver.LeadOffAnyTotal(),
		EdgesTotal:            s.tracker.EdgesTotal(),
		IntervalLastUs:        js.IntervalLastUs,
		IntervalMinUs:         js.IntervalMinUs,
		IntervalMaxUs:         js.IntervalMaxUs,
		JitterAbsLastUs:       js.JitterAbsLastUs,
		JitterAbsMaxUs:        js.JitterAbsMaxUs,
		TxQueuedBytes:         s.ring.QueuedBytes(),
		TxMaxQueuedBytes:      s.ring.MaxQueuedBytes(),
		TxBytesDroppedTotal:   s.ring.BytesDroppedTotal(),
		TxPacketsDroppedTotal: s.ring.PacketsDroppedTotal(),
	}
}
