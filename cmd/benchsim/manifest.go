package main

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// DeviceManifest describes a physical bench unit: which board revision it
// is, its serial number, and how its four channels are labeled on the
// harness. runBenchsim logs it once at startup. It never leaves
// cmd/benchsim — the
// firmware's own INFO/STATS output only ever reports its ADS1299 register
// state, not board metadata.
type DeviceManifest struct {
	BoardRevision string   `cbor:"board_revision"`
	SerialNumber  string   `cbor:"serial_number"`
	ChannelLabels []string `cbor:"channel_labels"`
}

func defaultManifest() DeviceManifest {
	return DeviceManifest{
		BoardRevision: "unknown",
		SerialNumber:  "unknown",
		ChannelLabels: []string{"CH1", "CH2", "CH3", "CH4"},
	}
}

// loadManifest reads a CBOR-encoded DeviceManifest from path. A missing path
// (the flag was not given) returns defaultManifest with no error, matching
// the bench profile's own missing-file-is-not-an-error convention.
func loadManifest(path string) (DeviceManifest, error) {
	if path == "" {
		return defaultManifest(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DeviceManifest{}, fmt.Errorf("benchsim: read manifest: %w", err)
	}

	m := defaultManifest()
	if err := cbor.Unmarshal(data, &m); err != nil {
		return DeviceManifest{}, fmt.Errorf("benchsim: decode manifest: %w", err)
	}
	return m, nil
}
