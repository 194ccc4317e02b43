package simhw

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile configures a bench simulation run: the synthetic signal shape and
// the fault-injection knobs used to exercise recovery and diagnostic paths
// that real hardware only shows intermittently.
type Profile struct {
	Name string `yaml:"name"`

	Signal struct {
		AlphaAmplitudeCounts int32   `yaml:"alpha_amplitude_counts"`
		AlphaFrequencyHz     float64 `yaml:"alpha_frequency_hz"`
		NoiseAmplitudeCounts int32   `yaml:"noise_amplitude_counts"`
	} `yaml:"signal"`

	Faults struct {
		DropFrameEveryN     int `yaml:"drop_frame_every_n"`
		CorruptHeaderEveryN int `yaml:"corrupt_header_every_n"`
		StuckAfterFrames    int `yaml:"stuck_after_frames"`
		JitterStddevUs      int `yaml:"jitter_stddev_us"`
	} `yaml:"faults"`
}

// DefaultProfile returns a clean-signal, fault-free profile: a 10Hz alpha
// rhythm at a comfortable ADC amplitude with light noise, no faults.
func DefaultProfile() *Profile {
	p := &Profile{Name: "clean"}
	p.Signal.AlphaAmplitudeCounts = 40000
	p.Signal.AlphaFrequencyHz = 10.0
	p.Signal.NoiseAmplitudeCounts = 2000
	return p
}

// LoadProfile reads a YAML bench profile from path. A missing file is not
// an error: it yields DefaultProfile, matching the "run with sane defaults
// until you need to customize" ergonomics of the rest of the bench tooling.
func LoadProfile(path string) (*Profile, error) {
	p := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("simhw: read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("simhw: parse profile: %w", err)
	}
	return p, nil
}
