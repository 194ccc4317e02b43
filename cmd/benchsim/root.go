package main

import (
	"github.com/spf13/cobra"
)

var (
	profilePath  string
	manifestPath string
)

var rootCmd = &cobra.Command{
	Use:   "benchsim",
	Short: "EEGFrontier firmware core running against a synthetic ADS1299",
	Long: `benchsim wires pkg/simhw's in-memory ADS1299 register file and DRDY
generator through the same pkg/hal interfaces the real firmware binds to
real silicon, then drives the identical pipeline.Supervisor main loop.

It exists for board bring-up and protocol regression testing before real
ADS1299 hardware is available, and for reproducing fault conditions (dropped
frames, corrupted status headers, a stuck SPI bus) that are impractical to
trigger on real hardware on demand.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "simhw bench profile YAML file (defaults to a clean 10Hz alpha rhythm)")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "optional CBOR device manifest (board revision, serial number, channel labels)")
}
