// Command benchsim runs the firmware core against pkg/simhw instead of real
// ADS1299 silicon, for board bring-up and protocol regression testing before
// hardware is on the bench.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
