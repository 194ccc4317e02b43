package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/TheusHen/EEGFrontier/pkg/ads1299"
	"github.com/TheusHen/EEGFrontier/pkg/drdy"
	"github.com/TheusHen/EEGFrontier/pkg/pipeline"
	"github.com/TheusHen/EEGFrontier/pkg/simhw"
	"github.com/TheusHen/EEGFrontier/pkg/txring"
)

var (
	mirrorSerialPort string
	dashboardEnabled bool
	wsAddr           string
	txRingCapacity   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the firmware core against a synthetic ADS1299",
	RunE:  runBenchsim,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&mirrorSerialPort, "mirror-serial", "", "also write every framed byte to this real serial port (go.bug.st/serial)")
	runCmd.Flags().BoolVar(&dashboardEnabled, "dashboard", false, "launch an interactive bubbletea dashboard")
	runCmd.Flags().StringVar(&wsAddr, "ws-addr", "", "serve a websocket endpoint pushing periodic JSON state snapshots, e.g. :8090")
	runCmd.Flags().IntVar(&txRingCapacity, "tx-ring-bytes", 8192, "transmit ring capacity in bytes")
}

// crossCriticalSection is a hal.CriticalSection for the bench loop:
// benchsim's DRDY edges arrive on their own goroutine
// (simhw.DrdyGenerator), so the tracker's shared state does need a real
// mutex here, unlike the bare-metal firmware's single-core interrupt
// disable/enable.
type crossCriticalSection struct {
	mu sync.Mutex
}

func (c *crossCriticalSection) Enter() { c.mu.Lock() }
func (c *crossCriticalSection) Exit()  { c.mu.Unlock() }

func runBenchsim(cmd *cobra.Command, args []string) error {
	profile, err := simhw.LoadProfile(profilePath)
	if err != nil {
		return fmt.Errorf("benchsim: load profile: %w", err)
	}
	manifest, err := loadManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("benchsim: load manifest: %w", err)
	}

	log.Printf("benchsim: profile=%q board=%s serial=%s channels=%v",
		profile.Name, manifest.BoardRevision, manifest.SerialNumber, manifest.ChannelLabels)

	clock := simhw.NewClock()
	spi := simhw.NewSPI(profile, clock, 42)
	pins := ads1299.Pins{
		Reset:  simhw.NewGPIO(),
		Start:  simhw.NewGPIO(),
		LEDRun: simhw.NewGPIO(),
		Drdy:   simhw.NewGPIO(),
	}
	wdt := simhw.NewWatchdog(false) // host process has no hardware watchdog to feed
	driver := ads1299.New(spi, pins, clock, wdt)

	cs := &crossCriticalSection{}
	tracker := drdy.New(cs, ads1299.DefaultSampleRateSps, ads1299.DrdyPeriodUs)
	ring := txring.New(txRingCapacity)

	var writer benchWriter
	mirror, err := openMirror(mirrorSerialPort)
	if err != nil {
		return err
	}
	if mirror != nil {
		defer mirror.Close()
		writer = mirror
	} else {
		writer = &discardWriter{}
	}

	reader := simhw.NewReader()
	button := simhw.NewGPIO()
	button.Set(true)

	sup := pipeline.New(pipeline.DefaultConfig(), driver, tracker, ring, writer, reader, button, clock, wdt, nil)

	if _, _, err := driver.InitRobust(3); err != nil {
		return fmt.Errorf("benchsim: init ads1299 simulator: %w", err)
	}
	if err := driver.StartStreaming(); err != nil {
		return fmt.Errorf("benchsim: start streaming: %w", err)
	}

	drdyPin := pins.Drdy.(*simhw.GPIO)
	periodUs := int(1000000 / ads1299.DefaultSampleRateSps)
	gen := simhw.NewDrdyGenerator(drdyPin, periodUs, profile.Faults.JitterStddevUs, 99, func() {
		cs.Enter()
		tracker.OnFallingEdge(clock.Micros())
		cs.Exit()
	})
	go gen.Run()
	defer gen.Stop()

	stats := newLiveStats(driver, tracker, ring)

	var wsSrv *wsServer
	if wsAddr != "" {
		wsSrv = newWsServer(wsAddr, stats)
		go wsSrv.Serve()
	}

	if dashboardEnabled {
		return runDashboard(sup, stats)
	}

	log.Printf("benchsim: running headless, press Ctrl+C to stop")
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		sup.Step()
	}
	return nil
}

// benchWriter is the hal.Writer the Supervisor drains its ring into.
type benchWriter interface {
	AvailableForWrite() int
	Write(p []byte) int
}

// discardWriter accepts and drops every byte, used when --mirror-serial is
// not given: benchsim cares about the core's internal state, not about
// consuming the wire bytes it produces.
type discardWriter struct{}

func (discardWriter) AvailableForWrite() int { return 1 << 20 }
func (discardWriter) Write(p []byte) int     { return len(p) }
