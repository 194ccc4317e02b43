package simhw

// GPIO is an in-memory digital pin. Tests and the bench simulator can call
// Read to assert on what the firmware core drove.
type GPIO struct {
	state bool
}

// NewGPIO returns a GPIO initialized low.
func NewGPIO() *GPIO { return &GPIO{} }

func (g *GPIO) High() { g.state = true }
func (g *GPIO) Low()  { g.state = false }
func (g *GPIO) Read() bool {
	return g.state
}

// Set forces the pin's state, used by tests driving DRDY as an input.
func (g *GPIO) Set(v bool) { g.state = v }

// Watchdog is a hal.Watchdog that just counts feeds; Supported is
// configurable so tests can exercise the unsupported-platform path.
type Watchdog struct {
	feeds     int
	supported bool
}

// NewWatchdog returns a Watchdog. supported controls Supported()'s return.
func NewWatchdog(supported bool) *Watchdog {
	return &Watchdog{supported: supported}
}

func (w *Watchdog) Feed()          { w.feeds++ }
func (w *Watchdog) Supported() bool { return w.supported }
func (w *Watchdog) FeedCount() int  { return w.feeds }
