//go:build !tinygo

package board

import (
	"context"
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/robotalks/badge.go/pkg/badge"
	"github.com/robotalks/badge.go/pkg/console"
	"github.com/robotalks/badge.go/pkg/display"
	"github.com/robotalks/badge.go/pkg/env"
	"github.com/robotalks/badge.go/pkg/event"
	"github.com/robotalks/badge.go/pkg/input"
	"github.com/robotalks/badge.go/pkg/joystick"
	"github.com/robotalks/badge.go/pkg/metrics/prom"
	"github.com/robotalks/badge.go/pkg/pubsub"
	"github.com/robotalks/badge.go/pkg/sim"
	"github.com/robotalks/badge.go/pkg/telemetry"
)

// Config defines the simulated board.
type Config struct {
	LEDCount    int
	BadgeID     string
	TraceURL    string
	MetricsAddr string
	Console     bool
	Joystick    bool
	Snapshot    string
}

var defaultConfig = Config{
	LEDCount: 10,
	Console:  true,
}

func init() {
	if val := os.Getenv("BADGE_TRACE_URL"); val != "" {
		defaultConfig.TraceURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.LEDCount, "leds", defaultConfig.LEDCount, "Number of simulated LEDs.")
	flag.StringVar(&defaultConfig.BadgeID, "badge-id", defaultConfig.BadgeID, "Badge id in traces, derived from the machine id if empty.")
	flag.StringVar(&defaultConfig.TraceURL, "trace", defaultConfig.TraceURL, "Trace sink URL: mqtt://, ws://, file:// or -.")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics-addr", defaultConfig.MetricsAddr, "Serve Prometheus metrics on this address.")
	flag.BoolVar(&defaultConfig.Console, "console", defaultConfig.Console, "Run the interactive console.")
	flag.BoolVar(&defaultConfig.Joystick, "joystick", defaultConfig.Joystick, "Drive the buttons from a joystick.")
	flag.StringVar(&defaultConfig.Snapshot, "snapshot", defaultConfig.Snapshot, "Save the display to this PNG file on exit.")
	console.SetupFlags()
	joystick.SetupFlags()
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// Sim holds the simulated peripherals.
type Sim struct {
	Lines   *sim.Lines
	Strip   *sim.Strip
	Display *sim.Framebuffer
}

// NewSim creates simulated peripherals with n LEDs.
func NewSim(n int) *Sim {
	return &Sim{
		Lines:   sim.NewLines(),
		Strip:   sim.NewStrip(n),
		Display: sim.NewFramebuffer(display.ScreenWidth, display.ScreenHeight),
	}
}

// Resources hands out the simulated peripherals.
func (s *Sim) Resources() badge.Resources {
	return badge.Resources{
		Buttons: input.NewButtons(func(ev event.Event) input.Line { return s.Lines.Of(ev) }),
		LEDs:    s.Strip,
		Display: s.Display,
	}
}

// Open brings up the simulated board using the default board config.
func Open(ctx context.Context, conf *badge.Config) (*Board, error) {
	return Default().Open(ctx, conf)
}

// Open brings up a new simulated board.
func (c *Config) Open(ctx context.Context, conf *badge.Config) (*Board, error) {
	return c.OpenSim(ctx, conf, NewSim(c.LEDCount))
}

// OpenSim brings up the board on hw.
func (c *Config) OpenSim(ctx context.Context, conf *badge.Config, hw *Sim) (*Board, error) {
	b := &Board{Badge: badge.New(conf, hw.Resources())}

	if c.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		rec := prom.NewRecorder(registry)
		b.Badge.Recorder = rec
		b.Badge.OnChannel = func(name string, stats func() pubsub.Stats) {
			if err := rec.RegisterChannel(name, stats); err != nil {
				glog.Warningf("metrics for channel %s: %v", name, err)
			}
		}
		b.Extra = append(b.Extra, &prom.Server{Addr: c.MetricsAddr, Gatherer: registry})
	}

	if c.TraceURL != "" {
		id := c.BadgeID
		if id == "" {
			id = env.BadgeID()
		}
		sink, err := telemetry.NewSink(ctx, c.TraceURL, id)
		if err != nil {
			return nil, err
		}
		b.onClose(sink.Close)
		b.Badge.Tracer = telemetry.NewTracer(id, sink)
	}

	if c.Joystick {
		b.Extra = append(b.Extra, joystick.Default().NewSource(hw.Lines))
	}
	if c.Console {
		b.Extra = append(b.Extra, console.New(hw.Lines, hw.Strip, hw.Display))
	}
	if fn := c.Snapshot; fn != "" {
		b.onClose(func() error {
			glog.Infof("saving display to %s", fn)
			return hw.Display.SavePNG(fn)
		})
	}
	return b, nil
}
