// Package badge wires the badge tasks for each demo step.
package badge

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/robotalks/badge.go/pkg/event"
	"github.com/robotalks/badge.go/pkg/input"
	"github.com/robotalks/badge.go/pkg/led"
	"github.com/robotalks/badge.go/pkg/pubsub"
	"github.com/robotalks/badge.go/pkg/supervisor"
)

// Config defines the tunables of the badge tasks.
type Config struct {
	ConfigFile      string
	Capacity        int
	Policy          string
	Settle          time.Duration
	PollInterval    time.Duration
	Hold            time.Duration
	RainbowInterval time.Duration
	Heartbeat       time.Duration
	Palette         led.Palette
}

var defaultConfig = Config{
	Capacity:        8,
	Policy:          pubsub.Block.String(),
	Settle:          input.DefaultSettle,
	PollInterval:    input.DefaultPollInterval,
	Hold:            time.Second,
	RainbowInterval: time.Second,
	Heartbeat:       supervisor.HeartbeatPeriod,
	Palette:         led.DefaultPalette(),
}

func init() {
	if val := os.Getenv("BADGE_CONFIG"); val != "" {
		defaultConfig.ConfigFile = val
	}
}

// Flag names.
const (
	FlagConfig   = "config"
	FlagCapacity = "capacity"
	FlagPolicy   = "policy"
	FlagSettle   = "settle"
	FlagPoll     = "poll"
	FlagHold     = "hold"
	FlagRainbow  = "rainbow-interval"
	FlagAlive    = "heartbeat"
)

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ConfigFile, FlagConfig, defaultConfig.ConfigFile, "TOML config file.")
	flag.IntVar(&defaultConfig.Capacity, FlagCapacity, defaultConfig.Capacity, "Event queue depth per subscriber.")
	flag.StringVar(&defaultConfig.Policy, FlagPolicy, defaultConfig.Policy, "Full queue policy: block or drop-oldest.")
	flag.DurationVar(&defaultConfig.Settle, FlagSettle, defaultConfig.Settle, "Button debounce settle time.")
	flag.DurationVar(&defaultConfig.PollInterval, FlagPoll, defaultConfig.PollInterval, "Button poll interval.")
	flag.DurationVar(&defaultConfig.Hold, FlagHold, defaultConfig.Hold, "Pause after each LED update in the buttons step.")
	flag.DurationVar(&defaultConfig.RainbowInterval, FlagRainbow, defaultConfig.RainbowInterval, "Rainbow color period in the tasks step.")
	flag.DurationVar(&defaultConfig.Heartbeat, FlagAlive, defaultConfig.Heartbeat, "Main task heartbeat period in the tasks step.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// MustLoad creates a config from flags and the config file, exits on error.
func MustLoad() *Config {
	conf := NewConfig()
	if err := conf.LoadFile(setFlags()); err != nil {
		glog.Fatalf("load config: %v", err)
	}
	return conf
}

func setFlags() map[string]bool {
	set := make(map[string]bool)
	if flag.Parsed() {
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	}
	return set
}

type fileConfig struct {
	Capacity        *int              `toml:"capacity"`
	Policy          *string           `toml:"policy"`
	Settle          *string           `toml:"settle"`
	Poll            *string           `toml:"poll"`
	Hold            *string           `toml:"hold"`
	RainbowInterval *string           `toml:"rainbow_interval"`
	Heartbeat       *string           `toml:"heartbeat"`
	Palette         map[string]string `toml:"palette"`
}

// LoadFile reads ConfigFile if set, then validates the result. Values of
// flags in cliSet are kept.
func (c *Config) LoadFile(cliSet map[string]bool) error {
	if c.ConfigFile == "" {
		return c.Validate()
	}
	data, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		return errors.Wrapf(err, "read %s", c.ConfigFile)
	}
	return errors.Wrapf(c.Apply(data, cliSet), "config %s", c.ConfigFile)
}

// Apply merges TOML content into the config. Values of flags in cliSet
// are kept.
func (c *Config) Apply(data []byte, cliSet map[string]bool) error {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return errors.Wrap(err, "parse TOML")
	}
	if fc.Capacity != nil && !cliSet[FlagCapacity] {
		c.Capacity = *fc.Capacity
	}
	if fc.Policy != nil && !cliSet[FlagPolicy] {
		c.Policy = *fc.Policy
	}
	durations := []struct {
		flag  string
		value *string
		field *time.Duration
	}{
		{FlagSettle, fc.Settle, &c.Settle},
		{FlagPoll, fc.Poll, &c.PollInterval},
		{FlagHold, fc.Hold, &c.Hold},
		{FlagRainbow, fc.RainbowInterval, &c.RainbowInterval},
		{FlagAlive, fc.Heartbeat, &c.Heartbeat},
	}
	for _, d := range durations {
		if d.value == nil || cliSet[d.flag] {
			continue
		}
		dur, err := time.ParseDuration(*d.value)
		if err != nil {
			return errors.Wrapf(err, "%s", d.flag)
		}
		*d.field = dur
	}
	for name, value := range fc.Palette {
		ev, err := event.ParseEvent(name)
		if err != nil {
			return errors.Wrap(err, "palette")
		}
		color, err := led.ParseColor(value)
		if err != nil {
			return errors.Wrapf(err, "palette %s", strings.ToLower(ev.String()))
		}
		c.Palette.Set(ev, color)
	}
	return c.Validate()
}

// Validate checks the values.
func (c *Config) Validate() error {
	if c.Capacity < 1 {
		return errors.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if _, err := pubsub.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if c.Settle < 0 || c.PollInterval <= 0 {
		return errors.New("settle must not be negative and poll must be positive")
	}
	if c.Hold < 0 {
		return errors.Errorf("hold must not be negative, got %v", c.Hold)
	}
	if c.RainbowInterval <= 0 || c.Heartbeat <= 0 {
		return errors.New("rainbow interval and heartbeat must be positive")
	}
	return nil
}

// OverflowPolicy returns the parsed Policy.
func (c *Config) OverflowPolicy() pubsub.Policy {
	p, err := pubsub.ParsePolicy(c.Policy)
	if err != nil {
		return pubsub.Block
	}
	return p
}

// Debouncer returns the configured debouncer.
func (c *Config) Debouncer() input.Debouncer {
	return input.Debouncer{Settle: c.Settle, PollInterval: c.PollInterval}
}
