// Package joystick drives simulated badge buttons from a host joystick.
package joystick

import (
	"flag"
)

// Config defines the configurations for the joystick source.
type Config struct {
	DeviceIndex int
	Verbose     bool
}

var defaultConfig = Config{
	DeviceIndex: -1,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.DeviceIndex, "joystick-device", defaultConfig.DeviceIndex, "Joystick device index, -1 for auto detection.")
	flag.BoolVar(&defaultConfig.Verbose, "joystick-verbose", defaultConfig.Verbose, "Log joystick events.")
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

// NewSource creates a Source using the config.
func (c *Config) NewSource(target Target) *Source {
	src := NewSource(target)
	src.DeviceIndex = c.DeviceIndex
	src.Verbose = c.Verbose
	return src
}
