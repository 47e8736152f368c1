package config

import (
	"fmt"
	"time"
)

// Config is the top-level idebridge configuration.
type Config struct {
	// IDE location
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	PortRangeStart int    `toml:"port_range_start"`
	PortRangeEnd   int    `toml:"port_range_end"`
	BasePath       string `toml:"base_path"`

	// Timing
	RefreshInterval Duration `toml:"refresh_interval"`
	ProbeTimeout    Duration `toml:"probe_timeout"`
	ForwardTimeout  Duration `toml:"forward_timeout"`

	// Logging
	LogEnabled bool   `toml:"log_enabled"`
	LogLevel   string `toml:"log_level"`

	// Extra headers sent with every request to the IDE.
	Headers map[string]string `toml:"headers"`
}

// FixedPort reports whether a single port is configured instead of a scan.
func (c Config) FixedPort() bool {
	return c.Port > 0
}

// Duration is a time.Duration written as a Go duration string ("10s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
