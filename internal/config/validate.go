package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lydakis/idebridge/internal/logging"
)

const maxPort = 65535

// Validate checks configuration invariants and returns actionable errors.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	var errs []error

	if strings.TrimSpace(cfg.Host) == "" {
		errs = append(errs, errors.New("host: must not be empty"))
	}
	if cfg.Port < 0 || cfg.Port > maxPort {
		errs = append(errs, fmt.Errorf("port: must be between 1 and %d, got %d", maxPort, cfg.Port))
	}

	if !cfg.FixedPort() {
		if !validPort(cfg.PortRangeStart) {
			errs = append(errs, fmt.Errorf("port_range_start: must be between 1 and %d, got %d", maxPort, cfg.PortRangeStart))
		}
		if !validPort(cfg.PortRangeEnd) {
			errs = append(errs, fmt.Errorf("port_range_end: must be between 1 and %d, got %d", maxPort, cfg.PortRangeEnd))
		}
		if cfg.PortRangeEnd < cfg.PortRangeStart {
			errs = append(errs, fmt.Errorf("port_range_end: %d is below port_range_start %d", cfg.PortRangeEnd, cfg.PortRangeStart))
		}
	}

	if cfg.BasePath != "" && !strings.HasPrefix(cfg.BasePath, "/") {
		errs = append(errs, fmt.Errorf("base_path: must start with /, got %q", cfg.BasePath))
	}

	errs = append(errs, positive("refresh_interval", cfg.RefreshInterval)...)
	errs = append(errs, positive("probe_timeout", cfg.ProbeTimeout)...)
	errs = append(errs, positive("forward_timeout", cfg.ForwardTimeout)...)

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	names := make([]string, 0, len(cfg.Headers))
	for name := range cfg.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t\r\n:") {
			errs = append(errs, fmt.Errorf("headers: invalid header name %q", name))
		}
	}

	return errors.Join(errs...)
}

func validPort(p int) bool {
	return p > 0 && p <= maxPort
}

func positive(key string, d Duration) []error {
	if d.Duration <= 0 {
		return []error{fmt.Errorf("%s: must be > 0, got %q", key, d.String())}
	}
	return nil
}
