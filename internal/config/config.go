package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lydakis/idebridge/internal/ide"
	"github.com/lydakis/idebridge/internal/paths"
)

// Environment variables read by ApplyEnv.
const (
	EnvPort            = "IDE_PORT"
	EnvHost            = "HOST"
	EnvLogEnabled      = "LOG_ENABLED"
	EnvRefreshInterval = "IDEBRIDGE_REFRESH_INTERVAL"
)

// Defaults for unset keys.
const (
	DefaultRefreshInterval = 10 * time.Second
	DefaultProbeTimeout    = 2 * time.Second
	DefaultForwardTimeout  = 60 * time.Second
	DefaultLogLevel        = "info"
)

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Default returns a config with every key at its default value.
func Default() *Config {
	return &Config{
		Host:            ide.DefaultHost,
		PortRangeStart:  ide.DefaultPortRangeStart,
		PortRangeEnd:    ide.DefaultPortRangeEnd,
		BasePath:        ide.DefaultBasePath,
		RefreshInterval: Duration{DefaultRefreshInterval},
		ProbeTimeout:    Duration{DefaultProbeTimeout},
		ForwardTimeout:  Duration{DefaultForwardTimeout},
		LogLevel:        DefaultLogLevel,
		Headers:         make(map[string]string),
	}
}

// Load reads the config file and returns the parsed Config.
// If the config file does not exist, it returns the defaults (no error).
func Load() (*Config, error) {
	return LoadFrom(paths.ConfigFile())
}

// LoadFrom reads and parses a config file at the given path. Keys missing
// from the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}
	expandConfigEnvVars(cfg)
	return cfg, nil
}

// ExampleConfigPath returns the default config file path (for help messages).
func ExampleConfigPath() string {
	return paths.ConfigFile()
}

// ApplyEnv overrides cfg with the environment variables the bridge honours.
// Unparseable values are reported; cfg keeps what was set before.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookupNonEmpty(lookup, EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}
		cfg.Port = port
	}
	if v, ok := lookupNonEmpty(lookup, EnvHost); ok {
		cfg.Host = v
	}
	if v, ok := lookupNonEmpty(lookup, EnvLogEnabled); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", EnvLogEnabled, v)
		}
		cfg.LogEnabled = enabled
	}
	if v, ok := lookupNonEmpty(lookup, EnvRefreshInterval); ok {
		var d Duration
		if err := d.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", EnvRefreshInterval, err)
		}
		cfg.RefreshInterval = d
	}
	return nil
}

func lookupNonEmpty(lookup func(string) (string, bool), name string) (string, bool) {
	v, ok := lookup(name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func expandConfigEnvVars(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Host = expandEnvVars(cfg.Host)
	cfg.BasePath = expandEnvVars(cfg.BasePath)
	for k, v := range cfg.Headers {
		cfg.Headers[k] = expandEnvVars(v)
	}
}

// expandEnvVars replaces ${VAR_NAME} with the value of the environment variable.
func expandEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRe.FindStringSubmatch(match)[1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match // leave unresolved vars as-is
	})
}
