package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/lydakis/idebridge/internal/config"
	"github.com/spf13/cobra"
)

// loadSettings builds the effective configuration. Precedence, lowest first:
// defaults, config file, environment (including .env), flags.
func loadSettings(cmd *cobra.Command, opts *globalOptions) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, withExitCode(ExitUsageErr, fmt.Errorf("loading .env: %w", err))
	}

	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, withExitCode(ExitUsageErr, err)
	}

	if err := config.ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, withExitCode(ExitUsageErr, err)
	}
	applyFlags(cmd, opts, cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, withExitCode(ExitUsageErr, fmt.Errorf("invalid config: %w", err))
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, opts *globalOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = opts.port
	}
	if flags.Changed("host") {
		cfg.Host = opts.host
	}
	if flags.Changed("refresh-interval") {
		cfg.RefreshInterval = config.Duration{Duration: opts.refreshInterval}
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
		cfg.LogEnabled = true
	}
}
