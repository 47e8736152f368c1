package cli

import (
	"fmt"
	"time"

	"github.com/lydakis/idebridge/internal/ide"
	"github.com/lydakis/idebridge/internal/logging"
	"github.com/spf13/cobra"
)

func newProbeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Resolve the IDE endpoint once and list its tools",
		Long: "Runs a single endpoint resolution the way serve does and prints the endpoint that\n" +
			"answered together with the tools it offers. Exits 1 when no IDE answers.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProbe(cmd, opts)
		},
	}
}

func runProbe(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogEnabled, cfg.LogLevel)
	if err != nil {
		return withExitCode(ExitUsageErr, err)
	}
	defer func() { _ = logger.Sync() }()

	c := newComponents(cfg, logger)
	out := cmd.OutOrStdout()

	started := time.Now()
	res, err := c.resolver.Resolve(cmd.Context())
	if err != nil {
		if ctxErr := cmd.Context().Err(); ctxErr != nil {
			return withExitCode(ExitInternal, ctxErr)
		}
		fmt.Fprintf(out, "candidates: %d\n", len(c.resolver.Candidates()))
		return withExitCode(ExitFailure, err)
	}

	fmt.Fprintf(out, "endpoint: %s\n", res.Endpoint)
	fmt.Fprintf(out, "resolved in: %s\n", time.Since(started).Round(time.Millisecond))

	tools, err := ide.ParseTools(res.Payload)
	if err != nil {
		return withExitCode(ExitFailure, fmt.Errorf("endpoint %s answered, but %w", res.Endpoint, err))
	}
	fmt.Fprintf(out, "tools: %d\n", len(tools))
	for _, tool := range tools {
		fmt.Fprintf(out, "  %s\n", tool.Name)
	}
	return nil
}
