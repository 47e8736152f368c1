// Package cli implements the idebridge command line.
package cli

import (
	"context"
	"fmt"

	"github.com/lydakis/idebridge/internal/config"
	"github.com/spf13/cobra"
)

// Run is the main CLI entry point. Returns an exit code.
func Run(args []string) int {
	return RunContext(context.Background(), args)
}

// RunContext is Run with a parent context.
func RunContext(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(rootStdin)
	root.SetOut(rootStdout)
	root.SetErr(rootStderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(rootStderr, "idebridge: %v\n", err)
	}
	return exitCode(err)
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "idebridge",
		Short: "Expose a running IDE's tools to MCP clients over stdio",
		Long: "idebridge finds the IDE's built-in HTTP server and serves its tools as an MCP server on stdin/stdout.\n\n" +
			"With no subcommand it behaves like 'idebridge serve'.\n\n" +
			"The IDE is looked up at http://127.0.0.1:<port>/api on ports 63342-63352, or only on\n" +
			"IDE_PORT when that environment variable is set. Configuration is read from\n" +
			config.ExampleConfigPath() + " and a .env file in the working directory.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file path (default "+config.ExampleConfigPath()+")")
	flags.IntVar(&opts.port, "port", 0, fmt.Sprintf("probe only this IDE port (overrides env var %s)", config.EnvPort))
	flags.StringVar(&opts.host, "host", "", fmt.Sprintf("IDE host (overrides env var %s)", config.EnvHost))
	flags.DurationVar(&opts.refreshInterval, "refresh-interval", 0,
		fmt.Sprintf("how often to re-resolve the IDE endpoint (overrides env var %s)", config.EnvRefreshInterval))
	flags.StringVar(&opts.logLevel, "log-level", "", "log level for stderr logging; setting it enables logging")

	root.AddCommand(
		newServeCmd(opts),
		newProbeCmd(opts),
		newCallCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the idebridge version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "idebridge %s\n", buildVersion)
		},
	}
}
