package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lydakis/idebridge/internal/logging"
	"github.com/lydakis/idebridge/internal/mcpserver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the IDE's tools over MCP on stdin/stdout",
		Long: "Resolves the IDE endpoint, then serves MCP on stdin/stdout until stdin closes or the\n" +
			"process is interrupted. The endpoint is re-resolved in the background and clients are\n" +
			"sent notifications/tools/list_changed when the IDE's tool list changes.\n\n" +
			"The bridge starts even when no IDE is running; tool calls fail until one appears.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogEnabled, cfg.LogLevel)
	if err != nil {
		return withExitCode(ExitUsageErr, err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newComponents(cfg, logger)
	bridge := mcpserver.New(c.forwarder, logger.Named("mcp"), buildVersion)
	c.detector.SetNotifier(bridge)

	if err := c.cache.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		logger.Info("starting without an IDE; resolution is retried in the background",
			zap.Duration("refresh_interval", cfg.RefreshInterval.Duration))
	} else if err := bridge.LoadTools(c.cache.Current().Payload); err != nil {
		logger.Warn("IDE tool list is not a descriptor array", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.cache.Run(gctx)
	})
	g.Go(func() error {
		// stdin closing ends the session, and with it the refresh loop
		defer cancel()
		err := bridge.Serve(gctx, cmd.InOrStdin(), cmd.OutOrStdout())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return withExitCode(ExitInternal, fmt.Errorf("serving MCP: %w", err))
	}
	logger.Debug("session ended")
	return nil
}
