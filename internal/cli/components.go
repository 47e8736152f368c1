package cli

import (
	"github.com/lydakis/idebridge/internal/changes"
	"github.com/lydakis/idebridge/internal/config"
	"github.com/lydakis/idebridge/internal/forward"
	"github.com/lydakis/idebridge/internal/ide"
	"github.com/lydakis/idebridge/internal/refresh"
	"go.uber.org/zap"
)

// components is the resolution and forwarding pipeline shared by commands.
type components struct {
	resolver  *ide.Resolver
	detector  *changes.Detector
	cache     *refresh.Cache
	forwarder *forward.Forwarder
}

func newComponents(cfg *config.Config, logger *zap.Logger) *components {
	prober := ide.NewHTTPProber(cfg.ProbeTimeout.Duration, cfg.Headers)
	resolver := ide.NewResolver(ide.Options{
		Host:           cfg.Host,
		BasePath:       cfg.BasePath,
		Port:           cfg.Port,
		PortRangeStart: cfg.PortRangeStart,
		PortRangeEnd:   cfg.PortRangeEnd,
	}, prober)

	detector := changes.NewDetector(nil)
	cache := refresh.New(resolver, detector, cfg.RefreshInterval.Duration, logger.Named("refresh"))
	forwarder := forward.New(cache, forward.Options{
		Timeout: cfg.ForwardTimeout.Duration,
		Headers: cfg.Headers,
		Logger:  logger.Named("forward"),
	})

	return &components{
		resolver:  resolver,
		detector:  detector,
		cache:     cache,
		forwarder: forwarder,
	}
}
