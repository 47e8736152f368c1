// Package refresh keeps the resolved IDE endpoint current.
package refresh

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lydakis/idebridge/internal/changes"
	"github.com/lydakis/idebridge/internal/ide"
	"go.uber.org/zap"
)

// DefaultInterval is how often the endpoint is re-resolved.
const DefaultInterval = 10 * time.Second

// Resolver finds the current endpoint.
type Resolver interface {
	Resolve(ctx context.Context) (ide.Resolution, error)
}

// State is an immutable snapshot of the cache. The zero value is Unresolved.
type State struct {
	Endpoint  ide.Endpoint
	Resolved  bool
	Payload   []byte
	CheckedAt time.Time
	Err       error
}

// Cache owns the resolved endpoint. Refresh is its only writer; readers get
// snapshots through Current and Endpoint.
//
// A failed refresh moves the cache to Unresolved: callers fail fast rather
// than keep calling an endpoint that just stopped answering.
type Cache struct {
	resolver Resolver
	detector *changes.Detector
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	refreshMu sync.Mutex
	state     atomic.Pointer[State]
}

// New creates a cache in the Unresolved state. detector may be nil.
func New(resolver Resolver, detector *changes.Detector, interval time.Duration, logger *zap.Logger) *Cache {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{
		resolver: resolver,
		detector: detector,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
	c.state.Store(&State{})
	return c
}

// Current returns the latest snapshot.
func (c *Cache) Current() State {
	s := *c.state.Load()
	s.Payload = bytes.Clone(s.Payload)
	return s
}

// Endpoint returns the resolved endpoint, or false when Unresolved.
func (c *Cache) Endpoint() (ide.Endpoint, bool) {
	s := c.state.Load()
	return s.Endpoint, s.Resolved
}

// Refresh resolves the endpoint once and publishes the result. The winning
// probe's tool listing is handed to the change detector; a failed resolution
// resets it. The returned error is the resolution error, if any.
func (c *Cache) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	prev := c.state.Load()
	res, err := c.resolver.Resolve(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		c.state.Store(&State{CheckedAt: c.now(), Err: err})
		if c.detector != nil {
			c.detector.Reset()
		}
		if prev.Resolved || prev.CheckedAt.IsZero() {
			c.logger.Warn("IDE endpoint unavailable", zap.Error(err))
		} else {
			c.logger.Debug("IDE endpoint still unavailable", zap.Error(err))
		}
		return err
	}

	c.state.Store(&State{
		Endpoint:  res.Endpoint,
		Resolved:  true,
		Payload:   bytes.Clone(res.Payload),
		CheckedAt: c.now(),
	})
	if prev.Endpoint != res.Endpoint || !prev.Resolved {
		c.logger.Info("IDE endpoint resolved", zap.String("endpoint", res.Endpoint.String()))
	}

	if c.detector != nil {
		if change := c.detector.Observe(res.Payload); change == changes.ChangeChanged {
			c.logger.Info("IDE tool list changed", zap.String("endpoint", res.Endpoint.String()))
		}
	}
	return nil
}

// Run refreshes every interval until ctx ends. It does not perform an initial
// refresh; callers run Refresh once before serving.
func (c *Cache) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// failures are logged by Refresh and retried on the next tick
			_ = c.Refresh(ctx)
		}
	}
}
