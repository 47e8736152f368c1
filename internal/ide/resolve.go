package ide

import (
	"context"
)

// Options select the candidate endpoints.
type Options struct {
	Host     string
	BasePath string

	// Port, when non-zero, is the only candidate. The range is never scanned.
	Port int

	PortRangeStart int
	PortRangeEnd   int
}

// Resolution is a successful resolution and the tool listing that proved it.
type Resolution struct {
	Endpoint Endpoint
	Payload  []byte
}

// Resolver finds the first endpoint whose probe succeeds.
type Resolver struct {
	opts   Options
	prober Prober
}

// NewResolver fills unset options with defaults.
func NewResolver(opts Options, prober Prober) *Resolver {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.BasePath == "" {
		opts.BasePath = DefaultBasePath
	}
	switch {
	case opts.PortRangeStart == 0 && opts.PortRangeEnd == 0:
		opts.PortRangeStart = DefaultPortRangeStart
		opts.PortRangeEnd = DefaultPortRangeEnd
	case opts.PortRangeEnd == 0:
		opts.PortRangeEnd = opts.PortRangeStart
	case opts.PortRangeStart == 0:
		opts.PortRangeStart = opts.PortRangeEnd
	}
	return &Resolver{opts: opts, prober: prober}
}

// Candidates lists the endpoints Resolve probes, in probing order. An
// inverted range has no candidates.
func (r *Resolver) Candidates() []Endpoint {
	if r.opts.Port != 0 {
		return []Endpoint{NewEndpoint(r.opts.Host, r.opts.Port, r.opts.BasePath)}
	}
	if r.opts.PortRangeEnd < r.opts.PortRangeStart {
		return nil
	}
	out := make([]Endpoint, 0, r.opts.PortRangeEnd-r.opts.PortRangeStart+1)
	for port := r.opts.PortRangeStart; port <= r.opts.PortRangeEnd; port++ {
		out = append(out, NewEndpoint(r.opts.Host, port, r.opts.BasePath))
	}
	return out
}

// Resolve probes the candidates in order and returns the first one that
// answers. The error wraps ErrEndpointNotFound when none does, or is the
// context's error when ctx ends mid-scan.
func (r *Resolver) Resolve(ctx context.Context) (Resolution, error) {
	for _, ep := range r.Candidates() {
		if err := ctx.Err(); err != nil {
			return Resolution{}, err
		}
		res := r.prober.Probe(ctx, ep)
		if res.Reachable {
			return Resolution{Endpoint: ep, Payload: res.Payload}, nil
		}
	}
	return Resolution{}, &NotFoundError{
		Host: r.opts.Host,
		Port: r.opts.Port,
		From: r.opts.PortRangeStart,
		To:   r.opts.PortRangeEnd,
	}
}
