package ide

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lydakis/idebridge/internal/httpheaders"
)

// DefaultProbeTimeout bounds a single probe when none is configured.
const DefaultProbeTimeout = 2 * time.Second

// maxPayloadBytes caps how much of a tool listing is read.
const maxPayloadBytes = 8 << 20

// ProbeResult is the outcome of one liveness check.
type ProbeResult struct {
	Endpoint   Endpoint
	Reachable  bool
	Payload    []byte
	StatusCode int   // 0 when no HTTP response was received
	Err        error // diagnostic only
}

// Prober checks whether an endpoint serves the tool API.
type Prober interface {
	Probe(ctx context.Context, endpoint Endpoint) ProbeResult
}

// HTTPProber probes endpoints with GET {endpoint}/mcp/list_tools.
type HTTPProber struct {
	client  *http.Client
	headers httpheaders.Headers
}

// NewHTTPProber creates a prober whose requests time out after timeout and
// carry the given extra headers.
func NewHTTPProber(timeout time.Duration, headers map[string]string) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProber{
		client:  &http.Client{Timeout: timeout},
		headers: httpheaders.New(headers),
	}
}

// Probe never fails: every failure mode is reported as Reachable=false.
func (p *HTTPProber) Probe(ctx context.Context, endpoint Endpoint) ProbeResult {
	res := ProbeResult{Endpoint: endpoint}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.URL(ListToolsPath), nil)
	if err != nil {
		res.Err = fmt.Errorf("building probe request: %w", err)
		return res
	}
	p.headers.Apply(req)

	resp, err := p.client.Do(req)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		res.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		return res
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		res.Err = fmt.Errorf("reading tool list: %w", err)
		return res
	}
	if len(body) > maxPayloadBytes {
		res.Err = fmt.Errorf("tool list exceeds %d bytes", maxPayloadBytes)
		return res
	}

	res.Reachable = true
	res.Payload = body
	return res
}
