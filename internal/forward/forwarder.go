// Package forward turns tool calls into HTTP requests against the IDE.
package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lydakis/idebridge/internal/httpheaders"
	"github.com/lydakis/idebridge/internal/ide"
	"go.uber.org/zap"
)

// DefaultTimeout bounds one forwarded call when none is configured.
const DefaultTimeout = 60 * time.Second

const (
	unknownError  = "Unknown error"
	noEndpointMsg = "no IDE endpoint is available: is the IDE running with its built-in server enabled?"
)

// EndpointSource reports the endpoint to call, or false when there is none.
type EndpointSource interface {
	Endpoint() (ide.Endpoint, bool)
}

// Options configure a Forwarder.
type Options struct {
	Timeout time.Duration
	Headers map[string]string
	Logger  *zap.Logger
}

// Forwarder performs one HTTP call per tool invocation.
type Forwarder struct {
	source  EndpointSource
	client  *http.Client
	headers httpheaders.Headers
	logger  *zap.Logger
}

// New creates a forwarder reading endpoints from source.
func New(source EndpointSource, opts Options) *Forwarder {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	headers := httpheaders.New(opts.Headers).With("Content-Type", "application/json")
	return &Forwarder{
		source:  source,
		client:  &http.Client{Timeout: opts.Timeout},
		headers: headers,
		logger:  opts.Logger,
	}
}

// Forward calls tool name with args. It never fails: every failure becomes an
// error-flagged Result.
func (f *Forwarder) Forward(ctx context.Context, name string, args map[string]any) Result {
	endpoint, ok := f.source.Endpoint()
	if !ok {
		return ErrorResult(noEndpointMsg)
	}

	res, err := f.call(ctx, endpoint, name, args)
	if err != nil {
		f.logger.Debug("tool call failed",
			zap.String("tool", name),
			zap.String("endpoint", endpoint.String()),
			zap.Error(err),
		)
		msg := err.Error()
		if msg == "" {
			msg = unknownError
		}
		return ErrorResult(msg)
	}
	return res
}

func (f *Forwarder) call(ctx context.Context, endpoint ide.Endpoint, name string, args map[string]any) (Result, error) {
	if args == nil {
		args = map[string]any{}
	}
	body, err := json.Marshal(args)
	if err != nil {
		return Result{}, fmt.Errorf("encoding arguments: %w", err)
	}

	target := endpoint.URL(ide.ToolPathPrefix + url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("building request: %w", err)
	}
	f.headers.Apply(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return Result{}, fmt.Errorf("response failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("reading IDE reply: %w", err)
	}
	r, err := decodeReply(data)
	if err != nil {
		return Result{}, err
	}
	return r.result(), nil
}
