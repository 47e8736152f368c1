package ide

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeProber struct {
	payloads map[Endpoint]string
	probed   []Endpoint
}

func (f *fakeProber) Probe(_ context.Context, ep Endpoint) ProbeResult {
	f.probed = append(f.probed, ep)
	payload, ok := f.payloads[ep]
	if !ok {
		return ProbeResult{Endpoint: ep, Err: errors.New("connection refused")}
	}
	return ProbeResult{Endpoint: ep, Reachable: true, Payload: []byte(payload), StatusCode: 200}
}

func TestResolveFixedPortReturnsThatEndpointWithoutScanning(t *testing.T) {
	fixed := NewEndpoint(DefaultHost, 7777, DefaultBasePath)
	p := &fakeProber{payloads: map[Endpoint]string{
		fixed: `[]`,
		NewEndpoint(DefaultHost, DefaultPortRangeStart, DefaultBasePath): `[]`,
	}}

	res, err := NewResolver(Options{Port: 7777}, p).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Endpoint != fixed {
		t.Fatalf("Endpoint = %q, want %q", res.Endpoint, fixed)
	}
	if len(p.probed) != 1 {
		t.Fatalf("probed %d endpoints, want 1: %v", len(p.probed), p.probed)
	}
}

func TestResolveFixedPortFailureDoesNotFallBackToScan(t *testing.T) {
	p := &fakeProber{payloads: map[Endpoint]string{
		NewEndpoint(DefaultHost, DefaultPortRangeStart, DefaultBasePath): `[]`,
	}}

	_, err := NewResolver(Options{Port: 7777}, p).Resolve(context.Background())
	if !errors.Is(err, ErrEndpointNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrEndpointNotFound", err)
	}
	if !strings.Contains(err.Error(), "7777") {
		t.Fatalf("error = %q, want it to name port 7777", err)
	}
	if len(p.probed) != 1 {
		t.Fatalf("probed %d endpoints, want 1", len(p.probed))
	}
}

func TestResolveScanFindsSingleAnsweringPortAnywhereInRange(t *testing.T) {
	for port := DefaultPortRangeStart; port <= DefaultPortRangeEnd; port++ {
		want := NewEndpoint(DefaultHost, port, DefaultBasePath)
		p := &fakeProber{payloads: map[Endpoint]string{want: `[{"name":"x"}]`}}

		res, err := NewResolver(Options{}, p).Resolve(context.Background())
		if err != nil {
			t.Fatalf("port %d: Resolve() error = %v", port, err)
		}
		if res.Endpoint != want {
			t.Fatalf("port %d: Endpoint = %q, want %q", port, res.Endpoint, want)
		}
		if string(res.Payload) != `[{"name":"x"}]` {
			t.Fatalf("port %d: Payload = %q", port, res.Payload)
		}
	}
}

func TestResolveScanPrefersLowestPort(t *testing.T) {
	low := NewEndpoint(DefaultHost, 63344, DefaultBasePath)
	high := NewEndpoint(DefaultHost, 63350, DefaultBasePath)
	p := &fakeProber{payloads: map[Endpoint]string{low: "low", high: "high"}}

	res, err := NewResolver(Options{}, p).Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Endpoint != low {
		t.Fatalf("Endpoint = %q, want %q", res.Endpoint, low)
	}
	if len(p.probed) != 3 {
		t.Fatalf("probed %d endpoints, want 3 (stop at first success)", len(p.probed))
	}
}

func TestResolveScanExhaustedNamesRange(t *testing.T) {
	p := &fakeProber{}

	_, err := NewResolver(Options{}, p).Resolve(context.Background())
	if !errors.Is(err, ErrEndpointNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrEndpointNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Resolve() error = %T, want *NotFoundError", err)
	}
	if !strings.Contains(err.Error(), "63342-63352") {
		t.Fatalf("error = %q, want scanned range", err)
	}
	if len(p.probed) != 11 {
		t.Fatalf("probed %d endpoints, want 11", len(p.probed))
	}
}

func TestResolveStopsWhenContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakeProber{}
	_, err := NewResolver(Options{}, p).Resolve(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Resolve() error = %v, want context.Canceled", err)
	}
	if len(p.probed) != 0 {
		t.Fatalf("probed %d endpoints, want 0", len(p.probed))
	}
}

func TestCandidatesUseCustomRange(t *testing.T) {
	r := NewResolver(Options{Host: "localhost", PortRangeStart: 9000, PortRangeEnd: 9002}, &fakeProber{})
	got := r.Candidates()
	want := []Endpoint{
		"http://localhost:9000/api",
		"http://localhost:9001/api",
		"http://localhost:9002/api",
	}
	if len(got) != len(want) {
		t.Fatalf("Candidates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Candidates()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseToolsSkipsUnnamedEntries(t *testing.T) {
	tools, err := ParseTools([]byte(`[{"name":"get_open_file","description":"d","inputSchema":{"type":"object"}},{"description":"anon"}]`))
	if err != nil {
		t.Fatalf("ParseTools() error = %v", err)
	}
	if len(tools) != 1 || tools[0].Name != "get_open_file" {
		t.Fatalf("ParseTools() = %+v", tools)
	}
	if string(tools[0].InputSchema) != `{"type":"object"}` {
		t.Fatalf("InputSchema = %s", tools[0].InputSchema)
	}
}

func TestParseToolsRejectsNonArray(t *testing.T) {
	if _, err := ParseTools([]byte(`{"tools":[]}`)); err == nil {
		t.Fatal("ParseTools() error = nil, want non-nil")
	}
}

func TestCandidatesNormalizeHalfOpenAndInvertedRanges(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []int
	}{
		{name: "start only", opts: Options{PortRangeStart: 7000}, want: []int{7000}},
		{name: "end only", opts: Options{PortRangeEnd: 7001}, want: []int{7001}},
		{name: "inverted", opts: Options{PortRangeStart: 7005, PortRangeEnd: 7001}, want: nil},
		{name: "negative", opts: Options{PortRangeStart: -3, PortRangeEnd: -9}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResolver(tt.opts, &fakeProber{}).Candidates()
			if len(got) != len(tt.want) {
				t.Fatalf("Candidates() = %v, want ports %v", got, tt.want)
			}
			for i, port := range tt.want {
				if want := NewEndpoint(DefaultHost, port, DefaultBasePath); got[i] != want {
					t.Fatalf("Candidates()[%d] = %q, want %q", i, got[i], want)
				}
			}
		})
	}
}

func TestResolveInvertedRangeReportsNotFound(t *testing.T) {
	p := &fakeProber{}
	_, err := NewResolver(Options{PortRangeStart: 7005, PortRangeEnd: 7001}, p).Resolve(context.Background())
	if !errors.Is(err, ErrEndpointNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrEndpointNotFound", err)
	}
	if len(p.probed) != 0 {
		t.Fatalf("probed %v, want nothing", p.probed)
	}
}
