package forward

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lydakis/idebridge/internal/ide"
)

type staticSource struct {
	endpoint ide.Endpoint
	ok       bool
}

func (s staticSource) Endpoint() (ide.Endpoint, bool) {
	return s.endpoint, s.ok
}

func newIDE(t *testing.T, handler http.HandlerFunc) (*httptest.Server, staticSource) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, staticSource{endpoint: ide.Endpoint(srv.URL + "/api"), ok: true}
}

func TestForwardStatusReplyIsSuccess(t *testing.T) {
	var gotPath, gotMethod, gotContentType string
	var gotBody map[string]any
	_, src := newIDE(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Write([]byte(`{"status":"ok text","error":null}`)) //nolint:errcheck
	})

	got := New(src, Options{}).Forward(context.Background(), "get_file_text", map[string]any{"path": "main.go"})

	want := Result{Content: []Content{{Type: "text", Text: "ok text"}}, IsError: false}
	if got.IsError != want.IsError || len(got.Content) != 1 || got.Content[0] != want.Content[0] {
		t.Fatalf("Forward() = %+v, want %+v", got, want)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("method = %q, want POST", gotMethod)
	}
	if gotPath != "/api/mcp/get_file_text" {
		t.Fatalf("path = %q, want /api/mcp/get_file_text", gotPath)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotBody["path"] != "main.go" {
		t.Fatalf("body = %#v, want path=main.go", gotBody)
	}
}

func TestForwardErrorReplyIsError(t *testing.T) {
	_, src := newIDE(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":null,"error":"boom"}`)) //nolint:errcheck
	})

	got := New(src, Options{}).Forward(context.Background(), "run", nil)
	if !got.IsError || got.Text() != "boom" {
		t.Fatalf("Forward() = %+v, want isError with text boom", got)
	}
}

func TestForwardErrorWinsWhenBothAreSet(t *testing.T) {
	_, src := newIDE(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"partial","error":"boom"}`)) //nolint:errcheck
	})

	got := New(src, Options{}).Forward(context.Background(), "run", nil)
	if !got.IsError || got.Text() != "boom" {
		t.Fatalf("Forward() = %+v, want isError with text boom", got)
	}
}

func TestForwardHTTPFailureCarriesStatusCode(t *testing.T) {
	_, src := newIDE(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	})

	got := New(src, Options{}).Forward(context.Background(), "run", nil)
	if !got.IsError {
		t.Fatalf("Forward() = %+v, want isError", got)
	}
	if !strings.Contains(got.Text(), "500") {
		t.Fatalf("text = %q, want status code 500", got.Text())
	}
}

func TestForwardNetworkErrorCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	src := staticSource{endpoint: ide.Endpoint(srv.URL + "/api"), ok: true}
	srv.Close()

	got := New(src, Options{}).Forward(context.Background(), "run", nil)
	if !got.IsError {
		t.Fatalf("Forward() = %+v, want isError", got)
	}
	if got.Text() == "" || got.Text() == unknownError {
		t.Fatalf("text = %q, want the network error message", got.Text())
	}
}

func TestForwardMalformedJSONIsError(t *testing.T) {
	_, src := newIDE(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`)) //nolint:errcheck
	})

	got := New(src, Options{}).Forward(context.Background(), "run", nil)
	if !got.IsError || !strings.Contains(got.Text(), "decoding IDE reply") {
		t.Fatalf("Forward() = %+v, want decoding error", got)
	}
}

func TestForwardReplyWithNeitherFieldIsError(t *testing.T) {
	_, src := newIDE(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":null,"error":null}`)) //nolint:errcheck
	})

	got := New(src, Options{}).Forward(context.Background(), "run", nil)
	if !got.IsError || got.Text() != errMalformedReply.Error() {
		t.Fatalf("Forward() = %+v, want malformed reply error", got)
	}
}

func TestForwardWithoutEndpointShortCircuits(t *testing.T) {
	got := New(staticSource{}, Options{}).Forward(context.Background(), "run", nil)
	if !got.IsError || got.Text() != noEndpointMsg {
		t.Fatalf("Forward() = %+v, want no-endpoint error", got)
	}
}

func TestForwardTimeoutIsError(t *testing.T) {
	release := make(chan struct{})
	_, src := newIDE(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	got := New(src, Options{Timeout: 20 * time.Millisecond}).Forward(context.Background(), "slow", nil)
	if !got.IsError {
		t.Fatalf("Forward() = %+v, want isError after timeout", got)
	}
}

func TestForwardSendsEmptyObjectForNilArgsAndEscapesName(t *testing.T) {
	var gotBody, gotRawPath string
	_, src := newIDE(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		gotRawPath = r.URL.EscapedPath()
		w.Write([]byte(`{"status":"done"}`)) //nolint:errcheck
	})

	got := New(src, Options{}).Forward(context.Background(), "a b", nil)
	if got.IsError {
		t.Fatalf("Forward() = %+v, want success", got)
	}
	if gotBody != "{}" {
		t.Fatalf("body = %q, want {}", gotBody)
	}
	if gotRawPath != "/api/mcp/a%20b" {
		t.Fatalf("path = %q, want /api/mcp/a%%20b", gotRawPath)
	}
}

func TestForwardSendsConfiguredHeadersButKeepsJSONContentType(t *testing.T) {
	var gotAuth, gotContentType string
	_, src := newIDE(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	f := New(src, Options{Headers: map[string]string{
		"authorization": "Bearer t",
		"content-type":  "text/plain",
	}})
	f.Forward(context.Background(), "run", nil)

	if gotAuth != "Bearer t" {
		t.Fatalf("Authorization = %q, want Bearer t", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
}

func TestResultJSONShape(t *testing.T) {
	data, err := json.Marshal(ErrorResult("boom"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"content":[{"type":"text","text":"boom"}],"isError":true}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
}
