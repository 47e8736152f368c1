package ide

import "testing"

func TestNewEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		port     int
		basePath string
		want     Endpoint
	}{
		{"defaults host", "", 63342, "/api", "http://127.0.0.1:63342/api"},
		{"localhost", "localhost", 63343, "/api", "http://localhost:63343/api"},
		{"base path without slash", "127.0.0.1", 8080, "api/", "http://127.0.0.1:8080/api"},
		{"empty base path", "127.0.0.1", 8080, "", "http://127.0.0.1:8080"},
		{"ipv6", "::1", 63342, "/api", "http://[::1]:63342/api"},
		{"bracketed ipv6", "[::1]", 63342, "/api", "http://[::1]:63342/api"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewEndpoint(tt.host, tt.port, tt.basePath); got != tt.want {
				t.Fatalf("NewEndpoint(%q, %d, %q) = %q, want %q", tt.host, tt.port, tt.basePath, got, tt.want)
			}
		})
	}
}

func TestEndpointURL(t *testing.T) {
	ep := Endpoint("http://127.0.0.1:63342/api")
	if got := ep.URL(ListToolsPath); got != "http://127.0.0.1:63342/api/mcp/list_tools" {
		t.Fatalf("URL(list_tools) = %q", got)
	}
	if got := Endpoint("http://127.0.0.1:63342/api/").URL("mcp/get_file"); got != "http://127.0.0.1:63342/api/mcp/get_file" {
		t.Fatalf("URL(get_file) = %q", got)
	}
}
