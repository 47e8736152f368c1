// Package ide locates the IDE's local HTTP tool API.
package ide

import (
	"net"
	"strconv"
	"strings"
)

const (
	// DefaultHost is the loopback address the IDE binds its built-in server to.
	DefaultHost = "127.0.0.1"
	// DefaultBasePath is the path prefix of the IDE's REST API.
	DefaultBasePath = "/api"

	// DefaultPortRangeStart and DefaultPortRangeEnd bound the ports scanned
	// when no fixed port is configured. Both ends are inclusive.
	DefaultPortRangeStart = 63342
	DefaultPortRangeEnd   = 63352

	// ListToolsPath is probed to check liveness and fetch the tool list.
	ListToolsPath = "/mcp/list_tools"
	// ToolPathPrefix is joined with a tool name to build a call URL.
	ToolPathPrefix = "/mcp/"
)

// Endpoint is the base URL of one IDE API instance, for example
// "http://127.0.0.1:63342/api". Two endpoints are equal when their strings are.
type Endpoint string

// NewEndpoint builds the endpoint served on host:port under basePath.
func NewEndpoint(host string, port int, basePath string) Endpoint {
	if host == "" {
		host = DefaultHost
	}
	basePath = "/" + strings.Trim(basePath, "/")
	if basePath == "/" {
		basePath = ""
	}
	hostPort := net.JoinHostPort(strings.Trim(host, "[]"), strconv.Itoa(port))
	return Endpoint("http://" + hostPort + basePath)
}

// URL joins p onto the endpoint.
func (e Endpoint) URL(p string) string {
	return strings.TrimRight(string(e), "/") + "/" + strings.TrimLeft(p, "/")
}

func (e Endpoint) String() string {
	return string(e)
}
