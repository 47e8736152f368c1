package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ErrResourceNotFound rejects a read of a URI the bridge does not serve.
var ErrResourceNotFound = errors.New("resource not found")

const (
	AboutURI  = "idebridge://about"
	ConfigURI = "idebridge://config"
)

type staticResource struct {
	name        string
	description string
	text        string
}

var resources = map[string]staticResource{
	AboutURI: {
		name:        "About idebridge",
		description: "What the bridge does and how it finds the IDE.",
		text: `idebridge exposes the tools of a running IDE to MCP clients.

The IDE must have its built-in HTTP server enabled. The bridge looks for it at
http://127.0.0.1:<port>/api, probing ports 63342 through 63352 in ascending
order and using the first one that answers GET /mcp/list_tools. When IDE_PORT
is set only that port is probed.

The endpoint is re-resolved every 10 seconds. When the IDE's tool list changes
the bridge sends notifications/tools/list_changed. Each tool call is forwarded
as POST /mcp/<tool> with the call arguments as the JSON body.
`,
	},
	ConfigURI: {
		name:        "idebridge configuration",
		description: "Environment variables and config file keys the bridge reads.",
		text: `Environment:
  IDE_PORT                    probe only this port instead of 63342-63352
  HOST                        IDE host (default 127.0.0.1)
  LOG_ENABLED                 "true" enables logging to stderr
  IDEBRIDGE_REFRESH_INTERVAL  endpoint refresh interval (default 10s)

Config file ($XDG_CONFIG_HOME/idebridge/config.toml):
  host, port, port_range_start, port_range_end, base_path,
  refresh_interval, probe_timeout, forward_timeout,
  log_enabled, log_level, [headers]

Precedence: flags, then environment, then the config file.
`,
	},
}

func registerResources(srv *server.MCPServer) {
	for _, uri := range resourceURIs() {
		r := resources[uri]
		srv.AddResource(
			mcp.NewResource(uri, r.name,
				mcp.WithResourceDescription(r.description),
				mcp.WithMIMEType("text/plain"),
			),
			readResource,
		)
	}
}

func readResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := Read(req.Params.URI)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}

// Read returns the fixed text of a served resource.
func Read(uri string) (string, error) {
	r, ok := resources[uri]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrResourceNotFound, uri)
	}
	return r.text, nil
}

func resourceURIs() []string {
	uris := make([]string, 0, len(resources))
	for uri := range resources {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
