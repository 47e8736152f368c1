// Package mcpserver exposes the IDE's tools to an MCP client over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/lydakis/idebridge/internal/forward"
	"github.com/lydakis/idebridge/internal/ide"
	"github.com/lydakis/idebridge/internal/response"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Name is the server name announced during MCP initialization.
const Name = "idebridge"

// Caller forwards one tool call to the IDE.
type Caller interface {
	Forward(ctx context.Context, name string, args map[string]any) forward.Result
}

// Bridge owns the MCP server and keeps its tool catalogue in step with the IDE.
type Bridge struct {
	srv    *server.MCPServer
	caller Caller
	logger *zap.Logger

	mu    sync.Mutex
	names []string
}

// New creates a bridge forwarding tool calls to caller.
func New(caller Caller, logger *zap.Logger, version string) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bridge{
		caller: caller,
		logger: logger,
	}
	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(advertiseListChanged)
	// Catalogue edits notify nothing on their own; applyTools sends the one
	// list_changed per change itself.
	b.srv = server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithHooks(hooks),
		server.WithRecovery(),
	)
	registerResources(b.srv)
	return b
}

// Server returns the underlying MCP server.
func (b *Bridge) Server() *server.MCPServer {
	return b.srv
}

// LoadTools replaces the tool catalogue with the tools described by payload.
// Connected clients receive one tools/list_changed notification.
func (b *Bridge) LoadTools(payload []byte) error {
	descriptors, err := ide.ParseTools(payload)
	if err != nil {
		return fmt.Errorf("loading IDE tools: %w", err)
	}

	tools := make([]server.ServerTool, 0, len(descriptors))
	for _, d := range descriptors {
		tools = append(tools, server.ServerTool{
			Tool:    toMCPTool(d),
			Handler: b.handleCall,
		})
	}
	b.applyTools(tools)
	b.logger.Debug("tool catalogue loaded", zap.Int("tools", len(tools)))
	return nil
}

// NotifyToolsChanged resyncs the catalogue after the IDE's tool list changed.
func (b *Bridge) NotifyToolsChanged(payload []byte) {
	if err := b.LoadTools(payload); err != nil {
		// The payload is still a change; clients re-list and see an empty catalogue.
		b.logger.Warn("IDE tool list is not a descriptor array", zap.Error(err))
		b.applyTools(nil)
	}
}

// applyTools overwrites the registered tools in place and only then drops the
// ones that disappeared, so a tool present before and after is never missing.
func (b *Bridge) applyTools(tools []server.ServerTool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := make([]string, 0, len(tools))
	keep := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		names = append(names, t.Tool.Name)
		keep[t.Tool.Name] = struct{}{}
	}
	var gone []string
	for _, name := range b.names {
		if _, ok := keep[name]; !ok {
			gone = append(gone, name)
		}
	}

	if len(tools) > 0 {
		b.srv.AddTools(tools...)
	}
	if len(gone) > 0 {
		b.srv.DeleteTools(gone...)
	}
	b.names = names
	b.srv.SendNotificationToAllClients(mcp.MethodNotificationToolsListChanged, nil)
}

// ToolNames returns the names of the tools currently exposed.
func (b *Bridge) ToolNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.names...)
}

// Serve runs the MCP protocol over in and out until ctx ends or in closes.
func (b *Bridge) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(b.srv)
	stdio.SetErrorLogger(zap.NewStdLog(b.logger.Named("stdio")))
	return stdio.Listen(ctx, in, out)
}

func (b *Bridge) handleCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.Params.Name
	result := b.caller.Forward(ctx, name, req.GetArguments())
	if result.IsError {
		b.logger.Debug("tool call returned error", zap.String("tool", name), zap.String("error", result.Text()))
	}
	return response.ToMCP(result), nil
}

// advertiseListChanged reports tools.listChanged to clients. The server is
// built without it so that catalogue edits stay silent.
func advertiseListChanged(_ context.Context, _ any, _ *mcp.InitializeRequest, result *mcp.InitializeResult) {
	if result != nil && result.Capabilities.Tools != nil {
		result.Capabilities.Tools.ListChanged = true
	}
}

func toMCPTool(d ide.ToolDescriptor) mcp.Tool {
	tool := mcp.Tool{
		Name:        d.Name,
		Description: d.Description,
	}
	if len(d.InputSchema) > 0 && string(d.InputSchema) != "null" {
		tool.RawInputSchema = d.InputSchema
	} else {
		tool.InputSchema = mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		}
	}
	return tool
}
