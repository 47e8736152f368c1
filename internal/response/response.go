// Package response converts forwarded tool results for MCP clients and the terminal.
package response

import (
	"strings"

	"github.com/lydakis/idebridge/internal/forward"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToMCP converts a forwarded result into an MCP tool result.
func ToMCP(r forward.Result) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(r.Content))
	for _, c := range r.Content {
		content = append(content, mcp.NewTextContent(c.Text))
	}
	return &mcp.CallToolResult{
		Content: content,
		IsError: r.IsError,
	}
}

// FromMCP extracts the text blocks of an MCP tool result.
func FromMCP(result *mcp.CallToolResult) forward.Result {
	if result == nil {
		return forward.ErrorResult("empty tool result")
	}

	out := forward.Result{IsError: result.IsError}
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			out.Content = append(out.Content, forward.Content{Type: "text", Text: c.Text})
		case *mcp.TextContent:
			out.Content = append(out.Content, forward.Content{Type: "text", Text: c.Text})
		}
	}
	return out
}

// Unwrap renders a result for a terminal: text blocks separated by newlines,
// with a trailing newline. The bool reports whether the result is an error.
func Unwrap(r forward.Result) ([]byte, bool) {
	parts := make([]string, 0, len(r.Content))
	for _, c := range r.Content {
		parts = append(parts, c.Text)
	}
	if len(parts) == 0 {
		return nil, r.IsError
	}
	return ensureTrailingNewline([]byte(strings.Join(parts, "\n"))), r.IsError
}

func ensureTrailingNewline(out []byte) []byte {
	if len(out) == 0 {
		return out
	}
	if out[len(out)-1] != '\n' {
		return append(out, '\n')
	}
	return out
}
