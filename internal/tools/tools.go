// Package tools declares the callable operations the MCP surface exposes:
// create/update for posts and projects, plus media upload. Each tool
// validates its input at dispatch time, strips dispatch-only fields, invokes
// the backend API client, and renders the Result into a uniform text
// envelope the calling agent can read without parsing structured codes.
package tools

import (
	"github.com/mark3labs/mcp-go/server"

	"atelier/internal/api"
	"atelier/internal/version"
)

// NewServer builds a fresh MCP server bound to the given backend client.
// Construction is cheap and side-effect free; the gateway calls it once per
// inbound request so no tool state outlives a call.
func NewServer(client *api.Client) *server.MCPServer {
	s := server.NewMCPServer(
		version.ServerName,
		version.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	registerPostTools(s, client)
	registerProjectTools(s, client)
	registerMediaTools(s, client)

	return s
}
