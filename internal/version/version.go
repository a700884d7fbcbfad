// Package version carries the identity the server reports over MCP and on
// the health endpoint.
package version

const (
	ServerName = "atelier-mcp"
	Version    = "1.0.0"
)
