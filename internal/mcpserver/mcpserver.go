package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/benford/internal/service/scan"
)

// Server wraps the MCP server and registers the benford tools.
type Server struct {
	server *mcp.Server
	scans  *scan.Service
}

// NewServer creates a new MCP server with all benford tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "benford",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, scans: scan.New()}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds the analysis tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_benford",
		Description: describeBenford(),
	}, s.handleAnalyzeBenford)
}
