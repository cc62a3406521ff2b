// Package mcp exposes parakeep's classification and vault tools to AI agents
// over the Model Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/parakeep/parakeep/internal/classifier"
	"github.com/parakeep/parakeep/internal/state"
	"github.com/parakeep/parakeep/internal/vault"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes capture classification tools.
type Server struct {
	scanner    *vault.Scanner
	classifier *classifier.Classifier
	store      state.Store
	mcp        *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(scanner *vault.Scanner, cls *classifier.Classifier, store state.Store) *Server {
	s := &Server{
		scanner:    scanner,
		classifier: cls,
		store:      store,
	}

	s.mcp = server.NewMCPServer(
		"parakeep",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(classifyCaptureTool, s.handleClassifyCapture)
	s.mcp.AddTool(getHierarchyTool, s.handleGetHierarchy)
	s.mcp.AddTool(rescanVaultTool, s.handleRescanVault)
	s.mcp.AddTool(lookupArtifactTool, s.handleLookupArtifact)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
