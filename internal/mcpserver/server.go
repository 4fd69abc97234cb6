// Package mcpserver exposes the address search and the lead log as MCP tools
// so assistants and scripts can query the kiosk without the TUI.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/homekey-labs/homekey/internal/geocode"
	"github.com/homekey-labs/homekey/internal/lead"
	"github.com/homekey-labs/homekey/internal/logger"
	"github.com/mark3labs/mcp-go/server"
)

// LeadReader is the read side of the lead store.
type LeadReader interface {
	List(ctx context.Context) ([]*lead.Lead, error)
	Get(ctx context.Context, id string) (*lead.Lead, error)
}

// Server wraps an MCP server with the homekey tools registered. It can be
// served over stdio or over streamable HTTP on a random local port.
type Server struct {
	searcher geocode.Searcher
	leads    LeadReader
	version  string

	mcpServer *server.MCPServer
	stdServer *http.Server
	port      int
	mu        sync.Mutex
}

// New creates a server. Either dependency may be nil, in which case its
// tools are not registered.
func New(searcher geocode.Searcher, leads LeadReader, version string) *Server {
	s := &Server{
		searcher: searcher,
		leads:    leads,
		version:  version,
	}
	s.mcpServer = server.NewMCPServer(
		"homekey",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	logger.Debug("Serving MCP tools over stdio")
	return server.ServeStdio(s.mcpServer)
}

// Start starts the MCP HTTP server on a random port on 127.0.0.1.
// Returns the port number or an error if startup fails.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to find available port: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	))
	s.stdServer = &http.Server{Handler: mux}

	logger.Debug("Starting MCP server on port %d", s.port)

	// Serve from a copy so Stop can nil the field without racing.
	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	return s.port, nil
}

// Stop stops the HTTP server, if running.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(context.Background()); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.stdServer = nil
	return nil
}

// URL returns the HTTP URL for the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://127.0.0.1:%d/mcp", s.port)
}
