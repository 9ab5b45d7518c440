// Package mcpserver serves the live action creator index to MCP clients
// over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/morozRed/actionref/internal/nav"
)

// Background is started with the server and stopped when it exits.
type Background interface {
	Start(ctx context.Context)
	Stop()
}

// Server manages the MCP server lifecycle.
type Server struct {
	mcp     *server.MCPServer
	watcher Background
}

// New registers the tools over source. watcher may be nil.
func New(source IndexSource, linker nav.Linker, watcher Background, version string) *Server {
	mcpServer := server.NewMCPServer(
		"actionref",
		version,
		server.WithToolCapabilities(true),
	)
	AddUsagesTool(mcpServer, source, linker)
	AddListTool(mcpServer, source)

	return &Server{mcp: mcpServer, watcher: watcher}
}

// Serve runs the stdio server until a signal arrives, stdin closes or ctx
// is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.watcher != nil {
		s.watcher.Start(ctx)
		defer s.watcher.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
