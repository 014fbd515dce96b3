package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"sdwan-mcp/internal/api"
	"sdwan-mcp/internal/config"
	"sdwan-mcp/pkg/logging"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ServerName is the name reported to MCP clients during initialization.
const ServerName = "sdwan-mcp"

const shutdownTimeout = 5 * time.Second

// MCPServer serves a tool provider over the configured MCP transport.
type MCPServer struct {
	cfg      config.ServerConfig
	version  string
	provider api.ToolProvider

	stdin  io.Reader
	stdout io.Writer

	mu                   sync.Mutex
	server               *mcpserver.MCPServer
	tools                []mcpserver.ServerTool
	sseServer            *mcpserver.SSEServer
	streamableHTTPServer *mcpserver.StreamableHTTPServer
	stdioServer          *mcpserver.StdioServer

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	done       chan error
}

// Option customizes an MCPServer.
type Option func(*MCPServer)

// WithStdio replaces the streams used by the stdio transport.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(s *MCPServer) {
		s.stdin = in
		s.stdout = out
	}
}

// New creates a server for provider. Nothing is served until Start.
func New(provider api.ToolProvider, cfg config.ServerConfig, version string, opts ...Option) *MCPServer {
	s := &MCPServer{
		cfg:      cfg,
		version:  version,
		provider: provider,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcpserver.NewMCPServer(
		ServerName,
		version,
		mcpserver.WithToolCapabilities(true),
	)
	s.tools = buildServerTools(provider)
	s.server.AddTools(s.tools...)
	return s
}

// Tools returns the registered tools.
func (s *MCPServer) Tools() []mcpserver.ServerTool {
	return s.tools
}

// Tool returns the registered tool with the given name.
func (s *MCPServer) Tool(name string) (mcpserver.ServerTool, bool) {
	for _, t := range s.tools {
		if t.Tool.Name == name {
			return t, true
		}
	}
	return mcpserver.ServerTool{}, false
}

// Done is closed once a started transport stops serving on its own, for
// example when stdin reaches EOF. The error, if any, is delivered first.
func (s *MCPServer) Done() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Start begins serving on the configured transport and returns immediately.
func (s *MCPServer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return fmt.Errorf("server already started")
	}
	s.ctx, s.cancelFunc = context.WithCancel(ctx)
	s.done = make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	switch s.cfg.Transport {
	case config.MCPTransportSSE:
		logging.Info("MCPServer", "Starting MCP server with SSE transport on %s (%d tools)", addr, len(s.tools))
		baseURL := fmt.Sprintf("http://%s:%d", s.cfg.Host, s.cfg.Port)
		s.sseServer = mcpserver.NewSSEServer(
			s.server,
			mcpserver.WithBaseURL(baseURL),
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
			mcpserver.WithKeepAlive(true),
			mcpserver.WithKeepAliveInterval(30*time.Second),
		)
		sseServer := s.sseServer
		s.serve(func() error {
			if err := sseServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("MCPServer", err, "SSE server error")
				return err
			}
			return nil
		})

	case config.MCPTransportStreamableHTTP:
		logging.Info("MCPServer", "Starting MCP server with streamable-http transport on %s (%d tools)", addr, len(s.tools))
		s.streamableHTTPServer = mcpserver.NewStreamableHTTPServer(s.server)
		streamableServer := s.streamableHTTPServer
		s.serve(func() error {
			if err := streamableServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("MCPServer", err, "Streamable HTTP server error")
				return err
			}
			return nil
		})

	case config.MCPTransportStdio, "":
		logging.Info("MCPServer", "Starting MCP server with stdio transport (%d tools)", len(s.tools))
		s.stdioServer = mcpserver.NewStdioServer(s.server)
		stdioServer := s.stdioServer
		listenCtx, in, out := s.ctx, s.stdin, s.stdout
		s.serve(func() error {
			err := stdioServer.Listen(listenCtx, in, out)
			if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
				logging.Error("MCPServer", err, "Stdio server error")
				return err
			}
			return nil
		})

	default:
		s.cancelFunc()
		s.ctx, s.cancelFunc = nil, nil
		return fmt.Errorf("unsupported transport %q", s.cfg.Transport)
	}

	return nil
}

func (s *MCPServer) serve(run func() error) {
	done := s.done
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := run()
		if err != nil {
			done <- err
		}
		close(done)
	}()
}

// Stop shuts the transport down and waits for it to return.
func (s *MCPServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.ctx == nil {
		s.mu.Unlock()
		return fmt.Errorf("server not started")
	}

	logging.Info("MCPServer", "Stopping MCP server")

	cancelFunc := s.cancelFunc
	sseServer := s.sseServer
	streamableServer := s.streamableHTTPServer
	s.mu.Unlock()

	cancelFunc()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if sseServer != nil {
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("MCPServer", err, "Error shutting down SSE server")
		}
	}
	if streamableServer != nil {
		if err := streamableServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("MCPServer", err, "Error shutting down streamable HTTP server")
		}
	}

	// Stdio stops on context cancellation but may stay blocked in a read.
	waited := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-shutdownCtx.Done():
		logging.Warn("MCPServer", "Transport did not stop within %s", shutdownTimeout)
	}

	s.mu.Lock()
	s.ctx, s.cancelFunc = nil, nil
	s.sseServer = nil
	s.streamableHTTPServer = nil
	s.stdioServer = nil
	s.mu.Unlock()

	return nil
}
