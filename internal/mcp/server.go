package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arturoeanton/go-word2vec-similarity/internal/middleware"
	"github.com/arturoeanton/go-word2vec-similarity/internal/service"
)

// Server exposes similarity search as Model Context Protocol tools so
// external AI agents can query the embedding space.
type Server struct {
	mcp        *gomcp.Server
	similarity *service.SimilarityService
	audit      middleware.AuditWriter
	port       string
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithAuditWriter records every tool call.
func WithAuditWriter(w middleware.AuditWriter) ServerOption {
	return func(s *Server) {
		s.audit = w
	}
}

// WithPort sets the port used by ListenAndServe.
func WithPort(port string) ServerOption {
	return func(s *Server) {
		s.port = port
	}
}

// NewServer creates an MCP server backed by the similarity service.
func NewServer(similarity *service.SimilarityService, opts ...ServerOption) (*Server, error) {
	if similarity == nil {
		return nil, fmt.Errorf("similarity service is required")
	}

	s := &Server{
		mcp: gomcp.NewServer(
			&gomcp.Implementation{
				Name:    "word2vec",
				Version: "1.0.0",
			},
			nil,
		),
		similarity: similarity,
		port:       "5001",
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()

	return s, nil
}

// Serve runs the server over stdio until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

// Handler returns a streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return gomcp.NewStreamableHTTPHandler(func(*http.Request) *gomcp.Server {
		return s.mcp
	}, nil)
}

// ListenAndServe serves MCP over HTTP at /mcp on the configured port until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/mcp", s.Handler())

	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("MCP server starting", "port", s.port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
