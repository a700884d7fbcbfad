// Package gateway is the HTTP front door: one authenticated MCP endpoint,
// one unauthenticated liveness probe. The server is stateless; every POST
// to /mcp gets a fresh tool registry and transport that are torn down when
// the response completes.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"atelier/internal/api"
	"atelier/internal/auth"
	"atelier/internal/config"
	"atelier/internal/tools"
	"atelier/internal/version"
)

// MaxRequestBytes caps the inbound body: large enough for a base64-encoded
// 10 MiB image plus protocol overhead, small enough to bound memory.
const MaxRequestBytes = 15 << 20

type Server struct {
	client      *api.Client
	authToken   string
	server      *http.Server
	shutdownTTL time.Duration
}

func New(cfg *config.Config, client *api.Client) (*Server, error) {
	s := &Server{
		client:    client,
		authToken: cfg.Auth.Token,
	}

	readTimeout, err := config.DurationOrDefault(cfg.Server.ReadTimeout, config.DefaultServerReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse server read timeout: %w", err)
	}
	writeTimeout, err := config.DurationOrDefault(cfg.Server.WriteTimeout, config.DefaultServerWriteTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse server write timeout: %w", err)
	}
	idleTimeout, err := config.DurationOrDefault(cfg.Server.IdleTimeout, config.DefaultServerIdleTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse server idle timeout: %w", err)
	}
	shutdownTimeout, err := config.DurationOrDefault(cfg.Server.ShutdownTimeout, config.DefaultServerShutdownTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse server shutdown timeout: %w", err)
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      requestLogger(s.routes()),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	s.shutdownTTL = shutdownTimeout

	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/mcp", s.handleMCP)
	return mux
}

// Handler exposes the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		slog.Info("MCP gateway listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
		}
	}()
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTTL)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// handleHealth reports process identity for infrastructure probes. No auth,
// no backend calls.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use GET for health checks")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"server":  version.ServerName,
		"version": version.Version,
	})
}

// handleMCP processes exactly one tool-invocation message. Order matters:
// method check, then auth, then body-size cap, then a per-request MCP
// server bound to the shared backend client.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Use POST for MCP requests")
		return
	}

	if err := auth.VerifyBearer(r.Header.Get("Authorization"), s.authToken); err != nil {
		code := "AUTH_INVALID"
		if errors.Is(err, auth.ErrMissing) {
			code = "AUTH_MISSING"
		}
		writeError(w, http.StatusUnauthorized, code, err.Error())
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("MCP request panicked", "panic", rec, "path", r.URL.Path)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
	}()

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBytes)

	mcpServer := tools.NewServer(s.client)
	transport := mcpserver.NewStreamableHTTPServer(mcpServer, mcpserver.WithStateLess(true))
	transport.ServeHTTP(w, r)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
