// File: server.go
// Title: WebSocket Server
// Description: HTTP server exposing the action WebSocket and a health
//              endpoint.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-18
// Modified: 2026-10-18
//
// Change History:
// - 2026-10-18 v0.1.0: Initial server

package ws

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	mdwerror "github.com/msto63/actionvm/foundation/core/error"
	"github.com/msto63/actionvm/internal/session"
	"github.com/msto63/actionvm/pkg/core/config"
	"github.com/msto63/actionvm/pkg/core/health"
	"github.com/msto63/actionvm/pkg/core/logging"
)

// Server is the WebSocket front end of a host
type Server struct {
	httpServer *http.Server
	health     *health.Registry
	logger     *logging.Logger
	config     config.WebSocketConfig
	listener   net.Listener
}

// New creates a server for host. version is reported by /healthz.
func New(cfg config.WebSocketConfig, host *session.Host, version string) *Server {
	logger := logging.New("websocket-server")

	registry := health.NewRegistry("actionvm", version)
	registry.Register(host.HealthChecker())

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, NewHandler(host, cfg.ReadTimeout.Duration, cfg.WriteTimeout.Duration))
	mux.HandleFunc("/healthz", healthHandler(registry))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           loggingMiddleware(logger, mux),
			ReadHeaderTimeout: 10 * time.Second,
		},
		health: registry,
		logger: logger,
		config: cfg,
	}
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}

func healthHandler(registry *health.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := registry.CheckWithTimeout(5 * time.Second)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(report.HTTPStatus())
		json.NewEncoder(w).Encode(report)
	}
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper captures the status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrade take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// Start listens on the configured address and serves
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return mdwerror.Wrap(err, "listen").
			WithCode(mdwerror.CodeNetworkError).
			WithOperation("ws.Start").
			WithDetail("address", s.httpServer.Addr)
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener
func (s *Server) Serve(listener net.Listener) error {
	s.listener = listener
	s.logger.Info("Starting WebSocket server",
		"address", listener.Addr().String(),
		"path", s.config.Path,
	)
	if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping WebSocket server")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
