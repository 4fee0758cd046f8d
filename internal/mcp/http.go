package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"vaultmcp/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"
)

// EndpointPath is where the streamable HTTP transport is mounted.
const EndpointPath = "/mcp"

const shutdownTimeout = 10 * time.Second

// HTTPConfig holds HTTP transport configuration.
type HTTPConfig struct {
	Addr         string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// HTTPServer serves the MCP endpoint and a health probe over HTTP.
type HTTPServer struct {
	router     chi.Router
	streamable *server.StreamableHTTPServer
	cfg        HTTPConfig
	logger     *logging.AppLogger
	now        func() time.Time
}

// NewHTTPServer wires s into a chi router. Each POST to /mcp is handled
// statelessly with a JSON response.
func NewHTTPServer(s *Server, cfg HTTPConfig) (*HTTPServer, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("listen address is required")
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * time.Second
	}

	h := &HTTPServer{
		cfg:    cfg,
		logger: s.logger,
		now:    time.Now,
	}
	h.streamable = server.NewStreamableHTTPServer(s.MCPServer(),
		server.WithStateLess(true),
		server.WithEndpointPath(EndpointPath),
		server.WithLogger(s.logger),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(corsMiddleware(cfg.CORSOrigins))
	}

	r.Get("/health", h.handleHealth)
	r.Handle(EndpointPath, h.streamable)

	h.router = r
	return h, nil
}

// Handler returns the underlying http.Handler for testing.
func (h *HTTPServer) Handler() http.Handler {
	return h.router
}

// Start runs the HTTP server and blocks until the context is cancelled,
// then performs graceful shutdown.
func (h *HTTPServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", h.cfg.Addr, err)
	}
	return h.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (h *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      h.router,
		ReadTimeout:  h.cfg.ReadTimeout,
		WriteTimeout: h.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	h.logger.Info("HTTP transport listening", "addr", ln.Addr().String(), "endpoint", EndpointPath)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	h.logger.Info("Shutting down HTTP transport")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := h.streamable.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down mcp transport: %w", err)
	}

	return <-errCh
}

type healthBody struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthBody{
		Status:    "ok",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", server.HeaderKeySessionID},
		ExposedHeaders:   []string{server.HeaderKeySessionID},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
