package feed

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// ServerConfig holds configuration options for the feed server.
type ServerConfig struct {
	Addr   string // Default: 127.0.0.1:7433
	Hub    *Hub
	Logger *log.Logger
}

// Server exposes the hub over HTTP: a health endpoint, the current snapshot
// as plain JSON, and the WebSocket feed.
type Server struct {
	addr   string
	hub    *Hub
	logger *log.Logger
	mux    *http.ServeMux
}

// NewServer builds the route table for a feed server.
func NewServer(cfg ServerConfig) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = "127.0.0.1:7433"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		addr:   addr,
		hub:    cfg.Hub,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	handler := NewHandler(cfg.Hub, HandlerConfig{Logger: logger})

	s.mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		data := s.hub.CurrentSnapshot()
		if data == nil {
			http.Error(w, "no snapshot published yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	s.mux.HandleFunc("/ws", handler.Handle)

	return s
}

// Addr returns the address the server will listen on.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start runs the server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Printf("feed server listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
