// Package streamsrv serves random bytes over websocket. Each connection owns
// one generator; nothing is shared between connections.
package streamsrv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/pcgrand/pcg"
)

// Config controls how new connections are seeded.
type Config struct {
	Addr    string
	Variant pcg.Variant
	// Entropy seeds each connection's initial generator. Nil selects the
	// fixed default initializer, so every connection starts identically.
	Entropy io.Reader
}

// Server represents the WebSocket server
type Server struct {
	cfg         Config
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	logger      *log.Logger
	mu          sync.RWMutex
	entropyMu   sync.Mutex
	httpServer  *http.Server
}

// NewServer creates a new WebSocket server
func NewServer(cfg Config, logger *log.Logger) *Server {
	if cfg.Variant == 0 {
		cfg.Variant = pcg.XSHRR
	}
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("streamsrv"),
	}
}

// Handler returns the server's routes: /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start listens until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		_ = s.Stop()
	}()

	s.logger.Info("Starting WebSocket server", "addr", s.cfg.Addr, "variant", s.cfg.Variant)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes every connection and shuts the listener down.
func (s *Server) Stop() error {
	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// ConnectionCount reports the number of open connections.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// newSource builds a connection's initial generator. The entropy reader is
// not assumed to be safe for concurrent use.
func (s *Server) newSource() (pcg.Source, error) {
	if s.cfg.Entropy == nil {
		return pcg.Default(s.cfg.Variant)
	}
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return pcg.FromEntropy(s.cfg.Variant, s.cfg.Entropy)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	src, err := s.newSource()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, src, s.logger)
	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)

	client.Start()

	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "total", total, "bytes", client.Served())
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}
