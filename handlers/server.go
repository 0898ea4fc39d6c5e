package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"dungeon-viewer/previewer/services"
)

const shutdownTimeout = 5 * time.Second

// Server exposes previews over a websocket endpoint at /ws
type Server struct {
	addr     string
	previews *services.PreviewService
	maps     *services.MapService
	clients  *ClientManager
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewServer creates a preview server listening on addr
func NewServer(addr string, previews *services.PreviewService, maps *services.MapService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:     addr,
		previews: previews,
		maps:     maps,
		clients:  NewClientManager(logger),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Previews are read-only mock-ups; accept any origin
				return true
			},
		},
		logger: logger,
	}
}

// Clients returns the connected client registry
func (s *Server) Clients() *ClientManager {
	return s.clients
}

// Handler returns the HTTP handler serving /ws
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("Failed to upgrade connection", zap.Error(err))
			return
		}
		defer conn.Close()

		HandleClientConnection(r.Context(), conn, s.previews, s.maps, s.clients, s.logger)
	})
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	// Hijacked websocket connections are not tracked by Shutdown
	s.clients.CloseAll()
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
