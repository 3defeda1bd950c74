package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// LiveInfo describes the running ingestion pipeline for the status
// endpoint.
type LiveInfo struct {
	SessionID string `json:"session_id"`
	Port      string `json:"port"`
	Baud      int    `json:"baud"`
	MaxPoints int    `json:"max_points"`
}

// Server serves the live view: websocket snapshot stream, a polling
// endpoint with the latest snapshot, pipeline status and metrics.
type Server struct {
	Addr      string
	WSManager *WSManager
	Info      LiveInfo

	srv *http.Server
}

// NewServer creates a new live view server.
func NewServer(addr string, wsManager *WSManager, info LiveInfo) *Server {
	return &Server{
		Addr:      addr,
		WSManager: wsManager,
		Info:      info,
	}
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	router := mux.NewRouter()
	router.HandleFunc("/ws", s.WSManager.HandleWebSocket)
	router.HandleFunc("/api/live", s.handleLatest).Methods(http.MethodGet)
	router.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())

	instrumented := otelhttp.NewHandler(router, "blescope-live")

	s.srv = &http.Server{
		Addr:         s.Addr,
		Handler:      instrumented,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Web server shutdown error: %v", err)
		}
		return nil
	case err := <-errChan:
		return err
	}
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	snap := s.WSManager.currentSnapshot()
	if snap == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Info)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("JSON encode error: %v", err)
	}
}
