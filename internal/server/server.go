// Package server provides the HTTP server for the body measurement service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nramsai/sizely/internal/app"
	"github.com/nramsai/sizely/internal/detector"
	"github.com/nramsai/sizely/internal/server/api"
	"github.com/nramsai/sizely/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
	Detector  detector.Detector
}

// Server represents the HTTP server for the measurement service.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register the analysis endpoint if the pipeline is configured
	if s.config.App != nil {
		s.mux.Handle("/api/analyze", api.NewAnalyzeHandler(s.config.App))
	}

	// Register chart CRUD if Store is configured
	if s.config.Store != nil {
		chartHandler := api.NewChartHandler(s.config.Store)
		s.mux.Handle("/api/charts", chartHandler)
		s.mux.Handle("/api/charts/", chartHandler)
	}

	// Register the live preview WebSocket if Detector is configured
	if s.config.Detector != nil {
		s.mux.Handle("/api/preview", NewPreviewHandler(s.config.Detector))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
