// Package server provides the HTTP server for the voxcraft editor.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ayusman/voxcraft/internal/app"
	"github.com/ayusman/voxcraft/internal/logging"
	"github.com/ayusman/voxcraft/internal/metrics"
	"github.com/ayusman/voxcraft/internal/server/api"
)

// Config holds the server configuration. Without an App only the health
// check and static files are served.
type Config struct {
	StaticDir      string
	App            *app.App
	Metrics        *metrics.Collector
	Logger         *zap.Logger
	AllowedOrigins []string
}

// Server is the HTTP front end of the editor.
type Server struct {
	config Config
	router chi.Router
	log    *zap.Logger
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		log:    logging.OrNop(config.Logger),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures middleware and all HTTP routes.
func (s *Server) setupRoutes() {
	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.log))
	if s.config.Metrics != nil {
		r.Use(instrument(s.config.Metrics))
	}
	if len(s.config.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.config.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		if a := s.config.App; a != nil {
			api.NewEditorHandler(a).Routes(r)
			api.NewGenerateHandler(a).Routes(r)
			r.Route("/scenes", api.NewSceneHandler(a).Routes)
			r.Handle("/frames", NewFramesHandler(a, s.log))
			r.Handle("/stream", NewStreamHandler(a))
		}
	})

	if s.config.Metrics != nil {
		r.Handle("/metrics", s.config.Metrics.Handler())
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if a := s.config.App; a != nil {
		response["camera_active"] = a.CameraActive()
		response["generation_enabled"] = a.GenerationEnabled()
		response["subscribers"] = a.Subscribers()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
