// Package api serves courses and their countdowns over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/korjavin/mealclock/pkg/course"
	"github.com/korjavin/mealclock/pkg/logger"
	"github.com/korjavin/mealclock/pkg/models"
	"github.com/korjavin/mealclock/pkg/registry"
)

var errTrailingData = errors.New("unexpected data after JSON value")

// DefaultJSONLimit caps request bodies at 2 MiB
const DefaultJSONLimit int64 = 2 << 20

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Addr      string
	JSONLimit int64
	TLSCert   string
	TLSKey    string
}

// Server exposes a course registry over HTTP
type Server struct {
	config   ServerConfig
	registry *registry.Registry
	mux      *http.ServeMux
	server   *http.Server
	logger   *logger.Logger
}

// stageView is a stage plus its "<duration> -- <name>" rendering
type stageView struct {
	models.Stage
	Display string `json:"display"`
}

// MarshalJSON flattens the embedded stage alongside the display text
func (v stageView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string              `json:"name"`
		Duration models.WireDuration `json:"duration"`
		Display  string              `json:"display"`
	}{v.Name, models.ToWire(v.Duration), v.Display})
}

func views(stages []models.Stage) []stageView {
	out := make([]stageView, len(stages))
	for i, s := range stages {
		out[i] = stageView{Stage: s, Display: models.FormatStage(s)}
	}
	return out
}

// NewServer creates a server for reg
func NewServer(cfg ServerConfig, reg *registry.Registry) *Server {
	if cfg.JSONLimit <= 0 {
		cfg.JSONLimit = DefaultJSONLimit
	}

	s := &Server{
		config:   cfg,
		registry: reg,
		mux:      http.NewServeMux(),
		logger:   logger.New("api"),
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleHello)
	s.mux.HandleFunc("GET /courses", s.handleListCourses)
	s.mux.HandleFunc("GET /course/{id}", s.handleSchedule)
	s.mux.HandleFunc("POST /course/{id}", s.handleAddStage)
	s.mux.HandleFunc("PUT /course", s.handleCreateCourse)
	s.mux.HandleFunc("POST /chain", s.handleChain)
	s.mux.HandleFunc("OPTIONS /{path...}", s.handleOptions)
}

// Handler returns the routes wrapped in the response header middleware
func (s *Server) Handler() http.Handler {
	return withCORS(withNoCache(s.mux))
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.config.TLSCert != "" && s.config.TLSKey != "" {
			s.logger.Info("Listening on %s (TLS)", s.config.Addr)
			err = s.server.ListenAndServeTLS(s.config.TLSCert, s.config.TLSKey)
		} else {
			s.logger.Info("Listening on %s", s.config.Addr)
			err = s.server.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down HTTP server")
		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Hello, world!")
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

// handleSchedule returns the countdown for a course, 404 if unknown
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, ok := s.registry.Schedule(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, views(schedule))
}

// handleAddStage appends a stage; unknown courses answer with an empty list
func (s *Server) handleAddStage(w http.ResponseWriter, r *http.Request) {
	var stage models.Stage
	if !s.decode(w, r, &stage) {
		return
	}

	id := r.PathValue("id")
	schedule, err := s.registry.AddStages(id, stage)
	if err != nil && !errors.Is(err, registry.ErrUnknownCourse) {
		s.logger.Error("Failed to add stage to %s: %v", id, err)
		http.Error(w, "failed to add stage", http.StatusInternalServerError)
		return
	}
	if err != nil {
		s.logger.Debug("Add stage to unknown course %s", id)
	}
	writeJSON(w, http.StatusOK, views(schedule))
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var details models.CourseDetails
	if !s.decode(w, r, &details) {
		return
	}

	if _, err := s.registry.Create(details.Name); err != nil {
		s.logger.Error("Failed to create course %q: %v", details.Name, err)
		http.Error(w, "failed to create course", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	var links []models.Stage
	if !s.decode(w, r, &links) {
		return
	}
	writeJSON(w, http.StatusOK, views(course.Chain(links)))
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Ok")
}

// decode reads a size-limited JSON body into v, answering 400/413 on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.config.JSONLimit)
	dec := json.NewDecoder(body)
	err := dec.Decode(v)
	if err == nil {
		// exactly one JSON value per body
		switch extra := dec.Decode(&struct{}{}); {
		case extra == nil:
			err = errTrailingData
		case !errors.Is(extra, io.EOF):
			err = extra
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
