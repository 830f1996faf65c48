// Package server is the HTTP facade over the parsing core. It marshals core
// types and contains no parsing logic of its own.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/statement-parser/internal/common"
	"github.com/joseph-ayodele/statement-parser/internal/export"
	"github.com/joseph-ayodele/statement-parser/internal/pipeline"
	"github.com/joseph-ayodele/statement-parser/internal/repository"
)

type Server struct {
	parser       *pipeline.Parser
	repo         repository.StatementRepository
	exporter     *export.Service
	maxBatchSize int
	workers      int
	logger       *slog.Logger
}

func New(parser *pipeline.Parser, repo repository.StatementRepository, exporter *export.Service, maxBatchSize, workers int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBatchSize <= 0 {
		maxBatchSize = 10
	}
	if workers <= 0 {
		workers = 1
	}
	return &Server{
		parser:       parser,
		repo:         repo,
		exporter:     exporter,
		maxBatchSize: maxBatchSize,
		workers:      workers,
		logger:       logger,
	}
}

// Router wires all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/parse-single", s.handleParseSingle)
	r.Post("/parse-multiple", s.handleParseMultiple)
	r.Route("/statements", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})
	r.Get("/export", s.handleExport)
	return r
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrExtractionFailure):
		status = http.StatusUnprocessableEntity
	}
	s.respond(w, status, envelope{Success: false, Error: err.Error()})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, envelope{Success: true, Message: "Credit Card Statement Parser API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, envelope{Success: true, Message: "healthy"})
}
