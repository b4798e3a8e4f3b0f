package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/conorfennell/knolpack/internal/apkg"
	"github.com/conorfennell/knolpack/internal/domain"
	"github.com/conorfennell/knolpack/internal/parser"
	"github.com/conorfennell/knolpack/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// Server holds the dependencies for the HTTP server.
type Server struct {
	engine   *storage.Engine
	router   chi.Router
	validate *validator.Validate
	log      *slog.Logger
}

// ExportRequest is the body of POST /export.
type ExportRequest struct {
	DeckName string        `json:"deckName" validate:"required,max=255"`
	Template string        `json:"template"`
	Cards    []domain.Card `json:"cards" validate:"max=100000"`
}

// NewServer creates and configures a new server.
func NewServer(engine *storage.Engine, log *slog.Logger) *Server {
	s := &Server{
		engine:   engine,
		router:   chi.NewRouter(),
		validate: validator.New(),
		log:      log,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth())
	s.router.Post("/export", s.handleExport())
	s.router.Post("/export/markdown", s.handleExportMarkdown())
}

// handleHealth reports whether the SQLite engine is ready for exports.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.engine.Ready() {
			http.Error(w, "sqlite engine not initialized", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	}
}

// handleExport builds a package from a JSON list of cards.
func (s *Server) handleExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExportRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		if err := s.validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.export(w, req.DeckName, req.Template, req.Cards)
	}
}

// handleExportMarkdown builds a package from a markdown body of Q:/A: cards.
// The deck name comes from the deck query parameter.
func (s *Server) handleExportMarkdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deck := r.URL.Query().Get("deck")
		if deck == "" {
			http.Error(w, "deck cannot be empty", http.StatusBadRequest)
			return
		}
		cards, err := parser.Parse(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "Invalid markdown body", http.StatusBadRequest)
			return
		}
		s.export(w, deck, r.URL.Query().Get("template"), cards)
	}
}

func (s *Server) export(w http.ResponseWriter, deckName, templateName string, cards []domain.Card) {
	opts := []apkg.Option{apkg.WithLogger(s.log)}
	if templateName != "" {
		opts = append(opts, apkg.WithTemplate(templateName))
	}

	pkg, err := apkg.Export(s.engine, deckName, cards, opts...)
	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		http.Error(w, "sqlite engine not initialized", http.StatusServiceUnavailable)
		return
	case errors.Is(err, apkg.ErrEmptyDeckName):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		s.log.Error("Error exporting deck", "deck", deckName, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": apkg.FileName(deckName)})
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", disposition)
	if _, err := w.Write(pkg); err != nil {
		s.log.Warn("Failed to write package", "deck", deckName, "error", err)
	}
}
