package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/devsalary/internal/client"
	"github.com/fr4nk3nst1ner/devsalary/internal/config"
	"github.com/fr4nk3nst1ner/devsalary/internal/scraper"
	"github.com/fr4nk3nst1ner/devsalary/internal/stats"
	"github.com/fr4nk3nst1ner/devsalary/internal/utils"
)

// SourceFactory builds a source by name
type SourceFactory func(name string) (scraper.Source, error)

// Server exposes statistics reports over HTTP
type Server struct {
	router  *chi.Mux
	cfg     *config.AppConfig
	sources SourceFactory
	logger  *pterm.Logger
}

func NewServer(cfg *config.AppConfig, sources SourceFactory, logger *pterm.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		cfg:     cfg,
		sources: sources,
		logger:  logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/sources", s.handleListSources)
	s.router.Get("/statistics/{source}", s.handleStatistics)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sources":   scraper.SourceNames,
		"languages": s.cfg.Languages,
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "source"))
	if !scraper.IsValidSource(name) {
		writeError(w, http.StatusNotFound, "unknown source")
		return
	}

	src, err := s.sources(name)
	if err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	languages := s.cfg.Languages
	if requested := utils.SplitList(r.URL.Query().Get("languages")); len(requested) > 0 {
		languages = requested
	}

	driver := stats.NewDriver(src, s.cfg.Currency)
	driver.Workers = s.cfg.Workers
	driver.IsolateFailures = s.cfg.IsolateFailures
	driver.Logger = s.logger

	report, err := driver.Run(r.Context(), languages)
	if err != nil {
		s.logger.Error("statistics request failed", s.logger.Args("source", name, "error", err))
		var te *client.TransportError
		if errors.As(err, &te) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
