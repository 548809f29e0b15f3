package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/medleads/go-jobscraper/internal/domain"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// JobService is the pipeline surface the HTTP layer depends on.
type JobService interface {
	Sources() []domain.JobSource
	SupportsDetails(source domain.JobSource) bool
	ScrapeWithDetails(ctx context.Context, source domain.JobSource, limit int, fetchDetails bool) ([]*domain.Job, error)
	ScrapeAll(ctx context.Context, limit int, fetchDetails bool) []*domain.Job
}

// Server exposes the scraping pipeline over HTTP.
type Server struct {
	service JobService
	mux     *http.ServeMux
	logger  *slog.Logger
}

// NewServer wires handlers onto an HTTP mux.
func NewServer(service JobService) *Server {
	s := &Server{
		service: service,
		mux:     http.NewServeMux(),
		logger:  slog.Default(),
	}
	s.routes()
	return s
}

// ServeHTTP satisfies the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/jobs/all", s.handleAllJobs)
	s.mux.HandleFunc("/jobs/", s.handleSourceJobs)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	endpoints := map[string]string{
		"all_jobs": "/jobs/all",
		"health":   "/health",
	}
	for _, src := range s.service.Sources() {
		endpoints[string(src)+"_jobs"] = "/jobs/" + string(src)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Job Scraper API",
		"endpoints": endpoints,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	sources := make([]string, 0)
	detailCapable := make([]string, 0)
	for _, src := range s.service.Sources() {
		sources = append(sources, string(src))
		if s.service.SupportsDetails(src) {
			detailCapable = append(detailCapable, string(src))
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"scrapers":        sources,
		"detail_scraping": detailCapable,
	})
}

func (s *Server) handleSourceJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	source := domain.JobSource(strings.TrimPrefix(r.URL.Path, "/jobs/"))
	limit := parseLimit(r)
	details := parseBool(r, "details")

	jobs, err := s.service.ScrapeWithDetails(r.Context(), source, limit, details)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"source":          string(source),
		"count":           len(jobs),
		"details_fetched": details && s.service.SupportsDetails(source),
		"jobs":            jobs,
	})
}

func (s *Server) handleAllJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	limit := parseLimit(r)
	details := parseBool(r, "details")

	jobs := s.service.ScrapeAll(r.Context(), limit, details)

	failed := make(map[string]bool)
	for _, j := range jobs {
		if j.IsError() {
			failed[j.Source] = true
		}
	}
	succeeded := make([]string, 0)
	for _, src := range s.service.Sources() {
		if !failed[string(src)] {
			succeeded = append(succeeded, string(src))
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sources":         succeeded,
		"total_count":     len(jobs),
		"details_fetched": details,
		"jobs":            jobs,
	})
}

// parseLimit clamps the requested limit to [1, 100], defaulting to 20.
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultLimit
	}
	if n < 1 {
		return 1
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

func parseBool(r *http.Request, key string) bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && b
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("encode response", "error", err)
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
}
