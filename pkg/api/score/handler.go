// Package score exposes the scoring pipeline over HTTP.
package score

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"equityscore/pkg/core/report"
	"equityscore/pkg/core/scorecard"
	"equityscore/pkg/core/store"
	"equityscore/pkg/provider"
)

// Scorer runs the analysis pipeline for one ticker. pipeline.Analyzer is the
// production implementation.
type Scorer interface {
	AnalyzeTicker(ctx context.Context, ticker, runID string) (*scorecard.Analysis, error)
}

// Handler serves the scoring endpoints. The repo is optional; without it the
// stored-analysis and ranking endpoints report service unavailable.
type Handler struct {
	scorer Scorer
	repo   *store.ScorecardRepo
	log    zerolog.Logger
}

func NewHandler(scorer Scorer, repo *store.ScorecardRepo, log zerolog.Logger) *Handler {
	return &Handler{scorer: scorer, repo: repo, log: log}
}

// Routes mounts the endpoints on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/api/score", h.handleScore)
	r.Get("/api/score/{ticker}", h.handleGetStored)
	r.Get("/api/ranking", h.handleRanking)
	r.Get("/api/report/{ticker}", h.handleReport)
}

type scoreRequest struct {
	Ticker string `json:"ticker"`
}

// handleScore runs a fresh analysis for the requested ticker.
func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}

	analysis, err := h.scorer.AnalyzeTicker(r.Context(), ticker, "api")
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			http.Error(w, "ticker not found: "+ticker, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("ticker", ticker).Msg("score request failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, analysis)
}

// handleGetStored serves the persisted analysis for a ticker.
func (h *Handler) handleGetStored(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		http.Error(w, "persistence not configured", http.StatusServiceUnavailable)
		return
	}
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	analysis, err := h.repo.Load(r.Context(), ticker)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, analysis)
}

// handleRanking lists stored tickers by score.
func (h *Handler) handleRanking(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		http.Error(w, "persistence not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	entries, err := h.repo.Ranking(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("ranking query failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

// handleReport renders the analyst note as HTML, analyzing fresh.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	analysis, err := h.scorer.AnalyzeTicker(r.Context(), ticker, "api")
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			http.Error(w, "ticker not found: "+ticker, http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	html, err := report.HTML(analysis)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
