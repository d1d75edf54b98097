package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/birddograbbit/magic8-companion/internal/gex"
	"github.com/birddograbbit/magic8-companion/internal/strategy"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status      string   `json:"status"`
	Symbols     []string `json:"symbols"`
	Subscribers int      `json:"subscribers"`
}

type gexResponse struct {
	gex.Export
	Recommendation strategy.Recommendation `json:"recommendation"`
}

type analyzeRequest struct {
	Symbols []string `json:"symbols"`
}

// GetHealth reports process liveness and subscriber count.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	subscribers := 0
	if s.hub != nil {
		subscribers = s.hub.ClientCount()
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Symbols:     s.symbols,
		Subscribers: subscribers,
	})
}

// GetGex analyzes a single symbol (served from cache within the TTL) and
// returns the export plus the strategy recommendation.
func (s *Server) GetGex(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "symbol is required"})
		return
	}

	result, err := s.engine.Analyze(r.Context(), symbol)
	if err != nil {
		s.logger.Error("analysis failed",
			zap.String("symbol", symbol),
			zap.Error(err),
		)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, gexResponse{
		Export:         result.Export(),
		Recommendation: strategy.Recommend(result),
	})
}

// PostAnalyze runs a batch analysis over the requested symbols, defaulting
// to the configured symbol list when the body names none.
func (s *Server) PostAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err.Error() != "EOF" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	symbols := req.Symbols
	if len(symbols) == 0 {
		symbols = s.symbols
	}

	results := s.engine.AnalyzeBatch(r.Context(), symbols)

	response := make(map[string]gexResponse, len(results))
	for symbol, result := range results {
		response[symbol] = gexResponse{
			Export:         result.Export(),
			Recommendation: strategy.Recommend(result),
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
