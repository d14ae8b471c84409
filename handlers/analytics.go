package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
	"nfl-pickem-go/services"

	"github.com/gorilla/mux"
)

// AnalyticsHandler is the JSON query surface over the backtesting and
// analytics services.
type AnalyticsHandler struct {
	results   services.ResultStore
	spreads   services.SpreadWriter
	backtest  *services.BacktestService
	summary   *services.SummaryService
	analytics *services.AnalyticsService
	ingestion *services.IngestionService
	logger    *logging.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(results services.ResultStore, spreads services.SpreadWriter, backtest *services.BacktestService, summary *services.SummaryService, analytics *services.AnalyticsService, ingestion *services.IngestionService) *AnalyticsHandler {
	return &AnalyticsHandler{
		results:   results,
		spreads:   spreads,
		backtest:  backtest,
		summary:   summary,
		analytics: analytics,
		ingestion: ingestion,
		logger:    logging.WithPrefix("analytics_handler"),
	}
}

// RegisterRoutes wires the handler onto the router.
func (h *AnalyticsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/backtest/{week:[0-9]+}/{gameId}", h.GetGameBacktest).Methods("GET")
	r.HandleFunc("/api/backtest", h.GetRangeBacktest).Methods("GET")
	r.HandleFunc("/api/weekly-summary/{week:[0-9]+}", h.GetWeeklySummary).Methods("GET")
	r.HandleFunc("/api/analytics/preprocess", h.PreprocessAnalytics).Methods("POST")
	r.HandleFunc("/api/analytics/{teamId}", h.GetTeamAnalytics).Methods("GET")
	r.HandleFunc("/api/ingest/{week:[0-9]+}", h.FinalizeWeek).Methods("POST")
	r.HandleFunc("/api/spreads/{week:[0-9]+}/{gameId}", h.SetSpread).Methods("PUT")
}

// GetGameBacktest runs a single-game backtest.
func (h *AnalyticsHandler) GetGameBacktest(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	week, err := strconv.Atoi(vars["week"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid week")
		return
	}
	gameID := vars["gameId"]

	log, err := h.results.GetAll(r.Context())
	if err != nil {
		h.logger.Errorf("Failed to load result log: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	result, err := h.backtest.BacktestGame(week, gameID, log)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGameNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInsufficientHistory), errors.Is(err, services.ErrMissingSpread):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Errorf("Backtest failed for game %s: %v", gameID, err)
			respondError(w, http.StatusInternalServerError, "backtest failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetRangeBacktest runs a multi-week backtest with metric rankings.
// Query params start and end default to the full logged range.
func (h *AnalyticsHandler) GetRangeBacktest(w http.ResponseWriter, r *http.Request) {
	log, err := h.results.GetAll(r.Context())
	if err != nil {
		h.logger.Errorf("Failed to load result log: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	start, end, ok := log.WeekRange()
	if !ok {
		respondError(w, http.StatusNotFound, "no game results recorded")
		return
	}

	if raw := r.URL.Query().Get("start"); raw != "" {
		if start, err = strconv.Atoi(raw); err != nil {
			respondError(w, http.StatusBadRequest, "invalid start week")
			return
		}
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		if end, err = strconv.Atoi(raw); err != nil {
			respondError(w, http.StatusBadRequest, "invalid end week")
			return
		}
	}
	if start > end {
		respondError(w, http.StatusBadRequest, "start week must not exceed end week")
		return
	}

	respondJSON(w, http.StatusOK, h.backtest.BacktestWeekRange(start, end, log))
}

// GetWeeklySummary builds the categorized report for one week.
func (h *AnalyticsHandler) GetWeeklySummary(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(mux.Vars(r)["week"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid week")
		return
	}

	summary, err := h.summary.GenerateWeeklySummary(r.Context(), week)
	if err != nil {
		h.logger.Errorf("Failed to build summary for week %d: %v", week, err)
		respondError(w, http.StatusInternalServerError, "failed to build weekly summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// GetTeamAnalytics returns one team's preprocessed season analytics.
func (h *AnalyticsHandler) GetTeamAnalytics(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["teamId"]

	doc, err := h.analytics.GetTeamAnalytics(r.Context(), teamID)
	if err != nil {
		h.logger.Errorf("Failed to load analytics for team %s: %v", teamID, err)
		respondError(w, http.StatusInternalServerError, "failed to load team analytics")
		return
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, "no analytics for team "+teamID)
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// PreprocessAnalytics recomputes and stores season analytics for every
// team in the result log.
func (h *AnalyticsHandler) PreprocessAnalytics(w http.ResponseWriter, r *http.Request) {
	count, err := h.analytics.PreprocessAllAnalytics(r.Context())
	if err != nil {
		h.logger.Errorf("Preprocessing failed: %v", err)
		respondError(w, http.StatusInternalServerError, "preprocessing failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"teamsProcessed": count})
}

// FinalizeWeek ingests final scores from the feed into the result log.
func (h *AnalyticsHandler) FinalizeWeek(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(mux.Vars(r)["week"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid week")
		return
	}

	saved, err := h.ingestion.FinalizeWeek(r.Context(), week)
	if err != nil {
		h.logger.Errorf("Finalization failed for week %d: %v", week, err)
		respondError(w, http.StatusInternalServerError, "finalization failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"gamesFinalized": saved})
}

// SetSpread records the admin-entered spread for an upcoming game.
func (h *AnalyticsHandler) SetSpread(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	week, err := strconv.Atoi(vars["week"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid week")
		return
	}
	gameID := vars["gameId"]

	var spread models.Spread
	if err := json.NewDecoder(r.Body).Decode(&spread); err != nil {
		respondError(w, http.StatusBadRequest, "invalid spread body")
		return
	}
	if spread.Value < 0 {
		respondError(w, http.StatusBadRequest, "spread value must be >= 0")
		return
	}
	if spread.FavoredTeam == "" {
		respondError(w, http.StatusBadRequest, "favoredTeam is required")
		return
	}

	if err := h.spreads.SetSpread(r.Context(), week, gameID, spread); err != nil {
		h.logger.Errorf("Failed to set spread for game %s: %v", gameID, err)
		respondError(w, http.StatusInternalServerError, "failed to set spread")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
