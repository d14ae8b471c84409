package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nfl-pickem-go/models"
	"nfl-pickem-go/services"

	"github.com/gorilla/mux"
)

type fixedResultStore struct {
	log models.ResultLog
}

func (s *fixedResultStore) GetWeek(_ context.Context, week int) (models.WeekResults, error) {
	return s.log[week], nil
}

func (s *fixedResultStore) GetAll(context.Context) (models.ResultLog, error) {
	return s.log, nil
}

func testResult(week int, gameID, homeID string, homeScore int, awayID string, awayScore int, sp *models.Spread) models.GameResult {
	return models.GameResult{
		GameID:   gameID,
		Week:     week,
		Date:     time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC),
		HomeTeam: models.TeamRef{ID: homeID, Abbreviation: homeID, Score: homeScore},
		AwayTeam: models.TeamRef{ID: awayID, Abbreviation: awayID, Score: awayScore},
		Spread:   sp,
	}
}

func newTestRouter() *mux.Router {
	store := &fixedResultStore{log: models.ResultLog{
		1: models.WeekResults{
			"g1": testResult(1, "g1", "DAL", 20, "NYG", 10, &models.Spread{Value: 3, FavoredTeam: "DAL"}),
			"g2": testResult(1, "g2", "PHI", 30, "WSH", 20, &models.Spread{Value: 3, FavoredTeam: "PHI"}),
		},
		2: models.WeekResults{
			"g3": testResult(2, "g3", "DAL", 25, "PHI", 20, &models.Spread{Value: 3, FavoredTeam: "DAL"}),
		},
	}}

	backtest := services.NewBacktestService(services.NewMetricsService())
	handler := NewAnalyticsHandler(store, nil, backtest, nil, nil, nil)

	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestGetGameBacktest(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{"existing game", "/api/backtest/2/g3", http.StatusOK},
		{"unknown game", "/api/backtest/2/missing", http.StatusNotFound},
		{"no history before week one", "/api/backtest/1/g1", http.StatusUnprocessableEntity},
		{"non-numeric week misses the route", "/api/backtest/abc/g1", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestGetGameBacktestBody(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/backtest/2/g3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result models.GameBacktest
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if result.Week != 2 || result.GameID != "g3" {
		t.Errorf("got week=%d gameID=%s, want 2/g3", result.Week, result.GameID)
	}
	if result.Analysis == nil {
		t.Fatal("analysis missing from response")
	}
}

func TestGetRangeBacktest(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{"full logged range by default", "/api/backtest", http.StatusOK},
		{"explicit range", "/api/backtest?start=2&end=2", http.StatusOK},
		{"inverted range", "/api/backtest?start=3&end=1", http.StatusBadRequest},
		{"bad start", "/api/backtest?start=abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestGetRangeBacktestBody(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/backtest?start=2&end=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var result models.RangeBacktest
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if result.GamesAnalyzed != 1 {
		t.Errorf("GamesAnalyzed = %d, want 1", result.GamesAnalyzed)
	}
	if len(result.MetricRankings) == 0 {
		t.Error("rankings missing from response")
	}
}
