package services

import (
	"context"
	"errors"
	"testing"

	"nfl-pickem-go/models"
)

type stubFeed struct {
	games []models.LiveGame
	err   error
}

func (f *stubFeed) GetWeekGames(context.Context, int, int) ([]models.LiveGame, error) {
	return f.games, f.err
}

type stubSpreadStore struct {
	spreads map[string]models.Spread
}

func (s *stubSpreadStore) GetWeek(context.Context, int) (map[string]models.Spread, error) {
	return s.spreads, nil
}

type stubResultWriter struct {
	existing map[string]bool
	saved    []*models.GameResult
}

func (w *stubResultWriter) SaveResult(_ context.Context, result *models.GameResult) error {
	w.saved = append(w.saved, result)
	return nil
}

func (w *stubResultWriter) Exists(_ context.Context, _ int, gameID string) (bool, error) {
	return w.existing[gameID], nil
}

func liveGame(id string, status models.GameStatus, homeID string, homeScore int, awayID string, awayScore int) models.LiveGame {
	return models.LiveGame{
		ID:       id,
		Week:     2,
		Status:   status,
		HomeTeam: teamRef(homeID, homeScore),
		AwayTeam: teamRef(awayID, awayScore),
	}
}

func TestFinalizeWeek(t *testing.T) {
	feed := &stubFeed{games: []models.LiveGame{
		liveGame("g1", models.GameStatusPost, "DAL", 27, "NYG", 17),
		liveGame("g2", models.GameStatusIn, "PHI", 14, "WSH", 7),
		liveGame("g3", models.GameStatusPre, "CHI", 0, "GB", 0),
		liveGame("g4", models.GameStatusPost, "KC", 31, "LV", 13),
	}}
	spreads := &stubSpreadStore{spreads: map[string]models.Spread{
		"g1": {Value: 3, FavoredTeam: "DAL"},
	}}
	writer := &stubResultWriter{existing: map[string]bool{"g4": true}}

	svc := NewIngestionService(feed, spreads, writer, 2025)
	saved, err := svc.FinalizeWeek(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// g2 and g3 have not finished, g4 is already recorded.
	if saved != 1 {
		t.Fatalf("saved = %d, want 1", saved)
	}
	if len(writer.saved) != 1 {
		t.Fatalf("writer got %d results, want 1", len(writer.saved))
	}

	result := writer.saved[0]
	if result.GameID != "g1" || result.Week != 2 {
		t.Errorf("saved %s week %d, want g1 week 2", result.GameID, result.Week)
	}
	if result.HomeTeam.Score != 27 || result.AwayTeam.Score != 17 {
		t.Errorf("scores = %d-%d, want 27-17", result.HomeTeam.Score, result.AwayTeam.Score)
	}
	if result.Spread == nil || result.Spread.Value != 3 || result.Spread.FavoredTeam != "DAL" {
		t.Errorf("spread = %+v, want 3 on DAL", result.Spread)
	}
}

// A final without a stored spread is still recorded; the spread simply
// stays absent, which keeps the game out of spread statistics.
func TestFinalizeWeekNoSpread(t *testing.T) {
	feed := &stubFeed{games: []models.LiveGame{
		liveGame("g1", models.GameStatusPost, "DAL", 27, "NYG", 17),
	}}
	writer := &stubResultWriter{}

	svc := NewIngestionService(feed, &stubSpreadStore{}, writer, 2025)
	saved, err := svc.FinalizeWeek(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved != 1 {
		t.Fatalf("saved = %d, want 1", saved)
	}
	if writer.saved[0].Spread != nil {
		t.Errorf("spread = %+v, want nil", writer.saved[0].Spread)
	}
}

// A spread naming a team that is not playing fails validation; the game
// is skipped rather than poisoning the immutable log.
func TestFinalizeWeekInvalidSpread(t *testing.T) {
	feed := &stubFeed{games: []models.LiveGame{
		liveGame("g1", models.GameStatusPost, "DAL", 27, "NYG", 17),
	}}
	spreads := &stubSpreadStore{spreads: map[string]models.Spread{
		"g1": {Value: 3, FavoredTeam: "PHI"},
	}}
	writer := &stubResultWriter{}

	svc := NewIngestionService(feed, spreads, writer, 2025)
	saved, err := svc.FinalizeWeek(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved != 0 || len(writer.saved) != 0 {
		t.Errorf("invalid result was saved: saved=%d", saved)
	}
}

func TestFinalizeWeekFeedError(t *testing.T) {
	wantErr := errors.New("feed down")
	svc := NewIngestionService(&stubFeed{err: wantErr}, &stubSpreadStore{}, &stubResultWriter{}, 2025)

	_, err := svc.FinalizeWeek(context.Background(), 2)
	if !errors.Is(err, wantErr) {
		t.Errorf("got error %v, want wrapped %v", err, wantErr)
	}
}
