package services

import (
	"context"
	"fmt"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
)

// IngestionService turns final feed snapshots into immutable result log
// entries. The log is append-only: a game already recorded for a week is
// never rewritten, regardless of what the feed reports later.
type IngestionService struct {
	feed    ScoreFeed
	spreads SpreadStore
	writer  ResultWriter
	season  int
	logger  *logging.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(feed ScoreFeed, spreads SpreadStore, writer ResultWriter, season int) *IngestionService {
	return &IngestionService{
		feed:    feed,
		spreads: spreads,
		writer:  writer,
		season:  season,
		logger:  logging.WithPrefix("ingestion"),
	}
}

// FinalizeWeek records every final game from the feed that is not yet in
// the result log, attaching the stored spread when one exists. Returns
// the number of games newly recorded.
func (s *IngestionService) FinalizeWeek(ctx context.Context, week int) (int, error) {
	games, err := s.feed.GetWeekGames(ctx, s.season, week)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch week %d games: %w", week, err)
	}

	weekSpreads, err := s.spreads.GetWeek(ctx, week)
	if err != nil {
		s.logger.Warnf("Failed to load spreads for week %d: %v", week, err)
		weekSpreads = map[string]models.Spread{}
	}

	saved := 0
	for i := range games {
		live := games[i]
		if !live.IsFinal() {
			continue
		}

		exists, err := s.writer.Exists(ctx, week, live.ID)
		if err != nil {
			return saved, fmt.Errorf("failed to check game %s: %w", live.ID, err)
		}
		if exists {
			continue
		}

		result := &models.GameResult{
			GameID:   live.ID,
			Week:     week,
			Date:     live.Date,
			HomeTeam: live.HomeTeam,
			AwayTeam: live.AwayTeam,
		}
		if sp, ok := weekSpreads[live.ID]; ok {
			result.Spread = &sp
		}

		if err := result.Validate(); err != nil {
			s.logger.Warnf("Skipping invalid final for game %s: %v", live.ID, err)
			continue
		}

		if err := s.writer.SaveResult(ctx, result); err != nil {
			return saved, fmt.Errorf("failed to save game %s: %w", live.ID, err)
		}
		saved++
	}

	s.logger.Infof("Finalized %d new games for week %d", saved, week)
	return saved, nil
}
