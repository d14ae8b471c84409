package services

import (
	"context"

	"nfl-pickem-go/models"
)

// ResultStore reads the append-only game result log.
type ResultStore interface {
	GetWeek(ctx context.Context, week int) (models.WeekResults, error)
	GetAll(ctx context.Context) (models.ResultLog, error)
}

// ResultWriter appends finalized games to the result log. Existing
// finals are never overwritten.
type ResultWriter interface {
	SaveResult(ctx context.Context, result *models.GameResult) error
	Exists(ctx context.Context, week int, gameID string) (bool, error)
}

// SpreadStore reads the admin-entered spreads for a week, keyed by gameID.
type SpreadStore interface {
	GetWeek(ctx context.Context, week int) (map[string]models.Spread, error)
}

// SpreadWriter records admin-entered spreads ahead of kickoff.
type SpreadWriter interface {
	SetSpread(ctx context.Context, week int, gameID string, spread models.Spread) error
}

// AnalyticsRepository persists the season analytics produced by the
// preprocessor.
type AnalyticsRepository interface {
	UpsertTeamAnalytics(ctx context.Context, doc *models.TeamAnalyticsDocument) error
	GetTeamAnalytics(ctx context.Context, teamID string) (*models.TeamAnalyticsDocument, error)
	GetAllTeamAnalytics(ctx context.Context) (map[string]*models.TeamAnalyticsDocument, error)
}

// AnalyticsCache fronts the analytics repository with a faster lookup.
// A nil cache is valid; callers fall through to the repository.
type AnalyticsCache interface {
	Get(ctx context.Context, teamID string) (*models.TeamAnalyticsDocument, error)
	Set(ctx context.Context, doc *models.TeamAnalyticsDocument) error
}

// ScoreFeed supplies live game snapshots from the external provider.
type ScoreFeed interface {
	GetWeekGames(ctx context.Context, season, week int) ([]models.LiveGame, error)
}
