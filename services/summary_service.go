package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
)

// Weekly summary categorization thresholds, on the 0-100 metric support
// scale.
const (
	easySupportThreshold  = 70.0
	upsetSupportThreshold = 40.0
	easyImportanceFloor   = 50.0
)

// SummaryService builds the categorized weekly report by combining
// backtests of finished games with confidence analysis of upcoming ones.
type SummaryService struct {
	results    ResultStore
	spreads    SpreadStore
	analytics  *AnalyticsService
	feed       ScoreFeed
	backtest   *BacktestService
	confidence *ConfidenceService
	season     int
	logger     *logging.Logger
}

// NewSummaryService creates a new summary service
func NewSummaryService(results ResultStore, spreads SpreadStore, analytics *AnalyticsService, feed ScoreFeed, backtest *BacktestService, confidence *ConfidenceService, season int) *SummaryService {
	return &SummaryService{
		results:    results,
		spreads:    spreads,
		analytics:  analytics,
		feed:       feed,
		backtest:   backtest,
		confidence: confidence,
		season:     season,
		logger:     logging.WithPrefix("summary"),
	}
}

// GenerateWeeklySummary loads the week's inputs and builds the report.
// Feed and spread failures degrade the summary rather than failing it;
// only the result log is load-bearing.
func (s *SummaryService) GenerateWeeklySummary(ctx context.Context, week int) (*models.WeeklySummary, error) {
	log, err := s.results.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load result log: %w", err)
	}

	weekSpreads, err := s.spreads.GetWeek(ctx, week)
	if err != nil {
		s.logger.Warnf("Failed to load spreads for week %d: %v", week, err)
		weekSpreads = map[string]models.Spread{}
	}

	var liveGames []models.LiveGame
	if s.feed != nil {
		liveGames, err = s.feed.GetWeekGames(ctx, s.season, week)
		if err != nil {
			s.logger.Warnf("Score feed unavailable for week %d: %v", week, err)
			liveGames = nil
		}
	}

	var analyticsDocs map[string]*models.TeamAnalyticsDocument
	if s.analytics != nil {
		analyticsDocs, err = s.analytics.GetAllTeamAnalytics(ctx)
		if err != nil {
			s.logger.Warnf("Season analytics unavailable: %v", err)
			analyticsDocs = nil
		}
	}

	return s.buildSummary(week, log, analyticsDocs, weekSpreads, liveGames), nil
}

// buildSummary merges stored finals with live snapshots and partitions
// the week. Stored finals win any conflict with the feed: a finalized
// record is authoritative and a live snapshot never overrides it.
func (s *SummaryService) buildSummary(week int, log models.ResultLog, analyticsDocs map[string]*models.TeamAnalyticsDocument, weekSpreads map[string]models.Spread, liveGames []models.LiveGame) *models.WeeklySummary {
	var completed []models.CompletedGameSummary
	var upcoming []models.UpcomingGameSummary

	storedWeek := log[week]
	storedIDs := make([]string, 0, len(storedWeek))
	for gameID := range storedWeek {
		storedIDs = append(storedIDs, gameID)
	}
	sort.Strings(storedIDs)

	for _, gameID := range storedIDs {
		game := storedWeek[gameID]
		completed = append(completed, s.completedEntry(week, gameID, &game, log))
	}

	for i := range liveGames {
		live := liveGames[i]
		if _, stored := storedWeek[live.ID]; stored {
			// Finalized record wins; ignore the feed's copy.
			continue
		}

		if live.HasStarted() {
			game := resultFromLive(&live, week, weekSpreads)
			completed = append(completed, s.completedEntry(week, live.ID, game, log))
			continue
		}

		entry, ok := s.upcomingEntry(&live, weekSpreads, analyticsDocs)
		if !ok {
			s.logger.Debugf("No season analytics for game %s; skipping analysis", live.ID)
			continue
		}
		upcoming = append(upcoming, entry)
	}

	summary := &models.WeeklySummary{
		Week:       week,
		TotalGames: len(completed) + len(upcoming),
	}
	summary.Completed = partitionCompleted(completed)
	summary.Upcoming = partitionUpcoming(upcoming)
	return summary
}

// completedEntry backtests one finished (or started) game and attaches
// its category.
func (s *SummaryService) completedEntry(week int, gameID string, game *models.GameResult, log models.ResultLog) models.CompletedGameSummary {
	backtest, err := s.backtest.BacktestGame(week, gameID, log)

	entry := models.CompletedGameSummary{
		GameID:   gameID,
		Game:     game,
		Category: categorizeBacktest(backtest, err),
	}
	if err == nil {
		entry.Backtest = backtest
		if !backtest.Analysis.IsPush {
			entry.Winner = backtest.Analysis.WinnerTeam
			entry.Loser = backtest.Analysis.LoserTeam
			entry.MetricsSupporting = backtest.Analysis.MetricsSupporting
			entry.AvgImportance = backtest.Analysis.AvgImportanceScore
		}
	}
	return entry
}

// upcomingEntry runs the confidence analyzer on a not-yet-started game.
// Both teams need a season analytics document; without one there is
// nothing to compare.
func (s *SummaryService) upcomingEntry(live *models.LiveGame, weekSpreads map[string]models.Spread, analyticsDocs map[string]*models.TeamAnalyticsDocument) (models.UpcomingGameSummary, bool) {
	homeDoc := analyticsDocs[live.HomeTeam.ID]
	awayDoc := analyticsDocs[live.AwayTeam.ID]
	if homeDoc == nil || awayDoc == nil {
		return models.UpcomingGameSummary{}, false
	}

	var spread *models.Spread
	if sp, ok := weekSpreads[live.ID]; ok {
		spread = &sp
	}

	analysis := s.confidence.AnalyzeUpcomingGame(
		live.ID,
		live.HomeTeam,
		live.AwayTeam,
		spread,
		homeDoc.Analytics.MetricsSnapshot(),
		awayDoc.Analytics.MetricsSnapshot(),
	)

	return models.UpcomingGameSummary{
		GameID:          live.ID,
		Game:            live,
		Analysis:        analysis,
		Confidence:      analysis.Confidence,
		ConfidenceScore: analysis.ConfidenceScore,
	}, true
}

// resultFromLive synthesizes a result record for an in-progress game so
// it can flow through the completed path. The spread comes from the
// spread store when one exists.
func resultFromLive(live *models.LiveGame, week int, weekSpreads map[string]models.Spread) *models.GameResult {
	game := &models.GameResult{
		GameID:   live.ID,
		Week:     week,
		Date:     live.Date,
		HomeTeam: live.HomeTeam,
		AwayTeam: live.AwayTeam,
	}
	if sp, ok := weekSpreads[live.ID]; ok {
		game.Spread = &sp
	}
	return game
}

// categorizeBacktest classifies a completed game by how strongly the
// metrics supported the side that covered.
func categorizeBacktest(backtest *models.GameBacktest, err error) models.CategoryInfo {
	if err != nil || backtest == nil || backtest.Analysis.IsPush {
		return models.CategoryInfo{
			Category: models.CategoryInconclusive,
			Label:    "Inconclusive",
			Reason:   "Push or insufficient data",
		}
	}

	analysis := backtest.Analysis
	evaluated := analysis.MetricsSupporting + analysis.MetricsAgainst
	if evaluated == 0 {
		return models.CategoryInfo{
			Category: models.CategoryInconclusive,
			Label:    "Inconclusive",
			Reason:   "Push or insufficient data",
		}
	}

	supportPct := float64(analysis.MetricsSupporting) / float64(evaluated) * 100

	if supportPct >= easySupportThreshold && analysis.AvgImportanceScore >= easyImportanceFloor {
		return models.CategoryInfo{
			Category: models.CategoryEasy,
			Label:    "Easy Pick",
			Reason: fmt.Sprintf("%d/%d metrics supported the winner with high importance",
				analysis.MetricsSupporting, evaluated),
		}
	}

	if supportPct <= upsetSupportThreshold {
		return models.CategoryInfo{
			Category: models.CategoryUpset,
			Label:    "Nobody Saw That Coming",
			Reason: fmt.Sprintf("Only %d/%d metrics supported the winner",
				analysis.MetricsSupporting, evaluated),
		}
	}

	return models.CategoryInfo{
		Category: models.CategoryTossUp,
		Label:    "Toss-Up",
		Reason:   fmt.Sprintf("Mixed signals with %d%% metric support", int(math.Round(supportPct))),
	}
}

// partitionCompleted buckets completed games and applies each bucket's
// strength ordering.
func partitionCompleted(games []models.CompletedGameSummary) models.CompletedGames {
	result := models.CompletedGames{
		Total:     len(games),
		EasyPicks: models.CompletedGroup{Games: []models.CompletedGameSummary{}},
		Upsets:    models.CompletedGroup{Games: []models.CompletedGameSummary{}},
		TossUps:   models.CompletedGroup{Games: []models.CompletedGameSummary{}},
	}

	for _, g := range games {
		switch g.Category.Category {
		case models.CategoryEasy:
			result.EasyPicks.Games = append(result.EasyPicks.Games, g)
		case models.CategoryUpset:
			result.Upsets.Games = append(result.Upsets.Games, g)
		case models.CategoryTossUp:
			result.TossUps.Games = append(result.TossUps.Games, g)
		}
	}

	// Strongest calls first; most shocking upsets first.
	sort.SliceStable(result.EasyPicks.Games, func(i, j int) bool {
		return result.EasyPicks.Games[i].AvgImportance > result.EasyPicks.Games[j].AvgImportance
	})
	sort.SliceStable(result.Upsets.Games, func(i, j int) bool {
		return result.Upsets.Games[i].MetricsSupporting < result.Upsets.Games[j].MetricsSupporting
	})

	result.EasyPicks.Count = len(result.EasyPicks.Games)
	result.Upsets.Count = len(result.Upsets.Games)
	result.TossUps.Count = len(result.TossUps.Games)
	return result
}

// partitionUpcoming buckets upcoming games by confidence tier, each
// sorted by descending score.
func partitionUpcoming(games []models.UpcomingGameSummary) models.UpcomingGames {
	result := models.UpcomingGames{
		Total:            len(games),
		HighConfidence:   models.UpcomingGroup{Games: []models.UpcomingGameSummary{}},
		MediumConfidence: models.UpcomingGroup{Games: []models.UpcomingGameSummary{}},
		LowConfidence:    models.UpcomingGroup{Games: []models.UpcomingGameSummary{}},
	}

	for _, g := range games {
		switch g.Confidence {
		case models.ConfidenceHigh:
			result.HighConfidence.Games = append(result.HighConfidence.Games, g)
		case models.ConfidenceMedium:
			result.MediumConfidence.Games = append(result.MediumConfidence.Games, g)
		default:
			result.LowConfidence.Games = append(result.LowConfidence.Games, g)
		}
	}

	for _, group := range []*models.UpcomingGroup{&result.HighConfidence, &result.MediumConfidence, &result.LowConfidence} {
		games := group.Games
		sort.SliceStable(games, func(i, j int) bool {
			return games[i].ConfidenceScore > games[j].ConfidenceScore
		})
		group.Count = len(games)
	}

	return result
}
