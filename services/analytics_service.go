package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"

	"github.com/montanaflynn/stats"
)

// AnalyticsService is the season analytics preprocessor. It computes
// each team's full-range statistics from the result log and persists
// them so the confidence and summary paths read a cached document
// instead of recomputing per request.
type AnalyticsService struct {
	results ResultStore
	store   AnalyticsRepository
	cache   AnalyticsCache
	logger  *logging.Logger
}

// NewAnalyticsService creates a new analytics service. cache may be nil.
func NewAnalyticsService(results ResultStore, store AnalyticsRepository, cache AnalyticsCache) *AnalyticsService {
	return &AnalyticsService{
		results: results,
		store:   store,
		cache:   cache,
		logger:  logging.WithPrefix("analytics"),
	}
}

// CalculateTeamAnalytics computes one team's aggregate statistics over
// the closed range [startWeek, endWeek]. Unlike the point-in-time
// calculator it includes the end week; this is the season-long view,
// not a backtesting input.
func (s *AnalyticsService) CalculateTeamAnalytics(teamID string, log models.ResultLog, startWeek, endWeek int) *models.TeamSeasonAnalytics {
	games := collectTeamGames(teamID, log, startWeek, endWeek, true)

	analytics := &models.TeamSeasonAnalytics{
		GamesPlayed:       len(games),
		WeeklyPerformance: []models.WeekPerformance{},
	}

	var allMargins, favoriteMargins, underdogMargins, homeMargins, roadMargins []models.CoverMarginDetail
	var scoredAll, scoredHome, scoredRoad []int
	var allowedAll, allowedHome, allowedRoad []int

	for _, tg := range games {
		teamScore, oppScore := tg.game.TeamScore(teamID)
		actualMargin := teamScore - oppScore

		switch {
		case actualMargin > 0:
			analytics.SeasonRecord.Wins++
		case actualMargin < 0:
			analytics.SeasonRecord.Losses++
		default:
			analytics.SeasonRecord.Ties++
		}

		// Spread-dependent statistics only exist for games with a spread.
		if !tg.game.HasSpread() {
			continue
		}

		isFavorite := tg.game.IsFavorite(teamID)
		margin := coverMargin(isFavorite, actualMargin, tg.game.Spread.Value)
		result := classifyCover(margin)

		tallyRecord(&analytics.SpreadRecord, result)
		if isFavorite {
			tallyRecord(&analytics.FavoriteRecord, result)
		} else {
			tallyRecord(&analytics.UnderdogRecord, result)
		}
		if tg.isHome {
			tallyRecord(&analytics.HomeRecord, result)
		} else {
			tallyRecord(&analytics.AwayRecord, result)
		}

		opponent := tg.game.HomeTeam.Abbreviation
		if tg.isHome {
			opponent = tg.game.AwayTeam.Abbreviation
		}
		signedSpread := tg.game.Spread.Value
		if isFavorite {
			signedSpread = -signedSpread
		}

		if result != coverPush {
			detail := models.CoverMarginDetail{
				Value:    margin,
				Week:     tg.game.Week,
				Opponent: opponent,
				Spread:   signedSpread,
				Covered:  result == coverWin,
			}
			allMargins = append(allMargins, detail)
			if isFavorite {
				favoriteMargins = append(favoriteMargins, detail)
			} else {
				underdogMargins = append(underdogMargins, detail)
			}
			if tg.isHome {
				homeMargins = append(homeMargins, detail)
			} else {
				roadMargins = append(roadMargins, detail)
			}
		}

		scoredAll = append(scoredAll, teamScore)
		allowedAll = append(allowedAll, oppScore)
		if tg.isHome {
			scoredHome = append(scoredHome, teamScore)
			allowedHome = append(allowedHome, oppScore)
		} else {
			scoredRoad = append(scoredRoad, teamScore)
			allowedRoad = append(allowedRoad, oppScore)
		}

		location := "Away"
		if tg.isHome {
			location = "Home"
		}
		analytics.WeeklyPerformance = append(analytics.WeeklyPerformance, models.WeekPerformance{
			Week:          tg.game.Week,
			Opponent:      opponent,
			Location:      location,
			TeamScore:     teamScore,
			OpponentScore: oppScore,
			Spread:        signedSpread,
			Covered:       result == coverWin,
			Push:          result == coverPush,
			CoverMargin:   margin,
		})
	}

	analytics.SeasonRecord.Finalize()
	analytics.SpreadRecord.Finalize()
	analytics.FavoriteRecord.Finalize()
	analytics.UnderdogRecord.Finalize()
	analytics.HomeRecord.Finalize()
	analytics.AwayRecord.Finalize()

	analytics.CoverStats = models.ContextCoverStats{
		Overall:  coverStatsFor(allMargins),
		Favorite: coverStatsFor(favoriteMargins),
		Underdog: coverStatsFor(underdogMargins),
		Home:     coverStatsFor(homeMargins),
		Road:     coverStatsFor(roadMargins),
	}
	analytics.PointsScored = models.ContextPointsStats{
		Overall: pointsStatsFor(scoredAll),
		Home:    pointsStatsFor(scoredHome),
		Road:    pointsStatsFor(scoredRoad),
	}
	analytics.PointsAllowed = models.ContextPointsStats{
		Overall: pointsStatsFor(allowedAll),
		Home:    pointsStatsFor(allowedHome),
		Road:    pointsStatsFor(allowedRoad),
	}

	sort.SliceStable(analytics.WeeklyPerformance, func(i, j int) bool {
		return analytics.WeeklyPerformance[i].Week < analytics.WeeklyPerformance[j].Week
	})

	return analytics
}

// tallyRecord updates one record line for a cover result.
func tallyRecord(record *models.RecordLine, result coverResult) {
	switch result {
	case coverWin:
		record.Wins++
	case coverLoss:
		record.Losses++
	case coverPush:
		record.Pushes++
	}
}

// coverStatsFor summarizes a context's cover margins with best/worst
// single-game detail.
func coverStatsFor(margins []models.CoverMarginDetail) models.CoverStats {
	if len(margins) == 0 {
		return models.CoverStats{}
	}

	values := make([]float64, len(margins))
	for i, m := range margins {
		values[i] = m.Value
	}

	result := models.CoverStats{}
	if mean, err := stats.Mean(values); err == nil {
		result.Mean = &mean
	}
	if median, err := stats.Median(values); err == nil {
		result.Median = &median
	}

	for i := range margins {
		m := margins[i]
		if m.Covered {
			if result.MaxCover == nil || m.Value > result.MaxCover.Value {
				result.MaxCover = &margins[i]
			}
		} else {
			if result.MaxMiss == nil || m.Value < result.MaxMiss.Value {
				result.MaxMiss = &margins[i]
			}
		}
	}

	return result
}

// pointsStatsFor summarizes a context's points values.
func pointsStatsFor(values []int) models.PointsStats {
	if len(values) == 0 {
		return models.PointsStats{}
	}

	floats := make([]float64, len(values))
	max, min := values[0], values[0]
	for i, v := range values {
		floats[i] = float64(v)
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}

	result := models.PointsStats{Max: &max, Min: &min}
	if mean, err := stats.Mean(floats); err == nil {
		result.Mean = &mean
	}
	if median, err := stats.Median(floats); err == nil {
		result.Median = &median
	}
	return result
}

// PreprocessAllAnalytics recomputes season analytics for every team in
// the result log and persists them, warming the cache when one is
// configured. Returns the number of teams processed.
func (s *AnalyticsService) PreprocessAllAnalytics(ctx context.Context) (int, error) {
	log, err := s.results.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load result log: %w", err)
	}

	startWeek, endWeek, ok := log.WeekRange()
	if !ok {
		s.logger.Warn("No game results available; nothing to preprocess")
		return 0, nil
	}

	teams := log.Teams()
	teamIDs := make([]string, 0, len(teams))
	for teamID := range teams {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Strings(teamIDs)

	s.logger.Infof("Preprocessing analytics for %d teams over weeks %d-%d", len(teamIDs), startWeek, endWeek)

	for _, teamID := range teamIDs {
		doc := &models.TeamAnalyticsDocument{
			TeamID:      teamID,
			TeamInfo:    teams[teamID],
			Analytics:   *s.CalculateTeamAnalytics(teamID, log, startWeek, endWeek),
			LastUpdated: time.Now().UTC(),
			WeekRange:   models.WeekRange{Start: startWeek, End: endWeek},
		}

		if err := s.store.UpsertTeamAnalytics(ctx, doc); err != nil {
			return 0, fmt.Errorf("failed to store analytics for team %s: %w", teamID, err)
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, doc); err != nil {
				s.logger.Warnf("Failed to cache analytics for team %s: %v", teamID, err)
			}
		}
	}

	s.logger.Infof("Preprocessed analytics for %d teams", len(teamIDs))
	return len(teamIDs), nil
}

// GetTeamAnalytics reads one team's season analytics, cache first.
func (s *AnalyticsService) GetTeamAnalytics(ctx context.Context, teamID string) (*models.TeamAnalyticsDocument, error) {
	if s.cache != nil {
		doc, err := s.cache.Get(ctx, teamID)
		if err != nil {
			s.logger.Warnf("Analytics cache read failed for team %s: %v", teamID, err)
		} else if doc != nil {
			return doc, nil
		}
	}

	doc, err := s.store.GetTeamAnalytics(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if doc != nil && s.cache != nil {
		if err := s.cache.Set(ctx, doc); err != nil {
			s.logger.Warnf("Failed to cache analytics for team %s: %v", teamID, err)
		}
	}
	return doc, nil
}

// GetAllTeamAnalytics reads every team's season analytics from the store.
func (s *AnalyticsService) GetAllTeamAnalytics(ctx context.Context) (map[string]*models.TeamAnalyticsDocument, error) {
	return s.store.GetAllTeamAnalytics(ctx)
}
