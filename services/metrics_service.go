package services

import (
	"math"
	"sort"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
)

// pushEpsilon is the absolute tolerance for declaring a cover-margin
// push. It absorbs floating-point spread arithmetic; spreads themselves
// are whole or half-point values.
const pushEpsilon = 0.01

// recentFormGames is the size of the recent-form window.
const recentFormGames = 3

// coverResult classifies one game against the spread.
type coverResult int

const (
	coverWin coverResult = iota
	coverLoss
	coverPush
)

// classifyCover maps a cover margin to win/loss/push.
func classifyCover(margin float64) coverResult {
	if math.Abs(margin) < pushEpsilon {
		return coverPush
	}
	if margin > 0 {
		return coverWin
	}
	return coverLoss
}

// coverMargin returns the spread-adjusted margin from the team's
// perspective: positive means covered.
func coverMargin(isFavorite bool, actualMargin int, spreadValue float64) float64 {
	if isFavorite {
		return float64(actualMargin) - spreadValue
	}
	return float64(actualMargin) + spreadValue
}

// teamGame is one game annotated with the team's role in it.
type teamGame struct {
	game   models.GameResult
	isHome bool
}

// MetricsService derives team performance snapshots from the result log.
// All computation is pure over the supplied log; the service holds no
// state beyond its logger.
type MetricsService struct {
	logger *logging.Logger
}

// NewMetricsService creates a new metrics service
func NewMetricsService() *MetricsService {
	return &MetricsService{
		logger: logging.WithPrefix("metrics"),
	}
}

// collectTeamGames gathers every game the team played in [startWeek, endWeek],
// optionally excluding endWeek itself, ordered by week.
func collectTeamGames(teamID string, log models.ResultLog, startWeek, endWeek int, includeEnd bool) []teamGame {
	var games []teamGame
	for week, weekGames := range log {
		if week < startWeek || week > endWeek {
			continue
		}
		if week == endWeek && !includeEnd {
			continue
		}
		for _, game := range weekGames {
			if game.Involves(teamID) {
				games = append(games, teamGame{game: game, isHome: game.IsHome(teamID)})
			}
		}
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].game.Week < games[j].game.Week
	})
	return games
}

// ComputeMetrics calculates a team's point-in-time snapshot using only
// games strictly before targetWeek, so a backtest of targetWeek never
// sees its own outcome. Returns ErrInsufficientHistory when the team
// has no prior games.
func (s *MetricsService) ComputeMetrics(teamID string, targetWeek int, log models.ResultLog) (*models.TeamMetricsSnapshot, error) {
	games := collectTeamGames(teamID, log, 1, targetWeek, false)
	if len(games) == 0 {
		return nil, ErrInsufficientHistory
	}
	return aggregateMetrics(teamID, games), nil
}

// aggregateMetrics is the shared windowed tally behind both the
// point-in-time calculator and the season preprocessor's flat view.
func aggregateMetrics(teamID string, games []teamGame) *models.TeamMetricsSnapshot {
	var spreadWins, spreadLosses int
	var favoriteWins, favoriteLosses int
	var underdogWins, underdogLosses int
	var homeWins, homeLosses int
	var awayWins, awayLosses int
	var seasonWins, seasonLosses int
	var pointsScored, pointsAllowed int
	var coverMargins []float64

	for _, tg := range games {
		teamScore, oppScore := tg.game.TeamScore(teamID)
		actualMargin := teamScore - oppScore

		if actualMargin > 0 {
			seasonWins++
		} else if actualMargin < 0 {
			seasonLosses++
		}

		pointsScored += teamScore
		pointsAllowed += oppScore

		if !tg.game.HasSpread() {
			continue
		}

		isFavorite := tg.game.IsFavorite(teamID)
		margin := coverMargin(isFavorite, actualMargin, tg.game.Spread.Value)

		switch classifyCover(margin) {
		case coverWin:
			spreadWins++
			if isFavorite {
				favoriteWins++
			} else {
				underdogWins++
			}
			if tg.isHome {
				homeWins++
			} else {
				awayWins++
			}
			coverMargins = append(coverMargins, margin)
		case coverLoss:
			spreadLosses++
			if isFavorite {
				favoriteLosses++
			} else {
				underdogLosses++
			}
			if tg.isHome {
				homeLosses++
			} else {
				awayLosses++
			}
			coverMargins = append(coverMargins, margin)
		case coverPush:
			// Pushes count toward no tally.
		}
	}

	snapshot := &models.TeamMetricsSnapshot{
		GamesPlayed:      len(games),
		SpreadWinPct:     winPct(spreadWins, spreadLosses),
		FavoriteWinPct:   winPct(favoriteWins, favoriteLosses),
		UnderdogWinPct:   winPct(underdogWins, underdogLosses),
		HomeWinPct:       winPct(homeWins, homeLosses),
		AwayWinPct:       winPct(awayWins, awayLosses),
		AvgPointsScored:  float64(pointsScored) / float64(len(games)),
		AvgPointsAllowed: float64(pointsAllowed) / float64(len(games)),
		SeasonWinPct:     winPct(seasonWins, seasonLosses),
	}
	snapshot.PointDifferential = snapshot.AvgPointsScored - snapshot.AvgPointsAllowed
	if len(coverMargins) > 0 {
		var sum float64
		for _, m := range coverMargins {
			sum += m
		}
		snapshot.AvgCoverMargin = sum / float64(len(coverMargins))
	}

	recent := games
	if len(recent) > recentFormGames {
		recent = recent[len(recent)-recentFormGames:]
	}
	snapshot.RecentForm = recentForm(teamID, recent)

	return snapshot
}

// recentForm averages scoring and counts spread wins over the team's
// last few games.
func recentForm(teamID string, games []teamGame) models.RecentForm {
	if len(games) == 0 {
		return models.RecentForm{}
	}

	var points, allowed, spreadWins int
	for _, tg := range games {
		teamScore, oppScore := tg.game.TeamScore(teamID)
		points += teamScore
		allowed += oppScore

		if tg.game.HasSpread() {
			margin := coverMargin(tg.game.IsFavorite(teamID), teamScore-oppScore, tg.game.Spread.Value)
			if margin > pushEpsilon {
				spreadWins++
			}
		}
	}

	return models.RecentForm{
		AvgPoints:  float64(points) / float64(len(games)),
		AvgAllowed: float64(allowed) / float64(len(games)),
		SpreadWins: spreadWins,
	}
}

// winPct returns wins/(wins+losses) on a 0-100 scale, 0 when no
// decisions exist.
func winPct(wins, losses int) float64 {
	total := wins + losses
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}
