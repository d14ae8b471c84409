package services

import (
	"fmt"
	"math"
	"sort"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
)

// Importance scoring constants. The scale factors map typical metric
// differences into a usable 0-100 range; they are tunable, not derived
// from outcome data.
const (
	winPctScale     = 2.0
	pointsScale     = 5.0
	coverScale      = 3.0
	recentFormScale = 10.0
	defaultScale    = 2.0

	correctBoost = 1.5
	maxScore     = 100
)

// accuracyTieTolerance treats metric accuracies within this many
// percentage points as tied, so a single lucky game in a small sample
// does not reorder the rankings.
const accuracyTieTolerance = 5.0

// matchup binds a completed game's ATS winner and loser for metric
// evaluation.
type matchup struct {
	winnerIsHome  bool
	winnerFavored bool
	winner, loser *models.TeamMetricsSnapshot
	home, away    *models.TeamMetricsSnapshot
}

// metricSpec declares one predictive metric: where its values come
// from, how to score them, and when it applies at all.
type metricSpec struct {
	name           string
	category       string
	higherIsBetter bool
	scale          float64
	contextual     bool
	applies        func(m matchup) bool
	values         func(m matchup) (winner, loser float64)
}

// outcomeMetrics is the canonical metric set evaluated against every
// completed non-push game. Contextual entries are skipped, not scored,
// when their predicate is false.
var outcomeMetrics = []metricSpec{
	{
		name: "Spread Win %", category: "spread", higherIsBetter: true, scale: winPctScale,
		values: func(m matchup) (float64, float64) { return m.winner.SpreadWinPct, m.loser.SpreadWinPct },
	},
	{
		name: "Favorite Win %", category: "spread", higherIsBetter: true, scale: winPctScale,
		contextual: true,
		applies:    func(m matchup) bool { return m.winnerFavored },
		values:     func(m matchup) (float64, float64) { return m.winner.FavoriteWinPct, m.loser.FavoriteWinPct },
	},
	{
		name: "Underdog Win %", category: "spread", higherIsBetter: true, scale: winPctScale,
		contextual: true,
		applies:    func(m matchup) bool { return !m.winnerFavored },
		values:     func(m matchup) (float64, float64) { return m.winner.UnderdogWinPct, m.loser.UnderdogWinPct },
	},
	{
		name: "Home Win %", category: "location", higherIsBetter: true, scale: winPctScale,
		contextual: true,
		applies:    func(m matchup) bool { return m.winnerIsHome },
		values:     func(m matchup) (float64, float64) { return m.home.HomeWinPct, m.away.AwayWinPct },
	},
	{
		name: "Away Win %", category: "location", higherIsBetter: true, scale: winPctScale,
		contextual: true,
		applies:    func(m matchup) bool { return !m.winnerIsHome },
		values:     func(m matchup) (float64, float64) { return m.away.AwayWinPct, m.home.HomeWinPct },
	},
	{
		name: "Avg Points Scored", category: "offense", higherIsBetter: true, scale: pointsScale,
		values: func(m matchup) (float64, float64) { return m.winner.AvgPointsScored, m.loser.AvgPointsScored },
	},
	{
		name: "Avg Points Allowed", category: "defense", higherIsBetter: false, scale: pointsScale,
		values: func(m matchup) (float64, float64) { return m.winner.AvgPointsAllowed, m.loser.AvgPointsAllowed },
	},
	{
		name: "Point Differential", category: "overall", higherIsBetter: true, scale: defaultScale,
		values: func(m matchup) (float64, float64) { return m.winner.PointDifferential, m.loser.PointDifferential },
	},
	{
		name: "Avg Cover Margin", category: "spread", higherIsBetter: true, scale: coverScale,
		values: func(m matchup) (float64, float64) { return m.winner.AvgCoverMargin, m.loser.AvgCoverMargin },
	},
	{
		name: "Recent Form (Pts)", category: "recent", higherIsBetter: true, scale: recentFormScale,
		values: func(m matchup) (float64, float64) {
			return m.winner.RecentForm.AvgPoints, m.loser.RecentForm.AvgPoints
		},
	},
	{
		name: "Recent Form (ATS)", category: "recent", higherIsBetter: true, scale: recentFormScale,
		values: func(m matchup) (float64, float64) {
			return float64(m.winner.RecentForm.SpreadWins), float64(m.loser.RecentForm.SpreadWins)
		},
	},
}

// importanceScore blends the magnitude of a metric difference with
// whether the metric called the right side. Always an integer in [0,100].
func importanceScore(scale, strength float64, predictedCorrectly bool) int {
	score := math.Min(strength*scale, maxScore)
	if predictedCorrectly {
		score *= correctBoost
	}
	if score > maxScore {
		score = maxScore
	}
	return int(math.Round(score))
}

// BacktestService analyzes completed games against the spread and
// scores how well each predictive metric would have called them.
type BacktestService struct {
	metrics *MetricsService
	logger  *logging.Logger
}

// NewBacktestService creates a new backtest service
func NewBacktestService(metrics *MetricsService) *BacktestService {
	return &BacktestService{
		metrics: metrics,
		logger:  logging.WithPrefix("backtest"),
	}
}

// AnalyzeCompletedGame determines which side covered and scores every
// applicable metric against that outcome. The game must carry a spread.
// Pushes return immediately with an empty correlation list; they have
// no ATS winner to correlate against.
func (s *BacktestService) AnalyzeCompletedGame(game *models.GameResult, homeMetrics, awayMetrics *models.TeamMetricsSnapshot) *models.GameAnalysis {
	spread := game.Spread
	actualMargin := game.ActualMargin()
	homeFavored := spread.FavoredTeam == game.HomeTeam.ID

	homeCoverMargin := coverMargin(homeFavored, actualMargin, spread.Value)
	awayCoverMargin := coverMargin(!homeFavored, -actualMargin, spread.Value)

	if classifyCover(homeCoverMargin) == coverPush {
		return &models.GameAnalysis{
			IsPush:             true,
			Spread:             spread.Value,
			ActualMargin:       actualMargin,
			MetricCorrelations: []models.MetricCorrelation{},
		}
	}

	correctPick := models.PickSideAway
	gameCoverMargin := awayCoverMargin
	if homeCoverMargin > pushEpsilon {
		correctPick = models.PickSideHome
		gameCoverMargin = homeCoverMargin
	}

	winnerTeam, loserTeam := game.AwayTeam, game.HomeTeam
	winnerMetrics, loserMetrics := awayMetrics, homeMetrics
	if correctPick == models.PickSideHome {
		winnerTeam, loserTeam = game.HomeTeam, game.AwayTeam
		winnerMetrics, loserMetrics = homeMetrics, awayMetrics
	}

	m := matchup{
		winnerIsHome:  correctPick == models.PickSideHome,
		winnerFavored: spread.FavoredTeam == winnerTeam.ID,
		winner:        winnerMetrics,
		loser:         loserMetrics,
		home:          homeMetrics,
		away:          awayMetrics,
	}

	correlations := make([]models.MetricCorrelation, 0, len(outcomeMetrics))
	for _, spec := range outcomeMetrics {
		if spec.contextual && !spec.applies(m) {
			continue
		}

		winnerValue, loserValue := spec.values(m)
		diff := winnerValue - loserValue
		predictedCorrectly := diff > 0
		if !spec.higherIsBetter {
			predictedCorrectly = diff < 0
		}
		strength := math.Abs(diff)

		correlations = append(correlations, models.MetricCorrelation{
			Metric:             spec.name,
			Category:           spec.category,
			WinnerValue:        winnerValue,
			LoserValue:         loserValue,
			Difference:         diff,
			PredictedCorrectly: predictedCorrectly,
			ImportanceScore:    importanceScore(spec.scale, strength, predictedCorrectly),
		})
	}

	sort.SliceStable(correlations, func(i, j int) bool {
		return correlations[i].ImportanceScore > correlations[j].ImportanceScore
	})

	supporting, against, importanceSum := 0, 0, 0
	for _, c := range correlations {
		if c.PredictedCorrectly {
			supporting++
		} else {
			against++
		}
		importanceSum += c.ImportanceScore
	}

	analysis := &models.GameAnalysis{
		IsPush:             false,
		CorrectPick:        correctPick,
		WinnerTeam:         &winnerTeam,
		LoserTeam:          &loserTeam,
		Spread:             spread.Value,
		ActualMargin:       actualMargin,
		CoverMargin:        gameCoverMargin,
		MetricCorrelations: correlations,
		MetricsSupporting:  supporting,
		MetricsAgainst:     against,
	}
	if len(correlations) > 0 {
		analysis.AvgImportanceScore = float64(importanceSum) / float64(len(correlations))
	}
	return analysis
}

// BacktestGame replays a single game: it computes both teams'
// point-in-time metrics as of the game's week and analyzes the result.
func (s *BacktestService) BacktestGame(week int, gameID string, log models.ResultLog) (*models.GameBacktest, error) {
	game := log.Game(week, gameID)
	if game == nil {
		return nil, fmt.Errorf("week %d game %s: %w", week, gameID, ErrGameNotFound)
	}
	if !game.HasSpread() {
		return nil, fmt.Errorf("week %d game %s: %w", week, gameID, ErrMissingSpread)
	}

	homeMetrics, err := s.metrics.ComputeMetrics(game.HomeTeam.ID, week, log)
	if err != nil {
		return nil, fmt.Errorf("team %s before week %d: %w", game.HomeTeam.ID, week, err)
	}
	awayMetrics, err := s.metrics.ComputeMetrics(game.AwayTeam.ID, week, log)
	if err != nil {
		return nil, fmt.Errorf("team %s before week %d: %w", game.AwayTeam.ID, week, err)
	}

	return &models.GameBacktest{
		Week:        week,
		GameID:      gameID,
		Game:        game,
		HomeMetrics: homeMetrics,
		AwayMetrics: awayMetrics,
		Analysis:    s.AnalyzeCompletedGame(game, homeMetrics, awayMetrics),
	}, nil
}

// BacktestWeekRange replays every game in [startWeek, endWeek] and
// aggregates per-metric accuracy. Games that cannot be backtested and
// pushes are skipped silently; they carry no signal about the metrics.
func (s *BacktestService) BacktestWeekRange(startWeek, endWeek int, log models.ResultLog) *models.RangeBacktest {
	aggregate := &models.RangeBacktest{
		WeekRange: models.WeekRange{Start: startWeek, End: endWeek},
		Results:   []*models.GameBacktest{},
	}
	performance := make(map[string]*models.MetricPerformance)

	for week := startWeek; week <= endWeek; week++ {
		weekGames, ok := log[week]
		if !ok {
			continue
		}

		gameIDs := make([]string, 0, len(weekGames))
		for gameID := range weekGames {
			gameIDs = append(gameIDs, gameID)
		}
		sort.Strings(gameIDs)

		for _, gameID := range gameIDs {
			result, err := s.BacktestGame(week, gameID, log)
			if err != nil {
				s.logger.Debugf("Skipping week %d game %s: %v", week, gameID, err)
				continue
			}
			if result.Analysis.IsPush {
				continue
			}

			aggregate.Results = append(aggregate.Results, result)

			for _, mc := range result.Analysis.MetricCorrelations {
				perf, ok := performance[mc.Metric]
				if !ok {
					perf = &models.MetricPerformance{Metric: mc.Metric, Category: mc.Category}
					performance[mc.Metric] = perf
				}
				if mc.PredictedCorrectly {
					perf.TimesCorrect++
				} else {
					perf.TimesWrong++
				}
				perf.TotalImportance += mc.ImportanceScore
			}
		}
	}

	aggregate.GamesAnalyzed = len(aggregate.Results)
	aggregate.MetricRankings = rankMetrics(performance)

	s.logger.Infof("Backtested weeks %d-%d: %d games analyzed, %d metrics ranked",
		startWeek, endWeek, aggregate.GamesAnalyzed, len(aggregate.MetricRankings))

	return aggregate
}

// rankMetrics finalizes accuracy/importance and sorts by accuracy,
// breaking near-ties by average importance.
func rankMetrics(performance map[string]*models.MetricPerformance) []models.MetricPerformance {
	rankings := make([]models.MetricPerformance, 0, len(performance))
	for _, perf := range performance {
		total := perf.TimesCorrect + perf.TimesWrong
		perf.TotalGames = total
		if total > 0 {
			perf.Accuracy = float64(perf.TimesCorrect) / float64(total) * 100
			perf.AvgImportance = float64(perf.TotalImportance) / float64(total)
		}
		rankings = append(rankings, *perf)
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if math.Abs(a.Accuracy-b.Accuracy) > accuracyTieTolerance {
			return a.Accuracy > b.Accuracy
		}
		return a.AvgImportance > b.AvgImportance
	})

	return rankings
}
