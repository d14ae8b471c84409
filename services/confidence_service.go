package services

import (
	"math"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
)

// Confidence thresholds on the 0-100 weighted confidence scale.
const (
	highConfidenceThreshold   = 70.0
	mediumConfidenceThreshold = 50.0
	favoritePickThreshold     = 60.0
	underdogPickThreshold     = 40.0
)

// pairing binds the favored and underdog sides of an upcoming game.
type pairing struct {
	homeFavored       bool
	home, away        *models.TeamMetricsSnapshot
	favored, underdog *models.TeamMetricsSnapshot
}

// confidenceMetric declares one weighted comparison between the favored
// side and the underdog. Unlike the outcome table there is no
// contextual skipping; every metric is evaluated for every game.
type confidenceMetric struct {
	name           string
	weight         float64
	higherIsBetter bool
	values         func(p pairing) (favored, underdog float64)
}

// confidenceMetrics is the fixed weighted list behind the upcoming-game
// analyzer. ATS performance carries the most weight.
var confidenceMetrics = []confidenceMetric{
	{
		name: "Spread Win %", weight: 2.0, higherIsBetter: true,
		values: func(p pairing) (float64, float64) { return p.favored.SpreadWinPct, p.underdog.SpreadWinPct },
	},
	{
		name: "Favorite Win %", weight: 1.5, higherIsBetter: true,
		values: func(p pairing) (float64, float64) { return p.favored.FavoriteWinPct, p.underdog.UnderdogWinPct },
	},
	{
		name: "Home/Away Win %", weight: 1.2, higherIsBetter: true,
		values: func(p pairing) (float64, float64) {
			if p.homeFavored {
				return p.home.HomeWinPct, p.away.AwayWinPct
			}
			return p.away.AwayWinPct, p.home.HomeWinPct
		},
	},
	{
		name: "Avg Points Scored", weight: 1.0, higherIsBetter: true,
		values: func(p pairing) (float64, float64) { return p.favored.AvgPointsScored, p.underdog.AvgPointsScored },
	},
	{
		name: "Avg Points Allowed", weight: 1.0, higherIsBetter: false,
		values: func(p pairing) (float64, float64) { return p.favored.AvgPointsAllowed, p.underdog.AvgPointsAllowed },
	},
	{
		name: "Point Differential", weight: 1.3, higherIsBetter: true,
		values: func(p pairing) (float64, float64) {
			return p.favored.PointDifferential, p.underdog.PointDifferential
		},
	},
	{
		name: "Recent Form", weight: 1.1, higherIsBetter: true,
		values: func(p pairing) (float64, float64) {
			return float64(p.favored.RecentForm.SpreadWins), float64(p.underdog.RecentForm.SpreadWins)
		},
	},
}

// confidenceTier buckets a weighted confidence score. The tiers
// partition [0,100]: >=70 high, >=50 medium, below that low.
func confidenceTier(weightedConfidence float64) models.ConfidenceLevel {
	switch {
	case weightedConfidence >= highConfidenceThreshold:
		return models.ConfidenceHigh
	case weightedConfidence >= mediumConfidenceThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// ConfidenceService scores upcoming games by how strongly the season
// metrics line up behind the favorite.
type ConfidenceService struct {
	logger *logging.Logger
}

// NewConfidenceService creates a new confidence service
func NewConfidenceService() *ConfidenceService {
	return &ConfidenceService{
		logger: logging.WithPrefix("confidence"),
	}
}

// AnalyzeUpcomingGame compares the favored side's metrics against the
// underdog's and produces a weighted confidence score plus a suggested
// pick. A missing spread or missing metrics yields a degraded
// zero-confidence result with no pick, never an error.
func (s *ConfidenceService) AnalyzeUpcomingGame(gameID string, homeTeam, awayTeam models.TeamRef, spread *models.Spread, homeMetrics, awayMetrics *models.TeamMetricsSnapshot) *models.UpcomingGameConfidence {
	if spread == nil || homeMetrics == nil || awayMetrics == nil {
		return &models.UpcomingGameConfidence{
			GameID:     gameID,
			Confidence: models.ConfidenceLow,
		}
	}

	homeFavored := spread.FavoredTeam == homeTeam.ID

	p := pairing{
		homeFavored: homeFavored,
		home:        homeMetrics,
		away:        awayMetrics,
		favored:     awayMetrics,
		underdog:    homeMetrics,
	}
	favoredTeam, underdogTeam := awayTeam, homeTeam
	if homeFavored {
		p.favored, p.underdog = homeMetrics, awayMetrics
		favoredTeam, underdogTeam = homeTeam, awayTeam
	}

	var supporting, against int
	var totalWeight, weightedSupport float64

	for _, metric := range confidenceMetrics {
		favoredValue, underdogValue := metric.values(p)
		diff := favoredValue - underdogValue
		supportsFavorite := diff > 0
		if !metric.higherIsBetter {
			supportsFavorite = diff < 0
		}

		totalWeight += metric.weight
		if supportsFavorite {
			supporting++
			weightedSupport += metric.weight
		} else {
			against++
		}
	}

	weightedConfidence := weightedSupport / totalWeight * 100
	alignment := float64(supporting) / float64(len(confidenceMetrics)) * 100

	var pick *models.SuggestedPick
	switch {
	case weightedConfidence >= favoritePickThreshold:
		pick = &models.SuggestedPick{
			Team:   &favoredTeam,
			Reason: "Metrics strongly support the favorite",
		}
	case weightedConfidence <= underdogPickThreshold:
		pick = &models.SuggestedPick{
			Team:   &underdogTeam,
			Reason: "Metrics favor the underdog",
		}
	default:
		pick = &models.SuggestedPick{
			Reason: "Mixed signals - proceed with caution",
		}
	}

	return &models.UpcomingGameConfidence{
		GameID:            gameID,
		Confidence:        confidenceTier(weightedConfidence),
		ConfidenceScore:   int(math.Round(weightedConfidence)),
		MetricsAlignment:  int(math.Round(alignment)),
		MetricsSupporting: supporting,
		MetricsAgainst:    against,
		SuggestedPick:     pick,
		FavoredTeam:       &favoredTeam,
		UnderdogTeam:      &underdogTeam,
		Spread:            spread.Value,
	}
}
