package models

import (
	"fmt"
	"time"
)

// RecordLine is a win/loss/push tally with its win percentage.
// Pushes are excluded from the percentage denominator.
type RecordLine struct {
	Wins       int     `json:"wins" bson:"wins"`
	Losses     int     `json:"losses" bson:"losses"`
	Pushes     int     `json:"pushes" bson:"pushes"`
	Percentage float64 `json:"percentage" bson:"percentage"`
}

// Finalize computes the percentage from the accumulated tallies.
func (r *RecordLine) Finalize() {
	if total := r.Wins + r.Losses; total > 0 {
		r.Percentage = float64(r.Wins) / float64(total) * 100
	}
}

// SeasonRecord is a team's straight-up win/loss/tie record.
type SeasonRecord struct {
	Wins       int     `json:"wins" bson:"wins"`
	Losses     int     `json:"losses" bson:"losses"`
	Ties       int     `json:"ties" bson:"ties"`
	Formatted  string  `json:"formatted" bson:"formatted"`
	Percentage float64 `json:"percentage" bson:"percentage"`
}

// Finalize fills the formatted string and win percentage.
func (r *SeasonRecord) Finalize() {
	r.Formatted = fmt.Sprintf("%d-%d", r.Wins, r.Losses)
	if r.Ties > 0 {
		r.Formatted = fmt.Sprintf("%s-%d", r.Formatted, r.Ties)
	}
	if total := r.Wins + r.Losses; total > 0 {
		r.Percentage = float64(r.Wins) / float64(total) * 100
	}
}

// CoverMarginDetail identifies the single game behind a best/worst
// cover-margin extreme.
type CoverMarginDetail struct {
	Value    float64 `json:"value" bson:"value"`
	Week     int     `json:"week" bson:"week"`
	Opponent string  `json:"opponent" bson:"opponent"`
	Spread   float64 `json:"spread" bson:"spread"`
	Covered  bool    `json:"covered" bson:"covered"`
}

// CoverStats summarizes cover margins in one context. Mean/Median are
// nil when no qualifying games exist.
type CoverStats struct {
	Mean     *float64           `json:"mean" bson:"mean"`
	Median   *float64           `json:"median" bson:"median"`
	MaxCover *CoverMarginDetail `json:"maxCover" bson:"maxCover"`
	MaxMiss  *CoverMarginDetail `json:"maxMiss" bson:"maxMiss"`
}

// PointsStats summarizes points scored or allowed in one context.
type PointsStats struct {
	Mean   *float64 `json:"mean" bson:"mean"`
	Median *float64 `json:"median" bson:"median"`
	Max    *int     `json:"max" bson:"max"`
	Min    *int     `json:"min" bson:"min"`
}

// ContextCoverStats breaks cover statistics down by game context.
type ContextCoverStats struct {
	Overall  CoverStats `json:"overall" bson:"overall"`
	Favorite CoverStats `json:"favorite" bson:"favorite"`
	Underdog CoverStats `json:"underdog" bson:"underdog"`
	Home     CoverStats `json:"home" bson:"home"`
	Road     CoverStats `json:"road" bson:"road"`
}

// ContextPointsStats breaks points statistics down by location.
type ContextPointsStats struct {
	Overall PointsStats `json:"overall" bson:"overall"`
	Home    PointsStats `json:"home" bson:"home"`
	Road    PointsStats `json:"road" bson:"road"`
}

// WeekPerformance is one entry in a team's week-ordered timeline.
// Spread is signed from the team's perspective: negative when favored.
type WeekPerformance struct {
	Week          int     `json:"week" bson:"week"`
	Opponent      string  `json:"opponent" bson:"opponent"`
	Location      string  `json:"location" bson:"location"`
	TeamScore     int     `json:"teamScore" bson:"teamScore"`
	OpponentScore int     `json:"opponentScore" bson:"opponentScore"`
	Spread        float64 `json:"spread" bson:"spread"`
	Covered       bool    `json:"covered" bson:"covered"`
	Push          bool    `json:"push" bson:"push"`
	CoverMargin   float64 `json:"coverMargin" bson:"coverMargin"`
}

// TeamSeasonAnalytics is the preprocessor's full-range aggregate for one
// team. Unlike TeamMetricsSnapshot it covers a closed week range and
// carries distribution detail, not just averages.
type TeamSeasonAnalytics struct {
	GamesPlayed       int                `json:"gamesPlayed" bson:"gamesPlayed"`
	SeasonRecord      SeasonRecord       `json:"seasonRecord" bson:"seasonRecord"`
	SpreadRecord      RecordLine         `json:"spreadRecord" bson:"spreadRecord"`
	FavoriteRecord    RecordLine         `json:"favoriteRecord" bson:"favoriteRecord"`
	UnderdogRecord    RecordLine         `json:"underdogRecord" bson:"underdogRecord"`
	HomeRecord        RecordLine         `json:"homeRecord" bson:"homeRecord"`
	AwayRecord        RecordLine         `json:"awayRecord" bson:"awayRecord"`
	CoverStats        ContextCoverStats  `json:"coverStats" bson:"coverStats"`
	PointsScored      ContextPointsStats `json:"pointsScored" bson:"pointsScored"`
	PointsAllowed     ContextPointsStats `json:"pointsAllowed" bson:"pointsAllowed"`
	WeeklyPerformance []WeekPerformance  `json:"weeklyPerformance" bson:"weeklyPerformance"`
}

// MetricsSnapshot flattens season analytics into the snapshot shape the
// confidence analyzer consumes. This is the season-long counterpart of
// the point-in-time snapshot used for backtesting.
func (a *TeamSeasonAnalytics) MetricsSnapshot() *TeamMetricsSnapshot {
	snap := &TeamMetricsSnapshot{
		GamesPlayed:    a.GamesPlayed,
		SpreadWinPct:   a.SpreadRecord.Percentage,
		FavoriteWinPct: a.FavoriteRecord.Percentage,
		UnderdogWinPct: a.UnderdogRecord.Percentage,
		HomeWinPct:     a.HomeRecord.Percentage,
		AwayWinPct:     a.AwayRecord.Percentage,
		SeasonWinPct:   a.SeasonRecord.Percentage,
	}
	if a.PointsScored.Overall.Mean != nil {
		snap.AvgPointsScored = *a.PointsScored.Overall.Mean
	}
	if a.PointsAllowed.Overall.Mean != nil {
		snap.AvgPointsAllowed = *a.PointsAllowed.Overall.Mean
	}
	snap.PointDifferential = snap.AvgPointsScored - snap.AvgPointsAllowed
	if a.CoverStats.Overall.Mean != nil {
		snap.AvgCoverMargin = *a.CoverStats.Overall.Mean
	}

	recent := a.WeeklyPerformance
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	if len(recent) > 0 {
		var points, allowed, spreadWins int
		for _, wp := range recent {
			points += wp.TeamScore
			allowed += wp.OpponentScore
			if !wp.Push && wp.CoverMargin > 0.01 {
				spreadWins++
			}
		}
		snap.RecentForm = RecentForm{
			AvgPoints:  float64(points) / float64(len(recent)),
			AvgAllowed: float64(allowed) / float64(len(recent)),
			SpreadWins: spreadWins,
		}
	}
	return snap
}

// TeamAnalyticsDocument is the persisted form of a team's season
// analytics, as written by the preprocessor.
type TeamAnalyticsDocument struct {
	TeamID      string              `json:"teamId" bson:"teamId"`
	TeamInfo    TeamRef             `json:"teamInfo" bson:"teamInfo"`
	Analytics   TeamSeasonAnalytics `json:"analytics" bson:"analytics"`
	LastUpdated time.Time           `json:"lastUpdated" bson:"lastUpdated"`
	WeekRange   WeekRange           `json:"weekRange" bson:"weekRange"`
}
