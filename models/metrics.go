package models

// RecentForm summarizes a team's last three qualifying games.
type RecentForm struct {
	AvgPoints  float64 `json:"avgPoints" bson:"avgPoints"`
	AvgAllowed float64 `json:"avgAllowed" bson:"avgAllowed"`
	SpreadWins int     `json:"spreadWins" bson:"spreadWins"`
}

// TeamMetricsSnapshot holds a team's aggregate performance metrics over
// some window of weeks. Percentages are on a 0-100 scale with pushes
// excluded from the denominator. Snapshots are derived values; they are
// recomputed from the result log and never persisted on their own.
type TeamMetricsSnapshot struct {
	GamesPlayed       int        `json:"gamesPlayed" bson:"gamesPlayed"`
	SpreadWinPct      float64    `json:"spreadWinPct" bson:"spreadWinPct"`
	FavoriteWinPct    float64    `json:"favoriteWinPct" bson:"favoriteWinPct"`
	UnderdogWinPct    float64    `json:"underdogWinPct" bson:"underdogWinPct"`
	HomeWinPct        float64    `json:"homeWinPct" bson:"homeWinPct"`
	AwayWinPct        float64    `json:"awayWinPct" bson:"awayWinPct"`
	AvgPointsScored   float64    `json:"avgPointsScored" bson:"avgPointsScored"`
	AvgPointsAllowed  float64    `json:"avgPointsAllowed" bson:"avgPointsAllowed"`
	PointDifferential float64    `json:"pointDifferential" bson:"pointDifferential"`
	AvgCoverMargin    float64    `json:"avgCoverMargin" bson:"avgCoverMargin"`
	SeasonWinPct      float64    `json:"seasonWinPct" bson:"seasonWinPct"`
	RecentForm        RecentForm `json:"recentForm" bson:"recentForm"`
}
