package models

// PickSide identifies which side of a game covered the spread.
type PickSide string

const (
	PickSideHome PickSide = "home"
	PickSideAway PickSide = "away"
)

// MetricCorrelation records how one predictive metric lined up with the
// actual against-the-spread result of a single game.
type MetricCorrelation struct {
	Metric             string  `json:"metric"`
	Category           string  `json:"category"`
	WinnerValue        float64 `json:"winnerValue"`
	LoserValue         float64 `json:"loserValue"`
	Difference         float64 `json:"difference"`
	PredictedCorrectly bool    `json:"predictedCorrectly"`
	ImportanceScore    int     `json:"importanceScore"`
}

// GameAnalysis is the outcome analysis of one completed game. When
// IsPush is true no metric scoring applies and the correlation list is
// empty; pushes carry no ATS winner.
type GameAnalysis struct {
	IsPush             bool                `json:"isPush"`
	CorrectPick        PickSide            `json:"correctPick,omitempty"`
	WinnerTeam         *TeamRef            `json:"winnerTeam,omitempty"`
	LoserTeam          *TeamRef            `json:"loserTeam,omitempty"`
	Spread             float64             `json:"spread"`
	ActualMargin       int                 `json:"actualMargin"`
	CoverMargin        float64             `json:"coverMargin"`
	MetricCorrelations []MetricCorrelation `json:"metricCorrelations"`
	MetricsSupporting  int                 `json:"metricsSupporting"`
	MetricsAgainst     int                 `json:"metricsAgainst"`
	AvgImportanceScore float64             `json:"avgImportanceScore"`
}

// GameBacktest pairs a single game's analysis with the point-in-time
// metrics that fed it.
type GameBacktest struct {
	Week        int                  `json:"week"`
	GameID      string               `json:"gameId"`
	Game        *GameResult          `json:"game"`
	HomeMetrics *TeamMetricsSnapshot `json:"homeMetrics"`
	AwayMetrics *TeamMetricsSnapshot `json:"awayMetrics"`
	Analysis    *GameAnalysis        `json:"analysis"`
}

// MetricPerformance accumulates one metric's track record across many
// backtested games.
type MetricPerformance struct {
	Metric          string  `json:"metric"`
	Category        string  `json:"category"`
	TimesCorrect    int     `json:"timesCorrect"`
	TimesWrong      int     `json:"timesWrong"`
	TotalImportance int     `json:"totalImportance"`
	TotalGames      int     `json:"totalGames"`
	Accuracy        float64 `json:"accuracy"`
	AvgImportance   float64 `json:"avgImportance"`
}

// WeekRange is an inclusive span of weeks.
type WeekRange struct {
	Start int `json:"start" bson:"start"`
	End   int `json:"end" bson:"end"`
}

// RangeBacktest is the aggregate of backtesting every game in a week
// range. Pushes and games without enough history are excluded from
// GamesAnalyzed and from the rankings.
type RangeBacktest struct {
	GamesAnalyzed  int                 `json:"gamesAnalyzed"`
	WeekRange      WeekRange           `json:"weekRange"`
	MetricRankings []MetricPerformance `json:"metricRankings"`
	Results        []*GameBacktest     `json:"results"`
}
