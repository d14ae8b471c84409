package models

// GameCategory classifies a completed game by how predictable it was.
type GameCategory string

const (
	CategoryEasy         GameCategory = "easy"
	CategoryUpset        GameCategory = "upset"
	CategoryTossUp       GameCategory = "tossup"
	CategoryInconclusive GameCategory = "inconclusive"
)

// CategoryInfo carries a completed game's category with display text.
type CategoryInfo struct {
	Category GameCategory `json:"category"`
	Label    string       `json:"categoryLabel"`
	Reason   string       `json:"reason"`
}

// CompletedGameSummary is one finished game in the weekly summary.
type CompletedGameSummary struct {
	GameID            string        `json:"gameId"`
	Game              *GameResult   `json:"game"`
	Backtest          *GameBacktest `json:"backtestResult,omitempty"`
	Category          CategoryInfo  `json:"category"`
	Winner            *TeamRef      `json:"winner,omitempty"`
	Loser             *TeamRef      `json:"loser,omitempty"`
	MetricsSupporting int           `json:"metricsSupporting"`
	AvgImportance     float64       `json:"avgImportance"`
}

// UpcomingGameSummary is one not-yet-started game in the weekly summary.
type UpcomingGameSummary struct {
	GameID          string                  `json:"gameId"`
	Game            *LiveGame               `json:"game"`
	Analysis        *UpcomingGameConfidence `json:"analysis"`
	Confidence      ConfidenceLevel         `json:"confidence"`
	ConfidenceScore int                     `json:"confidenceScore"`
}

// CompletedGroup is a category bucket of completed games.
type CompletedGroup struct {
	Count int                    `json:"count"`
	Games []CompletedGameSummary `json:"games"`
}

// UpcomingGroup is a confidence bucket of upcoming games.
type UpcomingGroup struct {
	Count int                   `json:"count"`
	Games []UpcomingGameSummary `json:"games"`
}

// CompletedGames partitions a week's finished games.
type CompletedGames struct {
	Total     int            `json:"total"`
	EasyPicks CompletedGroup `json:"easyPicks"`
	Upsets    CompletedGroup `json:"upsets"`
	TossUps   CompletedGroup `json:"tossUps"`
}

// UpcomingGames partitions a week's unstarted games by confidence tier.
type UpcomingGames struct {
	Total            int           `json:"total"`
	HighConfidence   UpcomingGroup `json:"highConfidence"`
	MediumConfidence UpcomingGroup `json:"mediumConfidence"`
	LowConfidence    UpcomingGroup `json:"lowConfidence"`
}

// WeeklySummary is the categorized report for one week, combining
// backtests of finished games with confidence analysis of upcoming ones.
type WeeklySummary struct {
	Week       int            `json:"week"`
	TotalGames int            `json:"totalGames"`
	Completed  CompletedGames `json:"completed"`
	Upcoming   UpcomingGames  `json:"upcoming"`
}
