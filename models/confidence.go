package models

// ConfidenceLevel buckets a weighted confidence score.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// SuggestedPick is the analyzer's recommendation for an upcoming game.
// Team is nil when the signals are too mixed to recommend a side.
type SuggestedPick struct {
	Team   *TeamRef `json:"team"`
	Reason string   `json:"reason"`
}

// UpcomingGameConfidence is the result of analyzing a game that has not
// started. A missing spread or missing metrics produces a degraded
// zero-confidence result rather than an error.
type UpcomingGameConfidence struct {
	GameID            string          `json:"gameId"`
	Confidence        ConfidenceLevel `json:"confidence"`
	ConfidenceScore   int             `json:"confidenceScore"`
	MetricsAlignment  int             `json:"metricsAlignment"`
	MetricsSupporting int             `json:"metricsSupporting"`
	MetricsAgainst    int             `json:"metricsAgainst"`
	SuggestedPick     *SuggestedPick  `json:"suggestedPick"`
	FavoredTeam       *TeamRef        `json:"favoredTeam,omitempty"`
	UnderdogTeam      *TeamRef        `json:"underdogTeam,omitempty"`
	Spread            float64         `json:"spread"`
}
