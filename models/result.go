package models

import (
	"fmt"
	"time"
)

// TeamRef identifies one side of a game. Color fields are display-only
// and are never consulted by the analytics engine.
type TeamRef struct {
	ID             string `json:"id" bson:"id"`
	Name           string `json:"name" bson:"name"`
	Abbreviation   string `json:"abbreviation" bson:"abbreviation"`
	Score          int    `json:"score" bson:"score"`
	Color          string `json:"color,omitempty" bson:"color,omitempty"`
	AlternateColor string `json:"alternateColor,omitempty" bson:"alternateColor,omitempty"`
}

// Spread is the point spread that applied to a game. Value is always
// non-negative; FavoredTeam carries the handicapped side.
type Spread struct {
	Value       float64 `json:"value" bson:"value"`
	FavoredTeam string  `json:"favoredTeam" bson:"favoredTeam"`
}

// GameResult is the immutable record of a finished game. Results are
// written once when a game goes final and never mutated afterward.
type GameResult struct {
	GameID   string    `json:"gameId" bson:"gameId"`
	Week     int       `json:"week" bson:"week"`
	Date     time.Time `json:"date" bson:"date"`
	HomeTeam TeamRef   `json:"homeTeam" bson:"homeTeam"`
	AwayTeam TeamRef   `json:"awayTeam" bson:"awayTeam"`
	Spread   *Spread   `json:"spread,omitempty" bson:"spread,omitempty"`
}

// WeekResults maps gameID to its final result for one week.
type WeekResults map[string]GameResult

// ResultLog is the append-only log of finals, keyed week -> gameID.
type ResultLog map[int]WeekResults

// HasSpread returns true if a spread was recorded for the game.
func (g *GameResult) HasSpread() bool {
	return g.Spread != nil
}

// ActualMargin returns home score minus away score.
func (g *GameResult) ActualMargin() int {
	return g.HomeTeam.Score - g.AwayTeam.Score
}

// Involves returns true if the given team played in this game.
func (g *GameResult) Involves(teamID string) bool {
	return g.HomeTeam.ID == teamID || g.AwayTeam.ID == teamID
}

// IsHome returns true if the given team was the home side.
func (g *GameResult) IsHome(teamID string) bool {
	return g.HomeTeam.ID == teamID
}

// IsFavorite returns true if the given team was favored. Always false
// when no spread exists.
func (g *GameResult) IsFavorite(teamID string) bool {
	return g.Spread != nil && g.Spread.FavoredTeam == teamID
}

// TeamScore returns the score of the given team and its opponent.
func (g *GameResult) TeamScore(teamID string) (team, opponent int) {
	if g.IsHome(teamID) {
		return g.HomeTeam.Score, g.AwayTeam.Score
	}
	return g.AwayTeam.Score, g.HomeTeam.Score
}

// Validate checks the spread invariant: a recorded favorite must be one
// of the two participants.
func (g *GameResult) Validate() error {
	if g.Week < 1 {
		return fmt.Errorf("game %s: week must be positive, got %d", g.GameID, g.Week)
	}
	if g.Spread != nil {
		if g.Spread.Value < 0 {
			return fmt.Errorf("game %s: spread value must be >= 0, got %f", g.GameID, g.Spread.Value)
		}
		if g.Spread.FavoredTeam != g.HomeTeam.ID && g.Spread.FavoredTeam != g.AwayTeam.ID {
			return fmt.Errorf("game %s: favored team %s is not a participant", g.GameID, g.Spread.FavoredTeam)
		}
	}
	return nil
}

// Game returns the result for a specific week/gameID, or nil if absent.
func (l ResultLog) Game(week int, gameID string) *GameResult {
	weekGames, ok := l[week]
	if !ok {
		return nil
	}
	game, ok := weekGames[gameID]
	if !ok {
		return nil
	}
	return &game
}

// WeekRange returns the lowest and highest week present in the log.
// ok is false for an empty log.
func (l ResultLog) WeekRange() (min, max int, ok bool) {
	for week := range l {
		if !ok {
			min, max, ok = week, week, true
			continue
		}
		if week < min {
			min = week
		}
		if week > max {
			max = week
		}
	}
	return min, max, ok
}

// Teams returns every distinct team that appears in the log, keyed by ID.
// Scores on the returned refs are zeroed; they identify teams, not games.
func (l ResultLog) Teams() map[string]TeamRef {
	teams := make(map[string]TeamRef)
	for _, weekGames := range l {
		for _, game := range weekGames {
			for _, side := range []TeamRef{game.HomeTeam, game.AwayTeam} {
				if _, seen := teams[side.ID]; !seen {
					side.Score = 0
					teams[side.ID] = side
				}
			}
		}
	}
	return teams
}
