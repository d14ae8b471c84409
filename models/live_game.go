package models

import "time"

// GameStatus is the external feed's view of where a game stands.
type GameStatus string

const (
	GameStatusPre  GameStatus = "pre"
	GameStatusIn   GameStatus = "in"
	GameStatusPost GameStatus = "post"
)

// LiveGame is a snapshot from the external score feed. Unlike GameResult
// it may describe an unstarted or in-progress game, and it carries no
// spread; spreads live in the spread store.
type LiveGame struct {
	ID       string     `json:"id"`
	Week     int        `json:"week"`
	Date     time.Time  `json:"date"`
	HomeTeam TeamRef    `json:"homeTeam"`
	AwayTeam TeamRef    `json:"awayTeam"`
	Status   GameStatus `json:"status"`
}

// HasStarted returns true once the feed no longer reports the game as
// upcoming.
func (g *LiveGame) HasStarted() bool {
	return g.Status != GameStatusPre
}

// IsFinal returns true when the feed reports the game as finished.
func (g *LiveGame) IsFinal() bool {
	return g.Status == GameStatusPost
}
