package services

import "errors"

var (
	// ErrGameNotFound is returned when a week/gameID pair is absent from
	// the result log.
	ErrGameNotFound = errors.New("game not found in result log")

	// ErrInsufficientHistory is returned when a team has no qualifying
	// games before the target week. Callers are expected to branch on it;
	// it is a normal early-season state, not a failure.
	ErrInsufficientHistory = errors.New("insufficient historical data")

	// ErrMissingSpread is returned when a game cannot be analyzed against
	// the spread because none was recorded.
	ErrMissingSpread = errors.New("no spread recorded for game")
)
