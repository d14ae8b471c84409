package services

import (
	"time"

	"nfl-pickem-go/models"
)

func teamRef(id string, score int) models.TeamRef {
	return models.TeamRef{ID: id, Name: id, Abbreviation: id, Score: score}
}

func testGame(week int, gameID, homeID string, homeScore int, awayID string, awayScore int, spread *models.Spread) models.GameResult {
	return models.GameResult{
		GameID:   gameID,
		Week:     week,
		Date:     time.Date(2025, 9, 1, 13, 0, 0, 0, time.UTC).AddDate(0, 0, 7*(week-1)),
		HomeTeam: teamRef(homeID, homeScore),
		AwayTeam: teamRef(awayID, awayScore),
		Spread:   spread,
	}
}

func buildLog(games ...models.GameResult) models.ResultLog {
	log := make(models.ResultLog)
	for _, game := range games {
		if log[game.Week] == nil {
			log[game.Week] = make(models.WeekResults)
		}
		log[game.Week][game.GameID] = game
	}
	return log
}

func spread(value float64, favored string) *models.Spread {
	return &models.Spread{Value: value, FavoredTeam: favored}
}
