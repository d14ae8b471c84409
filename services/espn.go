package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
)

const regularSeasonType = 2

// ESPNService fetches live game snapshots from the ESPN scoreboard API.
// It implements ScoreFeed.
type ESPNService struct {
	client  *http.Client
	baseURL string
	logger  *logging.Logger
}

// NewESPNService creates a new ESPN service
func NewESPNService(baseURL string) *ESPNService {
	return &ESPNService{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		logger:  logging.WithPrefix("espn"),
	}
}

// ESPN API response structures
type espnResponse struct {
	Events []espnEvent `json:"events"`
}

type espnEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Week         espnWeek          `json:"week"`
	Season       espnSeason        `json:"season"`
	Status       espnStatus        `json:"status"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnSeason struct {
	Year int `json:"year"`
	Type int `json:"type"`
}

type espnWeek struct {
	Number int `json:"number"`
}

type espnStatus struct {
	Type espnStatusType `json:"type"`
}

type espnStatusType struct {
	Name      string `json:"name"`
	State     string `json:"state"`
	Completed bool   `json:"completed"`
}

type espnCompetition struct {
	Competitors []espnCompetitor `json:"competitors"`
}

type espnCompetitor struct {
	ID       string   `json:"id"`
	HomeAway string   `json:"homeAway"`
	Score    string   `json:"score"`
	Team     espnTeam `json:"team"`
}

type espnTeam struct {
	ID             string `json:"id"`
	Abbreviation   string `json:"abbreviation"`
	DisplayName    string `json:"displayName"`
	Color          string `json:"color"`
	AlternateColor string `json:"alternateColor"`
}

// GetWeekGames fetches the scoreboard for a single regular-season week.
func (e *ESPNService) GetWeekGames(ctx context.Context, season, week int) ([]models.LiveGame, error) {
	url := fmt.Sprintf("%s?dates=%d&seasontype=%d&week=%d", e.baseURL, season, regularSeasonType, week)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build scoreboard request: %w", err)
	}

	e.logger.Debugf("Fetching scoreboard for season %d week %d", season, week)
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoreboard API returned status %d", resp.StatusCode)
	}

	var feed espnResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboard response: %w", err)
	}

	games := make([]models.LiveGame, 0, len(feed.Events))
	for _, event := range feed.Events {
		if event.Season.Type != regularSeasonType {
			continue
		}
		if len(event.Competitions) == 0 || len(event.Competitions[0].Competitors) < 2 {
			continue
		}
		games = append(games, e.convertEvent(event))
	}

	e.logger.Debugf("Scoreboard returned %d games for week %d", len(games), week)
	return games, nil
}

// convertEvent maps a single ESPN event to a LiveGame snapshot.
func (e *ESPNService) convertEvent(event espnEvent) models.LiveGame {
	competition := event.Competitions[0]

	// ESPN dates come as "2024-09-08T00:20Z", sometimes with seconds.
	gameDate, err := time.Parse("2006-01-02T15:04Z", event.Date)
	if err != nil {
		gameDate, err = time.Parse(time.RFC3339, event.Date)
		if err != nil {
			e.logger.Warnf("Failed to parse date %q for game %s: %v", event.Date, event.ID, err)
		}
	}

	game := models.LiveGame{
		ID:     event.ID,
		Week:   event.Week.Number,
		Date:   gameDate,
		Status: convertGameStatus(event.Status),
	}

	for _, competitor := range competition.Competitors {
		score, _ := strconv.Atoi(competitor.Score)
		team := models.TeamRef{
			ID:             competitor.Team.ID,
			Name:           competitor.Team.DisplayName,
			Abbreviation:   competitor.Team.Abbreviation,
			Score:          score,
			Color:          competitor.Team.Color,
			AlternateColor: competitor.Team.AlternateColor,
		}
		if competitor.HomeAway == "home" {
			game.HomeTeam = team
		} else {
			game.AwayTeam = team
		}
	}

	return game
}

// convertGameStatus maps ESPN status state to our GameStatus.
func convertGameStatus(status espnStatus) models.GameStatus {
	switch strings.ToLower(status.Type.State) {
	case "in":
		return models.GameStatusIn
	case "post":
		return models.GameStatusPost
	default:
		return models.GameStatusPre
	}
}

// HealthCheck verifies the scoreboard API is reachable.
func (e *ESPNService) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, e.baseURL, nil)
	if err != nil {
		return false
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
