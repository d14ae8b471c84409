package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"nfl-pickem-go/models"
)

// dalThreeWeekLog covers the favorite/underdog, home/road, and push
// contexts for DAL: a home cover, a road miss as underdog, a home push.
func dalThreeWeekLog() models.ResultLog {
	return buildLog(
		testGame(1, "g1", "DAL", 27, "NYG", 17, spread(3, "DAL")),
		testGame(2, "g2", "PHI", 24, "DAL", 20, spread(3, "PHI")),
		testGame(3, "g3", "DAL", 20, "WSH", 17, spread(3, "DAL")),
	)
}

func TestCalculateTeamAnalyticsRecords(t *testing.T) {
	svc := NewAnalyticsService(nil, nil, nil)
	analytics := svc.CalculateTeamAnalytics("DAL", dalThreeWeekLog(), 1, 3)

	if analytics.GamesPlayed != 3 {
		t.Errorf("GamesPlayed = %d, want 3", analytics.GamesPlayed)
	}

	if analytics.SeasonRecord.Wins != 2 || analytics.SeasonRecord.Losses != 1 {
		t.Errorf("season record = %d-%d, want 2-1", analytics.SeasonRecord.Wins, analytics.SeasonRecord.Losses)
	}
	if analytics.SeasonRecord.Formatted != "2-1" {
		t.Errorf("formatted record = %q, want 2-1", analytics.SeasonRecord.Formatted)
	}

	wantRecords := []struct {
		name                 string
		record               models.RecordLine
		wins, losses, pushes int
		pct                  float64
	}{
		{"spread", analytics.SpreadRecord, 1, 1, 1, 50},
		{"favorite", analytics.FavoriteRecord, 1, 0, 1, 100},
		{"underdog", analytics.UnderdogRecord, 0, 1, 0, 0},
		{"home", analytics.HomeRecord, 1, 0, 1, 100},
		{"away", analytics.AwayRecord, 0, 1, 0, 0},
	}
	for _, w := range wantRecords {
		r := w.record
		if r.Wins != w.wins || r.Losses != w.losses || r.Pushes != w.pushes {
			t.Errorf("%s record = %d-%d-%d, want %d-%d-%d",
				w.name, r.Wins, r.Losses, r.Pushes, w.wins, w.losses, w.pushes)
		}
		if math.Abs(r.Percentage-w.pct) > 1e-9 {
			t.Errorf("%s percentage = %v, want %v", w.name, r.Percentage, w.pct)
		}
	}
}

func TestCalculateTeamAnalyticsCoverStats(t *testing.T) {
	svc := NewAnalyticsService(nil, nil, nil)
	analytics := svc.CalculateTeamAnalytics("DAL", dalThreeWeekLog(), 1, 3)

	overall := analytics.CoverStats.Overall
	if overall.Mean == nil || math.Abs(*overall.Mean-3) > 1e-9 {
		t.Errorf("overall cover mean = %v, want 3", overall.Mean)
	}
	if overall.Median == nil || math.Abs(*overall.Median-3) > 1e-9 {
		t.Errorf("overall cover median = %v, want 3", overall.Median)
	}

	if overall.MaxCover == nil {
		t.Fatal("MaxCover missing")
	}
	if overall.MaxCover.Value != 7 || overall.MaxCover.Week != 1 || overall.MaxCover.Opponent != "NYG" {
		t.Errorf("MaxCover = %+v, want value 7 week 1 vs NYG", overall.MaxCover)
	}
	if overall.MaxCover.Spread != -3 {
		t.Errorf("MaxCover.Spread = %v, want -3 (favored side is negative)", overall.MaxCover.Spread)
	}

	if overall.MaxMiss == nil {
		t.Fatal("MaxMiss missing")
	}
	if overall.MaxMiss.Value != -1 || overall.MaxMiss.Week != 2 || overall.MaxMiss.Opponent != "PHI" {
		t.Errorf("MaxMiss = %+v, want value -1 week 2 vs PHI", overall.MaxMiss)
	}

	// Context splits: the cover came as a favorite at home, the miss as
	// an underdog on the road. The push lands in no margin list.
	if fav := analytics.CoverStats.Favorite.Mean; fav == nil || *fav != 7 {
		t.Errorf("favorite cover mean = %v, want 7", fav)
	}
	if dog := analytics.CoverStats.Underdog.Mean; dog == nil || *dog != -1 {
		t.Errorf("underdog cover mean = %v, want -1", dog)
	}
	if road := analytics.CoverStats.Road.Mean; road == nil || *road != -1 {
		t.Errorf("road cover mean = %v, want -1", road)
	}
}

func TestCalculateTeamAnalyticsPointsStats(t *testing.T) {
	svc := NewAnalyticsService(nil, nil, nil)
	analytics := svc.CalculateTeamAnalytics("DAL", dalThreeWeekLog(), 1, 3)

	scored := analytics.PointsScored.Overall
	if scored.Mean == nil || math.Abs(*scored.Mean-67.0/3.0) > 1e-9 {
		t.Errorf("points scored mean = %v, want %v", scored.Mean, 67.0/3.0)
	}
	if scored.Median == nil || *scored.Median != 20 {
		t.Errorf("points scored median = %v, want 20", scored.Median)
	}
	if scored.Max == nil || *scored.Max != 27 || scored.Min == nil || *scored.Min != 20 {
		t.Errorf("points scored max/min = %v/%v, want 27/20", scored.Max, scored.Min)
	}

	home := analytics.PointsScored.Home
	if home.Mean == nil || math.Abs(*home.Mean-23.5) > 1e-9 {
		t.Errorf("home points mean = %v, want 23.5", home.Mean)
	}
	road := analytics.PointsScored.Road
	if road.Mean == nil || *road.Mean != 20 {
		t.Errorf("road points mean = %v, want 20", road.Mean)
	}
}

func TestCalculateTeamAnalyticsTimeline(t *testing.T) {
	svc := NewAnalyticsService(nil, nil, nil)
	analytics := svc.CalculateTeamAnalytics("DAL", dalThreeWeekLog(), 1, 3)

	timeline := analytics.WeeklyPerformance
	if len(timeline) != 3 {
		t.Fatalf("timeline length = %d, want 3", len(timeline))
	}
	for i, wantWeek := range []int{1, 2, 3} {
		if timeline[i].Week != wantWeek {
			t.Errorf("timeline[%d].Week = %d, want %d", i, timeline[i].Week, wantWeek)
		}
	}

	if !timeline[0].Covered || timeline[0].Spread != -3 || timeline[0].Location != "Home" {
		t.Errorf("week 1 entry = %+v, want covered, spread -3, home", timeline[0])
	}
	if timeline[1].Covered || timeline[1].Spread != 3 || timeline[1].Location != "Away" {
		t.Errorf("week 2 entry = %+v, want missed, spread +3, away", timeline[1])
	}
	if !timeline[2].Push {
		t.Errorf("week 3 entry = %+v, want push", timeline[2])
	}
}

// Games without a spread count toward the season record but stay out of
// every spread-derived statistic and the timeline.
func TestCalculateTeamAnalyticsSpreadlessGame(t *testing.T) {
	svc := NewAnalyticsService(nil, nil, nil)
	log := dalThreeWeekLog()
	log[4] = models.WeekResults{
		"g4": testGame(4, "g4", "DAL", 30, "NYG", 10, nil),
	}

	analytics := svc.CalculateTeamAnalytics("DAL", log, 1, 4)

	if analytics.GamesPlayed != 4 {
		t.Errorf("GamesPlayed = %d, want 4", analytics.GamesPlayed)
	}
	if analytics.SeasonRecord.Wins != 3 {
		t.Errorf("season wins = %d, want 3", analytics.SeasonRecord.Wins)
	}
	if analytics.SpreadRecord.Wins != 1 || analytics.SpreadRecord.Losses != 1 || analytics.SpreadRecord.Pushes != 1 {
		t.Errorf("spread record changed by spreadless game: %+v", analytics.SpreadRecord)
	}
	if len(analytics.WeeklyPerformance) != 3 {
		t.Errorf("timeline length = %d, want 3", len(analytics.WeeklyPerformance))
	}
}

func TestMetricsSnapshotFromAnalytics(t *testing.T) {
	svc := NewAnalyticsService(nil, nil, nil)
	analytics := svc.CalculateTeamAnalytics("DAL", dalThreeWeekLog(), 1, 3)

	snap := analytics.MetricsSnapshot()
	if snap.SpreadWinPct != 50 {
		t.Errorf("SpreadWinPct = %v, want 50", snap.SpreadWinPct)
	}
	if math.Abs(snap.AvgPointsScored-67.0/3.0) > 1e-9 {
		t.Errorf("AvgPointsScored = %v, want %v", snap.AvgPointsScored, 67.0/3.0)
	}
	if math.Abs(snap.RecentForm.AvgPoints-67.0/3.0) > 1e-9 {
		t.Errorf("RecentForm.AvgPoints = %v, want %v", snap.RecentForm.AvgPoints, 67.0/3.0)
	}
	if snap.RecentForm.SpreadWins != 1 {
		t.Errorf("RecentForm.SpreadWins = %d, want 1 (push excluded)", snap.RecentForm.SpreadWins)
	}
}

type stubResultStore struct {
	log models.ResultLog
	err error
}

func (s *stubResultStore) GetWeek(_ context.Context, week int) (models.WeekResults, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.log[week], nil
}

func (s *stubResultStore) GetAll(context.Context) (models.ResultLog, error) {
	return s.log, s.err
}

type stubAnalyticsRepo struct {
	docs map[string]*models.TeamAnalyticsDocument
}

func (s *stubAnalyticsRepo) UpsertTeamAnalytics(_ context.Context, doc *models.TeamAnalyticsDocument) error {
	if s.docs == nil {
		s.docs = make(map[string]*models.TeamAnalyticsDocument)
	}
	s.docs[doc.TeamID] = doc
	return nil
}

func (s *stubAnalyticsRepo) GetTeamAnalytics(_ context.Context, teamID string) (*models.TeamAnalyticsDocument, error) {
	return s.docs[teamID], nil
}

func (s *stubAnalyticsRepo) GetAllTeamAnalytics(context.Context) (map[string]*models.TeamAnalyticsDocument, error) {
	return s.docs, nil
}

type stubCache struct {
	docs map[string]*models.TeamAnalyticsDocument
	gets int
	sets int
}

func (c *stubCache) Get(_ context.Context, teamID string) (*models.TeamAnalyticsDocument, error) {
	c.gets++
	return c.docs[teamID], nil
}

func (c *stubCache) Set(_ context.Context, doc *models.TeamAnalyticsDocument) error {
	c.sets++
	if c.docs == nil {
		c.docs = make(map[string]*models.TeamAnalyticsDocument)
	}
	c.docs[doc.TeamID] = doc
	return nil
}

func TestPreprocessAllAnalytics(t *testing.T) {
	store := &stubResultStore{log: dalThreeWeekLog()}
	repo := &stubAnalyticsRepo{}
	cache := &stubCache{}
	svc := NewAnalyticsService(store, repo, cache)

	count, err := svc.PreprocessAllAnalytics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// DAL, NYG, PHI, WSH all appear in the log.
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
	if len(repo.docs) != 4 {
		t.Errorf("stored %d docs, want 4", len(repo.docs))
	}
	if cache.sets != 4 {
		t.Errorf("cache sets = %d, want 4", cache.sets)
	}

	dal := repo.docs["DAL"]
	if dal == nil {
		t.Fatal("DAL document missing")
	}
	if dal.WeekRange.Start != 1 || dal.WeekRange.End != 3 {
		t.Errorf("WeekRange = %+v, want 1-3", dal.WeekRange)
	}
	if dal.Analytics.GamesPlayed != 3 {
		t.Errorf("DAL GamesPlayed = %d, want 3", dal.Analytics.GamesPlayed)
	}
	if dal.LastUpdated.IsZero() {
		t.Error("LastUpdated not set")
	}
}

func TestPreprocessAllAnalyticsEmptyLog(t *testing.T) {
	svc := NewAnalyticsService(&stubResultStore{log: models.ResultLog{}}, &stubAnalyticsRepo{}, nil)

	count, err := svc.PreprocessAllAnalytics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestPreprocessAllAnalyticsStoreError(t *testing.T) {
	wantErr := errors.New("mongo down")
	svc := NewAnalyticsService(&stubResultStore{err: wantErr}, &stubAnalyticsRepo{}, nil)

	_, err := svc.PreprocessAllAnalytics(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("got error %v, want wrapped %v", err, wantErr)
	}
}

func TestGetTeamAnalyticsCacheFirst(t *testing.T) {
	repo := &stubAnalyticsRepo{docs: map[string]*models.TeamAnalyticsDocument{
		"DAL": {TeamID: "DAL"},
	}}
	cache := &stubCache{}
	svc := NewAnalyticsService(&stubResultStore{}, repo, cache)

	// First read misses the cache, hits the store, and backfills.
	doc, err := svc.GetTeamAnalytics(context.Background(), "DAL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc == nil || doc.TeamID != "DAL" {
		t.Fatalf("got %+v, want DAL document", doc)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1 (backfill on miss)", cache.sets)
	}

	// Second read is served from the cache.
	repo.docs = nil
	doc, err = svc.GetTeamAnalytics(context.Background(), "DAL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc == nil {
		t.Fatal("cached document not returned")
	}
}
