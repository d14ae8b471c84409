package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"

	"github.com/redis/go-redis/v9"
)

// analyticsCacheTTL bounds staleness between preprocessor runs.
const analyticsCacheTTL = 6 * time.Hour

// RedisAnalyticsCache fronts the analytics repository with Redis. Cache
// misses and marshalling problems surface as errors; callers treat the
// cache as best-effort and fall through to Mongo.
type RedisAnalyticsCache struct {
	client *redis.Client
	logger *logging.Logger
}

func NewRedisAnalyticsCache(client *redis.Client) *RedisAnalyticsCache {
	return &RedisAnalyticsCache{
		client: client,
		logger: logging.WithPrefix("redis_analytics_cache"),
	}
}

func analyticsKey(teamID string) string {
	return "analytics:" + teamID
}

// Get returns a cached analytics document, or nil on a miss.
func (c *RedisAnalyticsCache) Get(ctx context.Context, teamID string) (*models.TeamAnalyticsDocument, error) {
	data, err := c.client.Get(ctx, analyticsKey(teamID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached analytics for team %s: %w", teamID, err)
	}

	var doc models.TeamAnalyticsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode cached analytics for team %s: %w", teamID, err)
	}
	return &doc, nil
}

// Set caches an analytics document under the team's key.
func (c *RedisAnalyticsCache) Set(ctx context.Context, doc *models.TeamAnalyticsDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode analytics for team %s: %w", doc.TeamID, err)
	}

	if err := c.client.Set(ctx, analyticsKey(doc.TeamID), data, analyticsCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache analytics for team %s: %w", doc.TeamID, err)
	}

	c.logger.Debugf("Cached analytics for team %s", doc.TeamID)
	return nil
}
