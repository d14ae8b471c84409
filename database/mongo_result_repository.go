package database

import (
	"context"
	"fmt"
	"time"

	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoResultRepository stores the append-only result log. The unique
// week+gameId index plus $setOnInsert writes guarantee a recorded final
// is never overwritten.
type MongoResultRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoResultRepository(db *MongoDB) *MongoResultRepository {
	collection := db.GetCollection("game_results")
	logger := logging.WithPrefix("mongo_result_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "week", Value: 1}, {Key: "gameId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		logger.Errorf("Failed to create index on game_results collection: %v", err)
	}

	return &MongoResultRepository{
		collection: collection,
		logger:     logger,
	}
}

// SaveResult appends a final to the log. If the game is already recorded
// the write is a no-op; existing documents are never replaced.
func (r *MongoResultRepository) SaveResult(ctx context.Context, result *models.GameResult) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"week": result.Week, "gameId": result.GameID}
	update := bson.M{"$setOnInsert": result}
	opts := options.Update().SetUpsert(true)

	res, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save result for game %s: %w", result.GameID, err)
	}
	if res.UpsertedCount == 0 {
		r.logger.Debugf("Game %s week %d already recorded; skipping", result.GameID, result.Week)
	}

	return nil
}

// Exists reports whether a final is already recorded for the game.
func (r *MongoResultRepository) Exists(ctx context.Context, week int, gameID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"week": week, "gameId": gameID}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check result for game %s: %w", gameID, err)
	}
	return count > 0, nil
}

// GetWeek returns all finals recorded for one week, keyed by gameID.
func (r *MongoResultRepository) GetWeek(ctx context.Context, week int) (models.WeekResults, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"week": week})
	if err != nil {
		return nil, fmt.Errorf("failed to find results for week %d: %w", week, err)
	}
	defer cursor.Close(ctx)

	var results []models.GameResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	weekResults := make(models.WeekResults, len(results))
	for _, result := range results {
		weekResults[result.GameID] = result
	}
	return weekResults, nil
}

// GetAll returns the full result log keyed week -> gameID.
func (r *MongoResultRepository) GetAll(ctx context.Context) (models.ResultLog, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.GameResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	log := make(models.ResultLog)
	for _, result := range results {
		if log[result.Week] == nil {
			log[result.Week] = make(models.WeekResults)
		}
		log[result.Week][result.GameID] = result
	}
	return log, nil
}
