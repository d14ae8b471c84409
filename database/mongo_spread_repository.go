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

// spreadDocument is the stored form of one admin-entered spread.
type spreadDocument struct {
	Week        int     `bson:"week"`
	GameID      string  `bson:"gameId"`
	Value       float64 `bson:"value"`
	FavoredTeam string  `bson:"favoredTeam"`
}

// MongoSpreadRepository stores admin-entered spreads. Unlike results,
// spreads are mutable up until a game is finalized.
type MongoSpreadRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoSpreadRepository(db *MongoDB) *MongoSpreadRepository {
	collection := db.GetCollection("spreads")
	logger := logging.WithPrefix("mongo_spread_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "week", Value: 1}, {Key: "gameId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		logger.Errorf("Failed to create index on spreads collection: %v", err)
	}

	return &MongoSpreadRepository{
		collection: collection,
		logger:     logger,
	}
}

// SetSpread records or replaces the spread for a game.
func (r *MongoSpreadRepository) SetSpread(ctx context.Context, week int, gameID string, spread models.Spread) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := spreadDocument{
		Week:        week,
		GameID:      gameID,
		Value:       spread.Value,
		FavoredTeam: spread.FavoredTeam,
	}

	filter := bson.M{"week": week, "gameId": gameID}
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, filter, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to set spread for game %s: %w", gameID, err)
	}
	return nil
}

// GetWeek returns the spreads recorded for one week, keyed by gameID.
func (r *MongoSpreadRepository) GetWeek(ctx context.Context, week int) (map[string]models.Spread, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"week": week})
	if err != nil {
		return nil, fmt.Errorf("failed to find spreads for week %d: %w", week, err)
	}
	defer cursor.Close(ctx)

	var docs []spreadDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode spreads: %w", err)
	}

	spreads := make(map[string]models.Spread, len(docs))
	for _, doc := range docs {
		spreads[doc.GameID] = models.Spread{
			Value:       doc.Value,
			FavoredTeam: doc.FavoredTeam,
		}
	}
	return spreads, nil
}
