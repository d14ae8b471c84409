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

// MongoAnalyticsRepository persists preprocessed season analytics, one
// document per team.
type MongoAnalyticsRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoAnalyticsRepository(db *MongoDB) *MongoAnalyticsRepository {
	collection := db.GetCollection("team_analytics")
	logger := logging.WithPrefix("mongo_analytics_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "teamId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		logger.Errorf("Failed to create index on team_analytics collection: %v", err)
	}

	return &MongoAnalyticsRepository{
		collection: collection,
		logger:     logger,
	}
}

// UpsertTeamAnalytics replaces a team's analytics document. The
// preprocessor recomputes from scratch, so a full replace is correct.
func (r *MongoAnalyticsRepository) UpsertTeamAnalytics(ctx context.Context, doc *models.TeamAnalyticsDocument) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"teamId": doc.TeamID}
	opts := options.Replace().SetUpsert(true)

	_, err := r.collection.ReplaceOne(ctx, filter, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert analytics for team %s: %w", doc.TeamID, err)
	}
	return nil
}

// GetTeamAnalytics returns one team's analytics, or nil if none stored.
func (r *MongoAnalyticsRepository) GetTeamAnalytics(ctx context.Context, teamID string) (*models.TeamAnalyticsDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc models.TeamAnalyticsDocument
	err := r.collection.FindOne(ctx, bson.M{"teamId": teamID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find analytics for team %s: %w", teamID, err)
	}
	return &doc, nil
}

// GetAllTeamAnalytics returns every stored analytics document keyed by
// team ID.
func (r *MongoAnalyticsRepository) GetAllTeamAnalytics(ctx context.Context) (map[string]*models.TeamAnalyticsDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find team analytics: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*models.TeamAnalyticsDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode team analytics: %w", err)
	}

	byTeam := make(map[string]*models.TeamAnalyticsDocument, len(docs))
	for _, doc := range docs {
		byTeam[doc.TeamID] = doc
	}
	return byTeam, nil
}
