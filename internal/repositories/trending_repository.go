package repositories

import (
	"context"
	"math/rand"
	"sync"

	"github.com/anonto42/moments/backend/internal/models"
	"github.com/anonto42/moments/backend/internal/seed"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TrendingSource supplies the trending topics a new session starts with
type TrendingSource interface {
	GetTrendingTopics(ctx context.Context) ([]models.TrendingTopic, error)
}

// MongoTrendingRepository reads curated topics from MongoDB
type MongoTrendingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrendingRepository creates a new MongoTrendingRepository
func NewMongoTrendingRepository(db *mongo.Database) *MongoTrendingRepository {
	return &MongoTrendingRepository{collection: db.Collection("trending_topics")}
}

// GetTrendingTopics returns the stored topics ordered by rank
func (r *MongoTrendingRepository) GetTrendingTopics(ctx context.Context) ([]models.TrendingTopic, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rank", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var topics []models.TrendingTopic
	if err = cursor.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// GeneratedTrendingSource draws a fresh random topic list on every call
type GeneratedTrendingSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGeneratedTrendingSource(rnd *rand.Rand) *GeneratedTrendingSource {
	return &GeneratedTrendingSource{rnd: rnd}
}

func (s *GeneratedTrendingSource) GetTrendingTopics(context.Context) ([]models.TrendingTopic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seed.TrendingTopics(s.rnd), nil
}

// FallbackTrendingSource tries primary and falls back to secondary when it
// fails or returns nothing.
type FallbackTrendingSource struct {
	Primary   TrendingSource
	Secondary TrendingSource
}

func (s FallbackTrendingSource) GetTrendingTopics(ctx context.Context) ([]models.TrendingTopic, error) {
	topics, err := s.Primary.GetTrendingTopics(ctx)
	if err == nil && len(topics) > 0 {
		return topics, nil
	}
	return s.Secondary.GetTrendingTopics(ctx)
}
