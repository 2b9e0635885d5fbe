package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"oraclequiz/internal/model"
)

// HistoryRepository is the append-only log of completed quiz rounds.
// Records are inserted once and never updated.
type HistoryRepository interface {
	Append(ctx context.Context, record *model.QuizHistoryRecord) error
	ListByUser(ctx context.Context, userID string) ([]*model.QuizHistoryRecord, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type historyRepository struct {
	collection *mongo.Collection
}

// NewHistoryRepository creates a mongo-backed history repository.
func NewHistoryRepository(db *mongo.Database) HistoryRepository {
	return &historyRepository{
		collection: db.Collection("quiz_history"),
	}
}

func (r *historyRepository) Append(ctx context.Context, record *model.QuizHistoryRecord) error {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid.Hex()
	}
	return nil
}

func (r *historyRepository) ListByUser(ctx context.Context, userID string) ([]*model.QuizHistoryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "quizNumber", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.QuizHistoryRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *historyRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID})
}
