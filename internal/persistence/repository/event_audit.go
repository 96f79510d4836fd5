package repository

import (
	"context"
	"time"

	"github.com/calebmori/gatherly/internal/domain"
	"github.com/calebmori/gatherly/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventAuditRepository struct {
	db *mongo.Database
}

func NewEventAuditRepository(database *mongo.Database) domain.EventAuditRepository {
	return &eventAuditRepository{
		db: database,
	}
}

func (r *eventAuditRepository) Log(ctx context.Context, log *domain.EventAuditLog) error {
	collection := r.db.Collection(db.EventAuditLogsCollection)

	_, err := collection.InsertOne(ctx, log)
	return err
}

func (r *eventAuditRepository) GetByEventID(ctx context.Context, eventID string, limit int) ([]domain.EventAuditLog, error) {
	collection := r.db.Collection(db.EventAuditLogsCollection)

	filter := bson.M{"event_id": eventID}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.EventAuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *eventAuditRepository) DeleteOlderThan(ctx context.Context, before time.Time) error {
	collection := r.db.Collection(db.EventAuditLogsCollection)

	filter := bson.M{
		"timestamp": bson.M{
			"$lt": before,
		},
	}

	_, err := collection.DeleteMany(ctx, filter)
	return err
}

func (r *eventAuditRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.EventAuditLogsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "event_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(7776000), // 90 days TTL
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
