package repository

import (
	"context"
	"errors"

	"github.com/calebmori/gatherly/internal/domain"
	"github.com/calebmori/gatherly/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventRepository struct {
	db *mongo.Database
}

func NewEventRepository(database *mongo.Database) domain.EventRepository {
	return &eventRepository{
		db: database,
	}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	collection := r.db.Collection(db.EventsCollection)

	_, err := collection.InsertOne(ctx, event)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrEventAlreadyExists
	}
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	collection := r.db.Collection(db.EventsCollection)

	var event domain.Event
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	return &event, nil
}

// GetAll returns every event ordered by ascending date.
func (r *eventRepository) GetAll(ctx context.Context) ([]domain.Event, error) {
	collection := r.db.Collection(db.EventsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := make([]domain.Event, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}

// Update replaces the whole document. The attendee check-then-persist race
// on join is accepted; see the capacity handling in the events handler.
func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	collection := r.db.Collection(db.EventsCollection)

	result, err := collection.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) (*domain.Event, error) {
	collection := r.db.Collection(db.EventsCollection)

	var deleted domain.Event
	err := collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	return &deleted, nil
}

func (r *eventRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.EventsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "date", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "creator", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
