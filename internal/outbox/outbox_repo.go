package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sui-chat/api/internal/model"
	"github.com/sui-chat/api/internal/repository"
)

// Repository manages the outbox collection.
type Repository struct {
	DB repository.Database
}

func NewRepository(db repository.Database) *Repository { return &Repository{DB: db} }

func (r *Repository) coll(ctx context.Context) (*mongo.Collection, error) {
	c, err := r.DB.Collection(ctx, repository.OutboxCollection)
	if err != nil {
		return nil, repository.Fail(ctx, r.DB, err)
	}
	return c, nil
}

// Add inserts a new unpublished event.
func (r *Repository) Add(ctx context.Context, topic, key string, payload []byte) error {
	c, err := r.coll(ctx)
	if err != nil {
		return err
	}
	_, err = c.InsertOne(ctx, model.Outbox{
		ID:        uuid.NewString(),
		Topic:     topic,
		Key:       key,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", repository.Fail(ctx, r.DB, err))
	}
	return nil
}

// Fetch returns up to limit unpublished rows ordered by creation time.
func (r *Repository) Fetch(ctx context.Context, limit int) ([]model.Outbox, error) {
	c, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := c.Find(ctx,
		bson.M{"publishedAt": nil},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch outbox: %w", repository.Fail(ctx, r.DB, err))
	}

	var out []model.Outbox
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode outbox: %w", repository.Fail(ctx, r.DB, err))
	}
	return out, nil
}

// MarkPublished sets publishedAt on the given row.
func (r *Repository) MarkPublished(ctx context.Context, id string) error {
	c, err := r.coll(ctx)
	if err != nil {
		return err
	}
	_, err = c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"publishedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("mark outbox %s published: %w", id, repository.Fail(ctx, r.DB, err))
	}
	return nil
}
