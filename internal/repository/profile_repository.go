package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sui-chat/api/internal/model"
)

// ProfileRepo reads and mutates profile documents. Every mutation is a single
// atomic update on one document.
type ProfileRepo struct {
	DB  Database
	Now func() time.Time
}

func NewProfileRepo(db Database) *ProfileRepo {
	return &ProfileRepo{DB: db, Now: time.Now}
}

var friendProjection = bson.M{"_id": 0, "address": 1, "name": 1, "avatarUrl": 1, "bio": 1}

func (r *ProfileRepo) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *ProfileRepo) coll(ctx context.Context) (*mongo.Collection, error) {
	c, err := r.DB.Collection(ctx, ProfilesCollection)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return c, nil
}

func (r *ProfileRepo) fail(ctx context.Context, err error) error {
	return Fail(ctx, r.DB, err)
}

// EnsureIndexes creates the unique address index. Safe to call repeatedly.
func (r *ProfileRepo) EnsureIndexes(ctx context.Context) error {
	c, err := r.coll(ctx)
	if err != nil {
		return err
	}
	_, err = c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "address", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("address_unique"),
	})
	if err != nil {
		return fmt.Errorf("create address index: %w", r.fail(ctx, err))
	}
	return nil
}

func (r *ProfileRepo) Get(ctx context.Context, address string) (*model.Profile, error) {
	c, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	var p model.Profile
	err = c.FindOne(ctx, bson.M{"address": address}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", r.fail(ctx, err))
	}
	return &p, nil
}

// BatchGet returns the friend-list projection of every profile whose address is
// in addrs. Addresses without a document are skipped.
func (r *ProfileRepo) BatchGet(ctx context.Context, addrs []string) ([]*model.Profile, error) {
	if len(addrs) == 0 {
		return []*model.Profile{}, nil
	}

	c, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := c.Find(ctx,
		bson.M{"address": bson.M{"$in": addrs}},
		options.Find().SetProjection(friendProjection),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to batch fetch profiles: %w", r.fail(ctx, err))
	}

	profiles := make([]*model.Profile, 0, len(addrs))
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", r.fail(ctx, err))
	}
	return profiles, nil
}

// AddFriend set-adds friend into address's friend set, creating the profile if
// needed. It reports whether a document was modified or created.
func (r *ProfileRepo) AddFriend(ctx context.Context, address, friend string) (bool, error) {
	c, err := r.coll(ctx)
	if err != nil {
		return false, err
	}

	now := r.now()
	// friends is deliberately absent from $setOnInsert: $addToSet on the
	// missing field creates it, and naming one path in two operators is rejected.
	res, err := c.UpdateOne(ctx,
		bson.M{"address": address},
		bson.M{
			"$addToSet": bson.M{"friends": friend},
			"$setOnInsert": bson.M{
				"createdAt":     now,
				"chatroomCount": 0,
			},
			"$set": bson.M{"updatedAt": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to add friend: %w", r.fail(ctx, err))
	}
	return res.ModifiedCount > 0 || res.UpsertedCount > 0, nil
}

// RemoveFriend pulls friend from address's friend set. Missing profiles are
// not created.
func (r *ProfileRepo) RemoveFriend(ctx context.Context, address, friend string) (bool, error) {
	c, err := r.coll(ctx)
	if err != nil {
		return false, err
	}

	res, err := c.UpdateOne(ctx,
		bson.M{"address": address},
		bson.M{"$pull": bson.M{"friends": friend}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove friend: %w", r.fail(ctx, err))
	}
	return res.ModifiedCount > 0, nil
}

// CreateIfNotExists inserts an empty profile for address (idempotent via upsert
// with $setOnInsert only).
func (r *ProfileRepo) CreateIfNotExists(ctx context.Context, address string) error {
	c, err := r.coll(ctx)
	if err != nil {
		return err
	}

	now := r.now()
	_, err = c.UpdateOne(ctx,
		bson.M{"address": address},
		bson.M{"$setOnInsert": bson.M{
			"friends":       bson.A{},
			"chatroomCount": 0,
			"createdAt":     now,
			"updatedAt":     now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", r.fail(ctx, err))
	}
	return nil
}
