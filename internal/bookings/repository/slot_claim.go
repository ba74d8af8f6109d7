package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	bookingserrors "vizit/internal/bookings/errors"
	"vizit/pkg/config"
	"vizit/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	ClaimCollectionName = "Slot_claims"
)

// SlotClaimRepository persists the documents that make a (property, date,
// slot) triple exclusive. The claim _id is deterministic, so a concurrent
// insert for the same triple fails with a duplicate key error regardless
// of which replica set member handles it.
type SlotClaimRepository interface {
	Acquire(ctx context.Context, claim *model.SlotClaim) error
	Release(ctx context.Context, propertyID, date, slot string) error
	Get(ctx context.Context, propertyID, date, slot string) (*model.SlotClaim, error)
}

type mongoSlotClaimRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotClaimRepository(cfg *config.Config) SlotClaimRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotClaimRepository{
		cfg:        cfg,
		collection: db.Collection(ClaimCollectionName),
	}
}

func (r *mongoSlotClaimRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSlotClaimRepository) Acquire(ctx context.Context, claim *model.SlotClaim) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	claim.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.collection.InsertOne(ctx, claim)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrClaimHeld
		}
		return fmt.Errorf("failed to acquire slot claim: %w", err)
	}

	return nil
}

func (r *mongoSlotClaimRepository) Release(ctx context.Context, propertyID, date, slot string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": model.SlotClaimID(propertyID, date, slot)})
	if err != nil {
		return fmt.Errorf("failed to release slot claim: %w", err)
	}

	return nil
}

func (r *mongoSlotClaimRepository) Get(ctx context.Context, propertyID, date, slot string) (*model.SlotClaim, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var claim model.SlotClaim
	err := r.collection.FindOne(ctx, bson.M{"_id": model.SlotClaimID(propertyID, date, slot)}).Decode(&claim)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find slot claim: %w", err)
	}

	return &claim, nil
}
