package analytics

import (
	"context"
	"fmt"
	bookingsrepo "vizit/internal/bookings/repository"
	"vizit/pkg/config"
	"vizit/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AnalyticsRepository runs the dashboard aggregations against the booking
// collection. Everything here is read-only.
type AnalyticsRepository interface {
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error)
	CountByCreatorRole(ctx context.Context) (map[model.Role]int64, error)
	TopProperties(ctx context.Context, limit int) ([]model.PropertyBookingCount, error)
}

type mongoAnalyticsRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAnalyticsRepository(cfg *config.Config) AnalyticsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAnalyticsRepository{
		cfg:        cfg,
		collection: db.Collection(bookingsrepo.CollectionName),
	}
}

func (r *mongoAnalyticsRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.cfg.ReadTimeout)
}

func (r *mongoAnalyticsRepository) CountAll(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

type groupCount struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *mongoAnalyticsRepository) groupBy(ctx context.Context, field string) ([]groupCount, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings by %s: %w", field, err)
	}
	defer cursor.Close(ctx)

	var rows []groupCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s aggregation: %w", field, err)
	}
	return rows, nil
}

func (r *mongoAnalyticsRepository) CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error) {
	rows, err := r.groupBy(ctx, "status")
	if err != nil {
		return nil, err
	}

	out := make(map[model.BookingStatus]int64, len(rows))
	for _, row := range rows {
		out[model.BookingStatus(row.ID)] = row.Count
	}
	return out, nil
}

func (r *mongoAnalyticsRepository) CountByCreatorRole(ctx context.Context) (map[model.Role]int64, error) {
	rows, err := r.groupBy(ctx, "created_by_role")
	if err != nil {
		return nil, err
	}

	out := make(map[model.Role]int64, len(rows))
	for _, row := range rows {
		if row.ID == "" {
			continue
		}
		out[model.Role(row.ID)] = row.Count
	}
	return out, nil
}

// TopProperties ranks properties by demand, counting bookings that either
// still occupy a slot or were carried through to a completed visit.
// Rejected bookings are noise and excluded. The title comes from the
// denormalized booking records, newest write wins.
func (r *mongoAnalyticsRepository) TopProperties(ctx context.Context, limit int) ([]model.PropertyBookingCount, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status": bson.M{"$in": []model.BookingStatus{
				model.StatusPending,
				model.StatusApproved,
				model.StatusCompleted,
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "updated_at", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$property_id",
			"title": bson.M{"$last": "$property_title"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top properties: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []model.PropertyBookingCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode top properties: %w", err)
	}
	return rows, nil
}
