package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingsrepo "roombook/internal/bookings/repository"
	roomsrepo "roombook/internal/rooms/repository"
	usersrepo "roombook/internal/users/repository"
	"roombook/pkg/config"
	"roombook/pkg/model"
)

type mongoReportRepository struct {
	cfg      *config.Config
	bookings *mongo.Collection
	rooms    *mongo.Collection
	users    *mongo.Collection
}

// ReportRepository aggregates read-only usage statistics across the
// booking, room and user collections.
type ReportRepository interface {
	CountBookings(ctx context.Context) (int64, error)
	CountBookingsBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountRooms(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	DailyCounts(ctx context.Context, from, to time.Time) ([]model.DailyCount, error)
	MonthlyCounts(ctx context.Context, from time.Time) ([]MonthlyBucket, error)
	TopRooms(ctx context.Context, limit int) ([]model.RoomUsage, error)
	DepartmentUsage(ctx context.Context) ([]model.DepartmentUsage, error)
}

func NewMongoReportRepository(cfg *config.Config) ReportRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReportRepository{
		cfg:      cfg,
		bookings: db.Collection(bookingsrepo.CollectionName),
		rooms:    db.Collection(roomsrepo.CollectionName),
		users:    db.Collection(usersrepo.CollectionName),
	}
}

func (r *mongoReportRepository) CountBookings(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.bookings.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *mongoReportRepository) CountBookingsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"booking_date": bson.M{"$gte": from, "$lt": to}}
	count, err := r.bookings.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings in range: %w", err)
	}
	return count, nil
}

func (r *mongoReportRepository) CountRooms(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.rooms.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}

func (r *mongoReportRepository) CountUsers(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *mongoReportRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings by status: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *mongoReportRepository) DailyCounts(ctx context.Context, from, to time.Time) ([]model.DailyCount, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"booking_date": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m-%d",
				"date":     "$booking_date",
				"timezone": r.cfg.Location.String(),
			}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily booking counts: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []model.DailyCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode daily booking counts: %w", err)
	}
	return counts, nil
}

// MonthlyBucket is a raw per-month aggregation row keyed by "YYYY-MM".
// The month key is computed in the configured timezone so a booking
// created late on the last day of a month lands in the right bucket.
type MonthlyBucket struct {
	Month    string `bson:"_id"`
	Total    int64  `bson:"total"`
	Approved int64  `bson:"approved"`
}

func (r *mongoReportRepository) MonthlyCounts(ctx context.Context, from time.Time) ([]MonthlyBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": from}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m",
				"date":     "$created_at",
				"timezone": r.cfg.Location.String(),
			}},
			"total": bson.M{"$sum": 1},
			"approved": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", config.StatusApproved}}, 1, 0},
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly booking counts: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []MonthlyBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode monthly booking counts: %w", err)
	}
	return buckets, nil
}

func (r *mongoReportRepository) TopRooms(ctx context.Context, limit int) ([]model.RoomUsage, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$room_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate room usage: %w", err)
	}
	defer cursor.Close(ctx)

	var usage []model.RoomUsage
	if err := cursor.All(ctx, &usage); err != nil {
		return nil, fmt.Errorf("failed to decode room usage: %w", err)
	}
	return usage, nil
}

func (r *mongoReportRepository) DepartmentUsage(ctx context.Context) ([]model.DepartmentUsage, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$department", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := r.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate department usage: %w", err)
	}
	defer cursor.Close(ctx)

	var usage []model.DepartmentUsage
	if err := cursor.All(ctx, &usage); err != nil {
		return nil, fmt.Errorf("failed to decode department usage: %w", err)
	}
	return usage, nil
}
