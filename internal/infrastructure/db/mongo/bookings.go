package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecolimpio/booking-system/internal/core/domain"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

const collectionBookings = "bookings"

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Booking
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) List(ctx context.Context, f ports.BookingFilter) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sortKey := "created_at"
	if f.SortByDate {
		sortKey = "date"
	}
	opts := options.Find().SetSort(bson.D{{Key: sortKey, Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, bookingFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	out := make([]*domain.Booking, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return out, nil
}

func (r *BookingRepository) Count(ctx context.Context, f ports.BookingFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bookingFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}

func (r *BookingRepository) CountByService(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$services"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$services"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate services: %w", err)
	}

	var rows []struct {
		Service string `bson:"_id"`
		Count   int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode service counts: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Service] = row.Count
	}
	return out, nil
}

func bookingFilter(f ports.BookingFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	date := bson.M{}
	if !f.DateFrom.IsZero() {
		date["$gte"] = f.DateFrom
	}
	if !f.DateTo.IsZero() {
		date["$lte"] = f.DateTo
	}
	if len(date) > 0 {
		filter["date"] = date
	}
	if !f.CreatedFrom.IsZero() {
		filter["created_at"] = bson.M{"$gte": f.CreatedFrom}
	}
	return filter
}
