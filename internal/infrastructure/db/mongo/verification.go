package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

const collectionVerificationCodes = "verification_codes"

type VerificationRepository struct {
	col *mongo.Collection
}

func NewVerificationRepository(db *mongo.Database) *VerificationRepository {
	return &VerificationRepository{col: db.Collection(collectionVerificationCodes)}
}

func (r *VerificationRepository) Create(ctx context.Context, v *domain.VerificationCode) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("insert verification code: %w", err)
	}
	return nil
}

func (r *VerificationRepository) FindIssuedSince(ctx context.Context, phone string, since time.Time) (*domain.VerificationCode, error) {
	return r.newest(ctx, bson.M{"phone": phone, "created_at": bson.M{"$gte": since}})
}

func (r *VerificationRepository) FindUnverified(ctx context.Context, phone, code string) (*domain.VerificationCode, error) {
	return r.newest(ctx, bson.M{"phone": phone, "code": code, "verified": false})
}

func (r *VerificationRepository) FindVerified(ctx context.Context, phone string) (*domain.VerificationCode, error) {
	return r.newest(ctx, bson.M{"phone": phone, "verified": true})
}

func (r *VerificationRepository) MarkVerified(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"verified": true}})
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCodeNotFound
	}
	return nil
}

func (r *VerificationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCodeNotFound
	}
	return nil
}

func (r *VerificationRepository) DeleteByPhone(ctx context.Context, phone string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"phone": phone}); err != nil {
		return fmt.Errorf("delete codes by phone: %w", err)
	}
	return nil
}

func (r *VerificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, fmt.Errorf("delete expired codes: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *VerificationRepository) newest(ctx context.Context, filter bson.M) (*domain.VerificationCode, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var v domain.VerificationCode
	if err := r.col.FindOne(ctx, filter, opts).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, fmt.Errorf("find verification code: %w", err)
	}
	return &v, nil
}
