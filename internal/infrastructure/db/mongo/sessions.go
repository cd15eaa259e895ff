package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ecolimpio/booking-system/internal/core/domain"
)

const collectionSessions = "sessions"

// SessionRepository relies on the unique indexes on access_hash and token
// created by EnsureIndexes.
type SessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{col: db.Collection(collectionSessions)}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByAccessHash(ctx context.Context, hash string) (*domain.Session, error) {
	return r.findOne(ctx, bson.M{"access_hash": hash})
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *SessionRepository) FindByTokenAndHash(ctx context.Context, token, hash string) (*domain.Session, error) {
	return r.findOne(ctx, bson.M{"token": token, "access_hash": hash})
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.deleteOne(ctx, bson.M{"_id": id})
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	return r.deleteOne(ctx, bson.M{"token": token})
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *SessionRepository) findOne(ctx context.Context, filter bson.M) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Session
	if err := r.col.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) deleteOne(ctx context.Context, filter bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
