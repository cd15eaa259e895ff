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
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

const collectionContacts = "contacts"

type ContactRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{col: db.Collection(collectionContacts), now: time.Now}
}

func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Contact
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return &c, nil
}

func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": r.now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context, f ports.ContactFilter) ([]*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := r.col.Find(ctx, contactFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	out := make([]*domain.Contact, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	return out, nil
}

func (r *ContactRepository) Count(ctx context.Context, f ports.ContactFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, contactFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

func contactFilter(f ports.ContactFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}
