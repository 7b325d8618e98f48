package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

const collectionPayments = "payments"

// PaymentRepository persists payment attempts. Status moves are conditional
// updates from pending, so a payment that already settled cannot be flipped
// by a late confirmation.
type PaymentRepository struct {
	col *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{col: db.Collection(collectionPayments)}
}

func (r *PaymentRepository) Insert(ctx context.Context, p *domain.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, p)
	return err
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Payment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindLatestByRequest returns the most recently created payment for the
// request, or domain.ErrPaymentNotFound when none exists.
func (r *PaymentRepository) FindLatestByRequest(ctx context.Context, serviceRequestID string) (*domain.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var p domain.Payment
	err := r.col.FindOne(ctx, bson.M{"service_request_id": serviceRequestID}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// HasSucceeded reports whether any payment for the request reached succeeded.
func (r *PaymentRepository) HasSucceeded(ctx context.Context, serviceRequestID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"service_request_id": serviceRequestID,
		"status":             domain.PaymentSucceeded,
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkSucceeded moves pending → succeeded; false means the payment was no
// longer pending.
func (r *PaymentRepository) MarkSucceeded(ctx context.Context, id string, now time.Time) (bool, error) {
	return r.markStatus(ctx, id, domain.PaymentSucceeded, now)
}

// MarkFailed moves pending → failed; false means the payment was no longer
// pending.
func (r *PaymentRepository) MarkFailed(ctx context.Context, id string, now time.Time) (bool, error) {
	return r.markStatus(ctx, id, domain.PaymentFailed, now)
}

func (r *PaymentRepository) markStatus(ctx context.Context, id string, status domain.PaymentStatus, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": domain.PaymentPending},
		bson.M{"$set": bson.M{"status": status, "updated_at": now}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// EnsureIndexes creates necessary indexes on the payments collection.
func (r *PaymentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "service_request_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "service_request_id", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
