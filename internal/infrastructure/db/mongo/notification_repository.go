package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

const collectionNotifications = "notifications"

// NotificationRepository persists the append-only notification feed.
type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, n)
	return err
}

// ListByUser returns the user's notifications, newest first, capped at limit.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the notifications collection.
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
