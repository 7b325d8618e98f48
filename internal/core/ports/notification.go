package ports

import (
	"context"
	"time"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

// RequestEvent describes a lifecycle fact fanned out to the notification
// workers. RequestID doubles as the sharding key so events for one request are
// recorded in order.
type RequestEvent struct {
	RequestID   string
	RecipientID string
	Kind        domain.NotificationKind
	Message     string
	OccurredAt  time.Time
}

// Notifier is the interface core services use to hand off a lifecycle event.
// Enqueueing is fire-and-forget; it never fails a business operation.
type Notifier interface {
	Enqueue(event RequestEvent)
}

// NotificationRepository persists the append-only notification feed.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// ListByUser returns the user's notifications, newest first, capped at limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
}

// NotificationService records dispatched events and serves the feed.
type NotificationService interface {
	// Record turns an event into a stored notification.
	Record(ctx context.Context, event RequestEvent) error
	ListMine(ctx context.Context, caller Identity) ([]*domain.Notification, error)
}
