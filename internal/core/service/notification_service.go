package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/handyhub/marketplace-system/internal/api/metrics"
	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
)

// feedLimit caps how many notifications a single feed read returns.
const feedLimit = 50

type notificationService struct {
	repo ports.NotificationRepository
	log  zerolog.Logger
}

// NewNotificationService returns the NotificationService implementation.
func NewNotificationService(repo ports.NotificationRepository, log zerolog.Logger) ports.NotificationService {
	return &notificationService{repo: repo, log: log}
}

// Record turns a dispatched lifecycle event into a stored feed entry.
func (s *notificationService) Record(ctx context.Context, event ports.RequestEvent) error {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    event.RecipientID,
		RequestID: event.RequestID,
		Kind:      event.Kind,
		Message:   event.Message,
		CreatedAt: event.OccurredAt,
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}

	metrics.NotificationsRecordedTotal.WithLabelValues(string(event.Kind)).Inc()
	s.log.Debug().
		Str("user_id", event.RecipientID).
		Str("request_id", event.RequestID).
		Str("kind", string(event.Kind)).
		Msg("notification recorded")

	return nil
}

// ListMine returns the caller's notifications, newest first.
func (s *notificationService) ListMine(ctx context.Context, caller ports.Identity) ([]*domain.Notification, error) {
	return s.repo.ListByUser(ctx, caller.UserID, feedLimit)
}
