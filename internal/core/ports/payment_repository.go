package ports

import (
	"context"
	"time"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

// PaymentRepository defines persistence operations for payments. The Mark
// methods are conditional writes from pending; a false return means the
// payment was no longer pending.
type PaymentRepository interface {
	Insert(ctx context.Context, p *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	// FindLatestByRequest returns the most recently created payment for the
	// request, or domain.ErrPaymentNotFound when none exists.
	FindLatestByRequest(ctx context.Context, serviceRequestID string) (*domain.Payment, error)
	// HasSucceeded reports whether any payment for the request has reached
	// succeeded.
	HasSucceeded(ctx context.Context, serviceRequestID string) (bool, error)
	MarkSucceeded(ctx context.Context, id string, now time.Time) (bool, error)
	MarkFailed(ctx context.Context, id string, now time.Time) (bool, error)
}
