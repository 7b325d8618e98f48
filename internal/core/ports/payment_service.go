package ports

import (
	"context"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

// CreateIntentResult is returned after a payment intent has been created with
// the processor. ClientToken is the processor's client-side confirmation token
// and is returned to the caller exactly once; it is never persisted.
type CreateIntentResult struct {
	Payment     *domain.Payment
	ClientToken string
}

// ConfirmResult reports the outcome of reconciling a payment against the
// processor. Succeeded is derived from processor truth, never from the caller.
type ConfirmResult struct {
	Payment         *domain.Payment
	Succeeded       bool
	ProcessorStatus string
}

// PaymentService orchestrates settlement of completed service requests.
type PaymentService interface {
	// CreateIntent creates a processor payment intent for a completed request
	// and records a pending payment. Fails with domain.ErrInvalidState when
	// the request is not completed or has no price, and domain.ErrAlreadyPaid
	// when a succeeded payment already exists.
	CreateIntent(ctx context.Context, caller Identity, serviceRequestID string) (*CreateIntentResult, error)
	// Confirm re-checks the intent's status against the processor and moves
	// the local payment to succeeded only when the processor reports success.
	Confirm(ctx context.Context, caller Identity, paymentID, intentRef string) (*ConfirmResult, error)
	// GetByRequest returns the latest payment recorded for the request, or
	// domain.ErrPaymentNotFound when none exists.
	GetByRequest(ctx context.Context, caller Identity, serviceRequestID string) (*domain.Payment, error)
}
