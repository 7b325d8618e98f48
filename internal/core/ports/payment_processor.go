package ports

import "context"

// ProcessorStatus is the authoritative intent state reported by the payment
// processor, collapsed to the three outcomes the orchestrator acts on.
type ProcessorStatus string

const (
	ProcessorSucceeded ProcessorStatus = "succeeded"
	ProcessorCanceled  ProcessorStatus = "canceled"
	// ProcessorPending covers every non-terminal processor state.
	ProcessorPending ProcessorStatus = "pending"
)

// PaymentProcessor is the external settlement provider. Amounts cross this
// boundary in whole dollars; conversion to the processor's minor units happens
// inside the adapter.
type PaymentProcessor interface {
	// CreateIntent registers a new payment intent and returns the processor's
	// intent reference plus the client-side confirmation token.
	CreateIntent(ctx context.Context, amountDollars int64, metadata map[string]string) (ref string, clientToken string, err error)
	// RetrieveStatus fetches the intent's current state from the processor.
	RetrieveStatus(ctx context.Context, ref string) (ProcessorStatus, error)
}

// IntentLock serializes payment-intent creation per service request so a
// concurrent duplicate submission cannot create two external intents.
type IntentLock interface {
	// Acquire takes the per-request lock; false means another creation is in
	// flight.
	Acquire(ctx context.Context, serviceRequestID string) (bool, error)
	Release(ctx context.Context, serviceRequestID string) error
}
