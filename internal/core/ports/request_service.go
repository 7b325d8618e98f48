package ports

import (
	"context"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

// CreateRequestInput carries all data needed to post a new service request.
// Images are opaque media keys obtained from the media upload endpoint.
type CreateRequestInput struct {
	ServiceType string
	Description string
	Location    string
	Images      []string
}

// UpdateRequestInput is the partial-merge payload of the generic update path.
// A non-empty Status dispatches to the corresponding lifecycle transition;
// nil pointer fields are left untouched. QuotedPrice is only accepted together
// with the transition to completed.
type UpdateRequestInput struct {
	Status          string
	QuotedPrice     *int64
	TechnicianNotes *string
}

// RequestService owns the service-request lifecycle: creation, visibility and
// the status state machine.
type RequestService interface {
	Create(ctx context.Context, caller Identity, in CreateRequestInput) (*domain.ServiceRequest, error)
	Get(ctx context.Context, caller Identity, requestID string) (*domain.ServiceRequest, error)
	// ListMine is role-scoped: clients see requests they posted, technicians
	// see requests assigned to them.
	ListMine(ctx context.Context, caller Identity) ([]*domain.ServiceRequest, error)
	Update(ctx context.Context, caller Identity, requestID string, in UpdateRequestInput) (*domain.ServiceRequest, error)
}

// MatchingService computes the set of requests a technician may accept.
type MatchingService interface {
	// ListAvailable returns unassigned pending requests visible to the calling
	// technician, newest first, filtered by the technician's declared skills.
	// A technician with no declared skills sees every pending request.
	ListAvailable(ctx context.Context, caller Identity) ([]*domain.ServiceRequest, error)
}
