package ports

import (
	"context"
	"time"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

// RequestRepository defines persistence operations for service requests.
//
// The transition methods are conditional writes: each one applies its update
// only when the stored document still satisfies the expected precondition
// (current status, bound technician) and reports via the returned bool whether
// a document matched. A false return means the precondition no longer held —
// the caller decides whether that is a lost race or a missing document.
type RequestRepository interface {
	Create(ctx context.Context, r *domain.ServiceRequest) error
	FindByID(ctx context.Context, id string) (*domain.ServiceRequest, error)

	// ListByClient returns the client's own requests, newest first.
	ListByClient(ctx context.Context, clientID string) ([]*domain.ServiceRequest, error)
	// ListByTechnician returns requests assigned to the technician, newest first.
	ListByTechnician(ctx context.Context, technicianID string) ([]*domain.ServiceRequest, error)
	// ListAvailable returns unassigned pending requests, newest first. A
	// non-empty skills set restricts results to service types exactly matching
	// one of the skills; an empty set matches everything.
	ListAvailable(ctx context.Context, skills []string) ([]*domain.ServiceRequest, error)

	// Accept binds technicianID and moves pending → accepted, only while the
	// request is still pending and unassigned.
	Accept(ctx context.Context, id, technicianID string, now time.Time) (bool, error)
	// Start moves accepted → in_progress for the bound technician.
	Start(ctx context.Context, id, technicianID string, now time.Time) (bool, error)
	// Complete moves in_progress → completed for the bound technician, setting
	// the quoted price and completion notes in the same write.
	Complete(ctx context.Context, id, technicianID string, price int64, notes string, now time.Time) (bool, error)
	// Cancel moves pending → cancelled for the owning client.
	Cancel(ctx context.Context, id, clientID string, now time.Time) (bool, error)
	// UpdateNotes replaces the technician notes while the request is not in a
	// terminal state.
	UpdateNotes(ctx context.Context, id, notes string, now time.Time) (bool, error)

	// HasActive reports whether the user is bound to any non-terminal request,
	// as client or as technician.
	HasActive(ctx context.Context, userID string) (bool, error)
}
