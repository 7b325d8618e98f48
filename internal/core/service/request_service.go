package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/handyhub/marketplace-system/internal/api/metrics"
	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
	"github.com/handyhub/marketplace-system/pkg/sanitize"
)

type requestService struct {
	repo     ports.RequestRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewRequestService returns the RequestService implementation owning the
// request lifecycle state machine.
func NewRequestService(repo ports.RequestRepository, notifier ports.Notifier, log zerolog.Logger) ports.RequestService {
	return &requestService{repo: repo, notifier: notifier, log: log}
}

// Create posts a new service request owned by the caller, in status pending.
func (s *requestService) Create(ctx context.Context, caller ports.Identity, in ports.CreateRequestInput) (*domain.ServiceRequest, error) {
	serviceType := sanitize.Text(in.ServiceType)
	description := sanitize.Text(in.Description)
	if serviceType == "" {
		return nil, fmt.Errorf("create request: %w (service_type is required)", domain.ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("create request: %w (description is required)", domain.ErrValidation)
	}

	now := time.Now().UTC()
	req := &domain.ServiceRequest{
		ID:          uuid.NewString(),
		ClientID:    caller.UserID,
		ServiceType: serviceType,
		Description: description,
		Location:    sanitize.Text(in.Location),
		Status:      domain.StatusPending,
		Images:      sanitize.Slice(in.Images),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		s.log.Error().Err(err).Str("client_id", caller.UserID).Msg("failed to create service request")
		return nil, err
	}

	metrics.RequestsCreatedTotal.WithLabelValues(req.ServiceType).Inc()
	s.log.Info().
		Str("request_id", req.ID).
		Str("client_id", caller.UserID).
		Str("service_type", req.ServiceType).
		Msg("service request created")

	return req, nil
}

// Get returns the request when the caller may see it: the owning client, the
// bound technician, or any technician while the request is still open for
// acceptance.
func (s *requestService) Get(ctx context.Context, caller ports.Identity, requestID string) (*domain.ServiceRequest, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(caller, req) {
		return nil, fmt.Errorf("get request: %w", domain.ErrForbidden)
	}
	return req, nil
}

// ListMine is role-scoped: clients see the requests they posted, technicians
// the requests assigned to them.
func (s *requestService) ListMine(ctx context.Context, caller ports.Identity) ([]*domain.ServiceRequest, error) {
	if caller.Role == domain.RoleTechnician {
		return s.repo.ListByTechnician(ctx, caller.UserID)
	}
	return s.repo.ListByClient(ctx, caller.UserID)
}

// Update applies the PATCH semantics of the generic update path. A status
// value dispatches to the matching lifecycle transition with that transition's
// own authorization; a patch without status merges the technician notes only.
// Validation happens before any write, so a rejected update leaves the stored
// request untouched.
func (s *requestService) Update(ctx context.Context, caller ports.Identity, requestID string, in ports.UpdateRequestInput) (*domain.ServiceRequest, error) {
	if in.Status == "" {
		if in.QuotedPrice != nil {
			return nil, fmt.Errorf("update request: %w (quoted_price is only set when completing)", domain.ErrInvalidState)
		}
		if in.TechnicianNotes == nil {
			return nil, fmt.Errorf("update request: %w (no fields to update)", domain.ErrValidation)
		}
		return s.updateNotes(ctx, caller, requestID, *in.TechnicianNotes)
	}

	next := domain.RequestStatus(in.Status)
	if !next.Valid() {
		return nil, fmt.Errorf("update request: %w (unknown status %q)", domain.ErrValidation, in.Status)
	}
	if in.QuotedPrice != nil && next != domain.StatusCompleted {
		return nil, fmt.Errorf("update request: %w (quoted_price is only set when completing)", domain.ErrInvalidState)
	}
	if in.TechnicianNotes != nil && next != domain.StatusCompleted {
		return nil, fmt.Errorf("update request: %w (technician_notes accompany completion or a notes-only update)", domain.ErrValidation)
	}

	switch next {
	case domain.StatusAccepted:
		return s.accept(ctx, caller, requestID)
	case domain.StatusInProgress:
		return s.start(ctx, caller, requestID)
	case domain.StatusCompleted:
		return s.complete(ctx, caller, requestID, in.QuotedPrice, in.TechnicianNotes)
	case domain.StatusCancelled:
		return s.cancel(ctx, caller, requestID)
	default:
		// pending: nothing transitions back to pending.
		return nil, fmt.Errorf("update request: %w (no transition targets %q)", domain.ErrInvalidState, in.Status)
	}
}

// accept binds the calling technician to a pending request. The write is
// conditional on the request still being pending and unassigned; losing that
// race yields Conflict, never a silent overwrite.
func (s *requestService) accept(ctx context.Context, caller ports.Identity, requestID string) (*domain.ServiceRequest, error) {
	if caller.Role != domain.RoleTechnician {
		return nil, fmt.Errorf("accept request: %w (technician role required)", domain.ErrForbidden)
	}

	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID == caller.UserID {
		return nil, fmt.Errorf("accept request: %w (cannot accept your own request)", domain.ErrForbidden)
	}
	if req.TechnicianID == caller.UserID {
		return nil, fmt.Errorf("accept request: %w (request is already assigned to you)", domain.ErrForbidden)
	}
	if req.Status != domain.StatusPending || req.TechnicianID != "" {
		return nil, fmt.Errorf("accept request: %w (already taken)", domain.ErrConflict)
	}

	now := time.Now().UTC()
	matched, err := s.repo.Accept(ctx, requestID, caller.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("accept request: %w", err)
	}
	if !matched {
		metrics.TransitionConflictsTotal.WithLabelValues("accept").Inc()
		return nil, s.lostRace(ctx, "accept", requestID)
	}

	req.Status = domain.StatusAccepted
	req.TechnicianID = caller.UserID
	req.UpdatedAt = now

	metrics.TransitionsTotal.WithLabelValues(string(domain.StatusPending), string(domain.StatusAccepted)).Inc()
	s.notifier.Enqueue(ports.RequestEvent{
		RequestID:   req.ID,
		RecipientID: req.ClientID,
		Kind:        domain.NoteRequestAccepted,
		Message:     fmt.Sprintf("A technician accepted your %s request", req.ServiceType),
		OccurredAt:  now,
	})
	s.log.Info().
		Str("request_id", req.ID).
		Str("technician_id", caller.UserID).
		Msg("request accepted")

	return req, nil
}

// start moves an accepted request to in_progress, bound technician only.
func (s *requestService) start(ctx context.Context, caller ports.Identity, requestID string) (*domain.ServiceRequest, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.TechnicianID == "" || req.TechnicianID != caller.UserID {
		return nil, fmt.Errorf("start request: %w (assigned technician only)", domain.ErrForbidden)
	}
	if !req.Status.CanTransitionTo(domain.StatusInProgress) {
		return nil, fmt.Errorf("start request: %w (status %s)", domain.ErrInvalidState, req.Status)
	}

	now := time.Now().UTC()
	matched, err := s.repo.Start(ctx, requestID, caller.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("start request: %w", err)
	}
	if !matched {
		metrics.TransitionConflictsTotal.WithLabelValues("start").Inc()
		return nil, s.lostRace(ctx, "start", requestID)
	}

	req.Status = domain.StatusInProgress
	req.UpdatedAt = now

	metrics.TransitionsTotal.WithLabelValues(string(domain.StatusAccepted), string(domain.StatusInProgress)).Inc()
	s.notifier.Enqueue(ports.RequestEvent{
		RequestID:   req.ID,
		RecipientID: req.ClientID,
		Kind:        domain.NoteRequestStarted,
		Message:     fmt.Sprintf("Work on your %s request has started", req.ServiceType),
		OccurredAt:  now,
	})
	s.log.Info().
		Str("request_id", req.ID).
		Str("technician_id", caller.UserID).
		Msg("request started")

	return req, nil
}

// complete closes the work on an in_progress request. The positive quoted
// price and the completion summary are required and written atomically with
// the status change.
func (s *requestService) complete(ctx context.Context, caller ports.Identity, requestID string, price *int64, notes *string) (*domain.ServiceRequest, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.TechnicianID == "" || req.TechnicianID != caller.UserID {
		return nil, fmt.Errorf("complete request: %w (assigned technician only)", domain.ErrForbidden)
	}
	if price == nil || *price <= 0 {
		return nil, fmt.Errorf("complete request: %w (quoted_price must be positive)", domain.ErrValidation)
	}
	summary := ""
	if notes != nil {
		summary = sanitize.Text(*notes)
	}
	if summary == "" {
		return nil, fmt.Errorf("complete request: %w (completion summary is required)", domain.ErrValidation)
	}
	if !req.Status.CanTransitionTo(domain.StatusCompleted) {
		return nil, fmt.Errorf("complete request: %w (status %s)", domain.ErrInvalidState, req.Status)
	}

	now := time.Now().UTC()
	matched, err := s.repo.Complete(ctx, requestID, caller.UserID, *price, summary, now)
	if err != nil {
		return nil, fmt.Errorf("complete request: %w", err)
	}
	if !matched {
		metrics.TransitionConflictsTotal.WithLabelValues("complete").Inc()
		return nil, s.lostRace(ctx, "complete", requestID)
	}

	req.Status = domain.StatusCompleted
	req.QuotedPrice = *price
	req.TechnicianNotes = summary
	req.UpdatedAt = now

	metrics.TransitionsTotal.WithLabelValues(string(domain.StatusInProgress), string(domain.StatusCompleted)).Inc()
	s.notifier.Enqueue(ports.RequestEvent{
		RequestID:   req.ID,
		RecipientID: req.ClientID,
		Kind:        domain.NoteRequestCompleted,
		Message:     fmt.Sprintf("Your %s request was completed and is ready for payment", req.ServiceType),
		OccurredAt:  now,
	})
	s.log.Info().
		Str("request_id", req.ID).
		Str("technician_id", caller.UserID).
		Int64("quoted_price", *price).
		Msg("request completed")

	return req, nil
}

// cancel closes a pending request before any technician takes it, owner only.
func (s *requestService) cancel(ctx context.Context, caller ports.Identity, requestID string) (*domain.ServiceRequest, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != caller.UserID {
		return nil, fmt.Errorf("cancel request: %w (owner only)", domain.ErrForbidden)
	}
	if !req.Status.CanTransitionTo(domain.StatusCancelled) {
		return nil, fmt.Errorf("cancel request: %w (status %s)", domain.ErrInvalidState, req.Status)
	}

	now := time.Now().UTC()
	matched, err := s.repo.Cancel(ctx, requestID, caller.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("cancel request: %w", err)
	}
	if !matched {
		metrics.TransitionConflictsTotal.WithLabelValues("cancel").Inc()
		return nil, s.lostRace(ctx, "cancel", requestID)
	}

	req.Status = domain.StatusCancelled
	req.UpdatedAt = now

	metrics.TransitionsTotal.WithLabelValues(string(domain.StatusPending), string(domain.StatusCancelled)).Inc()
	s.notifier.Enqueue(ports.RequestEvent{
		RequestID:   req.ID,
		RecipientID: req.ClientID,
		Kind:        domain.NoteRequestCancelled,
		Message:     fmt.Sprintf("Your %s request was cancelled", req.ServiceType),
		OccurredAt:  now,
	})
	s.log.Info().
		Str("request_id", req.ID).
		Str("client_id", caller.UserID).
		Msg("request cancelled")

	return req, nil
}

// updateNotes replaces the technician notes without touching the lifecycle,
// for the owning client or the bound technician, while the request is open.
func (s *requestService) updateNotes(ctx context.Context, caller ports.Identity, requestID, notes string) (*domain.ServiceRequest, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != caller.UserID && (req.TechnicianID == "" || req.TechnicianID != caller.UserID) {
		return nil, fmt.Errorf("update notes: %w (owner or assigned technician only)", domain.ErrForbidden)
	}
	if req.Status.Terminal() {
		return nil, fmt.Errorf("update notes: %w (request is closed)", domain.ErrInvalidState)
	}

	now := time.Now().UTC()
	clean := sanitize.Text(notes)
	matched, err := s.repo.UpdateNotes(ctx, requestID, clean, now)
	if err != nil {
		return nil, fmt.Errorf("update notes: %w", err)
	}
	if !matched {
		metrics.TransitionConflictsTotal.WithLabelValues("notes").Inc()
		return nil, s.lostRace(ctx, "update notes", requestID)
	}

	req.TechnicianNotes = clean
	req.UpdatedAt = now
	return req, nil
}

// lostRace resolves a conditional write that matched nothing: the request
// either changed under us or disappeared entirely.
func (s *requestService) lostRace(ctx context.Context, op, requestID string) error {
	if _, err := s.repo.FindByID(ctx, requestID); err != nil {
		return err
	}
	s.log.Warn().Str("request_id", requestID).Str("op", op).Msg("transition lost to concurrent update")
	return fmt.Errorf("%s: %w", op, domain.ErrConflict)
}

// visibleTo reports whether the caller may read the request.
func visibleTo(caller ports.Identity, req *domain.ServiceRequest) bool {
	if req.ClientID == caller.UserID {
		return true
	}
	if req.TechnicianID != "" && req.TechnicianID == caller.UserID {
		return true
	}
	return caller.Role == domain.RoleTechnician &&
		req.Status == domain.StatusPending &&
		req.TechnicianID == ""
}
