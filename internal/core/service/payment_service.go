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
)

type paymentService struct {
	payments  ports.PaymentRepository
	requests  ports.RequestRepository
	processor ports.PaymentProcessor
	lock      ports.IntentLock
	notifier  ports.Notifier
	log       zerolog.Logger
}

// NewPaymentService returns the PaymentService implementation orchestrating
// settlement against the external processor.
func NewPaymentService(
	payments ports.PaymentRepository,
	requests ports.RequestRepository,
	processor ports.PaymentProcessor,
	lock ports.IntentLock,
	notifier ports.Notifier,
	log zerolog.Logger,
) ports.PaymentService {
	return &paymentService{
		payments:  payments,
		requests:  requests,
		processor: processor,
		lock:      lock,
		notifier:  notifier,
		log:       log,
	}
}

// CreateIntent registers a payment intent with the processor for a completed
// request and records a pending payment carrying the intent reference. The
// per-request lock closes the duplicate-click window: while one creation is in
// flight, a second caller gets Conflict instead of a second external intent.
func (s *paymentService) CreateIntent(ctx context.Context, caller ports.Identity, serviceRequestID string) (*ports.CreateIntentResult, error) {
	req, err := s.requests.FindByID(ctx, serviceRequestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != caller.UserID {
		return nil, fmt.Errorf("create intent: %w (request owner only)", domain.ErrForbidden)
	}
	if req.Status != domain.StatusCompleted {
		metrics.PaymentIntentsTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("create intent: %w (request is %s, not completed)", domain.ErrInvalidState, req.Status)
	}
	if req.QuotedPrice <= 0 {
		metrics.PaymentIntentsTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("create intent: %w (request has no quoted price)", domain.ErrInvalidState)
	}

	// Lock failures are non-fatal: better a rare duplicate intent than no
	// payment path while redis is down.
	acquired, err := s.lock.Acquire(ctx, serviceRequestID)
	if err != nil {
		s.log.Warn().Err(err).Str("request_id", serviceRequestID).Msg("intent lock unavailable, proceeding without it")
	} else if !acquired {
		metrics.PaymentIntentsTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("create intent: %w (intent creation already in flight)", domain.ErrConflict)
	} else {
		defer func() {
			if releaseErr := s.lock.Release(ctx, serviceRequestID); releaseErr != nil {
				s.log.Warn().Err(releaseErr).Str("request_id", serviceRequestID).Msg("failed to release intent lock")
			}
		}()
	}

	paid, err := s.payments.HasSucceeded(ctx, serviceRequestID)
	if err != nil {
		return nil, fmt.Errorf("create intent: %w", err)
	}
	if paid {
		metrics.PaymentIntentsTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("create intent: %w", domain.ErrAlreadyPaid)
	}

	ref, clientToken, err := s.processor.CreateIntent(ctx, req.QuotedPrice, map[string]string{
		"service_request_id": req.ID,
		"client_id":          req.ClientID,
	})
	if err != nil {
		metrics.PaymentIntentsTotal.WithLabelValues("upstream_error").Inc()
		s.log.Error().Err(err).Str("request_id", serviceRequestID).Msg("processor rejected intent creation")
		return nil, fmt.Errorf("create intent: %w", err)
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:               uuid.NewString(),
		ServiceRequestID: req.ID,
		Amount:           req.QuotedPrice,
		IntentRef:        ref,
		Status:           domain.PaymentPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.payments.Insert(ctx, payment); err != nil {
		// The external intent exists but we lost its record; keep the ref in
		// the log so it can be reconciled by hand.
		s.log.Error().Err(err).
			Str("request_id", serviceRequestID).
			Str("intent_ref", ref).
			Msg("failed to persist payment after intent creation")
		return nil, fmt.Errorf("create intent: %w", err)
	}

	metrics.PaymentIntentsTotal.WithLabelValues("created").Inc()
	s.log.Info().
		Str("payment_id", payment.ID).
		Str("request_id", req.ID).
		Int64("amount", payment.Amount).
		Msg("payment intent created")

	return &ports.CreateIntentResult{Payment: payment, ClientToken: clientToken}, nil
}

// Confirm reconciles a payment against the processor's authoritative state.
// The caller's word is never trusted: only a processor-reported success moves
// the local payment to succeeded.
func (s *paymentService) Confirm(ctx context.Context, caller ports.Identity, paymentID, intentRef string) (*ports.ConfirmResult, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, payment.ServiceRequestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != caller.UserID {
		return nil, fmt.Errorf("confirm payment: %w (payer only)", domain.ErrForbidden)
	}
	if intentRef != payment.IntentRef {
		return nil, fmt.Errorf("confirm payment: %w (intent reference does not match)", domain.ErrValidation)
	}

	// Already settled: idempotent success without another processor call.
	if payment.Status == domain.PaymentSucceeded {
		return &ports.ConfirmResult{
			Payment:         payment,
			Succeeded:       true,
			ProcessorStatus: string(ports.ProcessorSucceeded),
		}, nil
	}

	status, err := s.processor.RetrieveStatus(ctx, payment.IntentRef)
	if err != nil {
		s.log.Error().Err(err).Str("payment_id", paymentID).Msg("failed to retrieve intent status")
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	metrics.PaymentConfirmationsTotal.WithLabelValues(string(status)).Inc()

	now := time.Now().UTC()
	switch status {
	case ports.ProcessorSucceeded:
		matched, err := s.payments.MarkSucceeded(ctx, paymentID, now)
		if err != nil {
			return nil, fmt.Errorf("confirm payment: %w", err)
		}
		if matched {
			payment.Status = domain.PaymentSucceeded
			payment.UpdatedAt = now
			s.notifier.Enqueue(ports.RequestEvent{
				RequestID:   req.ID,
				RecipientID: req.TechnicianID,
				Kind:        domain.NotePaymentSucceeded,
				Message:     fmt.Sprintf("Payment of $%d received for the %s job", payment.Amount, req.ServiceType),
				OccurredAt:  now,
			})
			s.log.Info().
				Str("payment_id", payment.ID).
				Str("request_id", req.ID).
				Msg("payment confirmed")
		} else if payment, err = s.payments.FindByID(ctx, paymentID); err != nil {
			// A concurrent confirmation settled it first; report its outcome.
			return nil, err
		}
	case ports.ProcessorCanceled:
		matched, err := s.payments.MarkFailed(ctx, paymentID, now)
		if err != nil {
			return nil, fmt.Errorf("confirm payment: %w", err)
		}
		if matched {
			payment.Status = domain.PaymentFailed
			payment.UpdatedAt = now
			s.log.Info().Str("payment_id", payment.ID).Msg("payment marked failed after processor cancellation")
		} else if payment, err = s.payments.FindByID(ctx, paymentID); err != nil {
			return nil, err
		}
	default:
		// Still processing on the processor side; nothing changes locally.
	}

	return &ports.ConfirmResult{
		Payment:         payment,
		Succeeded:       payment.Status == domain.PaymentSucceeded,
		ProcessorStatus: string(status),
	}, nil
}

// GetByRequest returns the latest payment recorded for a request, for the
// owning client or the bound technician.
func (s *paymentService) GetByRequest(ctx context.Context, caller ports.Identity, serviceRequestID string) (*domain.Payment, error) {
	req, err := s.requests.FindByID(ctx, serviceRequestID)
	if err != nil {
		return nil, err
	}
	if req.ClientID != caller.UserID && (req.TechnicianID == "" || req.TechnicianID != caller.UserID) {
		return nil, fmt.Errorf("get payment: %w (owner or assigned technician only)", domain.ErrForbidden)
	}
	return s.payments.FindLatestByRequest(ctx, serviceRequestID)
}
