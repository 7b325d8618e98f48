package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
)

type stubPaymentService struct {
	createFn  func(ctx context.Context, caller ports.Identity, serviceRequestID string) (*ports.CreateIntentResult, error)
	confirmFn func(ctx context.Context, caller ports.Identity, paymentID, intentRef string) (*ports.ConfirmResult, error)
	getFn     func(ctx context.Context, caller ports.Identity, serviceRequestID string) (*domain.Payment, error)
}

func (s *stubPaymentService) CreateIntent(ctx context.Context, caller ports.Identity, serviceRequestID string) (*ports.CreateIntentResult, error) {
	return s.createFn(ctx, caller, serviceRequestID)
}

func (s *stubPaymentService) Confirm(ctx context.Context, caller ports.Identity, paymentID, intentRef string) (*ports.ConfirmResult, error) {
	return s.confirmFn(ctx, caller, paymentID, intentRef)
}

func (s *stubPaymentService) GetByRequest(ctx context.Context, caller ports.Identity, serviceRequestID string) (*domain.Payment, error) {
	return s.getFn(ctx, caller, serviceRequestID)
}

func samplePayment(id, requestID string, status domain.PaymentStatus) *domain.Payment {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	return &domain.Payment{
		ID:               id,
		ServiceRequestID: requestID,
		Amount:           120,
		IntentRef:        "pi_" + id,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ---------------------------------------------------------------------------

func TestPaymentHandler_CreateIntent_Success(t *testing.T) {
	e := newEcho()
	stub := &stubPaymentService{
		createFn: func(ctx context.Context, caller ports.Identity, serviceRequestID string) (*ports.CreateIntentResult, error) {
			if caller.UserID != "client_1" || serviceRequestID != "req_1" {
				t.Fatalf("unexpected args: %+v %s", caller, serviceRequestID)
			}
			return &ports.CreateIntentResult{
				Payment:     samplePayment("pay_1", serviceRequestID, domain.PaymentPending),
				ClientToken: "secret_token",
			}, nil
		},
	}
	h := NewPaymentHandler(stub)

	c, rec := authedContext(e, http.MethodPost, "/v1/payments/create-intent",
		`{"service_request_id":"req_1"}`, "client_1", domain.RoleClient)

	if err := h.CreateIntent(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp createIntentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ClientToken != "secret_token" {
		t.Fatalf("expected client token, got %q", resp.ClientToken)
	}
	if resp.Payment.ID != "pay_1" || resp.Payment.Amount != 120 {
		t.Fatalf("unexpected payment payload: %+v", resp.Payment)
	}
}

func TestPaymentHandler_CreateIntent_MissingRequestID(t *testing.T) {
	e := newEcho()
	h := NewPaymentHandler(&stubPaymentService{
		createFn: func(ctx context.Context, caller ports.Identity, serviceRequestID string) (*ports.CreateIntentResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	c, _ := authedContext(e, http.MethodPost, "/v1/payments/create-intent", `{}`, "client_1", domain.RoleClient)

	err := h.CreateIntent(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestPaymentHandler_CreateIntent_AlreadyPaid(t *testing.T) {
	e := newEcho()
	stub := &stubPaymentService{
		createFn: func(ctx context.Context, caller ports.Identity, serviceRequestID string) (*ports.CreateIntentResult, error) {
			return nil, domain.ErrAlreadyPaid
		},
	}
	h := NewPaymentHandler(stub)

	c, _ := authedContext(e, http.MethodPost, "/v1/payments/create-intent",
		`{"service_request_id":"req_1"}`, "client_1", domain.RoleClient)

	err := h.CreateIntent(c)
	if !errors.Is(err, domain.ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestPaymentHandler_Confirm_Success(t *testing.T) {
	e := newEcho()
	stub := &stubPaymentService{
		confirmFn: func(ctx context.Context, caller ports.Identity, paymentID, intentRef string) (*ports.ConfirmResult, error) {
			if paymentID != "pay_1" || intentRef != "pi_pay_1" {
				t.Fatalf("unexpected args: %s %s", paymentID, intentRef)
			}
			return &ports.ConfirmResult{
				Payment:         samplePayment("pay_1", "req_1", domain.PaymentSucceeded),
				Succeeded:       true,
				ProcessorStatus: "succeeded",
			}, nil
		},
	}
	h := NewPaymentHandler(stub)

	c, rec := authedContext(e, http.MethodPost, "/v1/payments/confirm",
		`{"payment_id":"pay_1","intent_ref":"pi_pay_1"}`, "client_1", domain.RoleClient)

	if err := h.Confirm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp confirmPaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Succeeded || resp.Payment.Status != "succeeded" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPaymentHandler_Confirm_UpstreamError(t *testing.T) {
	e := newEcho()
	stub := &stubPaymentService{
		confirmFn: func(ctx context.Context, caller ports.Identity, paymentID, intentRef string) (*ports.ConfirmResult, error) {
			return nil, domain.ErrUpstream
		},
	}
	h := NewPaymentHandler(stub)

	c, _ := authedContext(e, http.MethodPost, "/v1/payments/confirm",
		`{"payment_id":"pay_1","intent_ref":"pi_pay_1"}`, "client_1", domain.RoleClient)

	err := h.Confirm(c)
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestPaymentHandler_GetByRequest_Found(t *testing.T) {
	e := newEcho()
	stub := &stubPaymentService{
		getFn: func(ctx context.Context, caller ports.Identity, serviceRequestID string) (*domain.Payment, error) {
			return samplePayment("pay_1", serviceRequestID, domain.PaymentSucceeded), nil
		},
	}
	h := NewPaymentHandler(stub)

	c, rec := authedContext(e, http.MethodGet, "/v1/payments/req_1", "", "client_1", domain.RoleClient)
	c.SetParamNames("service_request_id")
	c.SetParamValues("req_1")

	if err := h.GetByRequest(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp getPaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Payment == nil || resp.Payment.ID != "pay_1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPaymentHandler_GetByRequest_NoPaymentReturnsNull(t *testing.T) {
	e := newEcho()
	stub := &stubPaymentService{
		getFn: func(ctx context.Context, caller ports.Identity, serviceRequestID string) (*domain.Payment, error) {
			return nil, domain.ErrPaymentNotFound
		},
	}
	h := NewPaymentHandler(stub)

	c, rec := authedContext(e, http.MethodGet, "/v1/payments/req_1", "", "client_1", domain.RoleClient)
	c.SetParamNames("service_request_id")
	c.SetParamValues("req_1")

	if err := h.GetByRequest(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp getPaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Payment != nil {
		t.Fatalf("expected null payment, got %+v", resp.Payment)
	}
}
