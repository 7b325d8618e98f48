package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
)

// PaymentHandler handles settlement of completed service requests.
type PaymentHandler struct {
	payments ports.PaymentService
}

func NewPaymentHandler(payments ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type paymentResponse struct {
	ID               string    `json:"id"`
	ServiceRequestID string    `json:"service_request_id"`
	Amount           int64     `json:"amount"`
	IntentRef        string    `json:"intent_ref"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type createIntentRequest struct {
	ServiceRequestID string `json:"service_request_id" validate:"required"`
}

// createIntentResponse carries the processor's client-side confirmation token.
// The token is returned here exactly once and never stored.
type createIntentResponse struct {
	Payment     paymentResponse `json:"payment"`
	ClientToken string          `json:"client_token"`
}

type confirmPaymentRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	IntentRef string `json:"intent_ref" validate:"required"`
}

type confirmPaymentResponse struct {
	Payment         paymentResponse `json:"payment"`
	Succeeded       bool            `json:"succeeded"`
	ProcessorStatus string          `json:"processor_status"`
}

type getPaymentResponse struct {
	Payment *paymentResponse `json:"payment"`
}

// CreateIntent handles POST /v1/payments/create-intent.
//
// @Summary      Create a payment intent for a completed request
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIntentRequest  true  "Target service request"
// @Success      201   {object}  createIntentResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/payments/create-intent [post]
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.payments.CreateIntent(c.Request().Context(), caller, req.ServiceRequestID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createIntentResponse{
		Payment:     toPaymentResponse(result.Payment),
		ClientToken: result.ClientToken,
	})
}

// Confirm handles POST /v1/payments/confirm. The processor is re-checked
// server-side; the caller cannot assert success.
//
// @Summary      Confirm a payment against the processor
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      confirmPaymentRequest  true  "Payment to confirm"
// @Success      200   {object}  confirmPaymentResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/payments/confirm [post]
func (h *PaymentHandler) Confirm(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.payments.Confirm(c.Request().Context(), caller, req.PaymentID, req.IntentRef)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, confirmPaymentResponse{
		Payment:         toPaymentResponse(result.Payment),
		Succeeded:       result.Succeeded,
		ProcessorStatus: result.ProcessorStatus,
	})
}

// GetByRequest handles GET /v1/payments/:service_request_id. A request with
// no payment yet is not an error: the response carries a null payment.
//
// @Summary      Get the latest payment for a service request
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        service_request_id  path      string  true  "Service request id"
// @Success      200                 {object}  getPaymentResponse
// @Failure      401                 {object}  errorResponse
// @Failure      403                 {object}  errorResponse
// @Failure      404                 {object}  errorResponse
// @Router       /v1/payments/{service_request_id} [get]
func (h *PaymentHandler) GetByRequest(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	payment, err := h.payments.GetByRequest(c.Request().Context(), caller, c.Param("service_request_id"))
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return c.JSON(http.StatusOK, getPaymentResponse{Payment: nil})
		}
		return err
	}

	resp := toPaymentResponse(payment)
	return c.JSON(http.StatusOK, getPaymentResponse{Payment: &resp})
}

// toPaymentResponse maps the domain payment to the transport shape.
func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:               p.ID,
		ServiceRequestID: p.ServiceRequestID,
		Amount:           p.Amount,
		IntentRef:        p.IntentRef,
		Status:           string(p.Status),
		CreatedAt:        p.CreatedAt.UTC(),
		UpdatedAt:        p.UpdatedAt.UTC(),
	}
}
