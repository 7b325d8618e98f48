package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

var discardLogger = zerolog.Nop()

func render(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/service-requests/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(discardLogger)(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return rec, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrRequestNotFound, http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrPaymentNotFound, http.StatusNotFound},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrAlreadyPaid, http.StatusConflict},
		{domain.ErrConflict, http.StatusConflict},
		{domain.ErrInvalidState, http.StatusUnprocessableEntity},
		{domain.ErrUpstream, http.StatusBadGateway},
	}

	for _, tc := range cases {
		rec, _ := render(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
	}
}

func TestErrorHandler_WrappedErrorKeepsMapping(t *testing.T) {
	wrapped := fmt.Errorf("accept request: %w (already taken)", domain.ErrConflict)

	rec, body := render(t, wrapped)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(body.Error, "already taken") {
		t.Fatalf("expected wrapped detail in message, got %q", body.Error)
	}
}

func TestErrorHandler_ValidationKeepsDetail(t *testing.T) {
	wrapped := fmt.Errorf("create request: %w (description is required)", domain.ErrValidation)

	rec, body := render(t, wrapped)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(body.Error, "description is required") {
		t.Fatalf("expected field detail in message, got %q", body.Error)
	}
}

func TestErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	rec, body := render(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body.Error != "missing authorization header" {
		t.Fatalf("unexpected message: %q", body.Error)
	}
}

func TestErrorHandler_UnexpectedErrorOpaque(t *testing.T) {
	rec, body := render(t, errors.New("mongo: connection reset"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %q", body.Error)
	}
}
