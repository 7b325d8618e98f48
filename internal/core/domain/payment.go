package domain

import (
	"errors"
	"time"
)

// PaymentStatus represents the settlement state of a payment attempt.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrAlreadyPaid     = errors.New("service request already paid")
	ErrUpstream        = errors.New("payment processor unavailable")
)

// Payment records one settlement attempt against a completed service request.
// Amount is in whole dollars and equals the request's quoted price at creation.
// IntentRef is the processor-side intent identifier; local status only moves to
// succeeded after the processor itself reports success. At most one payment per
// request ever reaches succeeded.
type Payment struct {
	ID               string        `json:"id" bson:"_id"`
	ServiceRequestID string        `json:"service_request_id" bson:"service_request_id"`
	Amount           int64         `json:"amount" bson:"amount"`
	IntentRef        string        `json:"intent_ref" bson:"intent_ref"`
	Status           PaymentStatus `json:"status" bson:"status"`
	CreatedAt        time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" bson:"updated_at"`
}
