package domain

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle state of a service request.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusAccepted   RequestStatus = "accepted"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Terminal states (completed, cancelled) have no outgoing edges.
var validTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress},
	StatusInProgress: {StatusCompleted},
}

var (
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("access forbidden")
	ErrRequestNotFound = errors.New("service request not found")
	ErrInvalidState    = errors.New("operation not valid for current status")
	ErrConflict        = errors.New("request was modified concurrently")
)

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is a member of the closed status enum.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ServiceRequest is the core aggregate root. ClientID is immutable after
// creation; TechnicianID is empty until a technician accepts and is the only
// field acceptance mutates besides status. QuotedPrice is in whole dollars and
// is set exactly once, together with the transition to completed.
type ServiceRequest struct {
	ID              string        `json:"id" bson:"_id"`
	ClientID        string        `json:"client_id" bson:"client_id"`
	TechnicianID    string        `json:"technician_id,omitempty" bson:"technician_id,omitempty"`
	ServiceType     string        `json:"service_type" bson:"service_type"`
	Description     string        `json:"description" bson:"description"`
	Location        string        `json:"location,omitempty" bson:"location,omitempty"`
	Status          RequestStatus `json:"status" bson:"status"`
	QuotedPrice     int64         `json:"quoted_price,omitempty" bson:"quoted_price,omitempty"`
	TechnicianNotes string        `json:"technician_notes,omitempty" bson:"technician_notes,omitempty"`
	Images          []string      `json:"images,omitempty" bson:"images,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}
