package domain

import "time"

// NotificationKind labels the lifecycle fact a notification reports.
type NotificationKind string

const (
	NoteRequestAccepted  NotificationKind = "request.accepted"
	NoteRequestStarted   NotificationKind = "request.started"
	NoteRequestCompleted NotificationKind = "request.completed"
	NoteRequestCancelled NotificationKind = "request.cancelled"
	NotePaymentSucceeded NotificationKind = "payment.succeeded"
)

// Notification is an append-only record addressed to a single user. Records
// for the same request are written in the order their transitions happened.
type Notification struct {
	ID        string           `json:"id" bson:"_id"`
	UserID    string           `json:"user_id" bson:"user_id"`
	RequestID string           `json:"request_id" bson:"request_id"`
	Kind      NotificationKind `json:"kind" bson:"kind"`
	Message   string           `json:"message" bson:"message"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
}
