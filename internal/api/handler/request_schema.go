package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createServiceRequestRequest struct {
	ServiceType string   `json:"service_type" validate:"required,max=80"`
	Description string   `json:"description"  validate:"required,max=2000"`
	Location    string   `json:"location"     validate:"max=200"`
	Images      []string `json:"images"       validate:"max=10,dive,required"`
}

// updateServiceRequestRequest is the PATCH payload. A status value triggers
// the corresponding lifecycle transition; quoted_price is only meaningful
// together with "completed". Absent pointer fields are left untouched.
type updateServiceRequestRequest struct {
	Status          string  `json:"status"           validate:"omitempty,oneof=accepted in_progress completed cancelled"`
	QuotedPrice     *int64  `json:"quoted_price"     validate:"omitempty,gt=0"`
	TechnicianNotes *string `json:"technician_notes"`
}

// Response-only types owned by the transport layer.
// These are intentionally separate from ports/domain types so the JSON
// contract is not coupled to internal service changes.

type serviceRequestResponse struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"client_id"`
	TechnicianID    string    `json:"technician_id,omitempty"`
	ServiceType     string    `json:"service_type"`
	Description     string    `json:"description"`
	Location        string    `json:"location,omitempty"`
	Status          string    `json:"status"`
	QuotedPrice     int64     `json:"quoted_price,omitempty"`
	TechnicianNotes string    `json:"technician_notes,omitempty"`
	Images          []string  `json:"images,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type listServiceRequestsResponse struct {
	Data  []serviceRequestResponse `json:"data"`
	Count int                      `json:"count"`
}
