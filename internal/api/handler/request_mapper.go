package handler

import (
	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
)

// --- Request → Service input ---

func toCreateRequestInput(req createServiceRequestRequest) ports.CreateRequestInput {
	return ports.CreateRequestInput{
		ServiceType: req.ServiceType,
		Description: req.Description,
		Location:    req.Location,
		Images:      req.Images,
	}
}

func toUpdateRequestInput(req updateServiceRequestRequest) ports.UpdateRequestInput {
	return ports.UpdateRequestInput{
		Status:          req.Status,
		QuotedPrice:     req.QuotedPrice,
		TechnicianNotes: req.TechnicianNotes,
	}
}

// --- Domain → HTTP response ---

func toRequestResponse(r *domain.ServiceRequest) serviceRequestResponse {
	return serviceRequestResponse{
		ID:              r.ID,
		ClientID:        r.ClientID,
		TechnicianID:    r.TechnicianID,
		ServiceType:     r.ServiceType,
		Description:     r.Description,
		Location:        r.Location,
		Status:          string(r.Status),
		QuotedPrice:     r.QuotedPrice,
		TechnicianNotes: r.TechnicianNotes,
		Images:          r.Images,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

func toRequestListResponse(items []*domain.ServiceRequest) listServiceRequestsResponse {
	out := make([]serviceRequestResponse, len(items))
	for i, r := range items {
		out[i] = toRequestResponse(r)
	}
	return listServiceRequestsResponse{Data: out, Count: len(out)}
}
