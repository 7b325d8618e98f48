package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/handyhub/marketplace-system/internal/api/metrics"
	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
)

type matchingService struct {
	requests ports.RequestRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

// NewMatchingService returns the MatchingService implementation.
func NewMatchingService(requests ports.RequestRepository, users ports.UserRepository, log zerolog.Logger) ports.MatchingService {
	return &matchingService{requests: requests, users: users, log: log}
}

// ListAvailable returns the unassigned pending requests the calling technician
// may accept, newest first. A non-empty skill set keeps only requests whose
// service type exactly matches one of the skills; a technician with no
// declared skills sees every open request. The stored role is re-checked
// because roles can change after a token was issued.
func (s *matchingService) ListAvailable(ctx context.Context, caller ports.Identity) ([]*domain.ServiceRequest, error) {
	if caller.Role != domain.RoleTechnician {
		return nil, fmt.Errorf("list available: %w (technician role required)", domain.ErrForbidden)
	}

	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleTechnician {
		return nil, fmt.Errorf("list available: %w (technician role required)", domain.ErrForbidden)
	}

	requests, err := s.requests.ListAvailable(ctx, user.Skills)
	if err != nil {
		s.log.Error().Err(err).Str("technician_id", caller.UserID).Msg("failed to list available requests")
		return nil, err
	}

	scope := "all"
	if len(user.Skills) > 0 {
		scope = "filtered"
	}
	metrics.MatchingQueriesTotal.WithLabelValues(scope).Inc()
	s.log.Debug().
		Str("technician_id", caller.UserID).
		Strs("skills", user.Skills).
		Int("matches", len(requests)).
		Msg("available requests listed")

	return requests, nil
}
