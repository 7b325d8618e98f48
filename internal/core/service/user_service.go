package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
	"github.com/handyhub/marketplace-system/pkg/sanitize"
)

type userService struct {
	users    ports.UserRepository
	requests ports.RequestRepository
	log      zerolog.Logger
}

// NewUserService returns the UserService implementation.
func NewUserService(users ports.UserRepository, requests ports.RequestRepository, log zerolog.Logger) ports.UserService {
	return &userService{users: users, requests: requests, log: log}
}

func (s *userService) Get(ctx context.Context, caller ports.Identity) (*domain.User, error) {
	return s.users.FindByID(ctx, caller.UserID)
}

// Onboard assigns the caller's role exactly once. Skills, phone and bio are
// recorded alongside for technicians.
func (s *userService) Onboard(ctx context.Context, caller ports.Identity, in ports.OnboardingInput) (*domain.User, error) {
	if !domain.ValidRole(in.Role) {
		return nil, fmt.Errorf("onboarding: %w (role must be client or technician)", domain.ErrValidation)
	}

	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != "" {
		return nil, fmt.Errorf("onboarding: %w (role already chosen)", domain.ErrInvalidState)
	}

	user.Role = in.Role
	user.Phone = sanitize.Text(in.Phone)
	user.Bio = sanitize.Text(in.Bio)
	if in.Role == domain.RoleTechnician {
		user.Skills = sanitize.Slice(in.Skills)
		user.Available = true
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user onboarded")
	return user, nil
}

// UpdateProfile applies a partial merge over the caller's profile. Changing
// the role is refused while the user is party to any open request, so a
// technician cannot abandon assigned work by flipping to client.
func (s *userService) UpdateProfile(ctx context.Context, caller ports.Identity, patch ports.ProfilePatch) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	if patch.Role != nil && *patch.Role != user.Role {
		if !domain.ValidRole(*patch.Role) {
			return nil, fmt.Errorf("update profile: %w (role must be client or technician)", domain.ErrValidation)
		}
		active, err := s.requests.HasActive(ctx, caller.UserID)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
		if active {
			return nil, fmt.Errorf("update profile: %w (cannot change role with open requests)", domain.ErrConflict)
		}
		user.Role = *patch.Role
	}

	if patch.Name != nil {
		name := sanitize.Text(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("update profile: %w (name cannot be empty)", domain.ErrValidation)
		}
		user.Name = name
	}
	if patch.Phone != nil {
		user.Phone = sanitize.Text(*patch.Phone)
	}
	if patch.Bio != nil {
		user.Bio = sanitize.Text(*patch.Bio)
	}
	if patch.Image != nil {
		user.Image = sanitize.Text(*patch.Image)
	}
	if patch.Skills != nil {
		user.Skills = sanitize.Slice(*patch.Skills)
	}
	if patch.Available != nil {
		user.Available = *patch.Available
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("profile updated")
	return user, nil
}
