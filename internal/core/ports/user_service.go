package ports

import (
	"context"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

// OnboardingInput carries the one-time role selection. Skills, Phone and Bio
// are optional and only meaningful for technicians.
type OnboardingInput struct {
	Role   string
	Skills []string
	Phone  string
	Bio    string
}

// ProfilePatch is a partial profile update; nil fields are left untouched.
type ProfilePatch struct {
	Name      *string
	Phone     *string
	Bio       *string
	Image     *string
	Role      *string
	Skills    *[]string
	Available *bool
}

// UserService owns profile reads and mutations.
type UserService interface {
	Get(ctx context.Context, caller Identity) (*domain.User, error)
	// Onboard assigns the caller's role exactly once; a second call fails with
	// domain.ErrInvalidState.
	Onboard(ctx context.Context, caller Identity, in OnboardingInput) (*domain.User, error)
	// UpdateProfile applies a partial profile merge. A role change is refused
	// with domain.ErrConflict while the user has active service requests.
	UpdateProfile(ctx context.Context, caller Identity, patch ProfilePatch) (*domain.User, error)
}
