package ports

import (
	"context"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

// AuthService implements registration and login. Registered users start with
// no role; the role is chosen later through onboarding.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	// Login verifies credentials and returns a signed token plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
