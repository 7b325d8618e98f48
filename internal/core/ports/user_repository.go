package ports

import (
	"context"

	"github.com/handyhub/marketplace-system/internal/core/domain"
)

// UserRepository defines persistence operations for marketplace users.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields domain.ErrEmailTaken.
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update replaces the stored user document.
	Update(ctx context.Context, u *domain.User) error
}
