package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
	"github.com/handyhub/marketplace-system/pkg/sanitize"
)

// AuthService implements registration and login. New accounts carry no role;
// the role is chosen later through onboarding.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = sanitize.Text(name)
	if email == "" || password == "" || name == "" {
		return nil, fmt.Errorf("register: %w (email, password and name are required)", domain.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("register: %w (password must be at least 8 characters)", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// An unknown email reads the same as a wrong password.
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"role":  user.Role,
		"email": user.Email,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
