package domain

import (
	"errors"
	"time"
)

const (
	RoleClient     = "client"
	RoleTechnician = "technician"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User models a registered marketplace actor. Role is empty until onboarding
// and then names exactly one of the two marketplace roles. Skills and the
// availability flag carry technician semantics only; they are inert on client
// profiles.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Name         string    `json:"name" bson:"name"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Bio          string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Image        string    `json:"image,omitempty" bson:"image,omitempty"`
	Role         string    `json:"role,omitempty" bson:"role,omitempty"`
	Skills       []string  `json:"skills,omitempty" bson:"skills,omitempty"`
	Available    bool      `json:"available" bson:"available"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// ValidRole reports whether r names a marketplace role.
func ValidRole(r string) bool {
	return r == RoleClient || r == RoleTechnician
}
