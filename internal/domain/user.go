package domain

import (
	"context"
	"fmt"
	"time"
)

// Role is the closed set of roles a user can hold. Exactly one role per
// identity; privileged operations check membership in a per-operation
// allow-set rather than comparing raw strings.
type Role string

const (
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleEditor, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", s, ErrValidation)
	}
}

// Permission names a guarded operation. Allow-sets live in the authorizer.
type Permission string

const (
	PermUsersList      Permission = "admin:users:list"
	PermUsersPromote   Permission = "admin:users:promote"
	PermArticlesCreate Permission = "articles:create"
	PermProfileRead    Permission = "profile:read"
)

type User struct {
	ID           uint
	Email        string
	PasswordHash string
	// External marks accounts provisioned by a third-party identity
	// provider; they carry no local password.
	External  bool
	Role      Role
	CreatedAt time.Time
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, email string, role Role) error
}
