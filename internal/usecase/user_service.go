package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsroom/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// ProfileView is the cached shape of a user profile.
type ProfileView struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type UserService struct {
	users    domain.UserRepository
	cache    ContentCache
	tokens   domain.TokenIssuer
	cacheTTL time.Duration
}

func NewUserService(users domain.UserRepository, cache ContentCache, tokens domain.TokenIssuer, cacheTTL time.Duration) *UserService {
	return &UserService{users: users, cache: cache, tokens: tokens, cacheTTL: cacheTTL}
}

// normalizeEmail folds an address to the canonical form used for storage
// and cache keys, so lookups and invalidations agree regardless of how the
// caller cased it.
func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *UserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password collapse into the same invalid-credentials failure.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	if user.External || user.PasswordHash == "" {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.tokens.Issue(*user)
}

// Profile reads a user's public profile through the cache.
func (s *UserService) Profile(ctx context.Context, email string) (ProfileView, error) {
	email = normalizeEmail(email)
	payload, err := s.cache.GetOrCompute(ctx, profileCacheKey(email), s.cacheTTL, func(ctx context.Context) ([]byte, error) {
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return json.Marshal(ProfileView{Email: user.Email, Role: user.Role})
	})
	if err != nil {
		return ProfileView{}, err
	}
	var view ProfileView
	if err := json.Unmarshal(payload, &view); err != nil {
		return ProfileView{}, fmt.Errorf("decode cached profile: %w", err)
	}
	return view, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Promote assigns a new role, then invalidates the cached profile before
// returning so a read after the acknowledged promotion never sees the old
// role.
func (s *UserService) Promote(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateRole(ctx, email, role); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, profileCacheKey(email)); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
