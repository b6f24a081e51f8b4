package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsroom/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Authenticator issues and validates HMAC-signed bearer tokens. The token
// is credential validation only: it binds a subject (email) to a signature.
// Guards reload the subject's current role from the user store on every
// request, so a token outliving a role change does not grant the old role.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func New(secret string, ttl time.Duration, now func() time.Time) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if now == nil {
		now = time.Now
	}
	return &Authenticator{secret: []byte(secret), ttl: ttl, now: now}, nil
}

func (a *Authenticator) Issue(user domain.User) (string, error) {
	issuedAt := a.now()
	claims := tokenClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *Authenticator) Authenticate(_ context.Context, bearerToken string) (domain.Principal, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(bearerToken, claims,
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("parse token: %v: %w", err, domain.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return domain.Principal{}, fmt.Errorf("token without subject: %w", domain.ErrUnauthorized)
	}
	return domain.Principal{
		Subject: claims.Subject,
		Role:    domain.Role(claims.Role),
		TokenID: claims.ID,
	}, nil
}

var (
	_ domain.Authenticator = (*Authenticator)(nil)
	_ domain.TokenIssuer   = (*Authenticator)(nil)
)
