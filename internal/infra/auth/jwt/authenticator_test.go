package jwt

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsroom/internal/domain"
)

func TestAuthenticator_RoundTrip(t *testing.T) {
	auth, err := New("test-secret", time.Hour, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	token, err := auth.Issue(domain.User{Email: "editor@example.com", Role: domain.RoleEditor})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	principal, err := auth.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if principal.Subject != "editor@example.com" {
		t.Fatalf("expected subject editor@example.com, got %s", principal.Subject)
	}
	if principal.Role != domain.RoleEditor {
		t.Fatalf("expected role editor, got %s", principal.Role)
	}
	if principal.TokenID == "" {
		t.Fatalf("expected a token id")
	}
}

func TestAuthenticator_ExpiredToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	auth, err := New("test-secret", time.Hour, clock)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	token, err := auth.Issue(domain.User{Email: "user@example.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = now.Add(2 * time.Hour)
	_, err = auth.Authenticate(context.Background(), token)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestAuthenticator_WrongSecret(t *testing.T) {
	issuer, _ := New("secret-a", time.Hour, nil)
	verifier, _ := New("secret-b", time.Hour, nil)

	token, err := issuer.Issue(domain.User{Email: "user@example.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for wrong secret, got %v", err)
	}
}

func TestAuthenticator_GarbageToken(t *testing.T) {
	auth, _ := New("test-secret", time.Hour, nil)
	if _, err := auth.Authenticate(context.Background(), "not.a.token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for garbage token, got %v", err)
	}
}

func TestAuthenticator_RequiresSecret(t *testing.T) {
	if _, err := New("", time.Hour, nil); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
