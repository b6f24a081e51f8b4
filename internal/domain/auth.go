package domain

import "context"

// Principal is a caller identity resolved from a validated bearer credential.
// Role is whatever the token carried at issue time; guards reload the current
// role from the user store before deciding.
type Principal struct {
	Subject string
	Role    Role
	TokenID string
}

type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Principal, error)
}

type TokenIssuer interface {
	Issue(user User) (string, error)
}

type Authorizer interface {
	Require(ctx context.Context, principal Principal, permission Permission) error
}
