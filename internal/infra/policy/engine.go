package policy

import (
	"context"
	"errors"
	"fmt"

	"newsroom/internal/domain"

	"github.com/open-policy-agent/opa/rego"
)

const allowQuery = "data.newsroom.authz.allow"

// defaultModule mirrors the static allow-sets so operators who do not ship
// their own policy get the same decisions as the rbac authorizer.
const defaultModule = `package newsroom.authz

default allow = false

allowed_roles := {
	"admin:users:list": {"admin"},
	"admin:users:promote": {"admin"},
	"articles:create": {"editor"},
	"profile:read": {"user", "editor", "admin"},
}

allow {
	allowed_roles[input.permission][input.role]
}
`

// Engine evaluates authorization decisions through a Rego policy, either
// the embedded default or an operator-supplied policy file. The policy sees
// {role, permission} and must yield a boolean at data.newsroom.authz.allow.
type Engine struct {
	query rego.PreparedEvalQuery
}

func NewEngine(ctx context.Context) (*Engine, error) {
	return prepare(ctx, rego.Module("authz.rego", defaultModule))
}

func NewEngineFromPath(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx)
	}
	return prepare(ctx, rego.Load([]string{path}, nil))
}

func prepare(ctx context.Context, source func(*rego.Rego)) (*Engine, error) {
	r := rego.New(
		rego.Query(allowQuery),
		rego.StrictBuiltinErrors(true),
		source,
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare authz policy: %w", err)
	}
	return &Engine{query: prepared}, nil
}

func (e *Engine) Require(ctx context.Context, principal domain.Principal, permission domain.Permission) error {
	if principal.Subject == "" {
		return domain.ErrUnauthorized
	}
	if permission == "" {
		return nil
	}
	input := map[string]any{
		"role":       string(principal.Role),
		"permission": string(permission),
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return fmt.Errorf("evaluate authz policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return errors.New("empty authz policy result")
	}
	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return errors.New("authz policy result is not a boolean")
	}
	if !allowed {
		return fmt.Errorf("role %s lacks %s: %w", principal.Role, permission, domain.ErrForbidden)
	}
	return nil
}

var _ domain.Authorizer = (*Engine)(nil)
