package rbac

import (
	"context"
	"fmt"

	"newsroom/internal/domain"
)

// defaultAllowSets is the closed permission-to-roles mapping. Sets are
// exact: an editor-only operation denies admins too, matching the observed
// per-operation role checks rather than a role hierarchy.
var defaultAllowSets = map[domain.Permission][]domain.Role{
	domain.PermUsersList:      {domain.RoleAdmin},
	domain.PermUsersPromote:   {domain.RoleAdmin},
	domain.PermArticlesCreate: {domain.RoleEditor},
	domain.PermProfileRead:    {domain.RoleUser, domain.RoleEditor, domain.RoleAdmin},
}

type Authorizer struct {
	allow map[domain.Permission]map[domain.Role]bool
}

func NewAuthorizer() *Authorizer {
	allow := make(map[domain.Permission]map[domain.Role]bool, len(defaultAllowSets))
	for permission, roles := range defaultAllowSets {
		set := make(map[domain.Role]bool, len(roles))
		for _, role := range roles {
			set[role] = true
		}
		allow[permission] = set
	}
	return &Authorizer{allow: allow}
}

func (a *Authorizer) Require(_ context.Context, principal domain.Principal, permission domain.Permission) error {
	if principal.Subject == "" {
		return domain.ErrUnauthorized
	}
	if permission == "" {
		return nil
	}
	roles, ok := a.allow[permission]
	if !ok {
		return fmt.Errorf("unknown permission %s: %w", permission, domain.ErrForbidden)
	}
	if !roles[principal.Role] {
		return fmt.Errorf("role %s lacks %s: %w", principal.Role, permission, domain.ErrForbidden)
	}
	return nil
}

var _ domain.Authorizer = (*Authorizer)(nil)
