package http

import (
	"errors"
	"net/http"
	"strings"

	"newsroom/internal/domain"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

// authenticate resolves the bearer token to a principal and loads the
// caller's user record fresh from the store, so role changes take effect on
// the next request regardless of what the token claims.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			return
		}
		principal, err := s.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid bearer token")
			return
		}
		user, err := s.userLookup.GetByEmail(c.Request.Context(), principal.Subject)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "unknown identity")
				return
			}
			writeError(c, err)
			return
		}
		c.Set(currentUserKey, *user)
		c.Next()
	}
}

func (s *Server) requirePermission(permission domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
			return
		}
		principal := domain.Principal{Subject: user.Email, Role: user.Role}
		if err := s.authorizer.Require(c.Request.Context(), principal, permission); err != nil {
			writeError(c, err)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (domain.User, bool) {
	raw, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := raw.(domain.User)
	return user, ok
}

func extractBearerToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(value), "bearer ") {
		return ""
	}
	return strings.TrimSpace(value[len("bearer "):])
}
