package http

import (
	"errors"
	"net/http"

	"newsroom/internal/domain"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Code: code, Message: message})
}

// writeError maps the domain error taxonomy onto response statuses. Every
// failure reaches the caller as a distinct status; nothing is retried or
// swallowed here.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		writeErrorCode(c, http.StatusConflict, "EMAIL_TAKEN", "email already registered")
	case errors.Is(err, domain.ErrValidation):
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeErrorCode(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, domain.ErrUnauthorized):
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
	case errors.Is(err, domain.ErrNotFound):
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, domain.ErrRateLimited):
		writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
	case errors.Is(err, domain.ErrDependencyUnavailable):
		writeErrorCode(c, http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", "a backing service is unavailable")
	default:
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
