package http

import (
	"net/http"
	"strconv"
	"time"

	"newsroom/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// rateLimit guards an endpoint by the caller's network address. It runs
// before authentication: a throttled request is short-circuited with no
// side effects.
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil || s.rateLimitRequests <= 0 {
			c.Next()
			return
		}
		decision, err := s.limiter.Allow(c.Request.Context(), c.ClientIP(), s.rateLimitRequests, s.rateLimitWindow)
		if err != nil {
			s.log.Warn("rate limiter unavailable", zap.Error(err))
			writeError(c, err)
			return
		}
		writeRateLimitHeaders(c, decision)
		if !decision.Allowed {
			writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
			return
		}
		c.Next()
	}
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}
