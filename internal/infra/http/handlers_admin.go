package http

import (
	"fmt"
	"net/http"

	"newsroom/internal/domain"

	"github.com/gin-gonic/gin"
)

type promoteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type userSummary struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	summaries := make([]userSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, userSummary{Email: user.Email, Role: user.Role})
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) handlePromoteUser(c *gin.Context) {
	var req promoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	user, err := s.users.Promote(c.Request.Context(), req.Email, role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("user %s promoted to %s", user.Email, user.Role),
	})
}

func (s *Server) handleProfile(c *gin.Context) {
	view, err := s.users.Profile(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
