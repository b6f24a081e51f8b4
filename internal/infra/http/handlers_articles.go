package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type createArticleRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type updateArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleCreateArticle(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	user, ok := currentUser(c)
	if !ok {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	article, err := s.articles.Create(c.Request.Context(), user, req.Title, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "article created", "id": article.ID})
}

func (s *Server) handleListArticles(c *gin.Context) {
	views, err := s.articles.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleGetArticle(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		return
	}
	view, err := s.articles.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleUpdateArticle(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		return
	}
	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	user, ok := currentUser(c)
	if !ok {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	article, err := s.articles.Update(c.Request.Context(), user, id, req.Title, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article updated", "id": article.ID})
}

func (s *Server) handleDeleteArticle(c *gin.Context) {
	id, ok := articleID(c)
	if !ok {
		return
	}
	user, ok := currentUser(c)
	if !ok {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	if err := s.articles.Delete(c.Request.Context(), user, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

func articleID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		writeErrorCode(c, http.StatusBadRequest, "VALIDATION_FAILED", "article id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}
