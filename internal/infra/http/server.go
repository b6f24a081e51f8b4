package http

import (
	"net/http"
	"time"

	"newsroom/internal/config"
	"newsroom/internal/domain"
	"newsroom/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg config.Config
	log *zap.Logger
	r   *gin.Engine

	users    *usecase.UserService
	articles *usecase.ArticleService

	// userLookup reloads the caller's current role on every guarded
	// request; authorization decisions are never cached across requests.
	userLookup    domain.UserRepository
	authenticator domain.Authenticator
	authorizer    domain.Authorizer

	limiter           domain.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration

	dbReady    bool
	cacheStore string
}

type ServerDeps struct {
	Users         *usecase.UserService
	Articles      *usecase.ArticleService
	UserLookup    domain.UserRepository
	Authenticator domain.Authenticator
	Authorizer    domain.Authorizer
	RateLimiter   domain.RateLimiter
	DBReady       bool
	CacheStore    string
}

func NewServer(cfg config.Config, log *zap.Logger, deps ServerDeps) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	s := &Server{
		cfg:               cfg,
		log:               log,
		r:                 r,
		users:             deps.Users,
		articles:          deps.Articles,
		userLookup:        deps.UserLookup,
		authenticator:     deps.Authenticator,
		authorizer:        deps.Authorizer,
		limiter:           deps.RateLimiter,
		rateLimitRequests: cfg.RateLimitRequests,
		rateLimitWindow:   cfg.RateLimitWindow(),
		dbReady:           deps.DBReady,
		cacheStore:        deps.CacheStore,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.dbReady {
			dbMode = "db"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbMode, "cache": s.cacheStore})
	})

	auth := s.r.Group("/auth")
	{
		auth.POST("/register", s.rateLimit(), s.handleRegister)
		auth.POST("/login", s.rateLimit(), s.handleLogin)
	}

	articles := s.r.Group("/articles")
	{
		articles.GET("", s.handleListArticles)
		articles.GET("/:id", s.handleGetArticle)
		articles.POST("", s.authenticate(), s.requirePermission(domain.PermArticlesCreate), s.handleCreateArticle)
		articles.PUT("/:id", s.authenticate(), s.handleUpdateArticle)
		articles.DELETE("/:id", s.authenticate(), s.handleDeleteArticle)
	}

	user := s.r.Group("/user", s.authenticate())
	{
		user.GET("/profile/:email", s.requirePermission(domain.PermProfileRead), s.handleProfile)
	}

	admin := s.r.Group("/admin", s.authenticate())
	{
		admin.GET("/users", s.requirePermission(domain.PermUsersList), s.handleListUsers)
		admin.POST("/promote", s.requirePermission(domain.PermUsersPromote), s.handlePromoteUser)
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
