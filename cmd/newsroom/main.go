package main

import (
	"context"
	"log"

	"newsroom/internal/config"
	"newsroom/internal/domain"
	"newsroom/internal/infra/auth/jwt"
	"newsroom/internal/infra/auth/rbac"
	"newsroom/internal/infra/cache"
	"newsroom/internal/infra/db"
	httpinfra "newsroom/internal/infra/http"
	"newsroom/internal/infra/kv"
	"newsroom/internal/infra/policy"
	"newsroom/internal/infra/ratelimit"
	"newsroom/internal/usecase"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg := config.FromEnv()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	store, err := db.NewStore(cfg)
	if err != nil {
		logger.Fatal("failed to init store", zap.Error(err))
	}
	if store.DB != nil {
		if err := store.Migrate(); err != nil {
			logger.Fatal("failed to migrate", zap.Error(err))
		}
		defer store.Close()
	} else {
		logger.Warn("POSTGRES_DSN not set; starting in no-db mode")
	}

	var kvStore domain.KeyValueStore
	cacheStore := "memory"
	if cfg.RedisAddr != "" {
		redisStore, err := kv.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("failed to init redis", zap.Error(err))
		}
		defer redisStore.Close()
		kvStore = redisStore
		cacheStore = "redis"
	} else {
		logger.Warn("REDIS_ADDR not set; using in-process key-value store")
		kvStore = kv.NewMemory(nil)
	}

	authenticator, err := jwt.New(cfg.JWTSecret, cfg.TokenTTL(), nil)
	if err != nil {
		logger.Fatal("failed to init authenticator", zap.Error(err))
	}

	var authorizer domain.Authorizer
	switch cfg.AuthzMode {
	case "opa":
		engine, err := policy.NewEngineFromPath(context.Background(), cfg.AuthzPolicyPath)
		if err != nil {
			logger.Fatal("failed to init authz policy", zap.Error(err))
		}
		authorizer = engine
	default:
		authorizer = rbac.NewAuthorizer()
	}

	contentCache := cache.New(kvStore)
	limiter := ratelimit.New(kvStore, nil)
	userRepo := db.NewUserRepository(store.DB)
	articleRepo := db.NewArticleRepository(store.DB)

	srv := httpinfra.NewServer(cfg, logger, httpinfra.ServerDeps{
		Users:         usecase.NewUserService(userRepo, contentCache, authenticator, cfg.CacheTTL()),
		Articles:      usecase.NewArticleService(articleRepo, contentCache, cfg.CacheTTL()),
		UserLookup:    userRepo,
		Authenticator: authenticator,
		Authorizer:    authorizer,
		RateLimiter:   limiter,
		DBReady:       store.DB != nil,
		CacheStore:    cacheStore,
	})

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := srv.Run(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	return cfg.Build()
}
