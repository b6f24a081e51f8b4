package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	LogLevel    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	TokenTTLSeconds int

	CacheTTLSeconds int

	RateLimitRequests      int
	RateLimitWindowSeconds int

	AuthzMode       string
	AuthzPolicyPath string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:               addr,
		PostgresDSN:            os.Getenv("POSTGRES_DSN"),
		LogLevel:               envDefault("LOG_LEVEL", "info"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                envIntDefault("REDIS_DB", 0),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		TokenTTLSeconds:        envIntDefault("TOKEN_TTL_SECONDS", 3600),
		CacheTTLSeconds:        envIntDefault("CACHE_TTL_SECONDS", 3600),
		RateLimitRequests:      envIntDefault("RATE_LIMIT_REQUESTS", 5),
		RateLimitWindowSeconds: envIntDefault("RATE_LIMIT_WINDOW_SECONDS", 60),
		AuthzMode:              envDefault("AUTHZ_MODE", "rbac"),
		AuthzPolicyPath:        os.Getenv("AUTHZ_POLICY_PATH"),
	}
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
