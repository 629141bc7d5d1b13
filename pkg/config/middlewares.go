package config

import (
	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// SetupMiddleware installs the global middleware chain
func SetupMiddleware(e *echo.Echo, l *log.Logger, cfg *Config) {
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.ContextLogger(l))
	e.Use(middleware.RequestLogger(l))
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RateLimiter(echoMiddleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimitRPS))))
}
