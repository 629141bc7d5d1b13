package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/vidtube/backend/internal/handlers"
	"github.com/anonto42/vidtube/backend/internal/router"
	"github.com/anonto42/vidtube/backend/pkg/config"
	"github.com/anonto42/vidtube/backend/pkg/firebase"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/anonto42/vidtube/backend/validators"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	l, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.WithError(err).Fatal("failed to build logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg, l)
	if err != nil {
		l.WithError(err).Fatal("failed to initialize databases")
	}
	defer db.CloseDB()

	var firebaseApp *firebase.App
	if cfg.NeedsFirebase() {
		firebaseApp, err = firebase.InitFirebase(ctx, firebase.Options{
			CredentialsPath: cfg.FirebaseCredentialsPath,
			StorageBucket:   cfg.FirebaseStorageBucket,
			WithAuth:        cfg.AuthProvider == "firebase",
		}, l)
		if err != nil {
			l.WithError(err).Fatal("failed to initialize firebase")
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler

	config.SetupMiddleware(e, l, cfg)

	views, err := router.SetupRoutes(ctx, e, router.Deps{
		Config:   cfg,
		DB:       db,
		Firebase: firebaseApp,
		Log:      l,
	})
	if err != nil {
		l.WithError(err).Fatal("failed to set up routes")
	}

	go func() {
		l.WithFields(log.Fields{"port": cfg.Port, "env": cfg.Env}).Info("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		l.WithError(err).Error("failed to shut down server")
	}
	if err := views.Drain(shutdownCtx); err != nil {
		l.WithError(err).Warn("best-effort work still running at shutdown")
	}
}
