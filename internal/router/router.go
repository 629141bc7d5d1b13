package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/vidtube/backend/internal/composer"
	"github.com/anonto42/vidtube/backend/internal/handlers"
	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/reactions"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/storage"
	"github.com/anonto42/vidtube/backend/pkg/config"
	"github.com/anonto42/vidtube/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deps are the process-wide resources the routes are built from
type Deps struct {
	Config   *config.Config
	DB       *config.DB
	Firebase *firebase.App // nil unless the config needs firebase
	Log      *log.Logger
}

// SetupRoutes builds the stores and services and registers every route.
// The returned composer must be drained on shutdown.
func SetupRoutes(ctx context.Context, e *echo.Echo, d Deps) (*composer.Composer, error) {
	cfg := d.Config
	db := d.DB.Database

	search := repositories.SearchOptions{
		Mode:  repositories.SearchMode(cfg.SearchMode),
		Index: cfg.SearchIndex,
	}
	if err := repositories.EnsureIndexes(ctx, db, search.Mode); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	d.Log.Info("mongo indexes ensured")

	// --- Initialize Repositories ---
	videoRepo := repositories.NewMongoVideoRepository(db, search)
	userRepo := repositories.NewMongoUserRepository(db)
	tweetRepo := repositories.NewMongoTweetRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	subscriptionRepo := repositories.NewMongoSubscriptionRepository(db)
	targets := repositories.NewMongoTargetChecker(db)

	likeRepo, err := newLikeRepository(ctx, cfg, d.DB)
	if err != nil {
		return nil, err
	}
	blobs, media, err := newBlobStore(ctx, cfg, db, d.Firebase)
	if err != nil {
		return nil, err
	}
	viewerMiddleware, err := newViewerMiddleware(cfg, d.Firebase, userRepo)
	if err != nil {
		return nil, err
	}

	// --- Services ---
	effects := composer.NewSideEffects(cfg.SideEffectTimeout)
	views := composer.New(videoRepo, userRepo, tweetRepo, likeRepo, effects, composer.Options{
		ComposeTimeout: cfg.ComposeTimeout,
	})
	engine := reactions.NewEngine(likeRepo, subscriptionRepo, targets)

	e.GET("/health", handlers.HealthCheck(d.DB.Mongo))
	if media != nil {
		e.GET("/media/:publicId", handlers.NewMediaHandler(media).GetMedia)
		d.Log.Info("GridFS media route configured")
	}

	// Every /api/v1 route resolves the viewer; authRequired rejects anonymous
	// callers on the routes that need one.
	api := e.Group("/api/v1", viewerMiddleware)
	authRequired := middleware.RequireViewer()

	handlers.NewVideoHandler(views, videoRepo, likeRepo, blobs, effects).RegisterVideoRoutes(api, authRequired)
	handlers.NewCommentHandler(commentRepo, videoRepo).RegisterCommentRoutes(api, authRequired)
	handlers.NewTweetHandler(views, tweetRepo, likeRepo, effects).RegisterTweetRoutes(api, authRequired)

	protected := api.Group("", authRequired)
	handlers.NewLikeHandler(engine, views).RegisterLikeRoutes(protected)
	handlers.NewSubscriptionHandler(engine).RegisterSubscriptionRoutes(protected)
	handlers.NewUserHandler(userRepo, views).RegisterUserRoutes(protected)

	d.Log.WithFields(log.Fields{
		"like_store":    cfg.LikeStore,
		"blob_store":    cfg.BlobStore,
		"auth_provider": cfg.AuthProvider,
		"search_mode":   cfg.SearchMode,
	}).Info("routes configured")
	return views, nil
}

func newLikeRepository(ctx context.Context, cfg *config.Config, db *config.DB) (repositories.LikeRepository, error) {
	if cfg.LikeStore != "postgres" {
		return repositories.NewMongoLikeRepository(db.Database), nil
	}
	if db.Postgres == nil {
		return nil, errors.New("postgres like store selected but no postgres connection")
	}
	repo := repositories.NewPostgresLikeRepository(db.Postgres)
	if err := repo.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate likes table: %w", err)
	}
	return repo, nil
}

// newBlobStore returns the blob store and, for GridFS, the opener behind the
// media route
func newBlobStore(ctx context.Context, cfg *config.Config, db *mongo.Database, app *firebase.App) (storage.BlobStore, handlers.AssetOpener, error) {
	if cfg.BlobStore == "firebase" {
		if app == nil {
			return nil, nil, errors.New("firebase blob store selected but firebase is not initialized")
		}
		store, err := storage.NewFirebaseStore(ctx, app.FirebaseApp, cfg.FirebaseStorageBucket)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open firebase storage: %w", err)
		}
		return store, nil, nil
	}

	store, err := storage.NewGridFSStore(db, cfg.MediaBaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open GridFS bucket: %w", err)
	}
	return store, store, nil
}

func newViewerMiddleware(cfg *config.Config, app *firebase.App, users middleware.FirebaseUserLookup) (echo.MiddlewareFunc, error) {
	if cfg.AuthProvider == "firebase" {
		if app == nil || app.AuthClient == nil {
			return nil, errors.New("firebase auth selected but the auth client is not initialized")
		}
		return middleware.FirebaseViewer(app.AuthClient, users), nil
	}
	return middleware.JWTViewer(cfg.JWTSecret), nil
}
