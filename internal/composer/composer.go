// Package composer assembles denormalized, viewer-aware read models from the
// independent video, user, like, comment and subscription collections.
package composer

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoReader is the part of the video store the composer reads and bumps
type VideoReader interface {
	VideoDetail(ctx context.Context, id, viewerID primitive.ObjectID, hasViewer bool) (*models.VideoDetailView, error)
	CountFeed(ctx context.Context, q repositories.FeedQuery) (int64, error)
	Feed(ctx context.Context, q repositories.FeedQuery, skip, limit int64) ([]models.VideoSummary, error)
	SummariesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.VideoSummary, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
}

// HistoryStore keeps per-user watch history
type HistoryStore interface {
	AddToWatchHistory(ctx context.Context, userID, videoID primitive.ObjectID) error
	WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// TweetReader lists a user's tweets with the owner joined
type TweetReader interface {
	TweetsByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.TweetView, error)
}

// LikeReader is the read side of the like store
type LikeReader interface {
	HasLiked(ctx context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error)
	CountLikes(ctx context.Context, target models.LikeTarget) (int64, error)
	ListLikes(ctx context.Context, likedBy primitive.ObjectID, kind models.TargetKind) ([]models.Like, error)
}

// Options tune the composer
type Options struct {
	// ComposeTimeout bounds one composed view, all joins included
	ComposeTimeout time.Duration
}

// Composer builds video detail pages and feeds
type Composer struct {
	videos  VideoReader
	users   HistoryStore
	tweets  TweetReader
	likes   LikeReader
	effects *SideEffects
	timeout time.Duration
}

// New creates a Composer
func New(videos VideoReader, users HistoryStore, tweets TweetReader, likes LikeReader, effects *SideEffects, opts Options) *Composer {
	if opts.ComposeTimeout <= 0 {
		opts.ComposeTimeout = 5 * time.Second
	}
	return &Composer{
		videos:  videos,
		users:   users,
		tweets:  tweets,
		likes:   likes,
		effects: effects,
		timeout: opts.ComposeTimeout,
	}
}

// Drain waits for the composer's best-effort writes to finish
func (c *Composer) Drain(ctx context.Context) error {
	return c.effects.Drain(ctx)
}

func (c *Composer) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// storeError classifies a store failure for the caller. notFound is the
// message used when the store reports a missing document.
func storeError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NotFound(notFound)
	case errors.Is(err, repositories.ErrInvalidID):
		return apperrors.InvalidArg("invalid id")
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Internal("request timed out", err)
	default:
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Internal("something went wrong", err)
	}
}
