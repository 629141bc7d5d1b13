package handlers

import (
	"context"

	"github.com/anonto42/vidtube/backend/internal/composer"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/reactions"
	"github.com/anonto42/vidtube/backend/internal/viewer"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ViewComposer builds the read models served by the handlers
type ViewComposer interface {
	VideoDetail(ctx context.Context, videoID string, v viewer.Viewer) (*models.VideoDetailView, error)
	VideoFeed(ctx context.Context, req models.VideoFeedRequest) (*composer.VideoFeedPage, error)
	LikedVideos(ctx context.Context, v viewer.Viewer) ([]models.VideoSummary, error)
	WatchHistory(ctx context.Context, v viewer.Viewer) ([]models.VideoSummary, error)
	UserTweets(ctx context.Context, userID string) ([]models.TweetView, error)
}

// Toggler flips likes and subscriptions
type Toggler interface {
	Toggle(ctx context.Context, kind models.TargetKind, targetID string, v viewer.Viewer) (reactions.LikeResult, error)
	ToggleSubscription(ctx context.Context, channelID string, v viewer.Viewer) (reactions.SubscriptionResult, error)
}

// VideoStore is the single-document side of the video store
type VideoStore interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideoByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	UpdateVideo(ctx context.Context, id primitive.ObjectID, patch models.VideoPatch) (*models.Video, error)
	DeleteVideo(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
}

// LikeCleaner removes the likes of a deleted document
type LikeCleaner interface {
	DeleteLikesForTarget(ctx context.Context, target models.LikeTarget) (int64, error)
}

// BestEffort runs background mutations whose failures are only logged
type BestEffort interface {
	Go(ctx context.Context, op string, fields log.Fields, fn func(ctx context.Context) error)
}

func currentViewer(ctx context.Context) viewer.Viewer {
	return viewer.FromContext(ctx)
}
