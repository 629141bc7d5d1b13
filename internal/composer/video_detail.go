package composer

import (
	"context"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/viewer"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// VideoDetail composes the page of a published video for v.
// The video (with comments and channel) and the like aggregates are read
// concurrently under one deadline; any failed join fails the whole view.
// On success the view count and the viewer's watch history are bumped in
// the background.
func (c *Composer) VideoDetail(ctx context.Context, videoID string, v viewer.Viewer) (*models.VideoDetailView, error) {
	id, err := repositories.ParseID(videoID)
	if err != nil {
		return nil, apperrors.InvalidArg("invalid video id")
	}
	target, err := models.NewLikeTarget(models.TargetVideo, id)
	if err != nil {
		return nil, apperrors.InvalidArg(err.Error())
	}
	viewerID, hasViewer := v.ID()

	cctx, cancel := c.withDeadline(ctx)
	defer cancel()

	var (
		view       *models.VideoDetailView
		likesCount int64
		isLiked    bool
	)
	g, gctx := errgroup.WithContext(cctx)
	g.Go(func() error {
		var err error
		view, err = c.videos.VideoDetail(gctx, id, viewerID, hasViewer)
		return err
	})
	g.Go(func() error {
		var err error
		likesCount, err = c.likes.CountLikes(gctx, target)
		return err
	})
	if hasViewer {
		g.Go(func() error {
			var err error
			isLiked, err = c.likes.HasLiked(gctx, viewerID, target)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeError(err, "video not found")
	}

	view.LikesCount = likesCount
	view.IsLiked = isLiked

	fields := log.Fields{"video_id": id.Hex()}
	c.effects.Go(ctx, "increment_views", fields, func(ctx context.Context) error {
		return c.videos.IncrementViews(ctx, id)
	})
	if hasViewer {
		fields := log.Fields{"video_id": id.Hex(), "user_id": viewerID.Hex()}
		c.effects.Go(ctx, "watch_history", fields, func(ctx context.Context) error {
			return c.users.AddToWatchHistory(ctx, viewerID, id)
		})
	}

	return view, nil
}
