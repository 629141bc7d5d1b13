package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/storage"
	"github.com/anonto42/vidtube/backend/validators"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

// VideoHandler handles HTTP requests related to videos
type VideoHandler struct {
	composer ViewComposer
	videos   VideoStore
	likes    LikeCleaner
	blobs    storage.BlobStore
	effects  BestEffort
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(composer ViewComposer, videos VideoStore, likes LikeCleaner, blobs storage.BlobStore, effects BestEffort) *VideoHandler {
	return &VideoHandler{
		composer: composer,
		videos:   videos,
		likes:    likes,
		blobs:    blobs,
		effects:  effects,
	}
}

// RegisterVideoRoutes registers video-related routes. auth guards the
// mutating routes.
func (h *VideoHandler) RegisterVideoRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/videos", h.GetVideos)
	g.GET("/videos/:videoId", h.GetVideo)
	g.POST("/videos", h.PublishVideo, auth)
	g.PATCH("/videos/:videoId", h.UpdateVideo, auth)
	g.DELETE("/videos/:videoId", h.DeleteVideo, auth)
	g.PATCH("/videos/:videoId/publish", h.TogglePublishStatus, auth)
}

// GetVideos returns a page of the published video feed
func (h *VideoHandler) GetVideos(c echo.Context) error {
	var req models.VideoFeedRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return apperrors.InvalidArg("invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.InvalidArg(validators.Message(err))
	}

	page, err := h.composer.VideoFeed(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, page, "Videos fetched successfully")
}

// GetVideo returns the detail view of a published video
func (h *VideoHandler) GetVideo(c echo.Context) error {
	ctx := c.Request().Context()
	view, err := h.composer.VideoDetail(ctx, c.Param("videoId"), currentViewer(ctx))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, view, "Video fetched successfully")
}

// PublishVideo uploads a video and its thumbnail and creates the video
func (h *VideoHandler) PublishVideo(c echo.Context) error {
	ctx := c.Request().Context()
	ownerID, _ := currentViewer(ctx).ID()

	var req models.PublishVideoRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArg("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.InvalidArg(validators.Message(err))
	}
	published := true
	if req.IsPublished != "" {
		published, _ = strconv.ParseBool(req.IsPublished)
	}

	videoFile, err := c.FormFile("videoFile")
	if err != nil {
		return apperrors.InvalidArg("videoFile is required")
	}
	thumbnailFile, err := c.FormFile("thumbnail")
	if err != nil {
		return apperrors.InvalidArg("thumbnail is required")
	}

	thumbnail, err := h.upload(ctx, storage.KindImage, thumbnailFile)
	if err != nil {
		return apperrors.Internal("failed to upload thumbnail", err)
	}
	asset, err := h.upload(ctx, storage.KindVideo, videoFile)
	if err != nil {
		h.deleteAsset(ctx, thumbnail, storage.KindImage)
		return apperrors.Internal("failed to upload video", err)
	}

	video := &models.Video{
		OwnerID:         ownerID,
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		VideoFile:       asset,
		Thumbnail:       thumbnail,
		DurationSeconds: req.Duration,
		IsPublished:     published,
	}
	if err := h.videos.CreateVideo(ctx, video); err != nil {
		h.deleteAsset(ctx, thumbnail, storage.KindImage)
		h.deleteAsset(ctx, asset, storage.KindVideo)
		return storeError(err, "video not found")
	}

	return respond(c, http.StatusCreated, video, "Video published successfully")
}

// UpdateVideo updates the title, description or thumbnail of an owned video
func (h *VideoHandler) UpdateVideo(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.UpdateVideoRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArg("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.InvalidArg(validators.Message(err))
	}
	if req.Title == "" && req.Description == "" {
		return apperrors.InvalidArg("title or description is required")
	}

	video, err := h.ownedVideo(ctx, c)
	if err != nil {
		return err
	}

	var patch models.VideoPatch
	if req.Title != "" {
		title := strings.TrimSpace(req.Title)
		patch.Title = &title
	}
	if req.Description != "" {
		description := strings.TrimSpace(req.Description)
		patch.Description = &description
	}
	if file, err := c.FormFile("thumbnail"); err == nil {
		thumbnail, err := h.upload(ctx, storage.KindImage, file)
		if err != nil {
			return apperrors.Internal("failed to upload thumbnail", err)
		}
		patch.Thumbnail = &thumbnail
	}

	updated, err := h.videos.UpdateVideo(ctx, video.ID, patch)
	if err != nil {
		if patch.Thumbnail != nil {
			h.deleteAsset(ctx, *patch.Thumbnail, storage.KindImage)
		}
		return storeError(err, "video not found")
	}
	if patch.Thumbnail != nil {
		h.deleteAsset(ctx, video.Thumbnail, storage.KindImage)
	}

	return respond(c, http.StatusOK, updated, "Video updated successfully")
}

// DeleteVideo deletes an owned video, then its likes and assets
func (h *VideoHandler) DeleteVideo(c echo.Context) error {
	ctx := c.Request().Context()

	video, err := h.ownedVideo(ctx, c)
	if err != nil {
		return err
	}
	if _, err := h.videos.DeleteVideo(ctx, video.ID); err != nil {
		return storeError(err, "video not found")
	}

	target, err := models.NewLikeTarget(models.TargetVideo, video.ID)
	if err == nil {
		h.effects.Go(ctx, "delete_video_likes", log.Fields{"video_id": video.ID.Hex()}, func(ctx context.Context) error {
			_, err := h.likes.DeleteLikesForTarget(ctx, target)
			return err
		})
	}
	h.deleteAsset(ctx, video.Thumbnail, storage.KindImage)
	h.deleteAsset(ctx, video.VideoFile, storage.KindVideo)

	return respond(c, http.StatusOK, nil, "Video deleted successfully")
}

// TogglePublishStatus flips the published flag of an owned video
func (h *VideoHandler) TogglePublishStatus(c echo.Context) error {
	ctx := c.Request().Context()

	video, err := h.ownedVideo(ctx, c)
	if err != nil {
		return err
	}
	published := !video.IsPublished
	updated, err := h.videos.UpdateVideo(ctx, video.ID, models.VideoPatch{IsPublished: &published})
	if err != nil {
		return storeError(err, "video not found")
	}
	return respond(c, http.StatusOK, updated, "Publish status updated successfully")
}

// ownedVideo loads the :videoId video and checks the viewer owns it.
// It runs before any mutation.
func (h *VideoHandler) ownedVideo(ctx context.Context, c echo.Context) (*models.Video, error) {
	id, err := parseID(c, "videoId")
	if err != nil {
		return nil, err
	}
	video, err := h.videos.GetVideoByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "video not found")
	}
	if !currentViewer(ctx).Is(video.OwnerID) {
		return nil, apperrors.Forbidden("you are not the owner of this video")
	}
	return video, nil
}

func (h *VideoHandler) upload(ctx context.Context, kind storage.Kind, fh *multipart.FileHeader) (models.AssetRef, error) {
	f, err := fh.Open()
	if err != nil {
		return models.AssetRef{}, err
	}
	defer f.Close()

	return h.blobs.Upload(ctx, kind, storage.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        f,
	})
}

func (h *VideoHandler) deleteAsset(ctx context.Context, asset models.AssetRef, kind storage.Kind) {
	if asset.PublicID == "" {
		return
	}
	fields := log.Fields{"public_id": asset.PublicID, "kind": string(kind)}
	h.effects.Go(ctx, "delete_asset", fields, func(ctx context.Context) error {
		return h.blobs.Delete(ctx, asset.PublicID, kind)
	})
}
