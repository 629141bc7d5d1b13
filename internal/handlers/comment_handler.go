package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentStore persists comments
type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
}

// VideoLookup loads a single video
type VideoLookup interface {
	GetVideoByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
}

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments CommentStore
	videos   VideoLookup
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments CommentStore, videos VideoLookup) *CommentHandler {
	return &CommentHandler{comments: comments, videos: videos}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/videos/:videoId/comments", h.AddComment, auth)
}

// AddComment adds a comment to a published video
func (h *CommentHandler) AddComment(c echo.Context) error {
	ctx := c.Request().Context()
	ownerID, _ := currentViewer(ctx).ID()

	videoID, err := parseID(c, "videoId")
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArg("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.InvalidArg(validators.Message(err))
	}

	video, err := h.videos.GetVideoByID(ctx, videoID)
	if err != nil {
		return storeError(err, "video not found")
	}
	if !video.IsPublished {
		return apperrors.NotFound("video not found")
	}

	comment := &models.Comment{
		VideoID: videoID,
		OwnerID: ownerID,
		Content: strings.TrimSpace(req.Content),
	}
	if err := h.comments.CreateComment(ctx, comment); err != nil {
		return storeError(err, "video not found")
	}
	return respond(c, http.StatusCreated, comment, "Comment added successfully")
}
