package handlers

import (
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	toggler  Toggler
	composer ViewComposer
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(toggler Toggler, composer ViewComposer) *LikeHandler {
	return &LikeHandler{toggler: toggler, composer: composer}
}

// RegisterLikeRoutes registers like-related routes; all of them need a viewer
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/likes/toggle/v/:videoId", h.toggle(models.TargetVideo, "videoId"))
	g.POST("/likes/toggle/c/:commentId", h.toggle(models.TargetComment, "commentId"))
	g.POST("/likes/toggle/t/:tweetId", h.toggle(models.TargetTweet, "tweetId"))
	g.GET("/likes/videos", h.GetLikedVideos)
}

func (h *LikeHandler) toggle(kind models.TargetKind, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		res, err := h.toggler.Toggle(ctx, kind, c.Param(param), currentViewer(ctx))
		if err != nil {
			return err
		}
		message := "Liked successfully"
		if !res.Liked {
			message = "Like removed successfully"
		}
		return respond(c, http.StatusOK, res, message)
	}
}

// GetLikedVideos lists the videos the viewer has liked
func (h *LikeHandler) GetLikedVideos(c echo.Context) error {
	ctx := c.Request().Context()
	videos, err := h.composer.LikedVideos(ctx, currentViewer(ctx))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, videos, "Liked videos fetched successfully")
}
