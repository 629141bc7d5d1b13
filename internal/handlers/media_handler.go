package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// AssetOpener opens stored assets for streaming
type AssetOpener interface {
	Open(ctx context.Context, publicID string) (*storage.Asset, error)
}

// MediaHandler serves assets held in GridFS
type MediaHandler struct {
	assets AssetOpener
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(assets AssetOpener) *MediaHandler {
	return &MediaHandler{assets: assets}
}

// GetMedia streams an asset by its public id
func (h *MediaHandler) GetMedia(c echo.Context) error {
	asset, err := h.assets.Open(c.Request().Context(), c.Param("publicId"))
	if err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) {
			return apperrors.NotFound("media not found")
		}
		return apperrors.Internal("failed to open media", err)
	}
	defer asset.Close()

	c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(asset.Length, 10))
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, asset.ContentType, asset)
}
