package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserLookup loads a user profile
type UserLookup interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users    UserLookup
	composer ViewComposer
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserLookup, composer ViewComposer) *UserHandler {
	return &UserHandler{users: users, composer: composer}
}

// RegisterUserRoutes registers user routes; all of them need a viewer
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetCurrentUser)
	g.GET("/users/history", h.GetWatchHistory)
}

// GetCurrentUser returns the viewer's own profile
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	ctx := c.Request().Context()
	id, _ := currentViewer(ctx).ID()

	user, err := h.users.GetUserByID(ctx, id)
	if err != nil {
		return storeError(err, "user not found")
	}
	return respond(c, http.StatusOK, user, "User fetched successfully")
}

// GetWatchHistory lists the videos the viewer has watched, most recent first
func (h *UserHandler) GetWatchHistory(c echo.Context) error {
	ctx := c.Request().Context()
	videos, err := h.composer.WatchHistory(ctx, currentViewer(ctx))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, videos, "Watch history fetched successfully")
}
