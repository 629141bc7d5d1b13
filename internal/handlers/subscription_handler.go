package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SubscriptionHandler handles HTTP requests related to channel subscriptions
type SubscriptionHandler struct {
	toggler Toggler
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(toggler Toggler) *SubscriptionHandler {
	return &SubscriptionHandler{toggler: toggler}
}

// RegisterSubscriptionRoutes registers subscription-related routes
func (h *SubscriptionHandler) RegisterSubscriptionRoutes(g *echo.Group) {
	g.POST("/subscriptions/c/:channelId", h.ToggleSubscription)
}

// ToggleSubscription subscribes the viewer to a channel or unsubscribes them
func (h *SubscriptionHandler) ToggleSubscription(c echo.Context) error {
	ctx := c.Request().Context()
	res, err := h.toggler.ToggleSubscription(ctx, c.Param("channelId"), currentViewer(ctx))
	if err != nil {
		return err
	}
	message := "Subscribed successfully"
	if !res.Subscribed {
		message = "Unsubscribed successfully"
	}
	return respond(c, http.StatusOK, res, message)
}
