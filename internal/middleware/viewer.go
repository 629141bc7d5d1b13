package middleware

import (
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/viewer"
	"github.com/labstack/echo/v4"
)

const accessTokenCookie = "accessToken"

// bearerToken reads the token from "Authorization: Bearer <token>", falling
// back to the access token cookie when there is no bearer header
func bearerToken(c echo.Context) string {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func setViewer(c echo.Context, v viewer.Viewer) {
	req := c.Request()
	c.SetRequest(req.WithContext(viewer.WithViewer(req.Context(), v)))
}

// RequireViewer rejects anonymous requests
func RequireViewer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if viewer.FromContext(c.Request().Context()).IsAnonymous() {
				return apperrors.Unauthenticated("login required")
			}
			return next(c)
		}
	}
}
