package middleware

import (
	"context"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/viewer"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/labstack/echo/v4"
)

// TokenVerifier verifies Firebase ID tokens; *auth.Client implements it
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseUserLookup maps a Firebase UID to a stored user
type FirebaseUserLookup interface {
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
}

// FirebaseViewer resolves the viewer from a Firebase ID token and the user
// linked to its UID. Unverifiable tokens and unknown UIDs stay anonymous.
func FirebaseViewer(verifier TokenVerifier, users FirebaseUserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken := bearerToken(c)
			if idToken == "" {
				return next(c)
			}

			ctx := c.Request().Context()
			token, err := verifier.VerifyIDToken(ctx, idToken)
			if err != nil {
				logger.FromContext(ctx).WithError(err).Debug("ignoring invalid firebase id token")
				return next(c)
			}

			user, err := users.GetUserByFirebaseUID(ctx, token.UID)
			if err != nil {
				logger.FromContext(ctx).WithError(err).WithField("firebase_uid", token.UID).Debug("no user for firebase uid")
				return next(c)
			}

			c.Set("firebaseUID", token.UID)
			setViewer(c, viewer.Of(user.ID))
			return next(c)
		}
	}
}
