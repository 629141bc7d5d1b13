package middleware

import (
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/viewer"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JWTViewer resolves the viewer from an HMAC-signed access token. A missing
// or invalid token leaves the request anonymous; RequireViewer rejects it
// on routes that need an identity.
func JWTViewer(secret string) echo.MiddlewareFunc {
	key := []byte(secret)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := bearerToken(c)
			if tokenString == "" {
				return next(c)
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				logger.FromContext(c.Request().Context()).WithError(err).Debug("ignoring invalid access token")
				return next(c)
			}

			id, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				return next(c)
			}
			setViewer(c, viewer.Of(id))
			return next(c)
		}
	}
}
