package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApiResponse is the envelope every endpoint answers with
type ApiResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func respond(c echo.Context, status int, data interface{}, message string) error {
	if data == nil {
		data = echo.Map{}
	}
	return c.JSON(status, ApiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// HTTPErrorHandler renders every error in the response envelope. Internal
// causes are logged and never sent to the client.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).WithError(err).
			WithField("path", c.Path()).Error("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = respond(c, status, nil, message)
	}
	if err != nil {
		logger.FromContext(c.Request().Context()).WithError(err).Error("failed to write error response")
	}
}

func classify(err error) (int, string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return apperrors.HTTPStatus(appErr.Code), appErr.Message
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok && httpErr.Code < http.StatusInternalServerError {
			message = m
		}
		return httpErr.Code, message
	}

	return http.StatusInternalServerError, "something went wrong"
}

// storeError maps a repository error onto the error taxonomy
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NotFound(notFound)
	case errors.Is(err, repositories.ErrInvalidID):
		return apperrors.InvalidArg("invalid id")
	case errors.Is(err, repositories.ErrConflict):
		return apperrors.Conflict("already exists")
	default:
		return apperrors.Internal("something went wrong", err)
	}
}

// parseID parses a path parameter as a document id
func parseID(c echo.Context, param string) (primitive.ObjectID, error) {
	id, err := repositories.ParseID(c.Param(param))
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidArg("invalid " + param)
	}
	return id, nil
}
