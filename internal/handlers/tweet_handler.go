package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/validators"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TweetStore is the single-document side of the tweet store
type TweetStore interface {
	CreateTweet(ctx context.Context, tweet *models.Tweet) error
	GetTweetByID(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error)
	UpdateTweetContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Tweet, error)
	DeleteTweet(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error)
}

// TweetHandler handles HTTP requests related to tweets
type TweetHandler struct {
	composer ViewComposer
	tweets   TweetStore
	likes    LikeCleaner
	effects  BestEffort
}

// NewTweetHandler creates a new TweetHandler
func NewTweetHandler(composer ViewComposer, tweets TweetStore, likes LikeCleaner, effects BestEffort) *TweetHandler {
	return &TweetHandler{composer: composer, tweets: tweets, likes: likes, effects: effects}
}

// RegisterTweetRoutes registers tweet-related routes
func (h *TweetHandler) RegisterTweetRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/tweets", h.CreateTweet, auth)
	g.GET("/tweets/user/:userId", h.GetUserTweets)
	g.PATCH("/tweets/:tweetId", h.UpdateTweet, auth)
	g.DELETE("/tweets/:tweetId", h.DeleteTweet, auth)
}

// CreateTweet creates a tweet owned by the viewer
func (h *TweetHandler) CreateTweet(c echo.Context) error {
	ctx := c.Request().Context()
	ownerID, _ := currentViewer(ctx).ID()

	req, err := bindTweet(c)
	if err != nil {
		return err
	}
	tweet := &models.Tweet{OwnerID: ownerID, Content: strings.TrimSpace(req.Content)}
	if err := h.tweets.CreateTweet(ctx, tweet); err != nil {
		return storeError(err, "tweet not found")
	}
	return respond(c, http.StatusCreated, tweet, "Tweet created successfully")
}

// GetUserTweets lists a user's tweets, newest first
func (h *TweetHandler) GetUserTweets(c echo.Context) error {
	tweets, err := h.composer.UserTweets(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, tweets, "Tweets fetched successfully")
}

// UpdateTweet replaces the content of an owned tweet
func (h *TweetHandler) UpdateTweet(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := bindTweet(c)
	if err != nil {
		return err
	}
	tweet, err := h.ownedTweet(ctx, c)
	if err != nil {
		return err
	}
	updated, err := h.tweets.UpdateTweetContent(ctx, tweet.ID, strings.TrimSpace(req.Content))
	if err != nil {
		return storeError(err, "tweet not found")
	}
	return respond(c, http.StatusOK, updated, "Tweet updated successfully")
}

// DeleteTweet deletes an owned tweet, then its likes
func (h *TweetHandler) DeleteTweet(c echo.Context) error {
	ctx := c.Request().Context()

	tweet, err := h.ownedTweet(ctx, c)
	if err != nil {
		return err
	}
	if _, err := h.tweets.DeleteTweet(ctx, tweet.ID); err != nil {
		return storeError(err, "tweet not found")
	}

	if target, err := models.NewLikeTarget(models.TargetTweet, tweet.ID); err == nil {
		h.effects.Go(ctx, "delete_tweet_likes", log.Fields{"tweet_id": tweet.ID.Hex()}, func(ctx context.Context) error {
			_, err := h.likes.DeleteLikesForTarget(ctx, target)
			return err
		})
	}
	return respond(c, http.StatusOK, nil, "Tweet deleted successfully")
}

func (h *TweetHandler) ownedTweet(ctx context.Context, c echo.Context) (*models.Tweet, error) {
	id, err := parseID(c, "tweetId")
	if err != nil {
		return nil, err
	}
	tweet, err := h.tweets.GetTweetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "tweet not found")
	}
	if !currentViewer(ctx).Is(tweet.OwnerID) {
		return nil, apperrors.Forbidden("you are not the owner of this tweet")
	}
	return tweet, nil
}

func bindTweet(c echo.Context) (models.TweetRequest, error) {
	var req models.TweetRequest
	if err := c.Bind(&req); err != nil {
		return req, apperrors.InvalidArg("invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, apperrors.InvalidArg(validators.Message(err))
	}
	return req, nil
}
