package reactions

import (
	"context"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/viewer"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeStore is the write side of the like store
type LikeStore interface {
	HasLiked(ctx context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error)
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error)
}

// SubscriptionStore is the write side of the subscription store
type SubscriptionStore interface {
	IsSubscribed(ctx context.Context, subscriberID, channelID primitive.ObjectID) (bool, error)
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	DeleteSubscription(ctx context.Context, subscriberID, channelID primitive.ObjectID) (bool, error)
}

// TargetChecker tells whether a toggle target exists
type TargetChecker interface {
	LikeTargetExists(ctx context.Context, target models.LikeTarget) (bool, error)
	UserExists(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// LikeResult is the state of a like after a toggle
type LikeResult struct {
	Liked bool `json:"isLiked"`
}

// SubscriptionResult is the state of a subscription after a toggle
type SubscriptionResult struct {
	Subscribed bool `json:"isSubscribed"`
}

// Engine toggles likes and subscriptions for a viewer
type Engine struct {
	likes   LikeStore
	subs    SubscriptionStore
	targets TargetChecker
}

// NewEngine creates an Engine
func NewEngine(likes LikeStore, subs SubscriptionStore, targets TargetChecker) *Engine {
	return &Engine{likes: likes, subs: subs, targets: targets}
}

// Toggle likes the target if v has not liked it yet, and unlikes it otherwise
func (e *Engine) Toggle(ctx context.Context, kind models.TargetKind, targetID string, v viewer.Viewer) (LikeResult, error) {
	viewerID, ok := v.ID()
	if !ok {
		return LikeResult{}, apperrors.Unauthenticated("login required")
	}
	id, err := repositories.ParseID(targetID)
	if err != nil {
		return LikeResult{}, apperrors.InvalidArg("invalid " + string(kind) + " id")
	}
	target, err := models.NewLikeTarget(kind, id)
	if err != nil {
		return LikeResult{}, apperrors.InvalidArg(err.Error())
	}

	exists, err := e.targets.LikeTargetExists(ctx, target)
	if err != nil {
		return LikeResult{}, apperrors.Internal("failed to load "+string(kind), err)
	}
	if !exists {
		return LikeResult{}, apperrors.NotFound(string(kind) + " not found")
	}

	liked, err := toggle(ctx, likeRelation{store: e.likes, likedBy: viewerID, target: target})
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{Liked: liked}, nil
}

// ToggleSubscription subscribes v to the channel, or unsubscribes if already subscribed
func (e *Engine) ToggleSubscription(ctx context.Context, channelID string, v viewer.Viewer) (SubscriptionResult, error) {
	viewerID, ok := v.ID()
	if !ok {
		return SubscriptionResult{}, apperrors.Unauthenticated("login required")
	}
	channel, err := repositories.ParseID(channelID)
	if err != nil {
		return SubscriptionResult{}, apperrors.InvalidArg("invalid channel id")
	}
	if v.Is(channel) {
		return SubscriptionResult{}, apperrors.InvalidArg("cannot subscribe to your own channel")
	}

	exists, err := e.targets.UserExists(ctx, channel)
	if err != nil {
		return SubscriptionResult{}, apperrors.Internal("failed to load channel", err)
	}
	if !exists {
		return SubscriptionResult{}, apperrors.NotFound("channel not found")
	}

	subscribed, err := toggle(ctx, subscriptionRelation{store: e.subs, subscriber: viewerID, channel: channel})
	if err != nil {
		return SubscriptionResult{}, err
	}
	return SubscriptionResult{Subscribed: subscribed}, nil
}

type likeRelation struct {
	store   LikeStore
	likedBy primitive.ObjectID
	target  models.LikeTarget
}

func (r likeRelation) exists(ctx context.Context) (bool, error) {
	return r.store.HasLiked(ctx, r.likedBy, r.target)
}

func (r likeRelation) create(ctx context.Context) error {
	return r.store.CreateLike(ctx, &models.Like{LikedBy: r.likedBy, Target: r.target})
}

func (r likeRelation) remove(ctx context.Context) (bool, error) {
	return r.store.DeleteLike(ctx, r.likedBy, r.target)
}

type subscriptionRelation struct {
	store      SubscriptionStore
	subscriber primitive.ObjectID
	channel    primitive.ObjectID
}

func (r subscriptionRelation) exists(ctx context.Context) (bool, error) {
	return r.store.IsSubscribed(ctx, r.subscriber, r.channel)
}

func (r subscriptionRelation) create(ctx context.Context) error {
	return r.store.CreateSubscription(ctx, &models.Subscription{SubscriberID: r.subscriber, ChannelID: r.channel})
}

func (r subscriptionRelation) remove(ctx context.Context) (bool, error) {
	return r.store.DeleteSubscription(ctx, r.subscriber, r.channel)
}
