package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OwnerBrief is the public projection of a user joined into another document.
// Only the fields each view projects are populated.
type OwnerBrief struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Username    string             `json:"username,omitempty" bson:"username,omitempty"`
	DisplayName string             `json:"displayName,omitempty" bson:"fullName,omitempty"`
	Avatar      string             `json:"avatar" bson:"avatar"`
}

// ChannelSummary is the video owner as seen by a specific viewer
type ChannelSummary struct {
	ID               primitive.ObjectID `json:"id" bson:"_id"`
	DisplayName      string             `json:"displayName" bson:"fullName"`
	Avatar           string             `json:"avatar" bson:"avatar"`
	SubscribersCount int64              `json:"subscribersCount" bson:"subscribersCount"`
	IsSubscribed     bool               `json:"isSubscribed" bson:"isSubscribed"`
}

// CommentView is a comment with its owner joined in
type CommentView struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Content   string             `json:"content" bson:"content"`
	Owner     *OwnerBrief        `json:"owner" bson:"owner"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// VideoDetailView is the denormalized, viewer-aware video page
type VideoDetailView struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	VideoFile       AssetRef           `json:"videoFile" bson:"videoFile"`
	Thumbnail       AssetRef           `json:"thumbnail" bson:"thumbnail"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	LikesCount      int64              `json:"likesCount" bson:"-"`
	IsLiked         bool               `json:"isLiked" bson:"-"`
	Views           int64              `json:"views" bson:"views"`
	Owner           *ChannelSummary    `json:"owner" bson:"owner"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	DurationSeconds float64            `json:"duration" bson:"duration"`
	Comments        []CommentView      `json:"comments" bson:"comments"`
	IsPublished     bool               `json:"isPublished" bson:"isPublished"`
}

// VideoSummary is a video card in a feed
type VideoSummary struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	Thumbnail       AssetRef           `json:"thumbnail" bson:"thumbnail"`
	VideoFile       AssetRef           `json:"videoFile" bson:"videoFile"`
	DurationSeconds float64            `json:"duration" bson:"duration"`
	Views           int64              `json:"views" bson:"views"`
	IsPublished     bool               `json:"isPublished" bson:"isPublished"`
	Owner           *OwnerBrief        `json:"owner" bson:"owner"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	LikedAt         *time.Time         `json:"likedAt,omitempty" bson:"-"`
}

// TweetView is a tweet with its owner joined in
type TweetView struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Content   string             `json:"content" bson:"content"`
	Owner     *OwnerBrief        `json:"owner" bson:"owner"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
