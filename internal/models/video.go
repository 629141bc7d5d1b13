package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssetRef points at a file held by the blob store
type AssetRef struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"publicId" bson:"publicId"`
}

// Video represents an uploaded video stored in MongoDB
type Video struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID         primitive.ObjectID `json:"owner" bson:"owner"`
	Title           string             `json:"title" bson:"title"`
	Description     string             `json:"description" bson:"description"`
	VideoFile       AssetRef           `json:"videoFile" bson:"videoFile"`
	Thumbnail       AssetRef           `json:"thumbnail" bson:"thumbnail"`
	DurationSeconds float64            `json:"duration" bson:"duration"`
	Views           int64              `json:"views" bson:"views"`
	IsPublished     bool               `json:"isPublished" bson:"isPublished"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// VideoPatch holds the mutable fields of a video; nil fields are left untouched
type VideoPatch struct {
	Title       *string
	Description *string
	Thumbnail   *AssetRef
	IsPublished *bool
}

// PublishVideoRequest defines the form fields for publishing a video
type PublishVideoRequest struct {
	Title       string  `form:"title" validate:"required,notblank,max=200"`
	Description string  `form:"description" validate:"required,notblank,max=5000"`
	IsPublished string  `form:"isPublished" validate:"omitempty,boolean"`
	Duration    float64 `form:"duration" validate:"min=0"`
}

// UpdateVideoRequest defines the form fields for updating a video
type UpdateVideoRequest struct {
	Title       string `form:"title" validate:"omitempty,notblank,max=200"`
	Description string `form:"description" validate:"omitempty,notblank,max=5000"`
}

// VideoFeedRequest defines the query parameters of the public video feed
type VideoFeedRequest struct {
	Page     int    `query:"page" validate:"omitempty,min=0"`
	Limit    int    `query:"limit" validate:"omitempty,min=0"`
	Query    string `query:"query" validate:"max=200"`
	UserID   string `query:"userId"`
	SortBy   string `query:"sortBy"`
	SortType string `query:"sortType"`
}
