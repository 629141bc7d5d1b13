package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection         = "users"
	VideosCollection        = "videos"
	TweetsCollection        = "tweets"
	CommentsCollection      = "comments"
	LikesCollection         = "likes"
	SubscriptionsCollection = "subscriptions"
)

// SearchMode selects how the video feed runs full-text search
type SearchMode string

const (
	// SearchText uses a $text index on title and description
	SearchText SearchMode = "text"
	// SearchAtlas uses an Atlas Search index via $search
	SearchAtlas SearchMode = "atlas"
)

// EnsureIndexes creates the indexes the repositories rely on. The like and
// subscription unique indexes back the toggle conflict handling.
func EnsureIndexes(ctx context.Context, db *mongo.Database, mode SearchMode) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "firebaseUid", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		},
		VideosCollection: {
			{Keys: bson.D{{Key: "isPublished", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		TweetsCollection: {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		CommentsCollection: {
			{Keys: bson.D{{Key: "video", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		LikesCollection: {
			{
				Keys:    bson.D{{Key: "likedBy", Value: 1}, {Key: "targetKind", Value: 1}, {Key: "targetId", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_like_user_target"),
			},
			{Keys: bson.D{{Key: "targetKind", Value: 1}, {Key: "targetId", Value: 1}}},
			{Keys: bson.D{{Key: "likedBy", Value: 1}, {Key: "targetKind", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		SubscriptionsCollection: {
			{
				Keys:    bson.D{{Key: "subscriber", Value: 1}, {Key: "channel", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_subscriber_channel"),
			},
			{Keys: bson.D{{Key: "channel", Value: 1}}},
		},
	}

	if mode == SearchText {
		specs[VideosCollection] = append(specs[VideosCollection], mongo.IndexModel{
			Keys:    bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("search_videos_text"),
		})
	}

	for collection, indexes := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
