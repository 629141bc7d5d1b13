package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTargetChecker answers existence questions for toggle targets
type MongoTargetChecker struct {
	db *mongo.Database
}

// NewMongoTargetChecker creates a new MongoTargetChecker
func NewMongoTargetChecker(db *mongo.Database) *MongoTargetChecker {
	return &MongoTargetChecker{db: db}
}

// LikeTargetExists reports whether the liked document exists and is
// visible. Unpublished videos count as absent.
func (c *MongoTargetChecker) LikeTargetExists(ctx context.Context, target models.LikeTarget) (bool, error) {
	filter := bson.M{"_id": target.ID}
	var collection string
	switch target.Kind {
	case models.TargetVideo:
		collection = VideosCollection
		filter["isPublished"] = true
	case models.TargetComment:
		collection = CommentsCollection
	case models.TargetTweet:
		collection = TweetsCollection
	default:
		return false, fmt.Errorf("unknown like target kind %q", target.Kind)
	}
	return c.exists(ctx, collection, filter)
}

// UserExists reports whether a user (channel) exists
func (c *MongoTargetChecker) UserExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return c.exists(ctx, UsersCollection, bson.M{"_id": id})
}

func (c *MongoTargetChecker) exists(ctx context.Context, collection string, filter bson.M) (bool, error) {
	count, err := c.db.Collection(collection).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
