package repositories

import (
	"context"
	"time"

	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LikeRepository defines the interface for like data operations.
// CreateLike must return ErrConflict when the (likedBy, target) pair exists.
type LikeRepository interface {
	HasLiked(ctx context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error)
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error)
	CountLikes(ctx context.Context, target models.LikeTarget) (int64, error)
	ListLikes(ctx context.Context, likedBy primitive.ObjectID, kind models.TargetKind) ([]models.Like, error)
	DeleteLikesForTarget(ctx context.Context, target models.LikeTarget) (int64, error)
}

// MongoLikeRepository implements LikeRepository for MongoDB
type MongoLikeRepository struct {
	collection *mongo.Collection
}

// NewMongoLikeRepository creates a new MongoLikeRepository
func NewMongoLikeRepository(db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{collection: db.Collection(LikesCollection)}
}

func likeFilter(likedBy primitive.ObjectID, target models.LikeTarget) bson.D {
	return bson.D{
		{Key: "likedBy", Value: likedBy},
		{Key: "targetKind", Value: target.Kind},
		{Key: "targetId", Value: target.ID},
	}
}

// HasLiked checks if a user has liked the target
func (r *MongoLikeRepository) HasLiked(ctx context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, likeFilter(likedBy, target), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateLike creates a new like in MongoDB
func (r *MongoLikeRepository) CreateLike(ctx context.Context, like *models.Like) error {
	like.ID = primitive.NewObjectID()
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, like)
	return translateMongoError(err)
}

// DeleteLike removes a user's like and reports whether one existed
func (r *MongoLikeRepository) DeleteLike(ctx context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, likeFilter(likedBy, target))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// CountLikes counts the likes on a target
func (r *MongoLikeRepository) CountLikes(ctx context.Context, target models.LikeTarget) (int64, error) {
	filter := bson.D{{Key: "targetKind", Value: target.Kind}, {Key: "targetId", Value: target.ID}}
	return r.collection.CountDocuments(ctx, filter)
}

// ListLikes returns a user's likes of one kind, most recent first
func (r *MongoLikeRepository) ListLikes(ctx context.Context, likedBy primitive.ObjectID, kind models.TargetKind) ([]models.Like, error) {
	filter := bson.D{{Key: "likedBy", Value: likedBy}, {Key: "targetKind", Value: kind}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	likes := []models.Like{}
	if err := cursor.All(ctx, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// DeleteLikesForTarget removes every like on a target
func (r *MongoLikeRepository) DeleteLikesForTarget(ctx context.Context, target models.LikeTarget) (int64, error) {
	filter := bson.D{{Key: "targetKind", Value: target.Kind}, {Key: "targetId", Value: target.ID}}
	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
