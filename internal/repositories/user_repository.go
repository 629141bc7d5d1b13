package repositories

import (
	"context"

	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxWatchHistory bounds the number of entries kept per user
const MaxWatchHistory = 200

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	AddToWatchHistory(ctx context.Context, userID, videoID primitive.ObjectID) error
	WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(UsersCollection)}
}

// GetUserByID retrieves a user by ID from MongoDB
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves the user linked to a Firebase account
func (r *MongoUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	var user models.User
	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	if err := r.collection.FindOne(ctx, bson.M{"firebaseUid": firebaseUID}, opts).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	return &user, nil
}

// AddToWatchHistory moves videoID to the front of the user's history,
// removing any earlier entry for it, in a single pipeline update.
func (r *MongoUserRepository) AddToWatchHistory(ctx context.Context, userID, videoID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, watchHistoryUpdate(videoID))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func watchHistoryUpdate(videoID primitive.ObjectID) mongo.Pipeline {
	previous := bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$watchHistory", bson.A{}}}}},
		{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", videoID}}}},
	}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "watchHistory", Value: bson.D{{Key: "$slice", Value: bson.A{
				bson.D{{Key: "$concatArrays", Value: bson.A{bson.A{videoID}, previous}}},
				MaxWatchHistory,
			}}}},
		}}},
	}
}

// WatchHistory returns the user's watch history, most recent first
func (r *MongoUserRepository) WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var doc struct {
		WatchHistory []primitive.ObjectID `bson:"watchHistory"`
	}
	opts := options.FindOne().SetProjection(bson.M{"watchHistory": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	if doc.WatchHistory == nil {
		return []primitive.ObjectID{}, nil
	}
	return doc.WatchHistory, nil
}
