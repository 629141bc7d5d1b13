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

// TweetRepository defines the interface for tweet data operations
type TweetRepository interface {
	CreateTweet(ctx context.Context, tweet *models.Tweet) error
	GetTweetByID(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error)
	UpdateTweetContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Tweet, error)
	DeleteTweet(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error)
	TweetsByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.TweetView, error)
}

// MongoTweetRepository implements TweetRepository for MongoDB
type MongoTweetRepository struct {
	collection *mongo.Collection
}

// NewMongoTweetRepository creates a new MongoTweetRepository
func NewMongoTweetRepository(db *mongo.Database) *MongoTweetRepository {
	return &MongoTweetRepository{collection: db.Collection(TweetsCollection)}
}

// CreateTweet inserts a new tweet
func (r *MongoTweetRepository) CreateTweet(ctx context.Context, tweet *models.Tweet) error {
	now := time.Now().UTC()
	tweet.ID = primitive.NewObjectID()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, tweet)
	return translateMongoError(err)
}

// GetTweetByID retrieves a tweet by its ID
func (r *MongoTweetRepository) GetTweetByID(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tweet); err != nil {
		return nil, translateMongoError(err)
	}
	return &tweet, nil
}

// UpdateTweetContent sets the content of a tweet and returns the updated tweet
func (r *MongoTweetRepository) UpdateTweetContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Tweet, error) {
	update := bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tweet models.Tweet
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&tweet); err != nil {
		return nil, translateMongoError(err)
	}
	return &tweet, nil
}

// DeleteTweet deletes a tweet and returns it
func (r *MongoTweetRepository) DeleteTweet(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&tweet); err != nil {
		return nil, translateMongoError(err)
	}
	return &tweet, nil
}

// TweetsByOwner returns a user's tweets joined to the owner's handle, newest first
func (r *MongoTweetRepository) TweetsByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.TweetView, error) {
	cursor, err := r.collection.Aggregate(ctx, tweetsByOwnerPipeline(ownerID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tweets := []models.TweetView{}
	if err := cursor.All(ctx, &tweets); err != nil {
		return nil, err
	}
	return tweets, nil
}
