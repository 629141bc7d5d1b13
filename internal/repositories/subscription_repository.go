package repositories

import (
	"context"
	"time"

	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	IsSubscribed(ctx context.Context, subscriberID, channelID primitive.ObjectID) (bool, error)
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	DeleteSubscription(ctx context.Context, subscriberID, channelID primitive.ObjectID) (bool, error)
}

// MongoSubscriptionRepository implements SubscriptionRepository for MongoDB
type MongoSubscriptionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new MongoSubscriptionRepository
func NewMongoSubscriptionRepository(db *mongo.Database) *MongoSubscriptionRepository {
	return &MongoSubscriptionRepository{collection: db.Collection(SubscriptionsCollection)}
}

func subscriptionFilter(subscriberID, channelID primitive.ObjectID) bson.M {
	return bson.M{"subscriber": subscriberID, "channel": channelID}
}

// IsSubscribed reports whether subscriberID follows channelID
func (r *MongoSubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, subscriptionFilter(subscriberID, channelID))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateSubscription returns ErrConflict when the pair already exists
func (r *MongoSubscriptionRepository) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	sub.ID = primitive.NewObjectID()
	sub.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, sub)
	return translateMongoError(err)
}

// DeleteSubscription reports whether a document was removed
func (r *MongoSubscriptionRepository) DeleteSubscription(ctx context.Context, subscriberID, channelID primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, subscriptionFilter(subscriberID, channelID))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
