package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription links a subscriber to the channel (user) they follow.
// The (subscriber, channel) pair is unique.
type Subscription struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SubscriberID primitive.ObjectID `json:"subscriber" bson:"subscriber"`
	ChannelID    primitive.ObjectID `json:"channel" bson:"channel"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}
