package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetKind names the kind of document a like points at
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// Valid reports whether k is one of the known target kinds
func (k TargetKind) Valid() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet:
		return true
	}
	return false
}

// LikeTarget is exactly one liked document: its kind and id.
// Build it with NewLikeTarget so an invalid target never reaches a query.
type LikeTarget struct {
	Kind TargetKind         `json:"kind" bson:"targetKind"`
	ID   primitive.ObjectID `json:"id" bson:"targetId"`
}

// NewLikeTarget validates and builds a like target
func NewLikeTarget(kind TargetKind, id primitive.ObjectID) (LikeTarget, error) {
	if !kind.Valid() {
		return LikeTarget{}, fmt.Errorf("unknown like target kind %q", kind)
	}
	if id.IsZero() {
		return LikeTarget{}, fmt.Errorf("like target id is required")
	}
	return LikeTarget{Kind: kind, ID: id}, nil
}

func (t LikeTarget) String() string {
	return fmt.Sprintf("%s:%s", t.Kind, t.ID.Hex())
}

// Like represents a user's like on a video, comment or tweet.
// The combination of LikedBy and Target must be unique.
type Like struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	LikedBy   primitive.ObjectID `json:"likedBy" bson:"likedBy"`
	Target    LikeTarget         `json:"target" bson:",inline"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
