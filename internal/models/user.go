package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account stored in MongoDB
type User struct {
	ID                  primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username            string               `json:"username" bson:"username"` // unique, lowercase
	Email               string               `json:"email" bson:"email"`       // unique
	FullName            string               `json:"displayName" bson:"fullName"`
	Avatar              string               `json:"avatar" bson:"avatar"`
	CoverImage          string               `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Password            string               `json:"-" bson:"password"`
	FirebaseUID         string               `json:"-" bson:"firebaseUid,omitempty"`
	WatchHistory        []primitive.ObjectID `json:"watchHistory" bson:"watchHistory"` // most recent first, no duplicates
	SessionTokenVersion int                  `json:"-" bson:"sessionTokenVersion"`
	CreatedAt           time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// NormalizeUsername lowercases and trims a username before it is stored or queried
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// JwtCustomClaims are the access token claims issued by the auth service
type JwtCustomClaims struct {
	UserID       string `json:"_id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	TokenVersion int    `json:"tokenVersion"`
	jwt.RegisteredClaims
}
