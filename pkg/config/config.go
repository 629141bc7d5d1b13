package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the server reads from its environment
type Config struct {
	Port string
	Env  string

	MongoURI      string
	MongoDatabase string

	// LikeStore is "mongo" or "postgres"
	LikeStore       string
	PostgresConnStr string

	// AuthProvider is "jwt" or "firebase"
	AuthProvider            string
	JWTSecret               string
	FirebaseCredentialsPath string

	// BlobStore is "gridfs" or "firebase"
	BlobStore             string
	FirebaseStorageBucket string
	MediaBaseURL          string

	SearchMode  string
	SearchIndex string

	ComposeTimeout    time.Duration
	SideEffectTimeout time.Duration
	RateLimitRPS      float64

	LogLevel  string
	LogFormat string
}

var defaults = map[string]interface{}{
	"PORT":                      "8080",
	"ENV":                       "development",
	"MONGO_URI":                 "mongodb://localhost:27017",
	"MONGO_DATABASE":            "vidtube",
	"LIKE_STORE":                "mongo",
	"POSTGRES_CONN_STR":         "",
	"AUTH_PROVIDER":             "jwt",
	"JWT_SECRET":                "",
	"FIREBASE_CREDENTIALS_PATH": "./firebase_credentials.json",
	"BLOB_STORE":                "gridfs",
	"FIREBASE_STORAGE_BUCKET":   "",
	"MEDIA_BASE_URL":            "http://localhost:8080/media",
	"SEARCH_MODE":               "text",
	"SEARCH_INDEX":              "search-videos",
	"COMPOSE_TIMEOUT":           "5s",
	"SIDE_EFFECT_TIMEOUT":       "5s",
	"RATE_LIMIT_RPS":            20,
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "json",
}

// Load reads the configuration from the environment, after loading a .env
// file when one exists
func Load() (*Config, error) {
	// a missing .env is fine; the environment may already be set
	_ = godotenv.Load()
	return FromViper(NewViper())
}

// NewViper returns a viper instance bound to the environment with defaults
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds and validates a Config from v
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                    v.GetString("PORT"),
		Env:                     v.GetString("ENV"),
		MongoURI:                v.GetString("MONGO_URI"),
		MongoDatabase:           v.GetString("MONGO_DATABASE"),
		LikeStore:               strings.ToLower(v.GetString("LIKE_STORE")),
		PostgresConnStr:         v.GetString("POSTGRES_CONN_STR"),
		AuthProvider:            strings.ToLower(v.GetString("AUTH_PROVIDER")),
		JWTSecret:               v.GetString("JWT_SECRET"),
		FirebaseCredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
		BlobStore:               strings.ToLower(v.GetString("BLOB_STORE")),
		FirebaseStorageBucket:   v.GetString("FIREBASE_STORAGE_BUCKET"),
		MediaBaseURL:            strings.TrimRight(v.GetString("MEDIA_BASE_URL"), "/"),
		SearchMode:              strings.ToLower(v.GetString("SEARCH_MODE")),
		SearchIndex:             v.GetString("SEARCH_INDEX"),
		ComposeTimeout:          v.GetDuration("COMPOSE_TIMEOUT"),
		SideEffectTimeout:       v.GetDuration("SIDE_EFFECT_TIMEOUT"),
		RateLimitRPS:            v.GetFloat64("RATE_LIMIT_RPS"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		LogFormat:               v.GetString("LOG_FORMAT"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NeedsFirebase reports whether the firebase app has to be initialized
func (c *Config) NeedsFirebase() bool {
	return c.AuthProvider == "firebase" || c.BlobStore == "firebase"
}

func (c *Config) validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}

	switch c.LikeStore {
	case "mongo":
	case "postgres":
		if c.PostgresConnStr == "" {
			errs = append(errs, errors.New("POSTGRES_CONN_STR is required when LIKE_STORE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LIKE_STORE %q", c.LikeStore))
	}

	switch c.AuthProvider {
	case "jwt":
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when AUTH_PROVIDER=jwt"))
		}
	case "firebase":
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider))
	}

	switch c.BlobStore {
	case "gridfs":
	case "firebase":
		if c.FirebaseStorageBucket == "" {
			errs = append(errs, errors.New("FIREBASE_STORAGE_BUCKET is required when BLOB_STORE=firebase"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown BLOB_STORE %q", c.BlobStore))
	}

	if c.SearchMode != "text" && c.SearchMode != "atlas" {
		errs = append(errs, fmt.Errorf("unknown SEARCH_MODE %q", c.SearchMode))
	}
	if c.ComposeTimeout <= 0 || c.SideEffectTimeout <= 0 {
		errs = append(errs, errors.New("COMPOSE_TIMEOUT and SIDE_EFFECT_TIMEOUT must be positive"))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	return errors.Join(errs...)
}
