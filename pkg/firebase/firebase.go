package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and, when requested, its auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// Options select what InitFirebase sets up
type Options struct {
	CredentialsPath string
	StorageBucket   string
	WithAuth        bool
}

// InitFirebase initializes the Firebase application and, with WithAuth, the
// authentication client
func InitFirebase(ctx context.Context, opts Options, l *log.Logger) (*App, error) {
	if opts.CredentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if _, err := os.Stat(opts.CredentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", opts.CredentialsPath)
	}

	var conf *firebase.Config
	if opts.StorageBucket != "" {
		conf = &firebase.Config{StorageBucket: opts.StorageBucket}
	}
	firebaseApp, err := firebase.NewApp(ctx, conf, option.WithCredentialsFile(opts.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	app := &App{FirebaseApp: firebaseApp}
	if opts.WithAuth {
		if app.AuthClient, err = firebaseApp.Auth(ctx); err != nil {
			return nil, fmt.Errorf("error getting firebase auth client: %w", err)
		}
	}

	l.WithField("auth", opts.WithAuth).Info("firebase app initialized")
	return app, nil
}
