package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/anonto42/vidtube/backend/internal/models"
)

// FirebaseStore keeps assets in a Firebase (Cloud Storage) bucket. Public
// ids are object names.
type FirebaseStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewFirebaseStore opens the named bucket through the firebase app
func NewFirebaseStore(ctx context.Context, app *firebase.App, bucketName string) (*FirebaseStore, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("error opening bucket %s: %w", bucketName, err)
	}
	return &FirebaseStore{bucket: bucket, bucketName: bucketName}, nil
}

// Upload writes file to a new object
func (s *FirebaseStore) Upload(ctx context.Context, kind Kind, file File) (models.AssetRef, error) {
	name := objectName(kind, file.Name)

	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = file.ContentType
	w.Metadata = map[string]string{"kind": string(kind)}

	if _, err := io.Copy(w, file.Body); err != nil {
		_ = w.Close()
		return models.AssetRef{}, err
	}
	if err := w.Close(); err != nil {
		return models.AssetRef{}, err
	}

	return models.AssetRef{URL: publicURL(s.bucketName, name), PublicID: name}, nil
}

// Delete removes an object
func (s *FirebaseStore) Delete(ctx context.Context, publicID string, kind Kind) error {
	err := s.bucket.Object(publicID).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrAssetNotFound
	}
	return err
}

func publicURL(bucket, name string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, name)
}
