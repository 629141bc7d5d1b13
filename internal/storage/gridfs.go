package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const gridFSBucketName = "media"

// GridFSStore keeps assets in a MongoDB GridFS bucket. Public ids are the
// hex file ids and URLs point at the media route.
type GridFSStore struct {
	bucket  *gridfs.Bucket
	baseURL string
}

// NewGridFSStore creates a GridFSStore on db
func NewGridFSStore(db *mongo.Database, baseURL string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(gridFSBucketName))
	if err != nil {
		return nil, fmt.Errorf("create gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload streams file into the bucket
func (s *GridFSStore) Upload(ctx context.Context, kind Kind, file File) (models.AssetRef, error) {
	id := primitive.NewObjectID()
	opts := options.GridFSUpload().SetMetadata(bson.D{
		{Key: "kind", Value: string(kind)},
		{Key: "contentType", Value: file.ContentType},
	})

	stream, err := s.bucket.OpenUploadStreamWithID(id, objectName(kind, file.Name), opts)
	if err != nil {
		return models.AssetRef{}, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := stream.SetWriteDeadline(deadline); err != nil {
			_ = stream.Abort()
			return models.AssetRef{}, err
		}
	}

	if _, err := io.Copy(stream, file.Body); err != nil {
		_ = stream.Abort()
		return models.AssetRef{}, err
	}
	if err := stream.Close(); err != nil {
		return models.AssetRef{}, err
	}

	return models.AssetRef{URL: s.baseURL + "/" + id.Hex(), PublicID: id.Hex()}, nil
}

// Delete removes an asset and its chunks
func (s *GridFSStore) Delete(ctx context.Context, publicID string, kind Kind) error {
	id, err := primitive.ObjectIDFromHex(publicID)
	if err != nil {
		return ErrAssetNotFound
	}
	if err := s.bucket.Delete(id); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrAssetNotFound
		}
		return err
	}
	return nil
}

// Asset is an open download of a stored asset
type Asset struct {
	io.ReadCloser
	ContentType string
	Length      int64
}

// Open opens an asset for reading
func (s *GridFSStore) Open(ctx context.Context, publicID string) (*Asset, error) {
	id, err := primitive.ObjectIDFromHex(publicID)
	if err != nil {
		return nil, ErrAssetNotFound
	}

	stream, err := s.bucket.OpenDownloadStream(id)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	}

	file := stream.GetFile()
	contentType := "application/octet-stream"
	if file.Metadata != nil {
		if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok && ct != "" {
			contentType = ct
		}
	}
	return &Asset{ReadCloser: stream, ContentType: contentType, Length: file.Length}, nil
}
