// Package storage holds media assets (video files and thumbnails).
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/google/uuid"
)

// Kind is the kind of asset, used to pick a folder and for deletes
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// ErrAssetNotFound is returned when an asset does not exist
var ErrAssetNotFound = errors.New("asset not found")

// File is an upload source
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// BlobStore uploads and deletes assets by handle
type BlobStore interface {
	Upload(ctx context.Context, kind Kind, file File) (models.AssetRef, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
}

// objectName builds a unique object key, keeping the original extension
func objectName(kind Kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return string(kind) + "s/" + uuid.NewString() + ext
}
