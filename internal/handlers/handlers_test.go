package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/anonto42/vidtube/backend/internal/composer"
	"github.com/anonto42/vidtube/backend/internal/middleware"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/reactions"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/storage"
	"github.com/anonto42/vidtube/backend/internal/viewer"
	"github.com/anonto42/vidtube/backend/validators"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testUserHeader = "X-Test-User"

// testViewer resolves the viewer from a plain header
func testViewer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id, err := primitive.ObjectIDFromHex(c.Request().Header.Get(testUserHeader)); err == nil {
			req := c.Request()
			c.SetRequest(req.WithContext(viewer.WithViewer(req.Context(), viewer.Of(id))))
		}
		return next(c)
	}
}

func newTestEcho() (*echo.Echo, *echo.Group) {
	e := echo.New()
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler
	return e, e.Group("/api/v1", testViewer)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ApiResponse {
	t.Helper()
	var body ApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// syncEffects runs best-effort work inline so tests can observe it
type syncEffects struct {
	mu   sync.Mutex
	ops  []string
	errs []error
}

func (s *syncEffects) Go(ctx context.Context, op string, _ log.Fields, fn func(ctx context.Context) error) {
	err := fn(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, op)
	s.errs = append(s.errs, err)
}

type fakeVideos struct {
	videos  map[primitive.ObjectID]*models.Video
	writes  int
	created []*models.Video
	failNew error
}

func newFakeVideos(videos ...*models.Video) *fakeVideos {
	f := &fakeVideos{videos: map[primitive.ObjectID]*models.Video{}}
	for _, v := range videos {
		f.videos[v.ID] = v
	}
	return f
}

func (f *fakeVideos) CreateVideo(_ context.Context, video *models.Video) error {
	if f.failNew != nil {
		return f.failNew
	}
	f.writes++
	video.ID = primitive.NewObjectID()
	f.videos[video.ID] = video
	f.created = append(f.created, video)
	return nil
}

func (f *fakeVideos) GetVideoByID(_ context.Context, id primitive.ObjectID) (*models.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVideos) UpdateVideo(_ context.Context, id primitive.ObjectID, patch models.VideoPatch) (*models.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	f.writes++
	if patch.Title != nil {
		v.Title = *patch.Title
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if patch.Thumbnail != nil {
		v.Thumbnail = *patch.Thumbnail
	}
	if patch.IsPublished != nil {
		v.IsPublished = *patch.IsPublished
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVideos) DeleteVideo(_ context.Context, id primitive.ObjectID) (*models.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	f.writes++
	delete(f.videos, id)
	return v, nil
}

type fakeLikes struct {
	cleared []models.LikeTarget
}

func (f *fakeLikes) DeleteLikesForTarget(_ context.Context, target models.LikeTarget) (int64, error) {
	f.cleared = append(f.cleared, target)
	return 1, nil
}

type fakeBlobs struct {
	uploads   []storage.Kind
	deleted   []string
	failKinds map[storage.Kind]bool
}

func (f *fakeBlobs) Upload(_ context.Context, kind storage.Kind, file storage.File) (models.AssetRef, error) {
	if f.failKinds[kind] {
		return models.AssetRef{}, errors.New("upload failed")
	}
	if _, err := io.ReadAll(file.Body); err != nil {
		return models.AssetRef{}, err
	}
	f.uploads = append(f.uploads, kind)
	id := string(kind) + "-" + primitive.NewObjectID().Hex()
	return models.AssetRef{URL: "https://cdn.test/" + id, PublicID: id}, nil
}

func (f *fakeBlobs) Delete(_ context.Context, publicID string, _ storage.Kind) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

type fakeComposer struct {
	detail   *models.VideoDetailView
	feed     *composer.VideoFeedPage
	liked    []models.VideoSummary
	err      error
	lastFeed models.VideoFeedRequest
}

func (f *fakeComposer) VideoDetail(context.Context, string, viewer.Viewer) (*models.VideoDetailView, error) {
	return f.detail, f.err
}

func (f *fakeComposer) VideoFeed(_ context.Context, req models.VideoFeedRequest) (*composer.VideoFeedPage, error) {
	f.lastFeed = req
	return f.feed, f.err
}

func (f *fakeComposer) LikedVideos(context.Context, viewer.Viewer) ([]models.VideoSummary, error) {
	return f.liked, f.err
}

func (f *fakeComposer) WatchHistory(context.Context, viewer.Viewer) ([]models.VideoSummary, error) {
	return f.liked, f.err
}

func (f *fakeComposer) UserTweets(context.Context, string) ([]models.TweetView, error) {
	return []models.TweetView{}, f.err
}

type fakeToggler struct {
	liked bool
	err   error
}

func (f *fakeToggler) Toggle(context.Context, models.TargetKind, string, viewer.Viewer) (reactions.LikeResult, error) {
	f.liked = !f.liked
	return reactions.LikeResult{Liked: f.liked}, f.err
}

func (f *fakeToggler) ToggleSubscription(context.Context, string, viewer.Viewer) (reactions.SubscriptionResult, error) {
	return reactions.SubscriptionResult{Subscribed: true}, f.err
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, name := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("binary-" + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

var requireViewer = middleware.RequireViewer()
