package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/composer"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/pagination"
	"github.com/anonto42/vidtube/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type videoFixture struct {
	videos   *fakeVideos
	likes    *fakeLikes
	blobs    *fakeBlobs
	effects  *syncEffects
	composer *fakeComposer
	serve    func(req *http.Request) *httptest.ResponseRecorder
}

func newVideoFixture(videos ...*models.Video) *videoFixture {
	f := &videoFixture{
		videos:   newFakeVideos(videos...),
		likes:    &fakeLikes{},
		blobs:    &fakeBlobs{failKinds: map[storage.Kind]bool{}},
		effects:  &syncEffects{},
		composer: &fakeComposer{},
	}
	e, api := newTestEcho()
	NewVideoHandler(f.composer, f.videos, f.likes, f.blobs, f.effects).RegisterVideoRoutes(api, requireViewer)
	f.serve = func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}
	return f
}

func sampleVideo(owner primitive.ObjectID) *models.Video {
	return &models.Video{
		ID:          primitive.NewObjectID(),
		OwnerID:     owner,
		Title:       "Intro",
		Description: "desc",
		VideoFile:   models.AssetRef{URL: "u1", PublicID: "video-1"},
		Thumbnail:   models.AssetRef{URL: "u2", PublicID: "thumb-1"},
		IsPublished: true,
	}
}

func TestDeleteVideo_NonOwnerIsForbidden(t *testing.T) {
	owner := primitive.NewObjectID()
	video := sampleVideo(owner)
	f := newVideoFixture(video)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/videos/"+video.ID.Hex(), nil)
	req.Header.Set(testUserHeader, primitive.NewObjectID().Hex())
	rec := f.serve(req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, http.StatusForbidden, body.StatusCode)
	assert.Equal(t, map[string]interface{}{}, body.Data)

	assert.Zero(t, f.videos.writes)
	assert.Contains(t, f.videos.videos, video.ID)
	assert.Empty(t, f.blobs.deleted)
	assert.Empty(t, f.likes.cleared)
}

func TestDeleteVideo_OwnerCascades(t *testing.T) {
	owner := primitive.NewObjectID()
	video := sampleVideo(owner)
	f := newVideoFixture(video)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/videos/"+video.ID.Hex(), nil)
	req.Header.Set(testUserHeader, owner.Hex())
	rec := f.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
	assert.NotContains(t, f.videos.videos, video.ID)
	assert.ElementsMatch(t, []string{"thumb-1", "video-1"}, f.blobs.deleted)
	require.Len(t, f.likes.cleared, 1)
	assert.Equal(t, models.LikeTarget{Kind: models.TargetVideo, ID: video.ID}, f.likes.cleared[0])
}

func TestDeleteVideo_Preconditions(t *testing.T) {
	f := newVideoFixture()
	user := primitive.NewObjectID().Hex()

	tests := []struct {
		name   string
		path   string
		user   string
		status int
	}{
		{name: "anonymous", path: "/api/v1/videos/" + primitive.NewObjectID().Hex(), status: http.StatusUnauthorized},
		{name: "malformed id", path: "/api/v1/videos/abc", user: user, status: http.StatusBadRequest},
		{name: "missing video", path: "/api/v1/videos/" + primitive.NewObjectID().Hex(), user: user, status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, tt.path, nil)
			if tt.user != "" {
				req.Header.Set(testUserHeader, tt.user)
			}
			rec := f.serve(req)
			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, decodeEnvelope(t, rec).Success)
		})
	}
	assert.Empty(t, f.blobs.deleted)
}

func TestPublishVideo(t *testing.T) {
	owner := primitive.NewObjectID()
	f := newVideoFixture()

	body, contentType := multipartBody(t,
		map[string]string{"title": "My video", "description": "About it", "isPublished": "false", "duration": "12.5"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(testUserHeader, owner.Hex())
	rec := f.serve(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, f.videos.created, 1)
	created := f.videos.created[0]
	assert.Equal(t, owner, created.OwnerID)
	assert.Equal(t, "My video", created.Title)
	assert.False(t, created.IsPublished)
	assert.Equal(t, 12.5, created.DurationSeconds)
	assert.Equal(t, []storage.Kind{storage.KindImage, storage.KindVideo}, f.blobs.uploads)
}

func TestPublishVideo_VideoUploadFailureRemovesThumbnail(t *testing.T) {
	f := newVideoFixture()
	f.blobs.failKinds[storage.KindVideo] = true

	body, contentType := multipartBody(t,
		map[string]string{"title": "My video", "description": "About it"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(testUserHeader, primitive.NewObjectID().Hex())
	rec := f.serve(req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to upload video", decodeEnvelope(t, rec).Message)
	assert.Empty(t, f.videos.created)
	require.Len(t, f.blobs.deleted, 1)
}

func TestPublishVideo_RequiresFieldsAndFiles(t *testing.T) {
	f := newVideoFixture()
	user := primitive.NewObjectID().Hex()

	body, contentType := multipartBody(t,
		map[string]string{"title": "   ", "description": "About it"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(testUserHeader, user)
	rec := f.serve(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, contentType = multipartBody(t,
		map[string]string{"title": "ok", "description": "About it"},
		map[string]string{"videoFile": "clip.mp4"},
	)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(testUserHeader, user)
	rec = f.serve(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "thumbnail is required", decodeEnvelope(t, rec).Message)

	assert.Empty(t, f.blobs.uploads)
}

func TestTogglePublishStatus(t *testing.T) {
	owner := primitive.NewObjectID()
	video := sampleVideo(owner)
	f := newVideoFixture(video)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/"+video.ID.Hex()+"/publish", nil)
	req.Header.Set(testUserHeader, owner.Hex())
	rec := f.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.videos.videos[video.ID].IsPublished)
}

func TestUpdateVideo_ReplacesThumbnail(t *testing.T) {
	owner := primitive.NewObjectID()
	video := sampleVideo(owner)
	f := newVideoFixture(video)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Renamed"},
		map[string]string{"thumbnail": "new.png"},
	)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/"+video.ID.Hex(), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(testUserHeader, owner.Hex())
	rec := f.serve(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored := f.videos.videos[video.ID]
	assert.Equal(t, "Renamed", stored.Title)
	assert.NotEqual(t, "thumb-1", stored.Thumbnail.PublicID)
	assert.Equal(t, []string{"thumb-1"}, f.blobs.deleted)
}

func TestGetVideos_BindsQuery(t *testing.T) {
	f := newVideoFixture()
	f.composer.feed = &composer.VideoFeedPage{
		Videos:     []models.VideoSummary{},
		Pagination: pagination.Paginate(0, 1, 10),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?page=2&limit=5&query=go&sortBy=views&sortType=asc", nil)
	rec := f.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.VideoFeedRequest{Page: 2, Limit: 5, Query: "go", SortBy: "views", SortType: "asc"}, f.composer.lastFeed)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestGetVideo_NotFound(t *testing.T) {
	f := newVideoFixture()
	f.composer.err = apperrors.NotFound("video not found")

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+primitive.NewObjectID().Hex(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "video not found", body.Message)
	assert.False(t, body.Success)
}
