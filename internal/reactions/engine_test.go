package reactions

import (
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type likeKey struct {
	user   primitive.ObjectID
	target models.LikeTarget
}

type subKey struct {
	subscriber primitive.ObjectID
	channel    primitive.ObjectID
}

// memStore enforces the same uniqueness the real indexes do
type memStore struct {
	mu    sync.Mutex
	likes map[likeKey]models.Like
	subs  map[subKey]models.Subscription
}

func newMemStore() *memStore {
	return &memStore{likes: map[likeKey]models.Like{}, subs: map[subKey]models.Subscription{}}
}

func (s *memStore) HasLiked(_ context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error) {
	s.mu.Lock()
	_, ok := s.likes[likeKey{likedBy, target}]
	s.mu.Unlock()
	runtime.Gosched()
	return ok, nil
}

func (s *memStore) CreateLike(_ context.Context, like *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := likeKey{like.LikedBy, like.Target}
	if _, ok := s.likes[key]; ok {
		return repositories.ErrConflict
	}
	like.ID = primitive.NewObjectID()
	s.likes[key] = *like
	return nil
}

func (s *memStore) DeleteLike(_ context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := likeKey{likedBy, target}
	if _, ok := s.likes[key]; !ok {
		return false, nil
	}
	delete(s.likes, key)
	return true, nil
}

func (s *memStore) IsSubscribed(_ context.Context, subscriberID, channelID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subs[subKey{subscriberID, channelID}]
	return ok, nil
}

func (s *memStore) CreateSubscription(_ context.Context, sub *models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := subKey{sub.SubscriberID, sub.ChannelID}
	if _, ok := s.subs[key]; ok {
		return repositories.ErrConflict
	}
	s.subs[key] = *sub
	return nil
}

func (s *memStore) DeleteSubscription(_ context.Context, subscriberID, channelID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := subKey{subscriberID, channelID}
	if _, ok := s.subs[key]; !ok {
		return false, nil
	}
	delete(s.subs, key)
	return true, nil
}

func (s *memStore) likeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.likes)
}

type allTargets struct{ missing bool }

func (t allTargets) LikeTargetExists(context.Context, models.LikeTarget) (bool, error) {
	return !t.missing, nil
}

func (t allTargets) UserExists(context.Context, primitive.ObjectID) (bool, error) {
	return !t.missing, nil
}

func TestToggle_Oscillates(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, store, allTargets{})
	v := viewer.Of(primitive.NewObjectID())
	videoID := primitive.NewObjectID().Hex()

	for _, want := range []bool{true, false, true} {
		res, err := engine.Toggle(context.Background(), models.TargetVideo, videoID, v)
		require.NoError(t, err)
		assert.Equal(t, want, res.Liked)
	}
	assert.Equal(t, 1, store.likeCount())
}

func TestToggle_KindsAreIndependent(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, store, allTargets{})
	v := viewer.Of(primitive.NewObjectID())
	id := primitive.NewObjectID().Hex()

	for _, kind := range []models.TargetKind{models.TargetVideo, models.TargetComment, models.TargetTweet} {
		res, err := engine.Toggle(context.Background(), kind, id, v)
		require.NoError(t, err)
		assert.True(t, res.Liked, kind)
	}
	assert.Equal(t, 3, store.likeCount())
}

func TestToggle_ConcurrentTogglesKeepAtMostOneLike(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, store, allTargets{})
	v := viewer.Of(primitive.NewObjectID())
	videoID := primitive.NewObjectID().Hex()

	const n = 64
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		removed int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := engine.Toggle(context.Background(), models.TargetVideo, videoID, v)
			if err != nil {
				assert.True(t, apperrors.Is(err, apperrors.CodeConflict), err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if res.Liked {
				created++
			} else {
				removed++
			}
		}()
	}
	wg.Wait()

	count := store.likeCount()
	assert.LessOrEqual(t, count, 1)
	assert.Equal(t, created-removed, count)
}

func TestToggle_Preconditions(t *testing.T) {
	store := newMemStore()
	id := primitive.NewObjectID().Hex()
	v := viewer.Of(primitive.NewObjectID())

	_, err := NewEngine(store, store, allTargets{}).Toggle(context.Background(), models.TargetVideo, id, viewer.Anonymous())
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthenticated))

	_, err = NewEngine(store, store, allTargets{}).Toggle(context.Background(), models.TargetTweet, "not-an-id", v)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArgument))

	_, err = NewEngine(store, store, allTargets{}).Toggle(context.Background(), models.TargetKind("post"), id, v)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArgument))

	_, err = NewEngine(store, store, allTargets{missing: true}).Toggle(context.Background(), models.TargetComment, id, v)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	assert.Zero(t, store.likeCount())
}

type mockLikeStore struct {
	mock.Mock
}

func (m *mockLikeStore) HasLiked(ctx context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error) {
	args := m.Called(ctx, likedBy, target)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeStore) CreateLike(ctx context.Context, like *models.Like) error {
	return m.Called(ctx, like).Error(0)
}

func (m *mockLikeStore) DeleteLike(ctx context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error) {
	args := m.Called(ctx, likedBy, target)
	return args.Bool(0), args.Error(1)
}

func TestToggle_DuplicateInsertBecomesDelete(t *testing.T) {
	likes := new(mockLikeStore)
	likes.On("HasLiked", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
	likes.On("CreateLike", mock.Anything, mock.Anything).Return(repositories.ErrConflict).Once()
	likes.On("HasLiked", mock.Anything, mock.Anything, mock.Anything).Return(true, nil).Once()
	likes.On("DeleteLike", mock.Anything, mock.Anything, mock.Anything).Return(true, nil).Once()

	engine := NewEngine(likes, newMemStore(), allTargets{})
	res, err := engine.Toggle(context.Background(), models.TargetVideo, primitive.NewObjectID().Hex(), viewer.Of(primitive.NewObjectID()))

	require.NoError(t, err)
	assert.False(t, res.Liked)
	likes.AssertExpectations(t)
}

func TestToggle_GivesUpWithConflict(t *testing.T) {
	likes := new(mockLikeStore)
	likes.On("HasLiked", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Times(maxToggleAttempts)
	likes.On("CreateLike", mock.Anything, mock.Anything).Return(repositories.ErrConflict).Times(maxToggleAttempts)

	engine := NewEngine(likes, newMemStore(), allTargets{})
	_, err := engine.Toggle(context.Background(), models.TargetVideo, primitive.NewObjectID().Hex(), viewer.Of(primitive.NewObjectID()))

	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	likes.AssertExpectations(t)
}

func TestToggle_WriteFailureIsInternal(t *testing.T) {
	likes := new(mockLikeStore)
	likes.On("HasLiked", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Once()
	likes.On("CreateLike", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	engine := NewEngine(likes, newMemStore(), allTargets{})
	_, err := engine.Toggle(context.Background(), models.TargetTweet, primitive.NewObjectID().Hex(), viewer.Of(primitive.NewObjectID()))

	assert.True(t, apperrors.Is(err, apperrors.CodeInternal))
	likes.AssertExpectations(t)
}

func TestToggleSubscription(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, store, allTargets{})
	me := primitive.NewObjectID()
	channel := primitive.NewObjectID().Hex()

	res, err := engine.ToggleSubscription(context.Background(), channel, viewer.Of(me))
	require.NoError(t, err)
	assert.True(t, res.Subscribed)

	res, err = engine.ToggleSubscription(context.Background(), channel, viewer.Of(me))
	require.NoError(t, err)
	assert.False(t, res.Subscribed)

	_, err = engine.ToggleSubscription(context.Background(), me.Hex(), viewer.Of(me))
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidArgument))

	_, err = NewEngine(store, store, allTargets{missing: true}).ToggleSubscription(context.Background(), channel, viewer.Of(me))
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}
