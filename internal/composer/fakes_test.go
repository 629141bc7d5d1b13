package composer

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory stand-in for the document store
type memStore struct {
	mu       sync.Mutex
	videos   map[primitive.ObjectID]*models.Video
	history  map[primitive.ObjectID][]primitive.ObjectID
	likes    []models.Like
	tweets   []models.TweetView
	incrErr  error
	histErr  error
	countErr error
	likesErr error
	// blockLikes makes CountLikes wait for its context to end
	blockLikes bool

	lastQuery repositories.FeedQuery
	lastSkip  int64
	lastLimit int64
}

func newMemStore() *memStore {
	return &memStore{
		videos:  map[primitive.ObjectID]*models.Video{},
		history: map[primitive.ObjectID][]primitive.ObjectID{},
	}
}

func (s *memStore) addVideo(v models.Video) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	s.videos[v.ID] = &v
	return v.ID
}

func (s *memStore) views(id primitive.ObjectID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videos[id].Views
}

func (s *memStore) VideoDetail(_ context.Context, id, viewerID primitive.ObjectID, hasViewer bool) (*models.VideoDetailView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok || !v.IsPublished {
		return nil, repositories.ErrNotFound
	}
	return &models.VideoDetailView{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		Owner:       &models.ChannelSummary{ID: v.OwnerID},
		Comments:    []models.CommentView{},
	}, nil
}

func (s *memStore) CountFeed(_ context.Context, q repositories.FeedQuery) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	s.lastQuery = q
	return int64(len(s.published(q))), nil
}

func (s *memStore) Feed(_ context.Context, q repositories.FeedQuery, skip, limit int64) ([]models.VideoSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSkip, s.lastLimit = skip, limit

	all := s.published(q)
	out := []models.VideoSummary{}
	for i := skip; i < int64(len(all)) && i < skip+limit; i++ {
		out = append(out, summaryOf(all[i]))
	}
	return out, nil
}

func (s *memStore) published(q repositories.FeedQuery) []*models.Video {
	var out []*models.Video
	for _, v := range s.videos {
		if !v.IsPublished {
			continue
		}
		if !q.OwnerID.IsZero() && v.OwnerID != q.OwnerID {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *memStore) SummariesByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.VideoSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.VideoSummary{}
	// reverse order to prove callers restore theirs
	for i := len(ids) - 1; i >= 0; i-- {
		if v, ok := s.videos[ids[i]]; ok && v.IsPublished {
			out = append(out, summaryOf(v))
		}
	}
	return out, nil
}

func (s *memStore) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.incrErr != nil {
		return s.incrErr
	}
	v, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	v.Views++
	return nil
}

func (s *memStore) AddToWatchHistory(_ context.Context, userID, videoID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.histErr != nil {
		return s.histErr
	}
	next := []primitive.ObjectID{videoID}
	for _, id := range s.history[userID] {
		if id != videoID {
			next = append(next, id)
		}
	}
	s.history[userID] = next
	return nil
}

func (s *memStore) WatchHistory(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]primitive.ObjectID{}, s.history[userID]...), nil
}

func (s *memStore) TweetsByOwner(_ context.Context, ownerID primitive.ObjectID) ([]models.TweetView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.TweetView{}
	for _, t := range s.tweets {
		if t.Owner != nil && t.Owner.ID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) HasLiked(_ context.Context, likedBy primitive.ObjectID, target models.LikeTarget) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.likesErr != nil {
		return false, s.likesErr
	}
	for _, l := range s.likes {
		if l.LikedBy == likedBy && l.Target == target {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CountLikes(ctx context.Context, target models.LikeTarget) (int64, error) {
	s.mu.Lock()
	block, likesErr := s.blockLikes, s.likesErr
	s.mu.Unlock()
	if block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	if likesErr != nil {
		return 0, likesErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, l := range s.likes {
		if l.Target == target {
			n++
		}
	}
	return n, nil
}

func (s *memStore) ListLikes(_ context.Context, likedBy primitive.ObjectID, kind models.TargetKind) ([]models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Like{}
	for _, l := range s.likes {
		if l.LikedBy == likedBy && l.Target.Kind == kind {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func summaryOf(v *models.Video) models.VideoSummary {
	return models.VideoSummary{
		ID:          v.ID,
		Title:       v.Title,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		Owner:       &models.OwnerBrief{ID: v.OwnerID},
	}
}

var errStoreDown = errors.New("store unavailable")
