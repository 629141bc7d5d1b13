package composer

import (
	"context"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperrors"
	"github.com/anonto42/vidtube/backend/internal/models"
	"github.com/anonto42/vidtube/backend/internal/pagination"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/viewer"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// sortFields maps accepted sortBy values to stored field names
var sortFields = map[string]string{
	"createdAt": "createdAt",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

// VideoFeedPage is one page of the public video feed
type VideoFeedPage struct {
	Videos     []models.VideoSummary `json:"videos"`
	Pagination pagination.Page       `json:"pagination"`
}

// feedQuery validates a feed request. It never touches the store.
func feedQuery(req models.VideoFeedRequest) (repositories.FeedQuery, error) {
	q := repositories.FeedQuery{SearchText: strings.TrimSpace(req.Query)}

	if req.UserID != "" {
		ownerID, err := repositories.ParseID(req.UserID)
		if err != nil {
			return q, apperrors.InvalidArg("invalid userId")
		}
		q.OwnerID = ownerID
	}

	switch strings.ToLower(req.SortType) {
	case "", "desc":
	case "asc":
		q.SortAsc = true
	default:
		return q, apperrors.InvalidArg("sortType must be asc or desc")
	}

	if req.SortBy != "" {
		field, ok := sortFields[req.SortBy]
		if !ok {
			return q, apperrors.InvalidArg("unsupported sortBy " + req.SortBy)
		}
		q.SortField = field
	} else {
		q.SortAsc = false
	}
	return q, nil
}

// VideoFeed returns one page of published videos matching req.
// The total is counted first so the page number can be clamped, then the
// page is read with skip/limit pushed into the store. The two reads are not
// a snapshot; a write in between can skew the total by the changed rows.
func (c *Composer) VideoFeed(ctx context.Context, req models.VideoFeedRequest) (*VideoFeedPage, error) {
	q, err := feedQuery(req)
	if err != nil {
		return nil, err
	}
	number, size := pagination.Normalize(req.Page, req.Limit)

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	total, err := c.videos.CountFeed(ctx, q)
	if err != nil {
		return nil, storeError(err, "no videos found")
	}
	page := pagination.Paginate(total, number, size)

	videos := []models.VideoSummary{}
	if total > 0 {
		videos, err = c.videos.Feed(ctx, q, page.Start, page.Limit())
		if err != nil {
			return nil, storeError(err, "no videos found")
		}
	}

	return &VideoFeedPage{Videos: videos, Pagination: page}, nil
}

// LikedVideos lists the published videos v has liked, most recently liked
// first. A viewer with no likes gets an empty list.
func (c *Composer) LikedVideos(ctx context.Context, v viewer.Viewer) ([]models.VideoSummary, error) {
	viewerID, ok := v.ID()
	if !ok {
		return nil, apperrors.Unauthenticated("login required")
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	likes, err := c.likes.ListLikes(ctx, viewerID, models.TargetVideo)
	if err != nil {
		return nil, storeError(err, "likes not found")
	}
	if len(likes) == 0 {
		return []models.VideoSummary{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(likes))
	for _, like := range likes {
		ids = append(ids, like.Target.ID)
	}
	summaries, err := c.videos.SummariesByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err, "videos not found")
	}

	byID := indexSummaries(summaries)
	videos := make([]models.VideoSummary, 0, len(likes))
	for _, like := range likes {
		video, ok := byID[like.Target.ID]
		if !ok {
			continue // deleted or unpublished since it was liked
		}
		likedAt := like.CreatedAt
		video.LikedAt = &likedAt
		videos = append(videos, video)
	}
	return videos, nil
}

// WatchHistory lists the published videos v has watched, most recent first
func (c *Composer) WatchHistory(ctx context.Context, v viewer.Viewer) ([]models.VideoSummary, error) {
	viewerID, ok := v.ID()
	if !ok {
		return nil, apperrors.Unauthenticated("login required")
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	ids, err := c.users.WatchHistory(ctx, viewerID)
	if err != nil {
		return nil, storeError(err, "user not found")
	}
	if len(ids) == 0 {
		return []models.VideoSummary{}, nil
	}

	summaries, err := c.videos.SummariesByIDs(ctx, ids)
	if err != nil {
		return nil, storeError(err, "videos not found")
	}

	byID := indexSummaries(summaries)
	videos := make([]models.VideoSummary, 0, len(ids))
	for _, id := range ids {
		if video, ok := byID[id]; ok {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

// UserTweets lists a user's tweets, newest first
func (c *Composer) UserTweets(ctx context.Context, userID string) ([]models.TweetView, error) {
	ownerID, err := repositories.ParseID(userID)
	if err != nil {
		return nil, apperrors.InvalidArg("invalid user id")
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	tweets, err := c.tweets.TweetsByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError(err, "tweets not found")
	}
	return tweets, nil
}

func indexSummaries(summaries []models.VideoSummary) map[primitive.ObjectID]models.VideoSummary {
	byID := make(map[primitive.ObjectID]models.VideoSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	return byID
}
