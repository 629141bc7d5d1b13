package repositories

import (
	"context"
	"time"

	"github.com/anonto42/vidtube/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideoByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	UpdateVideo(ctx context.Context, id primitive.ObjectID, patch models.VideoPatch) (*models.Video, error)
	DeleteVideo(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	VideoDetail(ctx context.Context, id, viewerID primitive.ObjectID, hasViewer bool) (*models.VideoDetailView, error)
	CountFeed(ctx context.Context, q FeedQuery) (int64, error)
	Feed(ctx context.Context, q FeedQuery, skip, limit int64) ([]models.VideoSummary, error)
	SummariesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.VideoSummary, error)
}

// SearchOptions configures full-text search for the video feed
type SearchOptions struct {
	Mode  SearchMode
	Index string
}

// MongoVideoRepository implements VideoRepository for MongoDB
type MongoVideoRepository struct {
	collection *mongo.Collection
	search     SearchOptions
}

// NewMongoVideoRepository creates a new MongoVideoRepository
func NewMongoVideoRepository(db *mongo.Database, search SearchOptions) *MongoVideoRepository {
	if search.Mode == "" {
		search.Mode = SearchText
	}
	return &MongoVideoRepository{collection: db.Collection(VideosCollection), search: search}
}

// CreateVideo creates a new video in MongoDB
func (r *MongoVideoRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	now := time.Now().UTC()
	video.ID = primitive.NewObjectID()
	video.CreatedAt = now
	video.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, video)
	return translateMongoError(err)
}

// GetVideoByID retrieves a video by ID regardless of its publish state
func (r *MongoVideoRepository) GetVideoByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	var video models.Video
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&video); err != nil {
		return nil, translateMongoError(err)
	}
	return &video, nil
}

// UpdateVideo applies a patch and returns the updated video
func (r *MongoVideoRepository) UpdateVideo(ctx context.Context, id primitive.ObjectID, patch models.VideoPatch) (*models.Video, error) {
	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if patch.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *patch.Description})
	}
	if patch.Thumbnail != nil {
		set = append(set, bson.E{Key: "thumbnail", Value: *patch.Thumbnail})
	}
	if patch.IsPublished != nil {
		set = append(set, bson.E{Key: "isPublished", Value: *patch.IsPublished})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var video models.Video
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&video)
	if err != nil {
		return nil, translateMongoError(err)
	}
	return &video, nil
}

// DeleteVideo deletes a video and returns the removed document
func (r *MongoVideoRepository) DeleteVideo(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	var video models.Video
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&video); err != nil {
		return nil, translateMongoError(err)
	}
	return &video, nil
}

// IncrementViews increments the view count of a video by one
func (r *MongoVideoRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// VideoDetail runs the detail pipeline for a published video
func (r *MongoVideoRepository) VideoDetail(ctx context.Context, id, viewerID primitive.ObjectID, hasViewer bool) (*models.VideoDetailView, error) {
	cursor, err := r.collection.Aggregate(ctx, videoDetailPipeline(id, viewerID, hasViewer))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var views []models.VideoDetailView
	if err := cursor.All(ctx, &views); err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	view := views[0]
	if view.Comments == nil {
		view.Comments = []models.CommentView{}
	}
	return &view, nil
}

// CountFeed counts the videos matching a feed query
func (r *MongoVideoRepository) CountFeed(ctx context.Context, q FeedQuery) (int64, error) {
	cursor, err := r.collection.Aggregate(ctx, feedCountPipeline(q, r.search))
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

// Feed returns one page of a feed query
func (r *MongoVideoRepository) Feed(ctx context.Context, q FeedQuery, skip, limit int64) ([]models.VideoSummary, error) {
	cursor, err := r.collection.Aggregate(ctx, feedPagePipeline(q, r.search, skip, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	videos := []models.VideoSummary{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// SummariesByIDs returns published video cards for the given ids in no particular order
func (r *MongoVideoRepository) SummariesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.VideoSummary, error) {
	if len(ids) == 0 {
		return []models.VideoSummary{}, nil
	}
	cursor, err := r.collection.Aggregate(ctx, summariesPipeline(ids))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	videos := []models.VideoSummary{}
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}
