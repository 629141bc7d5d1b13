package repositories

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FeedQuery is the store-level form of a video feed request. Stages are
// emitted in a fixed order: search, owner, published, sort, owner join.
type FeedQuery struct {
	SearchText string
	OwnerID    primitive.ObjectID // zero means any owner
	SortField  string             // bson field; empty means relevance/recency
	SortAsc    bool
}

const relevanceField = "score"

func ownerLookup(projection bson.D) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: UsersCollection},
		{Key: "localField", Value: "owner"},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: "owner"},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$project", Value: projection}},
		}},
	}}}
}

func firstOwner() bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: "owner", Value: bson.D{{Key: "$first", Value: "$owner"}}},
	}}}
}

var (
	channelProjection = bson.D{{Key: "fullName", Value: 1}, {Key: "avatar", Value: 1}}
	handleProjection  = bson.D{{Key: "username", Value: 1}, {Key: "avatar", Value: 1}}
	summaryProjection = bson.D{
		{Key: "title", Value: 1},
		{Key: "description", Value: 1},
		{Key: "thumbnail", Value: 1},
		{Key: "videoFile", Value: 1},
		{Key: "duration", Value: 1},
		{Key: "views", Value: 1},
		{Key: "isPublished", Value: 1},
		{Key: "owner", Value: 1},
		{Key: "createdAt", Value: 1},
	}
)

// videoDetailPipeline joins comments (with their owners) and the video owner
// (with subscription counts) onto a single published video. Likes are joined
// by the composer through the like store so either like backend works.
func videoDetailPipeline(videoID, viewerID primitive.ObjectID, hasViewer bool) mongo.Pipeline {
	var isSubscribed interface{} = false
	if hasViewer {
		isSubscribed = bson.D{{Key: "$in", Value: bson.A{viewerID, "$subscribers.subscriber"}}}
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: videoID}, {Key: "isPublished", Value: true}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CommentsCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "video"},
			{Key: "as", Value: "comments"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}},
				ownerLookup(channelProjection),
				firstOwner(),
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "content", Value: 1},
					{Key: "owner", Value: 1},
					{Key: "createdAt", Value: 1},
				}}},
			}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: UsersCollection},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$lookup", Value: bson.D{
					{Key: "from", Value: SubscriptionsCollection},
					{Key: "localField", Value: "_id"},
					{Key: "foreignField", Value: "channel"},
					{Key: "as", Value: "subscribers"},
				}}},
				bson.D{{Key: "$addFields", Value: bson.D{
					{Key: "subscribersCount", Value: bson.D{{Key: "$size", Value: "$subscribers"}}},
					{Key: "isSubscribed", Value: isSubscribed},
				}}},
				bson.D{{Key: "$project", Value: bson.D{
					{Key: "fullName", Value: 1},
					{Key: "avatar", Value: 1},
					{Key: "subscribersCount", Value: 1},
					{Key: "isSubscribed", Value: 1},
				}}},
			}},
		}}},
		firstOwner(),
		{{Key: "$project", Value: bson.D{
			{Key: "videoFile", Value: 1},
			{Key: "thumbnail", Value: 1},
			{Key: "title", Value: 1},
			{Key: "description", Value: 1},
			{Key: "views", Value: 1},
			{Key: "owner", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "duration", Value: 1},
			{Key: "comments", Value: 1},
			{Key: "isPublished", Value: 1},
		}}},
	}
}

// feedMatchStages are stages (1)-(3) of the feed: search, owner, published.
// Both $text and $search must be the first stage of a pipeline.
func feedMatchStages(q FeedQuery, search SearchOptions) mongo.Pipeline {
	var stages mongo.Pipeline

	if q.SearchText != "" {
		if search.Mode == SearchAtlas {
			stages = append(stages, bson.D{{Key: "$search", Value: bson.D{
				{Key: "index", Value: search.Index},
				{Key: "text", Value: bson.D{
					{Key: "query", Value: q.SearchText},
					{Key: "path", Value: bson.A{"title", "description"}},
				}},
			}}})
		} else {
			stages = append(stages, bson.D{{Key: "$match", Value: bson.D{
				{Key: "$text", Value: bson.D{{Key: "$search", Value: q.SearchText}}},
			}}})
		}
	}

	if !q.OwnerID.IsZero() {
		stages = append(stages, bson.D{{Key: "$match", Value: bson.D{{Key: "owner", Value: q.OwnerID}}}})
	}

	stages = append(stages, bson.D{{Key: "$match", Value: bson.D{{Key: "isPublished", Value: true}}}})
	return stages
}

// feedSortStages is stage (4). An explicit sort field wins; otherwise search
// results order by relevance then recency, and plain feeds by recency.
// _id is always the last key so pages never overlap.
func feedSortStages(q FeedQuery, search SearchOptions) mongo.Pipeline {
	if q.SortField != "" {
		dir := -1
		if q.SortAsc {
			dir = 1
		}
		return mongo.Pipeline{{{Key: "$sort", Value: bson.D{{Key: q.SortField, Value: dir}, {Key: "_id", Value: dir}}}}}
	}

	if q.SearchText != "" {
		meta := "textScore"
		if search.Mode == SearchAtlas {
			meta = "searchScore"
		}
		return mongo.Pipeline{
			{{Key: "$addFields", Value: bson.D{{Key: relevanceField, Value: bson.D{{Key: "$meta", Value: meta}}}}}},
			{{Key: "$sort", Value: bson.D{{Key: relevanceField, Value: -1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		}
	}

	return mongo.Pipeline{{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}}}
}

func feedCountPipeline(q FeedQuery, search SearchOptions) mongo.Pipeline {
	stages := feedMatchStages(q, search)
	return append(stages, bson.D{{Key: "$count", Value: "total"}})
}

// feedPagePipeline pushes skip/limit into the store ahead of the owner join (5);
// the join is one-to-one so ordering and totals are unaffected.
func feedPagePipeline(q FeedQuery, search SearchOptions, skip, limit int64) mongo.Pipeline {
	stages := feedMatchStages(q, search)
	stages = append(stages, feedSortStages(q, search)...)
	stages = append(stages,
		bson.D{{Key: "$skip", Value: skip}},
		bson.D{{Key: "$limit", Value: limit}},
		ownerLookup(handleProjection),
		firstOwner(),
		bson.D{{Key: "$project", Value: summaryProjection}},
	)
	return stages
}

// summariesPipeline loads published video cards for a set of ids with the
// owner's display name and avatar. Callers restore their own ordering.
func summariesPipeline(ids []primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}},
			{Key: "isPublished", Value: true},
		}}},
		ownerLookup(channelProjection),
		firstOwner(),
		{{Key: "$project", Value: summaryProjection}},
	}
}

// tweetsByOwnerPipeline joins a user's tweets to the owner's handle, newest first
func tweetsByOwnerPipeline(ownerID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "owner", Value: ownerID}}}},
		ownerLookup(handleProjection),
		firstOwner(),
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "content", Value: 1},
			{Key: "owner", Value: 1},
			{Key: "createdAt", Value: 1},
		}}},
	}
}
