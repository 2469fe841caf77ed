package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/library"
)

// StoryRepository 故事仓库接口
type StoryRepository interface {
	Create(ctx context.Context, story *library.Story) error
	FindByID(ctx context.Context, id string) (*library.Story, error)
	FindBySeriesID(ctx context.Context, seriesID string) ([]*library.Story, error)
	FindBySeriesAndSlug(ctx context.Context, seriesID, slug string) (*library.Story, error)
}

// StoryRepo 故事仓库实现
type StoryRepo struct {
	coll *mongo.Collection
}

// NewStoryRepo 创建故事仓库
func NewStoryRepo(db *mongo.Database) *StoryRepo {
	var s library.Story
	return &StoryRepo{coll: db.Collection(s.Collection())}
}

// Create 创建故事
func (r *StoryRepo) Create(ctx context.Context, story *library.Story) error {
	now := time.Now()
	story.CreatedAt = now
	story.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, story)
	return err
}

// FindByID 根据ID查询故事
func (r *StoryRepo) FindByID(ctx context.Context, id string) (*library.Story, error) {
	var story library.Story
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&story); err != nil {
		return nil, err
	}
	return &story, nil
}

// FindBySeriesID 查询某系列的故事（按sequence排序）
func (r *StoryRepo) FindBySeriesID(ctx context.Context, seriesID string) ([]*library.Story, error) {
	filter := bson.M{"series_id": seriesID, "deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"sequence": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var stories []*library.Story
	if err := cur.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// FindBySeriesAndSlug 根据系列ID和slug查询故事
func (r *StoryRepo) FindBySeriesAndSlug(ctx context.Context, seriesID, slug string) (*library.Story, error) {
	var story library.Story
	filter := bson.M{"series_id": seriesID, "slug": slug, "deleted_at": nil}
	if err := r.coll.FindOne(ctx, filter).Decode(&story); err != nil {
		return nil, err
	}
	return &story, nil
}
