package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/library"
)

// ChapterRepository 章节仓库接口
type ChapterRepository interface {
	Create(ctx context.Context, ch *library.Chapter) error
	FindByID(ctx context.Context, id string) (*library.Chapter, error)
	FindByStoryID(ctx context.Context, storyID string) ([]*library.Chapter, error)
	UpdateStats(ctx context.Context, chapterID string, totalChars, wordCount, lineCount int) error
}

// ChapterRepo 章节仓库
type ChapterRepo struct {
	coll *mongo.Collection
}

// NewChapterRepo 创建章节仓库
func NewChapterRepo(db *mongo.Database) *ChapterRepo {
	var c library.Chapter
	return &ChapterRepo{coll: db.Collection(c.Collection())}
}

// Create 创建章节
func (r *ChapterRepo) Create(ctx context.Context, ch *library.Chapter) error {
	now := time.Now()
	ch.CreatedAt = now
	ch.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, ch)
	return err
}

// FindByID 根据ID查询章节
func (r *ChapterRepo) FindByID(ctx context.Context, id string) (*library.Chapter, error) {
	var ch library.Chapter
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// FindByStoryID 查询某故事的章节（按sequence排序）
func (r *ChapterRepo) FindByStoryID(ctx context.Context, storyID string) ([]*library.Chapter, error) {
	filter := bson.M{"story_id": storyID, "deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"sequence": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var chapters []*library.Chapter
	if err := cur.All(ctx, &chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

// UpdateStats 更新章节统计信息
func (r *ChapterRepo) UpdateStats(ctx context.Context, chapterID string, totalChars, wordCount, lineCount int) error {
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": chapterID},
		bson.M{"$set": bson.M{
			"total_chars": totalChars,
			"word_count":  wordCount,
			"line_count":  lineCount,
			"updated_at":  time.Now(),
		}},
	)
	return err
}
