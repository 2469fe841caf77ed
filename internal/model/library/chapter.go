package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Chapter 章节实体
// 说明：章节以 UUID 为主键，关联 story_id；正文内容按场景（Scene）单独存储
type Chapter struct {
	ID string `bson:"id" json:"id"` // 章节ID（UUID）

	StoryID string `bson:"story_id" json:"story_id"`

	Sequence int    `bson:"sequence" json:"sequence"` // 章节序号，从1开始
	Title    string `bson:"title" json:"title"`

	// 章节统计信息
	TotalChars int `bson:"total_chars" json:"total_chars"` // 章节总字符数（包括标点）
	WordCount  int `bson:"word_count" json:"word_count"`   // 章节总字数（不包括标点）
	LineCount  int `bson:"line_count" json:"line_count"`   // 章节行数

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (c *Chapter) Collection() string { return "chapters" }

// EnsureIndexes 创建和维护索引
func (c *Chapter) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(c.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "story_id", Value: 1},
				{Key: "sequence", Value: 1},
			},
			Options: options.Index().SetName("uniq_story_sequence").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "story_id", Value: 1}},
			Options: options.Index().SetName("idx_story_id"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
