package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Scene 场景实体
// 说明：场景是章节内的最小编排单位，携带原始正文；正文在渲染时由
// readertools 切分为段落/句子单元，本身只读
type Scene struct {
	ID        string `bson:"id" json:"id"`               // 场景ID（UUID）
	ChapterID string `bson:"chapter_id" json:"chapter_id"` // 关联的章节ID
	StoryID   string `bson:"story_id" json:"story_id"`   // 关联的故事ID（冗余字段，方便查询）

	Title    string `bson:"title" json:"title"`       // 场景标题
	Text     string `bson:"text" json:"text"`         // 场景原始正文
	Sequence int    `bson:"sequence" json:"sequence"` // 在章节中的顺序，从1开始

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (s *Scene) Collection() string { return "scenes" }

// EnsureIndexes 创建和维护索引
func (s *Scene) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(s.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "chapter_id", Value: 1},
				{Key: "sequence", Value: 1},
			},
			Options: options.Index().SetName("uniq_chapter_sequence").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "chapter_id", Value: 1}},
			Options: options.Index().SetName("idx_chapter_id"),
		},
		{
			Keys:    bson.D{{Key: "story_id", Value: 1}},
			Options: options.Index().SetName("idx_story_id"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
