package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Story 故事实体
// 说明：故事（也称"书"）属于一个系列，slug 在系列内唯一；拥有若干章节
type Story struct {
	ID       string `bson:"id" json:"id"`             // 故事ID（UUID）
	SeriesID string `bson:"series_id" json:"series_id"`
	Slug     string `bson:"slug" json:"slug"`         // URL slug（系列内唯一）
	Title    string `bson:"title" json:"title"`       // 故事名称
	Sequence int    `bson:"sequence" json:"sequence"` // 在系列中的顺序，从1开始

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (s *Story) Collection() string { return "stories" }

// EnsureIndexes 创建和维护索引
func (s *Story) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(s.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "series_id", Value: 1},
				{Key: "slug", Value: 1},
			},
			Options: options.Index().SetName("uniq_series_slug").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "series_id", Value: 1},
				{Key: "sequence", Value: 1},
			},
			Options: options.Index().SetName("idx_series_sequence"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
