package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MediaAsset 媒体资产实体（注册表）
// 说明：逻辑文件名到物理存储引用的映射，首次解析成功后惰性注册。
// filename 全局唯一，并发注册时按 filename 幂等 upsert（last-writer-wins）
type MediaAsset struct {
	ID       string    `bson:"id" json:"id"`             // 资产ID（UUID）
	Filename string    `bson:"filename" json:"filename"` // 逻辑文件名（唯一）
	Kind     MediaKind `bson:"kind" json:"kind"`         // 媒体类型：image, audio

	// 物理存储引用（存储后端的 key 或文件ID，不透明）
	PhysicalRef string `bson:"physical_ref" json:"physical_ref"`

	RegisteredAt time.Time `bson:"registered_at" json:"registered_at"` // 首次注册时间
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// Collection 返回集合名称
func (m *MediaAsset) Collection() string { return "media_assets" }

// EnsureIndexes 创建和维护索引
func (m *MediaAsset) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(m.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "filename", Value: 1}},
			Options: options.Index().SetName("uniq_filename").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "kind", Value: 1}},
			Options: options.Index().SetName("idx_kind"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
