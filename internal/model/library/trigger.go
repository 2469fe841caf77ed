package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Trigger 触发点实体
// 说明：人工维护的"文本单元 → 媒体文件"关联。unit_id 必须与同一场景正文
// 切分后的单元ID一致才会生效；指向不存在单元的触发点静默失效，不报错
type Trigger struct {
	ID      string    `bson:"id" json:"id"`             // 触发点ID（UUID）
	SceneID string    `bson:"scene_id" json:"scene_id"` // 关联的场景ID
	UnitID  string    `bson:"unit_id" json:"unit_id"`   // 文本单元ID（如 p-{scene_id}-3）
	Kind    MediaKind `bson:"kind" json:"kind"`         // 媒体类型：image, audio

	Filename string `bson:"filename" json:"filename"`                   // 逻辑文件名（裸文件名，不含路径）
	AssetID  string `bson:"asset_id,omitempty" json:"asset_id,omitempty"` // 首次解析成功后回填的 MediaAsset ID

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Collection 返回集合名称
func (t *Trigger) Collection() string { return "triggers" }

// EnsureIndexes 创建和维护索引
func (t *Trigger) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(t.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "scene_id", Value: 1}},
			Options: options.Index().SetName("idx_scene_id"),
		},
		{
			Keys: bson.D{
				{Key: "scene_id", Value: 1},
				{Key: "unit_id", Value: 1},
			},
			Options: options.Index().SetName("idx_scene_unit"),
		},
		{
			Keys:    bson.D{{Key: "filename", Value: 1}},
			Options: options.Index().SetName("idx_filename"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
