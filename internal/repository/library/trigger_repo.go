package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/library"
)

// TriggerRepository 触发点仓库接口
type TriggerRepository interface {
	Create(ctx context.Context, trigger *library.Trigger) error
	FindBySceneID(ctx context.Context, sceneID string) ([]*library.Trigger, error)
	LinkAsset(ctx context.Context, triggerID, assetID string) error
}

// TriggerRepo 触发点仓库实现
type TriggerRepo struct {
	coll *mongo.Collection
}

// NewTriggerRepo 创建触发点仓库
func NewTriggerRepo(db *mongo.Database) *TriggerRepo {
	var t library.Trigger
	return &TriggerRepo{coll: db.Collection(t.Collection())}
}

// Create 创建触发点
func (r *TriggerRepo) Create(ctx context.Context, trigger *library.Trigger) error {
	now := time.Now()
	trigger.CreatedAt = now
	trigger.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, trigger)
	return err
}

// FindBySceneID 查询某场景的所有触发点（按创建时间排序，保证重复unit取最早一条）
func (r *TriggerRepo) FindBySceneID(ctx context.Context, sceneID string) ([]*library.Trigger, error) {
	filter := bson.M{"scene_id": sceneID}
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var triggers []*library.Trigger
	if err := cur.All(ctx, &triggers); err != nil {
		return nil, err
	}
	return triggers, nil
}

// LinkAsset 回填触发点关联的媒体资产ID（首次解析成功后调用）
func (r *TriggerRepo) LinkAsset(ctx context.Context, triggerID, assetID string) error {
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": triggerID},
		bson.M{"$set": bson.M{
			"asset_id":   assetID,
			"updated_at": time.Now(),
		}},
	)
	return err
}
