package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/library"
)

// MediaAssetRepository 媒体资产注册表仓库接口
type MediaAssetRepository interface {
	FindByFilename(ctx context.Context, filename string) (*library.MediaAsset, error)
	Upsert(ctx context.Context, asset *library.MediaAsset) (*library.MediaAsset, error)
}

// MediaAssetRepo 媒体资产注册表仓库实现
type MediaAssetRepo struct {
	coll *mongo.Collection
}

// NewMediaAssetRepo 创建媒体资产仓库
func NewMediaAssetRepo(db *mongo.Database) *MediaAssetRepo {
	var m library.MediaAsset
	return &MediaAssetRepo{coll: db.Collection(m.Collection())}
}

// FindByFilename 根据逻辑文件名查询资产
func (r *MediaAssetRepo) FindByFilename(ctx context.Context, filename string) (*library.MediaAsset, error) {
	var asset library.MediaAsset
	if err := r.coll.FindOne(ctx, bson.M{"filename": filename}).Decode(&asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// Upsert 按 filename 幂等注册资产
// 并发注册同一文件名时依赖唯一索引保证只有一条记录，后写者覆盖物理引用，
// 两边最终读到同一物理引用；id 和 registered_at 仅在首次插入时写入
func (r *MediaAssetRepo) Upsert(ctx context.Context, asset *library.MediaAsset) (*library.MediaAsset, error) {
	now := time.Now()
	filter := bson.M{"filename": asset.Filename}
	update := bson.M{
		"$set": bson.M{
			"kind":         asset.Kind,
			"physical_ref": asset.PhysicalRef,
			"updated_at":   now,
		},
		"$setOnInsert": bson.M{
			"id":            asset.ID,
			"filename":      asset.Filename,
			"registered_at": now,
			"created_at":    now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved library.MediaAsset
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, err
	}
	return &saved, nil
}
