package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/library"
)

// SceneRepository 场景仓库接口
type SceneRepository interface {
	Create(ctx context.Context, scene *library.Scene) error
	CreateMany(ctx context.Context, scenes []*library.Scene) error
	FindByID(ctx context.Context, id string) (*library.Scene, error)
	FindByChapterID(ctx context.Context, chapterID string) ([]*library.Scene, error)
}

// SceneRepo 场景仓库实现
type SceneRepo struct {
	coll *mongo.Collection
}

// NewSceneRepo 创建场景仓库
func NewSceneRepo(db *mongo.Database) *SceneRepo {
	var s library.Scene
	return &SceneRepo{coll: db.Collection(s.Collection())}
}

// Create 创建场景
func (r *SceneRepo) Create(ctx context.Context, scene *library.Scene) error {
	now := time.Now()
	scene.CreatedAt = now
	scene.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, scene)
	return err
}

// CreateMany 批量创建场景
func (r *SceneRepo) CreateMany(ctx context.Context, scenes []*library.Scene) error {
	if len(scenes) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, len(scenes))
	for i, scene := range scenes {
		scene.CreatedAt = now
		scene.UpdatedAt = now
		docs[i] = scene
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

// FindByID 根据ID查询场景
func (r *SceneRepo) FindByID(ctx context.Context, id string) (*library.Scene, error) {
	var scene library.Scene
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&scene); err != nil {
		return nil, err
	}
	return &scene, nil
}

// FindByChapterID 根据章节ID查询所有场景（按sequence排序）
func (r *SceneRepo) FindByChapterID(ctx context.Context, chapterID string) ([]*library.Scene, error) {
	filter := bson.M{"chapter_id": chapterID, "deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"sequence": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var scenes []*library.Scene
	if err := cur.All(ctx, &scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}
