package library

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fable/internal/model/library"
)

// SeriesRepository 系列仓库接口（供 service 层依赖）
type SeriesRepository interface {
	Create(ctx context.Context, s *library.Series) error
	FindByID(ctx context.Context, id string) (*library.Series, error)
	FindBySlug(ctx context.Context, slug string) (*library.Series, error)
	FindAll(ctx context.Context) ([]*library.Series, error)
}

// SeriesRepo 系列仓库
type SeriesRepo struct {
	coll *mongo.Collection
}

// NewSeriesRepo 创建系列仓库
func NewSeriesRepo(db *mongo.Database) *SeriesRepo {
	var s library.Series
	return &SeriesRepo{coll: db.Collection(s.Collection())}
}

// Create 创建系列
func (r *SeriesRepo) Create(ctx context.Context, s *library.Series) error {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, s)
	return err
}

// FindByID 根据ID查询系列
func (r *SeriesRepo) FindByID(ctx context.Context, id string) (*library.Series, error) {
	var s library.Series
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindBySlug 根据slug查询系列
func (r *SeriesRepo) FindBySlug(ctx context.Context, slug string) (*library.Series, error) {
	var s library.Series
	if err := r.coll.FindOne(ctx, bson.M{"slug": slug, "deleted_at": nil}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindAll 查询所有系列（按创建时间排序）
func (r *SeriesRepo) FindAll(ctx context.Context) ([]*library.Series, error) {
	filter := bson.M{"deleted_at": nil}
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var series []*library.Series
	if err := cur.All(ctx, &series); err != nil {
		return nil, err
	}
	return series, nil
}
