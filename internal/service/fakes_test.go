package service

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"fable/internal/model/library"
	"fable/internal/pkg/storage"
)

// 内存仓库与存储桩，测试媒体解析和视图组装时替代 Mongo/OSS

type fakeAssetRepo struct {
	assets      map[string]*library.MediaAsset // filename → asset
	upsertCalls int
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]*library.MediaAsset)}
}

func (r *fakeAssetRepo) FindByFilename(_ context.Context, filename string) (*library.MediaAsset, error) {
	if a, ok := r.assets[filename]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAssetRepo) Upsert(_ context.Context, asset *library.MediaAsset) (*library.MediaAsset, error) {
	r.upsertCalls++
	now := time.Now()
	if existing, ok := r.assets[asset.Filename]; ok {
		// 已存在：保留首次插入的 id/registered_at，覆盖物理引用
		existing.Kind = asset.Kind
		existing.PhysicalRef = asset.PhysicalRef
		existing.UpdatedAt = now
		cp := *existing
		return &cp, nil
	}
	saved := *asset
	saved.RegisteredAt = now
	saved.CreatedAt = now
	saved.UpdatedAt = now
	r.assets[asset.Filename] = &saved
	cp := saved
	return &cp, nil
}

type fakeTriggerRepo struct {
	triggers []*library.Trigger
	linked   map[string]string // trigger_id → asset_id
}

func newFakeTriggerRepo(triggers ...*library.Trigger) *fakeTriggerRepo {
	return &fakeTriggerRepo{triggers: triggers, linked: make(map[string]string)}
}

func (r *fakeTriggerRepo) Create(_ context.Context, trigger *library.Trigger) error {
	r.triggers = append(r.triggers, trigger)
	return nil
}

func (r *fakeTriggerRepo) FindBySceneID(_ context.Context, sceneID string) ([]*library.Trigger, error) {
	var out []*library.Trigger
	for _, t := range r.triggers {
		if t.SceneID == sceneID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTriggerRepo) LinkAsset(_ context.Context, triggerID, assetID string) error {
	r.linked[triggerID] = assetID
	return nil
}

type fakeSceneRepo struct {
	scenes map[string]*library.Scene
}

func newFakeSceneRepo(scenes ...*library.Scene) *fakeSceneRepo {
	r := &fakeSceneRepo{scenes: make(map[string]*library.Scene)}
	for _, s := range scenes {
		r.scenes[s.ID] = s
	}
	return r
}

func (r *fakeSceneRepo) Create(_ context.Context, scene *library.Scene) error {
	r.scenes[scene.ID] = scene
	return nil
}

func (r *fakeSceneRepo) CreateMany(_ context.Context, scenes []*library.Scene) error {
	for _, s := range scenes {
		r.scenes[s.ID] = s
	}
	return nil
}

func (r *fakeSceneRepo) FindByID(_ context.Context, id string) (*library.Scene, error) {
	if s, ok := r.scenes[id]; ok {
		return s, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeSceneRepo) FindByChapterID(_ context.Context, chapterID string) ([]*library.Scene, error) {
	var out []*library.Scene
	for _, s := range r.scenes {
		if s.ChapterID == chapterID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

type fakeChapterRepo struct {
	chapters map[string]*library.Chapter
}

func newFakeChapterRepo(chapters ...*library.Chapter) *fakeChapterRepo {
	r := &fakeChapterRepo{chapters: make(map[string]*library.Chapter)}
	for _, c := range chapters {
		r.chapters[c.ID] = c
	}
	return r
}

func (r *fakeChapterRepo) Create(_ context.Context, ch *library.Chapter) error {
	r.chapters[ch.ID] = ch
	return nil
}

func (r *fakeChapterRepo) FindByID(_ context.Context, id string) (*library.Chapter, error) {
	if c, ok := r.chapters[id]; ok {
		return c, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeChapterRepo) FindByStoryID(_ context.Context, storyID string) ([]*library.Chapter, error) {
	var out []*library.Chapter
	for _, c := range r.chapters {
		if c.StoryID == storyID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *fakeChapterRepo) UpdateStats(_ context.Context, chapterID string, totalChars, wordCount, lineCount int) error {
	if c, ok := r.chapters[chapterID]; ok {
		c.TotalChars = totalChars
		c.WordCount = wordCount
		c.LineCount = lineCount
	}
	return nil
}

type fakeStoryRepo struct {
	stories map[string]*library.Story
}

func newFakeStoryRepo(stories ...*library.Story) *fakeStoryRepo {
	r := &fakeStoryRepo{stories: make(map[string]*library.Story)}
	for _, s := range stories {
		r.stories[s.ID] = s
	}
	return r
}

func (r *fakeStoryRepo) Create(_ context.Context, story *library.Story) error {
	r.stories[story.ID] = story
	return nil
}

func (r *fakeStoryRepo) FindByID(_ context.Context, id string) (*library.Story, error) {
	if s, ok := r.stories[id]; ok {
		return s, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeStoryRepo) FindBySeriesID(_ context.Context, seriesID string) ([]*library.Story, error) {
	var out []*library.Story
	for _, s := range r.stories {
		if s.SeriesID == seriesID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *fakeStoryRepo) FindBySeriesAndSlug(_ context.Context, seriesID, slug string) (*library.Story, error) {
	for _, s := range r.stories {
		if s.SeriesID == seriesID && s.Slug == slug {
			return s, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type fakeSeriesRepo struct {
	series map[string]*library.Series
}

func newFakeSeriesRepo(series ...*library.Series) *fakeSeriesRepo {
	r := &fakeSeriesRepo{series: make(map[string]*library.Series)}
	for _, s := range series {
		r.series[s.ID] = s
	}
	return r
}

func (r *fakeSeriesRepo) Create(_ context.Context, s *library.Series) error {
	r.series[s.ID] = s
	return nil
}

func (r *fakeSeriesRepo) FindByID(_ context.Context, id string) (*library.Series, error) {
	if s, ok := r.series[id]; ok {
		return s, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeSeriesRepo) FindBySlug(_ context.Context, slug string) (*library.Series, error) {
	for _, s := range r.series {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeSeriesRepo) FindAll(_ context.Context) ([]*library.Series, error) {
	var out []*library.Series
	for _, s := range r.series {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// fakeStorage 内存存储桩
type fakeStorage struct {
	storageType string
	objects     []storage.ObjectInfo
	files       map[string]string // key → 内容
	listCalls   int
}

func newFakeStorage(storageType string) *fakeStorage {
	return &fakeStorage{
		storageType: storageType,
		files:       make(map[string]string),
	}
}

func (f *fakeStorage) addObject(key, content string) {
	f.objects = append(f.objects, storage.ObjectInfo{
		Key:  key,
		Name: key[strings.LastIndex(key, "/")+1:],
		Size: int64(len(content)),
	})
	f.files[key] = content
}

func (f *fakeStorage) Upload(_ context.Context, key string, data io.Reader, _ string) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	f.addObject(key, string(b))
	return key, nil
}

func (f *fakeStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	content, ok := f.files[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (f *fakeStorage) GetPresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://bucket.example.com/" + key + "?signature=stub", nil
}

func (f *fakeStorage) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	f.listCalls++
	var out []storage.ObjectInfo
	for _, o := range f.objects {
		if strings.HasPrefix(o.Key, prefix) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	delete(f.files, key)
	return nil
}

func (f *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.files[key]
	return ok, nil
}

func (f *fakeStorage) GetFileInfo(_ context.Context, key string) (*storage.FileInfo, error) {
	content, ok := f.files[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return &storage.FileInfo{Key: key, Size: int64(len(content))}, nil
}

func (f *fakeStorage) GetStorageType() string {
	return f.storageType
}

// fakeProvider 存储句柄桩；err 非空时模拟凭证未就绪
type fakeProvider struct {
	s   storage.Storage
	err error
}

func (p *fakeProvider) Get(_ context.Context) (storage.Storage, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.s, nil
}
