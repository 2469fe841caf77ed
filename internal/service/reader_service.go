package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"fable/internal/model/library"
	"fable/internal/pkg/cache"
	"fable/internal/pkg/readertools"
	libraryRepo "fable/internal/repository/library"
)

// MediaRef 视图中的媒体引用
// URL 指向应用自身的受保护取流端点，不暴露存储后端地址
type MediaRef struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// ViewUnit 视图中的文本单元
type ViewUnit struct {
	ID            string    `json:"id"`
	Text          string    `json:"text,omitempty"`
	EndsParagraph bool      `json:"ends_paragraph,omitempty"`
	Divider       bool      `json:"divider,omitempty"`
	Media         *MediaRef `json:"media,omitempty"`

	// Paragraph 句子粒度视图中有效：句子归属的段落序号（场景内1-based），
	// 客户端按此重组段落布局
	Paragraph int `json:"paragraph,omitempty"`
}

// SceneView 场景阅读视图：段落粒度的注解文档
type SceneView struct {
	SceneID      string     `json:"scene_id"`
	ChapterID    string     `json:"chapter_id"`
	Title        string     `json:"title"`
	Units        []ViewUnit `json:"units"`
	DefaultMedia *MediaRef  `json:"default_media,omitempty"`
}

// ChapterView 章节阅读视图：句子粒度、跨场景合并的注解文档
type ChapterView struct {
	ChapterID    string     `json:"chapter_id"`
	StoryID      string     `json:"story_id"`
	Title        string     `json:"title"`
	Units        []ViewUnit `json:"units"`
	DefaultMedia *MediaRef  `json:"default_media,omitempty"`
}

// ReaderService 阅读服务：组装场景/章节的注解阅读视图
type ReaderService struct {
	sceneRepo   libraryRepo.SceneRepository
	chapterRepo libraryRepo.ChapterRepository
	storyRepo   libraryRepo.StoryRepository
	seriesRepo  libraryRepo.SeriesRepository
	triggerRepo libraryRepo.TriggerRepository
	media       *MediaService

	cache   *cache.RedisCache // 可选，为nil时每次现算
	viewTTL time.Duration
}

// NewReaderService 创建阅读服务
func NewReaderService(
	sceneRepo libraryRepo.SceneRepository,
	chapterRepo libraryRepo.ChapterRepository,
	storyRepo libraryRepo.StoryRepository,
	seriesRepo libraryRepo.SeriesRepository,
	triggerRepo libraryRepo.TriggerRepository,
	media *MediaService,
	viewCache *cache.RedisCache,
	viewTTL time.Duration,
) *ReaderService {
	if viewTTL <= 0 {
		viewTTL = cache.DefaultViewCacheTTL
	}
	return &ReaderService{
		sceneRepo:   sceneRepo,
		chapterRepo: chapterRepo,
		storyRepo:   storyRepo,
		seriesRepo:  seriesRepo,
		triggerRepo: triggerRepo,
		media:       media,
		cache:       viewCache,
		viewTTL:     viewTTL,
	}
}

// mediaFetchURL 构造媒体取流端点URL（受登录保护的应用内端点）
func mediaFetchURL(sceneID, filename string) string {
	return fmt.Sprintf("/api/v1/scenes/%s/media/%s", sceneID, filename)
}

// SceneView 组装场景阅读视图（段落粒度）
func (s *ReaderService) SceneView(ctx context.Context, sceneID string) (*SceneView, error) {
	if s.cache != nil {
		var cached SceneView
		if err := s.cache.Get(ctx, cache.SceneViewCacheKey(sceneID), &cached); err == nil {
			return &cached, nil
		}
	}

	scene, err := s.sceneRepo.FindByID(ctx, sceneID)
	if err != nil {
		return nil, ErrSceneNotFound
	}

	seriesSlug, storySlug, err := s.media.slugsForScene(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	triggers, err := s.triggerRepo.FindBySceneID(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	units := readertools.SplitParagraphs(scene.ID, scene.Text)
	doc := readertools.Annotate(scene.ID, units, triggerPoints(triggers))

	view := &SceneView{
		SceneID:   scene.ID,
		ChapterID: scene.ChapterID,
		Title:     scene.Title,
		Units:     s.renderUnits(ctx, doc.Units, triggers, scene.ID, seriesSlug, storySlug),
	}
	view.DefaultMedia = firstMedia(view.Units)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.SceneViewCacheKey(sceneID), view, s.viewTTL); err != nil {
			log.Warn().Err(err).Str("scene_id", sceneID).Msg("failed to cache scene view")
		}
	}
	return view, nil
}

// ChapterView 组装章节阅读视图（句子粒度，场景间插入分隔单元）
func (s *ReaderService) ChapterView(ctx context.Context, chapterID string) (*ChapterView, error) {
	if s.cache != nil {
		var cached ChapterView
		if err := s.cache.Get(ctx, cache.ChapterViewCacheKey(chapterID), &cached); err == nil {
			return &cached, nil
		}
	}

	chapter, err := s.chapterRepo.FindByID(ctx, chapterID)
	if err != nil {
		return nil, ErrChapterNotFound
	}

	story, err := s.storyRepo.FindByID(ctx, chapter.StoryID)
	if err != nil {
		return nil, ErrStoryNotFound
	}
	series, err := s.seriesRepo.FindByID(ctx, story.SeriesID)
	if err != nil {
		return nil, ErrSeriesNotFound
	}

	scenes, err := s.sceneRepo.FindByChapterID(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	// 逐场景切分注解，再合并为章节级文档；filename → 归属场景/触发点
	// 的映射用于渲染取流URL和解析注册
	docs := make([]readertools.Document, 0, len(scenes))
	fileScene := make(map[string]string)
	fileTrigger := make(map[string]*library.Trigger)
	paraOf := make(map[string]int) // unit_id → 场景内段落序号
	for _, scene := range scenes {
		triggers, err := s.triggerRepo.FindBySceneID(ctx, scene.ID)
		if err != nil {
			return nil, err
		}
		for _, t := range triggers {
			if _, ok := fileScene[t.Filename]; !ok {
				fileScene[t.Filename] = scene.ID
				fileTrigger[t.Filename] = t
			}
		}
		units := readertools.SplitSentences(scene.ID, scene.Text)
		for pi, para := range readertools.GroupIntoParagraphs(units) {
			for _, u := range para {
				paraOf[u.ID] = pi + 1
			}
		}
		docs = append(docs, readertools.Annotate(scene.ID, units, triggerPoints(triggers)))
	}

	merged := readertools.MergeDocuments(docs)

	view := &ChapterView{
		ChapterID: chapter.ID,
		StoryID:   chapter.StoryID,
		Title:     chapter.Title,
		Units:     s.renderMergedUnits(ctx, merged.Units, fileScene, fileTrigger, paraOf, series.Slug, story.Slug),
	}
	view.DefaultMedia = firstMedia(view.Units)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.ChapterViewCacheKey(chapterID), view, s.viewTTL); err != nil {
			log.Warn().Err(err).Str("chapter_id", chapterID).Msg("failed to cache chapter view")
		}
	}
	return view, nil
}

// renderUnits 将注解单元渲染为视图单元（单场景）
// 单元级媒体解析失败时降级为纯文本单元，绝不让整个视图失败
func (s *ReaderService) renderUnits(
	ctx context.Context,
	units []readertools.AnnotatedUnit,
	triggers []*library.Trigger,
	sceneID, seriesSlug, storySlug string,
) []ViewUnit {
	byFile := make(map[string]*library.Trigger, len(triggers))
	for _, t := range triggers {
		if _, ok := byFile[t.Filename]; !ok {
			byFile[t.Filename] = t
		}
	}

	out := make([]ViewUnit, 0, len(units))
	for _, u := range units {
		vu := ViewUnit{
			ID:            u.ID,
			Text:          u.Text,
			EndsParagraph: u.EndsParagraph,
			Divider:       u.Divider,
		}
		if u.Media != nil {
			vu.Media = s.resolveMediaRef(ctx, byFile[u.Media.Filename], u.Media, sceneID, seriesSlug, storySlug)
		}
		out = append(out, vu)
	}
	return out
}

// renderMergedUnits 将合并后的章节单元渲染为视图单元
func (s *ReaderService) renderMergedUnits(
	ctx context.Context,
	units []readertools.AnnotatedUnit,
	fileScene map[string]string,
	fileTrigger map[string]*library.Trigger,
	paraOf map[string]int,
	seriesSlug, storySlug string,
) []ViewUnit {
	out := make([]ViewUnit, 0, len(units))
	for _, u := range units {
		vu := ViewUnit{
			ID:            u.ID,
			Text:          u.Text,
			EndsParagraph: u.EndsParagraph,
			Divider:       u.Divider,
			Paragraph:     paraOf[u.ID],
		}
		if u.Media != nil {
			sceneID := fileScene[u.Media.Filename]
			vu.Media = s.resolveMediaRef(ctx, fileTrigger[u.Media.Filename], u.Media, sceneID, seriesSlug, storySlug)
		}
		out = append(out, vu)
	}
	return out
}

// resolveMediaRef 解析单个媒体引用；失败时返回nil（该单元降级为纯文本）
func (s *ReaderService) resolveMediaRef(
	ctx context.Context,
	trigger *library.Trigger,
	point *readertools.TriggerPoint,
	sceneID, seriesSlug, storySlug string,
) *MediaRef {
	if trigger == nil {
		trigger = &library.Trigger{
			SceneID:  sceneID,
			Kind:     library.MediaKind(point.Kind),
			Filename: point.Filename,
		}
	}

	if _, err := s.media.EnsureAsset(ctx, trigger, seriesSlug, storySlug); err != nil {
		log.Warn().Err(err).
			Str("scene_id", sceneID).
			Str("unit_id", point.UnitID).
			Str("filename", point.Filename).
			Msg("media resolution failed, unit degrades to plain text")
		return nil
	}

	return &MediaRef{
		Kind:     point.Kind,
		Filename: point.Filename,
		URL:      mediaFetchURL(sceneID, point.Filename),
	}
}

// triggerPoints 将触发点实体转换为切分注解用的关联点
func triggerPoints(triggers []*library.Trigger) []readertools.TriggerPoint {
	points := make([]readertools.TriggerPoint, 0, len(triggers))
	for _, t := range triggers {
		points = append(points, readertools.TriggerPoint{
			UnitID:   t.UnitID,
			Kind:     string(t.Kind),
			Filename: t.Filename,
		})
	}
	return points
}

// firstMedia 取文档顺序中第一个媒体引用作为默认展示资产
func firstMedia(units []ViewUnit) *MediaRef {
	for i := range units {
		if units[i].Media != nil {
			return units[i].Media
		}
	}
	return nil
}
