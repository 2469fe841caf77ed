package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"fable/internal/model/library"
	"fable/internal/pkg/readertools"
	libraryRepo "fable/internal/repository/library"
)

var (
	ErrSeriesNotFound  = errors.New("系列不存在")
	ErrStoryNotFound   = errors.New("故事不存在")
	ErrChapterNotFound = errors.New("章节不存在")
	ErrSceneNotFound   = errors.New("场景不存在")
)

// LibraryService 书库服务：系列/故事/章节/场景的层级浏览
type LibraryService struct {
	seriesRepo  libraryRepo.SeriesRepository
	storyRepo   libraryRepo.StoryRepository
	chapterRepo libraryRepo.ChapterRepository
	sceneRepo   libraryRepo.SceneRepository
	textMeter   *readertools.TextMeter
}

// NewLibraryService 创建书库服务
func NewLibraryService(
	seriesRepo libraryRepo.SeriesRepository,
	storyRepo libraryRepo.StoryRepository,
	chapterRepo libraryRepo.ChapterRepository,
	sceneRepo libraryRepo.SceneRepository,
) *LibraryService {
	return &LibraryService{
		seriesRepo:  seriesRepo,
		storyRepo:   storyRepo,
		chapterRepo: chapterRepo,
		sceneRepo:   sceneRepo,
		textMeter:   readertools.NewTextMeter(),
	}
}

// ListSeries 列出所有系列
func (s *LibraryService) ListSeries(ctx context.Context) ([]*library.Series, error) {
	return s.seriesRepo.FindAll(ctx)
}

// ListStories 列出某系列下的所有故事（按顺序）
func (s *LibraryService) ListStories(ctx context.Context, seriesID string) ([]*library.Story, error) {
	if _, err := s.seriesRepo.FindByID(ctx, seriesID); err != nil {
		return nil, ErrSeriesNotFound
	}
	return s.storyRepo.FindBySeriesID(ctx, seriesID)
}

// StoryDetail 故事详情（含章节列表）
type StoryDetail struct {
	Story    *library.Story
	Series   *library.Series
	Chapters []*library.Chapter
}

// GetStory 获取故事详情及其章节列表
func (s *LibraryService) GetStory(ctx context.Context, storyID string) (*StoryDetail, error) {
	story, err := s.storyRepo.FindByID(ctx, storyID)
	if err != nil {
		return nil, ErrStoryNotFound
	}

	series, err := s.seriesRepo.FindByID(ctx, story.SeriesID)
	if err != nil {
		return nil, ErrSeriesNotFound
	}

	chapters, err := s.chapterRepo.FindByStoryID(ctx, storyID)
	if err != nil {
		return nil, err
	}

	return &StoryDetail{
		Story:    story,
		Series:   series,
		Chapters: chapters,
	}, nil
}

// GetChapters 获取某故事的章节列表
func (s *LibraryService) GetChapters(ctx context.Context, storyID string) ([]*library.Chapter, error) {
	if _, err := s.storyRepo.FindByID(ctx, storyID); err != nil {
		return nil, ErrStoryNotFound
	}
	return s.chapterRepo.FindByStoryID(ctx, storyID)
}

// GetScenes 获取某章节的场景列表（按顺序）
func (s *LibraryService) GetScenes(ctx context.Context, chapterID string) ([]*library.Scene, error) {
	if _, err := s.chapterRepo.FindByID(ctx, chapterID); err != nil {
		return nil, ErrChapterNotFound
	}
	return s.sceneRepo.FindByChapterID(ctx, chapterID)
}

// RecomputeChapterStats 重新统计章节的字符数/字数/行数并落库
// 统计对象为章节下所有场景正文的拼接
func (s *LibraryService) RecomputeChapterStats(ctx context.Context, chapterID string) (*readertools.TextStats, error) {
	chapter, err := s.chapterRepo.FindByID(ctx, chapterID)
	if err != nil {
		return nil, ErrChapterNotFound
	}

	scenes, err := s.sceneRepo.FindByChapterID(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(scenes))
	for _, scene := range scenes {
		texts = append(texts, scene.Text)
	}
	stats := s.textMeter.Measure(strings.Join(texts, "\n\n"))

	if err := s.chapterRepo.UpdateStats(ctx, chapter.ID, stats.TotalChars, stats.WordCount, stats.LineCount); err != nil {
		log.Error().Err(err).Str("chapter_id", chapter.ID).Msg("failed to update chapter stats")
		return nil, err
	}

	log.Info().
		Str("chapter_id", chapter.ID).
		Int("total_chars", stats.TotalChars).
		Int("word_count", stats.WordCount).
		Int("line_count", stats.LineCount).
		Msg("chapter stats recomputed")

	return &stats, nil
}
