package library

import (
	"fable/internal/model/library"
	httputil "fable/internal/pkg/http"
)

// ErrorResponse 错误响应类型别名（使用共用的 http.ErrorResponse）
type ErrorResponse = httputil.ErrorResponse

// SeriesInfo 系列信息
type SeriesInfo struct {
	ID    string `json:"id"`    // 系列ID
	Slug  string `json:"slug"`  // URL slug
	Title string `json:"title"` // 系列名称
}

// StoryInfo 故事信息
type StoryInfo struct {
	ID       string `json:"id"`       // 故事ID
	SeriesID string `json:"series_id"`
	Slug     string `json:"slug"`     // URL slug（系列内唯一）
	Title    string `json:"title"`    // 故事名称
	Sequence int    `json:"sequence"` // 在系列中的顺序
}

// ChapterInfo 章节信息
type ChapterInfo struct {
	ID         string `json:"id"`          // 章节ID
	StoryID    string `json:"story_id"`
	Sequence   int    `json:"sequence"`    // 章节序号
	Title      string `json:"title"`       // 章节标题
	TotalChars int    `json:"total_chars"` // 总字符数
	WordCount  int    `json:"word_count"`  // 总字数
	LineCount  int    `json:"line_count"`  // 行数
}

// SceneInfo 场景信息（列表用，不含正文）
type SceneInfo struct {
	ID        string `json:"id"`        // 场景ID
	ChapterID string `json:"chapter_id"`
	Title     string `json:"title"`     // 场景标题
	Sequence  int    `json:"sequence"`  // 在章节中的顺序
}

func toSeriesInfo(s *library.Series) SeriesInfo {
	return SeriesInfo{
		ID:    s.ID,
		Slug:  s.Slug,
		Title: s.Title,
	}
}

func toStoryInfo(s *library.Story) StoryInfo {
	return StoryInfo{
		ID:       s.ID,
		SeriesID: s.SeriesID,
		Slug:     s.Slug,
		Title:    s.Title,
		Sequence: s.Sequence,
	}
}

func toChapterInfo(c *library.Chapter) ChapterInfo {
	return ChapterInfo{
		ID:         c.ID,
		StoryID:    c.StoryID,
		Sequence:   c.Sequence,
		Title:      c.Title,
		TotalChars: c.TotalChars,
		WordCount:  c.WordCount,
		LineCount:  c.LineCount,
	}
}

func toSceneInfo(s *library.Scene) SceneInfo {
	return SceneInfo{
		ID:        s.ID,
		ChapterID: s.ChapterID,
		Title:     s.Title,
		Sequence:  s.Sequence,
	}
}
