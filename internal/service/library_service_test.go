package service

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/model/library"
)

func TestLibraryService_RecomputeChapterStats(t *testing.T) {
	Convey("RecomputeChapterStats 统计章节下全部场景正文并落库", t, func() {
		ctx := context.Background()
		chapter := &library.Chapter{ID: "ch-1", StoryID: "sto-1", Sequence: 1, Title: "第一章"}
		scenes := []*library.Scene{
			{ID: "sc-1", ChapterID: "ch-1", StoryID: "sto-1", Sequence: 1, Text: "你好，世界。"},
			{ID: "sc-2", ChapterID: "ch-1", StoryID: "sto-1", Sequence: 2, Text: "第二个场景。"},
		}
		chapterRepo := newFakeChapterRepo(chapter)
		svc := NewLibraryService(newFakeSeriesRepo(), newFakeStoryRepo(), chapterRepo, newFakeSceneRepo(scenes...))

		Convey("统计值按场景拼接正文计算", func() {
			stats, err := svc.RecomputeChapterStats(ctx, "ch-1")
			So(err, ShouldBeNil)
			// 两个场景各6字符，拼接用的空行不计入
			So(stats.TotalChars, ShouldEqual, 12)
			So(stats.LineCount, ShouldEqual, 2)
			So(stats.WordCount, ShouldBeGreaterThan, 0)
			So(stats.WordCount, ShouldBeLessThan, stats.TotalChars)
		})

		Convey("统计结果回写到章节元数据", func() {
			stats, err := svc.RecomputeChapterStats(ctx, "ch-1")
			So(err, ShouldBeNil)
			So(chapterRepo.chapters["ch-1"].TotalChars, ShouldEqual, stats.TotalChars)
			So(chapterRepo.chapters["ch-1"].WordCount, ShouldEqual, stats.WordCount)
			So(chapterRepo.chapters["ch-1"].LineCount, ShouldEqual, stats.LineCount)
		})

		Convey("章节不存在返回 ErrChapterNotFound", func() {
			_, err := svc.RecomputeChapterStats(ctx, "ch-miss")
			So(err, ShouldEqual, ErrChapterNotFound)
		})
	})
}
