package service

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/model/library"
)

type readerFixture struct {
	reader  *ReaderService
	storage *fakeStorage
}

// newReaderFixture 构建一个完整的书库层级：
// 系列 ezra → 故事 loops → 章节 ch-1 → 场景（含正文和触发点）
func newReaderFixture(scenes []*library.Scene, triggers []*library.Trigger) *readerFixture {
	series := &library.Series{ID: "ser-1", Slug: "ezra", Title: "Ezra"}
	story := &library.Story{ID: "sto-1", SeriesID: "ser-1", Slug: "loops", Title: "Loops", Sequence: 1}
	chapter := &library.Chapter{ID: "ch-1", StoryID: "sto-1", Sequence: 1, Title: "第一章"}

	sceneRepo := newFakeSceneRepo(scenes...)
	chapterRepo := newFakeChapterRepo(chapter)
	storyRepo := newFakeStoryRepo(story)
	seriesRepo := newFakeSeriesRepo(series)
	triggerRepo := newFakeTriggerRepo(triggers...)
	assetRepo := newFakeAssetRepo()

	st := newFakeStorage("local")
	mediaSvc := NewMediaService(assetRepo, triggerRepo, sceneRepo, chapterRepo, storyRepo, seriesRepo, &fakeProvider{s: st})
	readerSvc := NewReaderService(sceneRepo, chapterRepo, storyRepo, seriesRepo, triggerRepo, mediaSvc, nil, 0)

	return &readerFixture{reader: readerSvc, storage: st}
}

func TestReaderService_SceneView(t *testing.T) {
	Convey("SceneView 组装段落粒度的注解视图", t, func() {
		ctx := context.Background()

		Convey("触发点命中第二段时，默认媒体为该段媒体", func() {
			scene := &library.Scene{
				ID: "sc-5", ChapterID: "ch-1", StoryID: "sto-1",
				Title: "开场", Sequence: 1,
				Text: "A.\n\nB.",
			}
			trigger := &library.Trigger{
				ID: "trg-1", SceneID: "sc-5", UnitID: "p-sc-5-2",
				Kind: library.MediaKindImage, Filename: "x.png",
			}
			f := newReaderFixture([]*library.Scene{scene}, []*library.Trigger{trigger})
			f.storage.addObject("media/series/ezra/loops/scenes/images/x.png", "png")

			view, err := f.reader.SceneView(ctx, "sc-5")
			So(err, ShouldBeNil)
			So(view.SceneID, ShouldEqual, "sc-5")
			So(len(view.Units), ShouldEqual, 2)
			So(view.Units[0].ID, ShouldEqual, "p-sc-5-1")
			So(view.Units[0].Media, ShouldBeNil)
			So(view.Units[1].ID, ShouldEqual, "p-sc-5-2")
			So(view.Units[1].Media, ShouldNotBeNil)
			So(view.Units[1].Media.URL, ShouldEqual, "/api/v1/scenes/sc-5/media/x.png")
			So(view.DefaultMedia, ShouldNotBeNil)
			So(view.DefaultMedia.Filename, ShouldEqual, "x.png")
		})

		Convey("指向不存在单元的触发点静默失效", func() {
			scene := &library.Scene{
				ID: "sc-5", ChapterID: "ch-1", StoryID: "sto-1",
				Title: "开场", Sequence: 1,
				Text: "只有一个段落。",
			}
			trigger := &library.Trigger{
				ID: "trg-ghost", SceneID: "sc-5", UnitID: "p-sc-5-99",
				Kind: library.MediaKindImage, Filename: "ghost.png",
			}
			f := newReaderFixture([]*library.Scene{scene}, []*library.Trigger{trigger})

			view, err := f.reader.SceneView(ctx, "sc-5")
			So(err, ShouldBeNil)
			So(len(view.Units), ShouldEqual, 1)
			So(view.Units[0].Media, ShouldBeNil)
			So(view.DefaultMedia, ShouldBeNil)
		})

		Convey("单元媒体解析失败时降级为纯文本，视图不报错", func() {
			scene := &library.Scene{
				ID: "sc-5", ChapterID: "ch-1", StoryID: "sto-1",
				Title: "开场", Sequence: 1,
				Text: "A.\n\nB.",
			}
			trigger := &library.Trigger{
				ID: "trg-1", SceneID: "sc-5", UnitID: "p-sc-5-1",
				Kind: library.MediaKindImage, Filename: "missing.png",
			}
			// 存储目录中不存在 missing.png
			f := newReaderFixture([]*library.Scene{scene}, []*library.Trigger{trigger})

			view, err := f.reader.SceneView(ctx, "sc-5")
			So(err, ShouldBeNil)
			So(len(view.Units), ShouldEqual, 2)
			So(view.Units[0].Media, ShouldBeNil)
			So(view.DefaultMedia, ShouldBeNil)
		})

		Convey("场景不存在返回 ErrSceneNotFound", func() {
			f := newReaderFixture(nil, nil)
			_, err := f.reader.SceneView(ctx, "sc-miss")
			So(err, ShouldEqual, ErrSceneNotFound)
		})
	})
}

func TestReaderService_ChapterView(t *testing.T) {
	Convey("ChapterView 组装句子粒度、跨场景合并的注解视图", t, func() {
		ctx := context.Background()

		scene1 := &library.Scene{
			ID: "sc-1", ChapterID: "ch-1", StoryID: "sto-1",
			Title: "场景一", Sequence: 1,
			Text: "Hello world. Next thing!",
		}
		scene2 := &library.Scene{
			ID: "sc-2", ChapterID: "ch-1", StoryID: "sto-1",
			Title: "场景二", Sequence: 2,
			Text: "Another scene.",
		}

		Convey("场景之间插入分隔单元", func() {
			f := newReaderFixture([]*library.Scene{scene1, scene2}, nil)

			view, err := f.reader.ChapterView(ctx, "ch-1")
			So(err, ShouldBeNil)
			So(view.ChapterID, ShouldEqual, "ch-1")

			// 场景一2句 + 分隔 + 场景二1句
			So(len(view.Units), ShouldEqual, 4)
			So(view.Units[0].ID, ShouldEqual, "s-sc-1-1")
			So(view.Units[1].ID, ShouldEqual, "s-sc-1-2")
			So(view.Units[2].ID, ShouldEqual, "div-sc-2")
			So(view.Units[2].Divider, ShouldBeTrue)
			So(view.Units[2].Text, ShouldBeEmpty)
			So(view.Units[3].ID, ShouldEqual, "s-sc-2-1")

			// 无段落标记的句子归入同一段落；分隔单元不属于任何段落
			So(view.Units[0].Paragraph, ShouldEqual, 1)
			So(view.Units[1].Paragraph, ShouldEqual, 1)
			So(view.Units[2].Paragraph, ShouldEqual, 0)
			So(view.Units[3].Paragraph, ShouldEqual, 1)
		})

		Convey("双空格标记将句子切入不同段落", func() {
			scene := &library.Scene{
				ID: "sc-3", ChapterID: "ch-1", StoryID: "sto-1",
				Title: "场景三", Sequence: 1,
				Text: "One.  Two.",
			}
			f := newReaderFixture([]*library.Scene{scene}, nil)

			view, err := f.reader.ChapterView(ctx, "ch-1")
			So(err, ShouldBeNil)
			So(len(view.Units), ShouldEqual, 2)
			So(view.Units[0].Paragraph, ShouldEqual, 1)
			So(view.Units[0].EndsParagraph, ShouldBeTrue)
			So(view.Units[1].Paragraph, ShouldEqual, 2)
		})

		Convey("默认媒体取合并后顺序中的第一个媒体引用", func() {
			trigger := &library.Trigger{
				ID: "trg-2", SceneID: "sc-2", UnitID: "s-sc-2-1",
				Kind: library.MediaKindImage, Filename: "late.png",
			}
			f := newReaderFixture([]*library.Scene{scene1, scene2}, []*library.Trigger{trigger})
			f.storage.addObject("media/series/ezra/loops/scenes/images/late.png", "png")

			view, err := f.reader.ChapterView(ctx, "ch-1")
			So(err, ShouldBeNil)
			So(view.DefaultMedia, ShouldNotBeNil)
			So(view.DefaultMedia.Filename, ShouldEqual, "late.png")
			// URL 指向触发点归属场景的取流端点
			So(view.DefaultMedia.URL, ShouldEqual, "/api/v1/scenes/sc-2/media/late.png")
		})

		Convey("章节不存在返回 ErrChapterNotFound", func() {
			f := newReaderFixture(nil, nil)
			_, err := f.reader.ChapterView(ctx, "ch-miss")
			So(err, ShouldEqual, ErrChapterNotFound)
		})
	})
}
