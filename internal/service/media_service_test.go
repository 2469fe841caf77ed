package service

import (
	"context"
	"errors"
	"io"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fable/internal/model/library"
)

func TestMediaKey(t *testing.T) {
	Convey("MediaKey 按目录布局约定构造存储key", t, func() {
		Convey("图片文件", func() {
			key := MediaKey("ezra", "loops", library.MediaKindImage, "cover.png")
			So(key, ShouldEqual, "media/series/ezra/loops/scenes/images/cover.png")
		})

		Convey("音频文件", func() {
			key := MediaKey("ezra", "loops", library.MediaKindAudio, "theme.mp3")
			So(key, ShouldEqual, "media/series/ezra/loops/scenes/audio/theme.mp3")
		})

		Convey("前缀以斜杠结尾", func() {
			prefix := MediaKeyPrefix("ezra", "loops", library.MediaKindImage)
			So(prefix, ShouldEqual, "media/series/ezra/loops/scenes/images/")
		})
	})
}

func newMediaServiceForTest(assetRepo *fakeAssetRepo, triggerRepo *fakeTriggerRepo, st *fakeStorage, provErr error) (*MediaService, *fakeStorage) {
	series := &library.Series{ID: "ser-1", Slug: "ezra", Title: "Ezra"}
	story := &library.Story{ID: "sto-1", SeriesID: "ser-1", Slug: "loops", Title: "Loops", Sequence: 1}
	chapter := &library.Chapter{ID: "ch-1", StoryID: "sto-1", Sequence: 1, Title: "第一章"}
	scene := &library.Scene{ID: "sc-1", ChapterID: "ch-1", StoryID: "sto-1", Title: "开场", Sequence: 1}

	svc := NewMediaService(
		assetRepo,
		triggerRepo,
		newFakeSceneRepo(scene),
		newFakeChapterRepo(chapter),
		newFakeStoryRepo(story),
		newFakeSeriesRepo(series),
		&fakeProvider{s: st, err: provErr},
	)
	return svc, st
}

func TestMediaService_EnsureAsset(t *testing.T) {
	Convey("EnsureAsset 定位并注册媒体文件", t, func() {
		ctx := context.Background()
		trigger := &library.Trigger{
			ID:       "trg-1",
			SceneID:  "sc-1",
			UnitID:   "p-sc-1-1",
			Kind:     library.MediaKindImage,
			Filename: "cover.png",
		}

		Convey("目录中存在该文件时注册成功并回填触发点", func() {
			assetRepo := newFakeAssetRepo()
			triggerRepo := newFakeTriggerRepo(trigger)
			st := newFakeStorage("local")
			st.addObject("media/series/ezra/loops/scenes/images/cover.png", "png-bytes")
			svc, _ := newMediaServiceForTest(assetRepo, triggerRepo, st, nil)

			asset, err := svc.EnsureAsset(ctx, trigger, "ezra", "loops")
			So(err, ShouldBeNil)
			So(asset.Filename, ShouldEqual, "cover.png")
			So(asset.PhysicalRef, ShouldEqual, "media/series/ezra/loops/scenes/images/cover.png")
			So(triggerRepo.linked["trg-1"], ShouldEqual, asset.ID)
		})

		Convey("重复解析同一文件名是幂等的", func() {
			assetRepo := newFakeAssetRepo()
			triggerRepo := newFakeTriggerRepo(trigger)
			st := newFakeStorage("local")
			st.addObject("media/series/ezra/loops/scenes/images/cover.png", "png-bytes")
			svc, _ := newMediaServiceForTest(assetRepo, triggerRepo, st, nil)

			first, err := svc.EnsureAsset(ctx, trigger, "ezra", "loops")
			So(err, ShouldBeNil)

			second, err := svc.EnsureAsset(ctx, trigger, "ezra", "loops")
			So(err, ShouldBeNil)

			// 第二次命中注册表，物理引用一致且不再访问存储目录
			So(second.ID, ShouldEqual, first.ID)
			So(second.PhysicalRef, ShouldEqual, first.PhysicalRef)
			So(st.listCalls, ShouldEqual, 1)
			So(assetRepo.upsertCalls, ShouldEqual, 1)
		})

		Convey("目录中无此文件返回 ErrMediaNotFound", func() {
			assetRepo := newFakeAssetRepo()
			triggerRepo := newFakeTriggerRepo(trigger)
			st := newFakeStorage("local")
			svc, _ := newMediaServiceForTest(assetRepo, triggerRepo, st, nil)

			_, err := svc.EnsureAsset(ctx, trigger, "ezra", "loops")
			So(errors.Is(err, ErrMediaNotFound), ShouldBeTrue)
		})

		Convey("存储句柄初始化失败返回 ErrStorageUnavailable", func() {
			assetRepo := newFakeAssetRepo()
			triggerRepo := newFakeTriggerRepo(trigger)
			svc, _ := newMediaServiceForTest(assetRepo, triggerRepo, newFakeStorage("local"), errors.New("credentials not ready"))

			_, err := svc.EnsureAsset(ctx, trigger, "ezra", "loops")
			So(errors.Is(err, ErrStorageUnavailable), ShouldBeTrue)
		})

		Convey("注册表命中时不访问存储后端", func() {
			assetRepo := newFakeAssetRepo()
			assetRepo.assets["cover.png"] = &library.MediaAsset{
				ID:          "ast-1",
				Filename:    "cover.png",
				Kind:        library.MediaKindImage,
				PhysicalRef: "media/series/ezra/loops/scenes/images/cover.png",
			}
			triggerRepo := newFakeTriggerRepo(trigger)
			// 即使存储完全不可用，注册表命中也应成功
			svc, _ := newMediaServiceForTest(assetRepo, triggerRepo, newFakeStorage("local"), errors.New("storage down"))

			asset, err := svc.EnsureAsset(ctx, trigger, "ezra", "loops")
			So(err, ShouldBeNil)
			So(asset.ID, ShouldEqual, "ast-1")
		})
	})
}

func TestMediaService_Deliver(t *testing.T) {
	Convey("Deliver 按存储后端类型交付媒体", t, func() {
		ctx := context.Background()
		trigger := &library.Trigger{
			ID:       "trg-1",
			SceneID:  "sc-1",
			UnitID:   "p-sc-1-1",
			Kind:     library.MediaKindImage,
			Filename: "cover.png",
		}

		Convey("OSS后端返回预签名URL供302跳转", func() {
			assetRepo := newFakeAssetRepo()
			triggerRepo := newFakeTriggerRepo(trigger)
			st := newFakeStorage("oss")
			st.addObject("media/series/ezra/loops/scenes/images/cover.png", "png-bytes")
			svc, _ := newMediaServiceForTest(assetRepo, triggerRepo, st, nil)

			result, err := svc.Deliver(ctx, "sc-1", "cover.png")
			So(err, ShouldBeNil)
			So(result.RedirectURL, ShouldContainSubstring, "media/series/ezra/loops/scenes/images/cover.png")
			So(result.Body, ShouldBeNil)
		})

		Convey("本地后端直接回源文件流", func() {
			assetRepo := newFakeAssetRepo()
			triggerRepo := newFakeTriggerRepo(trigger)
			st := newFakeStorage("local")
			st.addObject("media/series/ezra/loops/scenes/images/cover.png", "png-bytes")
			svc, _ := newMediaServiceForTest(assetRepo, triggerRepo, st, nil)

			result, err := svc.Deliver(ctx, "sc-1", "cover.png")
			So(err, ShouldBeNil)
			So(result.RedirectURL, ShouldBeEmpty)
			So(result.ContentType, ShouldEqual, "image/png")

			data, err := io.ReadAll(result.Body)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "png-bytes")
			So(result.Body.Close(), ShouldBeNil)
		})

		Convey("场景没有引用该文件名的触发点返回 ErrMediaNotFound", func() {
			assetRepo := newFakeAssetRepo()
			triggerRepo := newFakeTriggerRepo(trigger)
			st := newFakeStorage("local")
			svc, _ := newMediaServiceForTest(assetRepo, triggerRepo, st, nil)

			_, err := svc.Deliver(ctx, "sc-1", "ghost.png")
			So(errors.Is(err, ErrMediaNotFound), ShouldBeTrue)
		})

		Convey("场景不存在返回 ErrSceneNotFound", func() {
			assetRepo := newFakeAssetRepo()
			triggerRepo := newFakeTriggerRepo(&library.Trigger{
				ID: "trg-x", SceneID: "sc-miss", UnitID: "p-sc-miss-1",
				Kind: library.MediaKindImage, Filename: "x.png",
			})
			svc, _ := newMediaServiceForTest(assetRepo, triggerRepo, newFakeStorage("local"), nil)

			_, err := svc.Deliver(ctx, "sc-miss", "x.png")
			So(errors.Is(err, ErrSceneNotFound), ShouldBeTrue)
		})
	})
}

func TestMediaContentType(t *testing.T) {
	Convey("mediaContentType 根据类型和扩展名确定MIME", t, func() {
		So(mediaContentType(library.MediaKindImage, "a.jpg"), ShouldEqual, "image/jpeg")
		So(mediaContentType(library.MediaKindImage, "a.JPEG"), ShouldEqual, "image/jpeg")
		So(mediaContentType(library.MediaKindImage, "a.png"), ShouldEqual, "image/png")
		So(mediaContentType(library.MediaKindImage, "a.webp"), ShouldEqual, "image/png")
		So(mediaContentType(library.MediaKindAudio, "a.mp3"), ShouldEqual, "audio/mpeg")
		So(mediaContentType(library.MediaKindAudio, "a.wav"), ShouldEqual, "audio/mpeg")
	})
}
