package readertools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAnnotate(t *testing.T) {
	Convey("Annotate 能正确合并单元与触发点", t, func() {
		units := SplitParagraphs("5", "A.\n\nB.")

		Convey("精确匹配 unit_id，未命中的单元原样通过", func() {
			points := []TriggerPoint{
				{UnitID: "p-5-2", Kind: "image", Filename: "x.png"},
			}
			doc := Annotate("5", units, points)
			So(len(doc.Units), ShouldEqual, 2)
			So(doc.Units[0].Media, ShouldBeNil)
			So(doc.Units[1].Media, ShouldNotBeNil)
			So(doc.Units[1].Media.Filename, ShouldEqual, "x.png")
		})

		Convey("文档默认媒体为文档顺序中第一个媒体引用", func() {
			points := []TriggerPoint{
				{UnitID: "p-5-2", Kind: "image", Filename: "x.png"},
			}
			doc := Annotate("5", units, points)
			So(doc.Default, ShouldNotBeNil)
			So(doc.Default.Filename, ShouldEqual, "x.png")
		})

		Convey("无任何触发点时默认媒体为 nil", func() {
			doc := Annotate("5", units, nil)
			So(doc.Default, ShouldBeNil)
			for _, u := range doc.Units {
				So(u.Media, ShouldBeNil)
			}
		})

		Convey("指向不存在单元的触发点静默失效", func() {
			points := []TriggerPoint{
				{UnitID: "p-5-99", Kind: "image", Filename: "ghost.png"},
			}
			doc := Annotate("5", units, points)
			So(doc.Default, ShouldBeNil)
			for _, u := range doc.Units {
				So(u.Media, ShouldBeNil)
			}
		})

		Convey("重复 unit_id 时取第一个（每个单元至多一个媒体引用）", func() {
			points := []TriggerPoint{
				{UnitID: "p-5-1", Kind: "image", Filename: "first.png"},
				{UnitID: "p-5-1", Kind: "image", Filename: "second.png"},
			}
			doc := Annotate("5", units, points)
			So(doc.Units[0].Media, ShouldNotBeNil)
			So(doc.Units[0].Media.Filename, ShouldEqual, "first.png")
		})
	})
}

func TestMergeDocuments(t *testing.T) {
	Convey("MergeDocuments 按场景顺序合并章节文档", t, func() {
		docA := Annotate("a", SplitParagraphs("a", "One."), nil)
		docB := Annotate("b", SplitParagraphs("b", "Two."), []TriggerPoint{
			{UnitID: "p-b-1", Kind: "image", Filename: "b.png"},
		})

		Convey("相邻场景之间插入分隔单元", func() {
			merged := MergeDocuments([]Document{docA, docB})
			So(len(merged.Units), ShouldEqual, 3)
			So(merged.Units[1].Divider, ShouldBeTrue)
			So(merged.Units[1].ID, ShouldEqual, "div-b")
		})

		Convey("默认媒体取合并后顺序中的第一个", func() {
			merged := MergeDocuments([]Document{docA, docB})
			So(merged.Default, ShouldNotBeNil)
			So(merged.Default.Filename, ShouldEqual, "b.png")
		})

		Convey("单场景章节不插入分隔单元", func() {
			merged := MergeDocuments([]Document{docB})
			So(len(merged.Units), ShouldEqual, 1)
		})
	})
}
