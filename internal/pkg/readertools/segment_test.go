package readertools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSplitParagraphs(t *testing.T) {
	Convey("SplitParagraphs 能正确切分段落", t, func() {
		Convey("空正文应返回 nil", func() {
			So(SplitParagraphs("5", ""), ShouldBeNil)
			So(SplitParagraphs("5", "   \n\n  "), ShouldBeNil)
		})

		Convey("按空行边界切分，ID 为 p-{scene_id}-{ordinal}", func() {
			units := SplitParagraphs("5", "A.\n\nB.")
			So(len(units), ShouldEqual, 2)
			So(units[0].ID, ShouldEqual, "p-5-1")
			So(units[0].Text, ShouldEqual, "A.")
			So(units[1].ID, ShouldEqual, "p-5-2")
			So(units[1].Text, ShouldEqual, "B.")
		})

		Convey("无段落边界时整体为一个单元", func() {
			units := SplitParagraphs("7", "只有一段。\n还是这一段。")
			So(len(units), ShouldEqual, 1)
			So(units[0].ID, ShouldEqual, "p-7-1")
		})

		Convey("仅含空白字符的行视为空行边界", func() {
			units := SplitParagraphs("9", "one\n \t \ntwo\n\n\nthree")
			So(len(units), ShouldEqual, 3)
			So(units[0].Text, ShouldEqual, "one")
			So(units[1].Text, ShouldEqual, "two")
			So(units[2].Text, ShouldEqual, "three")
		})

		Convey("CRLF 换行不影响序号", func() {
			a := SplitParagraphs("5", "A.\r\n\r\nB.")
			b := SplitParagraphs("5", "A.\n\nB.")
			So(len(a), ShouldEqual, len(b))
			So(a[0].ID, ShouldEqual, b[0].ID)
			So(a[1].ID, ShouldEqual, b[1].ID)
		})

		Convey("重复切分产生相同的有序ID序列（确定性）", func() {
			text := "第一段落。\n\n第二段落！\n\n  \n第三段落？"
			first := SplitParagraphs("42", text)
			for i := 0; i < 10; i++ {
				again := SplitParagraphs("42", text)
				So(len(again), ShouldEqual, len(first))
				for j := range again {
					So(again[j].ID, ShouldEqual, first[j].ID)
					So(again[j].Text, ShouldEqual, first[j].Text)
				}
			}
		})

		Convey("同一次切分内单元ID两两不同", func() {
			units := SplitParagraphs("3", "a\n\nb\n\nc\n\nd")
			seen := make(map[string]bool)
			for _, u := range units {
				So(seen[u.ID], ShouldBeFalse)
				seen[u.ID] = true
			}
		})
	})
}

func TestSplitSentences(t *testing.T) {
	Convey("SplitSentences 能正确切分句子", t, func() {
		Convey("空正文应返回 nil", func() {
			So(SplitSentences("1", ""), ShouldBeNil)
		})

		Convey("终止符保留在前一片段末尾", func() {
			units := SplitSentences("1", "Hello world. Next thing!")
			So(len(units), ShouldEqual, 2)
			So(units[0].ID, ShouldEqual, "s-1-1")
			So(units[0].Text, ShouldEqual, "Hello world.")
			So(units[1].ID, ShouldEqual, "s-1-2")
			So(units[1].Text, ShouldEqual, "Next thing!")
		})

		Convey("连续终止符归入同一句", func() {
			units := SplitSentences("1", "What?! Really...")
			So(len(units), ShouldEqual, 2)
			So(units[0].Text, ShouldEqual, "What?!")
			So(units[1].Text, ShouldEqual, "Really...")
		})

		Convey("末尾残句（无终止符）也是一个单元", func() {
			units := SplitSentences("1", "Done. And then")
			So(len(units), ShouldEqual, 2)
			So(units[1].Text, ShouldEqual, "And then")
		})

		Convey("两个空格标记段落结尾，单个空格不标记", func() {
			units := SplitSentences("1", "Hello world. Next thing!")
			So(units[0].EndsParagraph, ShouldBeFalse)
			So(units[1].EndsParagraph, ShouldBeTrue) // 末句始终为段落结尾

			units = SplitSentences("1", "Hello world.  Next thing!")
			So(units[0].EndsParagraph, ShouldBeTrue)
		})

		Convey("换行同样视为段落边界", func() {
			units := SplitSentences("1", "First.\nSecond.")
			So(len(units), ShouldEqual, 2)
			So(units[0].EndsParagraph, ShouldBeTrue)
		})
	})
}

func TestGroupIntoParagraphs(t *testing.T) {
	Convey("GroupIntoParagraphs 按段落标记重组句子", t, func() {
		Convey("缺少标记的句子并入后续句子所在段落", func() {
			// 只有第二句后带段落标记 → 两句合为一段
			units := SplitSentences("1", "Hello world. Next thing!")
			paragraphs := GroupIntoParagraphs(units)
			So(len(paragraphs), ShouldEqual, 1)
			So(len(paragraphs[0]), ShouldEqual, 2)
		})

		Convey("显式标记产生独立段落", func() {
			units := SplitSentences("1", "One.  Two. Three.")
			paragraphs := GroupIntoParagraphs(units)
			So(len(paragraphs), ShouldEqual, 2)
			So(len(paragraphs[0]), ShouldEqual, 1)
			So(len(paragraphs[1]), ShouldEqual, 2)
		})

		Convey("空输入返回空结果", func() {
			So(len(GroupIntoParagraphs(nil)), ShouldEqual, 0)
		})
	})
}
