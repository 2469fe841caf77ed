package readertools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTextMeter_Measure(t *testing.T) {
	Convey("TextMeter.Measure 能正确统计正文", t, func() {
		meter := NewTextMeter()

		Convey("空正文所有统计为0", func() {
			stats := meter.Measure("")
			So(stats.TotalChars, ShouldEqual, 0)
			So(stats.WordCount, ShouldEqual, 0)
			So(stats.LineCount, ShouldEqual, 0)
		})

		Convey("行数只统计非空行", func() {
			stats := meter.Measure("a\n\nb\n \nc")
			So(stats.LineCount, ShouldEqual, 3)
		})

		Convey("总字符数不含换行", func() {
			stats := meter.Measure("ab\ncd")
			So(stats.TotalChars, ShouldEqual, 4)
		})

		Convey("字数不含标点", func() {
			stats := meter.Measure("你好，世界。")
			So(stats.WordCount, ShouldBeLessThan, stats.TotalChars)
			So(stats.WordCount, ShouldBeGreaterThan, 0)
		})

		Convey("英文按词边界统计而非按字符", func() {
			stats := meter.Measure("hello world")
			So(stats.WordCount, ShouldEqual, 2)
		})
	})
}

func TestTextMeter_Degraded(t *testing.T) {
	Convey("分词器不可用时降级为按字符统计", t, func() {
		meter := &TextMeter{}
		stats := meter.Measure("你好，世界。")
		So(stats.TotalChars, ShouldEqual, 6)
		So(stats.WordCount, ShouldEqual, 4)
	})
}
