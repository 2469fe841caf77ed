package readertools

import (
	"strings"
	"unicode"

	"github.com/go-ego/gse"
)

// TextStats 正文统计信息（用于章节/场景元数据展示）
type TextStats struct {
	TotalChars int // 总字符数（包括标点）
	WordCount  int // 总字数（不包括标点和空白）
	LineCount  int // 行数（非空行）
}

// TextMeter 正文统计器
type TextMeter struct {
	segmenter *gse.Segmenter // gse 分词器
}

// NewTextMeter 创建正文统计器实例
func NewTextMeter() *TextMeter {
	// 初始化 gse 分词器；失败时不持有分词器（降级到按字符统计）
	segmenter, err := gse.New()
	if err != nil {
		return &TextMeter{}
	}
	return &TextMeter{segmenter: &segmenter}
}

// Measure 统计正文
func (tm *TextMeter) Measure(text string) TextStats {
	text = normalizeNewlines(text)

	var stats TextStats
	for _, r := range text {
		if r == '\n' {
			continue
		}
		stats.TotalChars++
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			stats.LineCount++
		}
	}

	stats.WordCount = tm.countWords(text)
	return stats
}

// countWords 统计字数
// 使用 gse 分词按词汇边界统计；分词器不可用时降级为按字符统计
func (tm *TextMeter) countWords(text string) int {
	if tm.segmenter != nil {
		count := 0
		for _, w := range tm.segmenter.Cut(text, false) {
			if isCountableWord(w) {
				count++
			}
		}
		return count
	}

	// 降级：统计非标点、非空白字符
	count := 0
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		count++
	}
	return count
}

// isCountableWord 判断分词结果是否计入字数（排除纯标点和空白）
func isCountableWord(w string) bool {
	for _, r := range w {
		if !unicode.IsSpace(r) && !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return true
		}
	}
	return false
}
