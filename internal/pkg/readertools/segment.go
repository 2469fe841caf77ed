package readertools

import (
	"fmt"
	"strings"
)

// Unit 文本单元：场景正文切分后的最小可寻址片段（段落或句子）
// 单元ID在场景内唯一，且对同一正文的多次切分保持稳定（客户端的滚动
// 联动依赖稳定的锚点）
type Unit struct {
	ID      string // 单元ID，形如 p-{scene_id}-{ordinal} 或 s-{scene_id}-{ordinal}
	Ordinal int    // 1-based 序号
	Text    string // 原始文本片段

	// EndsParagraph 句子模式下有效：该句带段落结束标记
	// （句末终止符后紧跟两个空格或换行）
	EndsParagraph bool
}

// 单元ID前缀
const (
	unitPrefixParagraph = "p"
	unitPrefixSentence  = "s"
)

// ParagraphUnitID 生成段落单元ID
func ParagraphUnitID(sceneID string, ordinal int) string {
	return fmt.Sprintf("%s-%s-%d", unitPrefixParagraph, sceneID, ordinal)
}

// SentenceUnitID 生成句子单元ID
func SentenceUnitID(sceneID string, ordinal int) string {
	return fmt.Sprintf("%s-%s-%d", unitPrefixSentence, sceneID, ordinal)
}

// SplitParagraphs 将场景正文切分为段落单元
//
// 逻辑：
//  1. 统一换行符后按空行边界切分（仅含空白字符的行视为空行）
//  2. 序号为非空段落中的 1-based 位置，ID 为 p-{scene_id}-{ordinal}
//  3. 空正文返回 nil（合法，渲染空正文）；无空行边界时整体为一个单元
//
// 切分是纯函数：同一正文字符串任何时候都切分出相同的有序ID序列
func SplitParagraphs(sceneID, text string) []Unit {
	text = normalizeNewlines(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var units []Unit
	var cur []string
	flush := func() {
		p := strings.TrimSpace(strings.Join(cur, "\n"))
		cur = cur[:0]
		if p == "" {
			return
		}
		ordinal := len(units) + 1
		units = append(units, Unit{
			ID:            ParagraphUnitID(sceneID, ordinal),
			Ordinal:       ordinal,
			Text:          p,
			EndsParagraph: true,
		})
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()

	return units
}

// 句末终止符
func isSentenceTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// SplitSentences 将场景正文切分为句子单元（章节视图粒度）
//
// 逻辑：
//  1. 按句末终止符（. ! ?）切分，终止符保留在前一片段末尾；
//     连续终止符（如 "?!"、"..."）归入同一句
//  2. 序号为 1-based 位置，ID 为 s-{scene_id}-{ordinal}
//  3. 终止符后紧跟两个空格或换行时，该句标记为段落结尾
//     （EndsParagraph），供 GroupIntoParagraphs 重组段落；
//     末句始终视为段落结尾
func SplitSentences(sceneID, text string) []Unit {
	text = normalizeNewlines(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var units []Unit
	runes := []rune(text)
	start := 0
	emit := func(end int, endsParagraph bool) {
		s := strings.TrimSpace(string(runes[start:end]))
		start = end
		if s == "" {
			return
		}
		ordinal := len(units) + 1
		units = append(units, Unit{
			ID:            SentenceUnitID(sceneID, ordinal),
			Ordinal:       ordinal,
			Text:          s,
			EndsParagraph: endsParagraph,
		})
	}

	for i := 0; i < len(runes); i++ {
		if !isSentenceTerminator(runes[i]) {
			continue
		}
		// 连续终止符归入同一句
		for i+1 < len(runes) && isSentenceTerminator(runes[i+1]) {
			i++
		}
		emit(i+1, hasParagraphMarker(runes, i+1))
	}
	// 末尾不带终止符的残句
	emit(len(runes), true)

	if n := len(units); n > 0 {
		units[n-1].EndsParagraph = true
	}
	return units
}

// hasParagraphMarker 判断终止符后是否紧跟段落边界标记
// 标记为两个连续空格（显式标记）或换行
func hasParagraphMarker(runes []rune, pos int) bool {
	if pos >= len(runes) {
		return true
	}
	if runes[pos] == '\n' {
		return true
	}
	return runes[pos] == ' ' && pos+1 < len(runes) && runes[pos+1] == ' '
}

// GroupIntoParagraphs 将句子单元按段落边界标记重组为段落
// 缺少标记的句子与后续句子并入同一段落
func GroupIntoParagraphs(units []Unit) [][]Unit {
	var paragraphs [][]Unit
	var cur []Unit
	for _, u := range units {
		cur = append(cur, u)
		if u.EndsParagraph {
			paragraphs = append(paragraphs, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		paragraphs = append(paragraphs, cur)
	}
	return paragraphs
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
