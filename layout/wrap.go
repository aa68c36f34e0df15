package layout

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/ByLCY/quire/sanitize"
)

// WrappedLine 是折行结果中的一项：要么是一行文本，要么是段落间隔。
type WrappedLine struct {
	Text sanitize.Text
	Gap  bool
}

// Wrap 对已清洗文本做贪心折行，budget 以字符数计。
// 输入中的空白行产生一个 Gap 项；超过预算的单词独占一行且不拆分。
// budget <= 0 时不限制行宽。
func Wrap(text sanitize.Text, budget int) []WrappedLine {
	var out []WrappedLine
	for _, raw := range strings.Split(string(text), "\n") {
		if strings.TrimSpace(raw) == "" {
			out = append(out, WrappedLine{Gap: true})
			continue
		}
		for _, ln := range wrapWords(strings.Fields(raw), budget) {
			out = append(out, WrappedLine{Text: sanitize.Text(ln)})
		}
	}
	return out
}

// WrapLines 与 Wrap 相同，但丢弃段落间隔，只返回文本行。
func WrapLines(text sanitize.Text, budget int) []sanitize.Text {
	var out []sanitize.Text
	for _, ln := range Wrap(text, budget) {
		if !ln.Gap {
			out = append(out, ln.Text)
		}
	}
	return out
}

// wrapWords 在单个空格连接的单词序列上折行。
// wordwrap 在 lim 为 1 时不会断行，此时按 2 处理，效果同样是每行一个单词。
func wrapWords(words []string, budget int) []string {
	if len(words) == 0 {
		return nil
	}
	joined := strings.Join(words, " ")
	if budget <= 0 {
		return []string{joined}
	}
	return strings.Split(wordwrap.WrapString(joined, uint(max(budget, 2))), "\n")
}
