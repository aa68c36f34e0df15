// Package sanitize 将扩展字符集文本收敛到输出端可以直接绘制的字符集。
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Text 是已经清洗过的文本。除 Clean 外不应从任意字符串直接转换得到。
type Text string

// String 返回底层字符串。
func (t Text) String() string { return string(t) }

// Len 返回按 rune 计数的长度，排版预算均以此为准。
func (t Text) Len() int { return utf8.RuneCountInString(string(t)) }

// 固定替换表。替换结果必须全部落在 ASCII 内，保证 Clean 幂等。
var replacer = strings.NewReplacer(
	"—", "-", // em dash
	"–", "-", // en dash
	"−", "-", // minus sign
	"‘", "'",
	"’", "'",
	"‚", "'",
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"…", "...",
	"•", "*",
	"→", "->",
	"←", "<-",
	"↓", "v",
	"↑", "^",
	"≥", ">=",
	"≤", "<=",
	"€", "E",
	"\u00a0", " ", // no-break space
	"\u2009", " ", // thin space
	"\u202f", " ", // narrow no-break space
)

// Clean 先把带变音符号的预组合字符降级为基础字符，再应用替换表。
// 降级可能产生表内字符（"↛" 分解为 "→" 加组合符号），所以替换必须在降级之后。
// 表外且无法分解的字符原样保留。
func Clean(s string) Text {
	if isASCII(s) {
		return Text(s)
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		b.WriteString(fold(r))
	}
	return Text(replacer.Replace(b.String()))
}

// fold 处理单个非 ASCII 字符：能分解为「基础字母 + 组合符号」时去掉组合符号。
func fold(r rune) string {
	single := string(r)
	decomposed := norm.NFD.String(single)
	if decomposed == single || utf8.RuneCountInString(decomposed) < 2 {
		return single
	}
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripper, single)
	if err != nil || out == "" {
		return single
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
