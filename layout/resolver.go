package layout

import (
	"strconv"
	"strings"

	"github.com/ByLCY/quire/sanitize"
)

// resolvePageCount 依据登记表，把每处占位符替换为最终页数。返回替换的文本原语数量。
func (d *Document) resolvePageCount(total int) int {
	token := d.opts.PageCountToken
	value := strconv.Itoa(total)
	n := 0
	for _, ph := range d.placeholders {
		p := d.pages[ph.page]
		var tb *TextBox
		switch ph.area {
		case areaHeader:
			tb = &p.Header[ph.idx]
		case areaFooter:
			tb = &p.Footer[ph.idx]
		default:
			tb = &p.Texts[ph.idx]
		}
		if !strings.Contains(string(tb.Content), token) {
			continue
		}
		tb.Content = sanitize.Text(strings.ReplaceAll(string(tb.Content), token, value))
		n++
	}
	return n
}

// countToken 扫描所有页面，统计仍然包含占位符的文本原语数量。
func countToken(pages []*Page, token string) int {
	n := 0
	for _, p := range pages {
		p.EachText(func(tb *TextBox) {
			if strings.Contains(string(tb.Content), token) {
				n++
			}
		})
	}
	return n
}
