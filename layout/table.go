package layout

import (
	"fmt"
	"strconv"

	"github.com/ByLCY/quire/sanitize"
)

// CellEllipsis 为截断单元格时追加的标记。
const CellEllipsis = ".."

// CellBudget 由列宽推出单元格的字符预算。
func CellBudget(width, ratio float64) int {
	if ratio <= 0 || width <= 0 {
		return 0
	}
	return int(width / ratio)
}

// FitCell 将单元格值转为文本并按列宽截断。
// 超出预算 b 时保留前 b-2 个字符并追加 ".."，结果长度恰好为 b；否则原样返回。
func FitCell(value any, width, ratio float64) sanitize.Text {
	text := sanitize.Clean(stringify(value))
	return truncateCell(text, CellBudget(width, ratio))
}

func truncateCell(text sanitize.Text, budget int) sanitize.Text {
	if text.Len() <= budget {
		return text
	}
	marker := []rune(CellEllipsis)
	if budget < len(marker) {
		return sanitize.Text(string(marker[:budget]))
	}
	r := []rune(string(text))
	return sanitize.Text(string(r[:budget-len(marker)]) + CellEllipsis)
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// renderRow 在当前光标处绘制一行固定高度的单元格，调用方负责事先 Reserve。
func (d *Document) renderRow(cells []any, widths []float64, emphasis bool) {
	if len(cells) != len(widths) {
		violate("TableRow", "单元格数量 %d 与列宽数量 %d 不一致", len(cells), len(widths))
	}
	st := Style{Size: SizeSmall, Tone: ToneBody}
	if emphasis {
		st.Weight = WeightBold
		d.ink.fill = d.opts.Palette.Color(ToneEmphasisFill)
	}
	d.breakIfOver(tableRowHeight, d.opts.BodyBottom)
	d.applyTone(st)
	d.ink.draw = d.opts.Palette.Color(ToneBody)

	s := surface{d: d}
	x := d.opts.Margin.Left
	y := d.cursor.Y
	for i, cell := range cells {
		w := widths[i]
		s.drawText(Point{X: x, Y: y}, FitCell(cell, w, d.opts.CharWidthRatio), TextStyle{
			Style:  st,
			Width:  w,
			Height: tableRowHeight,
			Fill:   emphasis,
			Border: true,
		})
		x += w
	}
	d.advance(tableRowHeight)
}
