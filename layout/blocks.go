package layout

import (
	"strings"

	"github.com/ByLCY/quire/sanitize"
)

// 各内容块的行高与间距（mm）。
const (
	sectionGapBefore = 6.0
	sectionCell      = 10.0
	sectionGapAfter  = 4.0
	subGapBefore     = 3.0
	subCell          = 8.0
	bodyLine         = 5.0
	paragraphGap     = 3.0
	codeLine         = 4.5
	codeGapAfter     = 2.0
	captionCell      = 6.0
	captionAdvance   = 7.0
	tableRowHeight   = 6.0

	bulletMarker = "  -  "
	bulletIndent = "     "
	codeIndent   = "  "
	codeElision  = "..."
)

// Block 是一个原子内容单元。具体类型见 SectionHeader、Paragraph 等。
type Block interface {
	block()
}

// SectionHeader 为一级标题：文本、下划线与额外间距。
type SectionHeader struct{ Text string }

// SubHeader 为二级标题。
type SubHeader struct{ Text string }

// Paragraph 为正文，空白行产生段落间隔。
type Paragraph struct{ Text string }

// Bullet 为列表项，折行后保持悬挂缩进。
type Bullet struct{ Text string }

// CodeBlock 为等宽文本，每行原样输出，超长行截断。
type CodeBlock struct{ Text string }

// Caption 为表格上方的加粗分类标签。
type Caption struct{ Text string }

// TableRow 为一行表格，Cells 与 Widths 一一对应。
type TableRow struct {
	Cells    []any
	Widths   []float64
	Emphasis bool
}

// Table 由可选的分类标签、表头行与数据行组成，分页时表头不与首行数据分离。
type Table struct {
	Caption string
	Widths  []float64
	Header  []any
	Rows    [][]any
}

func (SectionHeader) block() {}
func (SubHeader) block()     {}
func (Paragraph) block()     {}
func (Bullet) block()        {}
func (CodeBlock) block()     {}
func (Caption) block()       {}
func (TableRow) block()      {}
func (Table) block()         {}

// Render 按块类型选择排版策略并写入当前位置。
func (d *Document) Render(b Block) {
	d.mustCreating("Render")
	switch v := b.(type) {
	case SectionHeader:
		d.renderSection(v)
	case SubHeader:
		d.renderSubHeader(v)
	case Paragraph:
		d.renderParagraph(v)
	case Bullet:
		d.renderBullet(v)
	case CodeBlock:
		d.renderCode(v)
	case Caption:
		d.renderCaption(v)
	case TableRow:
		d.Reserve(tableRowHeight)
		d.renderRow(v.Cells, v.Widths, v.Emphasis)
	case Table:
		d.renderTable(v)
	default:
		violate("Render", "未知的内容块类型 %T", b)
	}
}

// emit 在光标处写一行：先对本行做分页检查，再绘制并前进 advance。
func (d *Document) emit(text sanitize.Text, cell, advance float64, st TextStyle) {
	d.breakIfOver(cell, d.opts.BodyBottom)
	st.Height = cell
	surface{d: d}.drawText(Point{X: d.opts.Margin.Left, Y: d.cursor.Y}, text, st)
	d.advance(advance)
}

func (d *Document) applyTone(st Style) {
	d.ink.text = d.opts.Palette.Color(st.Tone)
}

func (d *Document) renderSection(b SectionHeader) {
	st := Style{Weight: WeightBold, Size: SizeHeading, Tone: ToneHeading}
	d.Reserve(sectionGapBefore + sectionCell + sectionGapAfter)
	d.applyTone(st)
	d.advance(sectionGapBefore)
	d.emit(sanitize.Clean(b.Text), sectionCell, sectionCell, TextStyle{Style: st})

	rule := d.opts.Palette.Color(ToneHeading)
	d.ink.draw = rule
	y := d.cursor.Y
	surface{d: d}.drawLine(Point{X: d.opts.Margin.Left, Y: y}, Point{X: d.opts.PageWidth - d.opts.Margin.Right, Y: y})
	d.advance(sectionGapAfter)
}

func (d *Document) renderSubHeader(b SubHeader) {
	st := Style{Weight: WeightBold, Size: SizeSubhead, Tone: ToneSubhead}
	d.Reserve(subGapBefore + subCell)
	d.applyTone(st)
	d.advance(subGapBefore)
	d.emit(sanitize.Clean(b.Text), subCell, subCell, TextStyle{Style: st})
}

func (d *Document) renderParagraph(b Paragraph) {
	st := Style{Size: SizeBody, Tone: ToneBody}
	lines := Wrap(sanitize.Clean(b.Text), d.opts.BodyWrap)
	estimate := 0.0
	for _, ln := range lines {
		if ln.Gap {
			estimate += paragraphGap
		} else {
			estimate += bodyLine
		}
	}
	d.Reserve(estimate)
	d.applyTone(st)
	for _, ln := range lines {
		if ln.Gap {
			d.advance(paragraphGap)
			continue
		}
		d.emit(ln.Text, bodyLine, bodyLine, TextStyle{Style: st})
	}
}

func (d *Document) renderBullet(b Bullet) {
	st := Style{Size: SizeBody, Tone: ToneBody}
	lines := WrapLines(sanitize.Clean(b.Text), d.opts.BulletWrap)
	d.Reserve(float64(len(lines)) * bodyLine)
	d.applyTone(st)
	for i, ln := range lines {
		prefix := bulletIndent
		if i == 0 {
			prefix = bulletMarker
		}
		d.emit(sanitize.Text(prefix)+ln, bodyLine, bodyLine, TextStyle{Style: st})
	}
}

func (d *Document) renderCode(b CodeBlock) {
	st := Style{Size: SizeSmall, Tone: ToneCode, Mono: true}
	lines := strings.Split(string(sanitize.Clean(b.Text)), "\n")
	d.Reserve(float64(len(lines))*codeLine + codeGapAfter)
	d.applyTone(st)
	d.ink.fill = d.opts.Palette.Color(ToneCodeFill)
	for _, raw := range lines {
		ln := truncateCode(sanitize.Text(raw), d.opts.CodeLineCap)
		d.emit(sanitize.Text(codeIndent)+ln, codeLine, codeLine, TextStyle{Style: st, Fill: true})
	}
	d.advance(codeGapAfter)
}

// truncateCode 把超过 limit 的代码行截断为 limit-3 个字符加省略号。limit <= 0 表示不截断。
func truncateCode(line sanitize.Text, limit int) sanitize.Text {
	if limit <= 0 || line.Len() <= limit {
		return line
	}
	keep := limit - len(codeElision)
	if keep < 0 {
		keep = 0
	}
	r := []rune(string(line))
	return sanitize.Text(string(r[:keep]) + codeElision)
}

func (d *Document) renderCaption(b Caption) {
	st := Style{Weight: WeightBold, Size: SizeBody, Tone: ToneSubhead}
	d.Reserve(captionAdvance)
	d.applyTone(st)
	d.emit(sanitize.Clean(b.Text), captionCell, captionAdvance, TextStyle{Style: st})
}

func (d *Document) renderTable(t Table) {
	reserve := 0.0
	if strings.TrimSpace(t.Caption) != "" {
		reserve += captionAdvance
	}
	if len(t.Header) > 0 {
		reserve += tableRowHeight
	}
	if len(t.Rows) > 0 {
		reserve += tableRowHeight
	}
	d.Reserve(reserve)
	if strings.TrimSpace(t.Caption) != "" {
		d.renderCaption(Caption{Text: t.Caption})
	}
	if len(t.Header) > 0 {
		d.renderRow(t.Header, t.Widths, true)
	}
	for _, row := range t.Rows {
		d.Reserve(tableRowHeight)
		d.renderRow(row, t.Widths, false)
	}
}
