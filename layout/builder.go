package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/quire/binding"
	"github.com/ByLCY/quire/dsl"
)

const (
	defaultCenterHeight = 10.0
	defaultCreator      = "Quire"
)

// BuildOptions 控制脚本到版面的转换。
type BuildOptions struct {
	// Layout 为零值时使用 DefaultOptions()。
	Layout Options
	// OnUnresolved 在脚本文本中的 ${path} 无法从数据解析时被调用，可为 nil。
	OnUnresolved func(path string)
}

// Build 依次执行脚本语句，生成定稿后的版面结果。
func Build(script *dsl.Script, data any, opts BuildOptions) (*Result, error) {
	if script == nil {
		return nil, fmt.Errorf("脚本为空")
	}
	b := &builder{data: data, onMissing: opts.OnUnresolved}

	// 页眉页脚作用于整份文档，必须在第一页打开前确定。
	lo := opts.Layout
	if lo.isZero() {
		lo = DefaultOptions()
	}
	for _, it := range script.Items {
		switch {
		case it.Header != nil:
			lo.Header = b.decoration(lo.Header, it.Header)
		case it.Footer != nil:
			lo.Footer = b.decoration(lo.Footer, it.Footer)
		}
	}

	d := NewDocument(lo)
	d.SetMeta(b.meta(script))
	for _, it := range script.Items {
		if err := b.step(d, it); err != nil {
			return nil, fmt.Errorf("%s: %w", it.Pos, err)
		}
	}
	return d.Finalize()
}

type builder struct {
	data      any
	onMissing func(path string)
}

// text 对脚本字符串做数据插值。
func (b *builder) text(s string) string {
	if b.onMissing != nil && strings.Contains(s, "${") {
		for _, path := range binding.Unresolved(s, b.data) {
			b.onMissing(path)
		}
	}
	return binding.Interpolate(s, b.data)
}

func (b *builder) decoration(base Decoration, dec *dsl.Decoration) Decoration {
	base.Text = b.text(string(dec.Text))
	if dec.Align != "" {
		base.Align = dec.Align
	}
	return base
}

func (b *builder) meta(script *dsl.Script) DocumentMeta {
	meta := DocumentMeta{
		Title:   b.text(string(script.Name)),
		Creator: defaultCreator,
	}
	for _, it := range script.Items {
		if it.Meta == nil {
			continue
		}
		for _, e := range it.Meta.Entries {
			var value string
			if e.Value != nil {
				value = b.text(string(*e.Value))
			}
			switch strings.ToLower(e.Key) {
			case "title":
				meta.Title = value
			case "author":
				meta.Author = value
			case "subject":
				meta.Subject = value
			case "creator":
				meta.Creator = value
			case "keywords":
				meta.Keywords = meta.Keywords[:0]
				for _, v := range e.Values {
					meta.Keywords = append(meta.Keywords, b.text(string(v)))
				}
				if value != "" {
					meta.Keywords = append(meta.Keywords, value)
				}
			}
		}
	}
	return meta
}

// step 把一条语句映射为一次 Document 调用。
func (b *builder) step(d *Document, it *dsl.Item) error {
	switch {
	case it.Meta != nil, it.Header != nil, it.Footer != nil:
		// 已在打开文档前处理
	case it.Page:
		d.AddPage()
	case it.Space != nil:
		if err := nonNegative("space", *it.Space); err != nil {
			return err
		}
		d.Space(*it.Space)
	case it.Ensure != nil:
		if err := nonNegative("ensure", *it.Ensure); err != nil {
			return err
		}
		d.EnsureSpace(*it.Ensure)
	case it.Center != nil:
		return b.center(d, it.Center)
	case it.Rule != nil:
		b.rule(d, it.Rule)
	case it.Section != nil:
		d.Render(SectionHeader{Text: b.text(string(*it.Section))})
	case it.Subsection != nil:
		d.Render(SubHeader{Text: b.text(string(*it.Subsection))})
	case it.Para != nil:
		d.Render(Paragraph{Text: b.text(it.Para.Join())})
	case it.Bullet != nil:
		d.Render(Bullet{Text: b.text(it.Bullet.Join())})
	case it.Code != nil:
		d.Render(CodeBlock{Text: b.text(it.Code.Join())})
	case it.Caption != nil:
		d.Render(Caption{Text: b.text(string(*it.Caption))})
	case it.Table != nil:
		return b.table(d, it.Table)
	case it.Row != nil:
		return b.looseRow(d, it.Row, false)
	case it.Head != nil:
		return b.looseRow(d, it.Head, true)
	default:
		return fmt.Errorf("无法识别的语句")
	}
	return nil
}

// center 绘制一行居中文本，并把光标下移 height。
func (b *builder) center(d *Document, c *dsl.Center) error {
	st := TextStyle{Style: Style{Size: SizeBody, Tone: ToneBody}, Align: "center"}
	height := defaultCenterHeight
	var color *Color
	for _, opt := range c.Opts {
		switch {
		case opt.Size != nil:
			if *opt.Size <= 0 {
				return fmt.Errorf("size 必须为正数，实际 %g", *opt.Size)
			}
			st.SizePt = *opt.Size
		case opt.Weight != nil:
			switch *opt.Weight {
			case "bold":
				st.Weight = WeightBold
			case "italic":
				st.Weight = WeightItalic
			default:
				st.Weight = WeightRegular
			}
		case opt.Tone != nil:
			tone, ok := ParseTone(*opt.Tone)
			if !ok {
				return fmt.Errorf("未知的颜色档位 %q", *opt.Tone)
			}
			st.Tone = tone
		case opt.Color != nil:
			col, err := parseColor(*opt.Color)
			if err != nil {
				return err
			}
			color = &col
		case opt.Height != nil:
			if err := nonNegative("height", *opt.Height); err != nil {
				return err
			}
			height = *opt.Height
		}
	}
	st.Height = height

	d.Reserve(height)
	p := d.Painter()
	if color != nil {
		p.SetTextColor(*color)
	} else {
		p.SetTextColor(d.opts.Palette.Color(st.Tone))
	}
	y := p.CurrentY()
	p.DrawText(Point{X: d.opts.Margin.Left, Y: y}, b.text(string(c.Text)), st)
	p.SetY(y + height)
	return nil
}

func (b *builder) rule(d *Document, r *dsl.Rule) {
	p := d.Painter()
	p.SetDrawColor(d.opts.Palette.Color(ToneHeading))
	y := p.CurrentY()
	p.DrawLine(Point{X: r.X1, Y: y}, Point{X: r.X2, Y: y})
}

// table 把表格块拆成若干段：每个 head 行开启新的一段，使表头总与其后的数据行相邻。
func (b *builder) table(d *Document, t *dsl.Table) error {
	seg := Table{Widths: t.Widths}
	if t.Caption != nil {
		seg.Caption = b.text(string(*t.Caption))
	}
	flush := func() {
		if seg.Caption != "" || len(seg.Header) > 0 || len(seg.Rows) > 0 {
			d.Render(seg)
		}
		seg = Table{Widths: t.Widths}
	}
	for _, row := range t.Rows {
		cells, err := b.cells(row.Cells, len(t.Widths))
		if err != nil {
			return fmt.Errorf("%s: %w", row.Pos, err)
		}
		if row.Kind == "head" {
			if len(seg.Header) > 0 || len(seg.Rows) > 0 {
				flush()
			}
			seg.Header = cells
			continue
		}
		seg.Rows = append(seg.Rows, cells)
	}
	flush()
	return nil
}

func (b *builder) looseRow(d *Document, r *dsl.LooseRow, emphasis bool) error {
	cells, err := b.cells(r.Cells, len(r.Widths))
	if err != nil {
		return err
	}
	d.Render(TableRow{Cells: cells, Widths: r.Widths, Emphasis: emphasis})
	return nil
}

func (b *builder) cells(src []*dsl.Cell, columns int) ([]any, error) {
	if len(src) != columns {
		return nil, fmt.Errorf("单元格数量 %d 与列宽数量 %d 不一致", len(src), columns)
	}
	out := make([]any, len(src))
	for i, c := range src {
		v := c.Value()
		if s, ok := v.(string); ok {
			v = b.text(s)
		}
		out[i] = v
	}
	return out, nil
}

// nonNegative 拒绝负的纵向尺寸，光标只能向下移动。
func nonNegative(kind string, v float64) error {
	if v < 0 {
		return fmt.Errorf("%s 不能为负数，实际 %g", kind, v)
	}
	return nil
}

func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}
