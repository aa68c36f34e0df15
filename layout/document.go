package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/quire/sanitize"
)

// State 为文档生命周期状态，只能向前推进。
type State int

const (
	Creating State = iota
	Finalizing
	Sealed
)

func (s State) String() string {
	switch s {
	case Creating:
		return "creating"
	case Finalizing:
		return "finalizing"
	case Sealed:
		return "sealed"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Cursor 是当前页正文区域内的纵向写入位置（mm）。
type Cursor struct {
	Y float64
}

// ContractError 表示调用方违反了使用约定，例如定稿后继续写入。
// 这类错误以 panic 抛出，与运行期错误区分。
type ContractError struct {
	Op  string
	Msg string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("layout: %s: %s", e.Op, e.Msg)
}

func violate(op, format string, args ...any) {
	panic(&ContractError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// ink 是当前的颜色状态。
type ink struct {
	text Color
	fill Color
	draw Color
}

// placeholder 记录一次占位符出现的位置。
type placeholder struct {
	page int
	area area
	idx  int
}

type area int

const (
	areaBody area = iota
	areaHeader
	areaFooter
)

// Document 按调用顺序把内容块排入页面。单个调用方独占使用，不支持并发。
type Document struct {
	opts   Options
	meta   DocumentMeta
	pages  []*Page
	cursor Cursor
	state  State
	ink    ink

	placeholders []placeholder
	// breaks 为 Reserve/EnsureSpace 引发的分页次数（不含 AddPage）。
	breaks int
}

// NewDocument 创建文档并打开第一页。
func NewDocument(opts Options) *Document {
	d := &Document{opts: opts.normalize()}
	tone := d.opts.Palette.Color(ToneBody)
	d.ink = ink{text: tone, fill: Color{R: 255, G: 255, B: 255}, draw: tone}
	d.openPage()
	return d
}

// Options 返回规范化后的版式参数。
func (d *Document) Options() Options { return d.opts }

// State 返回当前生命周期状态。
func (d *Document) State() State { return d.state }

// Cursor 返回当前写入位置。
func (d *Document) Cursor() Cursor { return d.cursor }

// PageNumber 返回当前页的序号（从 1 开始）。
func (d *Document) PageNumber() int { return len(d.pages) }

// SetMeta 设置文档元信息。
func (d *Document) SetMeta(meta DocumentMeta) {
	d.mustCreating("SetMeta")
	d.meta = meta
}

// AddPage 无条件开始新的一页。
func (d *Document) AddPage() {
	d.mustCreating("AddPage")
	d.openPage()
}

// Reserve 在写入一个内容块之前调用：若当前页放不下高度 h，则先分页。
// 超过正文高度的估计值按正文高度处理，这样超大块从新页开始，再逐行分页。
// 返回值表示是否发生了分页。
func (d *Document) Reserve(h float64) bool {
	d.mustCreating("Reserve")
	if body := d.opts.bodyHeight(); h > body {
		h = body
	}
	return d.breakIfOver(h, d.opts.BodyBottom)
}

// EnsureSpace 以 EnsureLimit 为阈值检查剩余空间，对应调用方手动插入的分页检查。
func (d *Document) EnsureSpace(h float64) bool {
	d.mustCreating("EnsureSpace")
	return d.breakIfOver(h, d.opts.EnsureLimit)
}

// Space 插入纵向间隔，不自动分页；越过正文底部的部分被页尾吸收。
// 负值不会让光标回到正文顶部之上。
func (d *Document) Space(h float64) {
	d.mustCreating("Space")
	d.advance(h)
}

func (d *Document) breakIfOver(h, limit float64) bool {
	if d.cursor.Y+h <= limit {
		return false
	}
	// 已在正文顶部时再分页只会产生空页。
	if d.atBodyTop() {
		return false
	}
	d.openPage()
	d.breaks++
	return true
}

func (d *Document) atBodyTop() bool {
	return d.cursor.Y <= d.opts.BodyTop
}

func (d *Document) advance(h float64) {
	d.cursor.Y = d.opts.clampBody(d.cursor.Y + h)
}

func (d *Document) current() *Page {
	return d.pages[len(d.pages)-1]
}

// openPage 关闭当前页（绘制页脚），追加新页并绘制页眉，光标回到正文顶部。
func (d *Document) openPage() {
	if len(d.pages) > 0 {
		d.closePage()
	}
	p := &Page{
		Number: len(d.pages) + 1,
		Width:  d.opts.PageWidth,
		Height: d.opts.PageHeight,
		Margin: d.opts.Margin,
	}
	d.pages = append(d.pages, p)
	d.drawHeader(p)
	d.cursor.Y = d.opts.BodyTop
}

func (d *Document) closePage() {
	p := d.current()
	if !p.footerDone {
		d.drawFooter(p)
	}
}

func (d *Document) drawHeader(p *Page) {
	if p.headerDone {
		violate("header", "第 %d 页的页眉已绘制", p.Number)
	}
	p.headerDone = true
	hd := d.opts.Header
	if strings.TrimSpace(hd.Text) == "" {
		return
	}
	tb := d.decorationBox(hd, sanitize.Clean(hd.Text), d.opts.Margin.Top)
	d.place(p, areaHeader, tb)
}

func (d *Document) drawFooter(p *Page) {
	if p.footerDone {
		violate("footer", "第 %d 页的页脚已绘制", p.Number)
	}
	p.footerDone = true
	ft := d.opts.Footer
	if strings.TrimSpace(ft.Text) == "" {
		return
	}
	text := strings.ReplaceAll(ft.Text, PageNumberToken, strconv.Itoa(p.Number))
	tb := d.decorationBox(ft, sanitize.Clean(text), d.opts.FooterY)
	d.place(p, areaFooter, tb)
}

func (d *Document) decorationBox(dec Decoration, text sanitize.Text, y float64) TextBox {
	pal := d.opts.Palette
	return TextBox{
		Content:  text,
		X:        d.opts.Margin.Left,
		Y:        y,
		Width:    d.opts.contentWidth(),
		Height:   dec.Height,
		Font:     dec.Style.font(),
		FontSize: pal.Size(dec.Style.Size),
		Color:    pal.Color(dec.Style.Tone),
		Align:    dec.Align,
	}
}

// place 把文本原语放入页面的指定区域，并登记其中的占位符。
func (d *Document) place(p *Page, a area, tb TextBox) {
	var idx int
	switch a {
	case areaHeader:
		p.Header = append(p.Header, tb)
		idx = len(p.Header) - 1
	case areaFooter:
		p.Footer = append(p.Footer, tb)
		idx = len(p.Footer) - 1
	default:
		p.Texts = append(p.Texts, tb)
		idx = len(p.Texts) - 1
	}
	if strings.Contains(string(tb.Content), d.opts.PageCountToken) {
		d.placeholders = append(d.placeholders, placeholder{page: p.Number - 1, area: a, idx: idx})
	}
}

// Finalize 结束内容写入：关闭最后一页，把所有占位符替换为最终页数并封存文档。
// 重复调用属于契约错误。
func (d *Document) Finalize() (*Result, error) {
	if d.state != Creating {
		violate("Finalize", "文档已处于 %s 状态", d.state)
	}
	d.state = Finalizing
	d.closePage()

	total := len(d.pages)
	d.resolvePageCount(total)
	if n := countToken(d.pages, d.opts.PageCountToken); n > 0 {
		return nil, fmt.Errorf("layout: 定稿后仍残留 %d 处页数占位符", n)
	}

	out := make([]Page, total)
	for i, p := range d.pages {
		if !p.Decorated() {
			return nil, fmt.Errorf("layout: 第 %d 页缺少页眉或页脚", p.Number)
		}
		out[i] = *p
	}
	d.state = Sealed
	return &Result{
		Pages:        out,
		Meta:         d.meta,
		PageCount:    total,
		Breaks:       d.breaks,
		Placeholders: len(d.placeholders),
	}, nil
}

func (d *Document) mustCreating(op string) {
	if d.state != Creating {
		violate(op, "文档已处于 %s 状态，不能继续写入", d.state)
	}
}
