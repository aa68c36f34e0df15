package layout

import "github.com/ByLCY/quire/sanitize"

// Point 为页面坐标（mm，左上角为原点）。
type Point struct {
	X float64
	Y float64
}

// TextStyle 描述一次文本绘制。
type TextStyle struct {
	Style
	SizePt float64 // >0 时覆盖 Style.Size
	Width  float64 // 0 表示延伸到右边距
	Height float64
	Align  string
	Fill   bool
	Border bool
}

// Painter 是面向调用方的绘制接口，用于标题页等自由排版内容。
// 所有文本在写入页面前都会经过 sanitize。
type Painter interface {
	CreatePage()
	DrawText(at Point, text string, style TextStyle)
	DrawLine(from, to Point)
	SetFillColor(c Color)
	SetTextColor(c Color)
	SetDrawColor(c Color)
	CurrentY() float64
	SetY(y float64)
	PageNumber() int
	PageCountToken() string
}

// surface 是版面原语的写入端，只接受已清洗的文本。
// 内容块渲染器直接使用它；外部调用方经由 sanitizingPainter。
type surface struct {
	d *Document
}

func (s surface) createPage() {
	s.d.mustCreating("CreatePage")
	s.d.openPage()
}

func (s surface) drawText(at Point, text sanitize.Text, st TextStyle) {
	d := s.d
	d.mustCreating("DrawText")
	size := st.SizePt
	if size <= 0 {
		size = d.opts.Palette.Size(st.Size)
	}
	width := st.Width
	if width <= 0 {
		width = d.opts.PageWidth - d.opts.Margin.Right - at.X
	}
	tb := TextBox{
		Content:  text,
		X:        at.X,
		Y:        at.Y,
		Width:    width,
		Height:   st.Height,
		Font:     st.font(),
		FontSize: size,
		Color:    d.ink.text,
		Align:    st.Align,
	}
	if st.Fill {
		fill := d.ink.fill
		tb.Fill = &fill
	}
	if st.Border {
		border := d.ink.draw
		tb.Border = &border
	}
	d.place(d.current(), areaBody, tb)
}

func (s surface) drawLine(from, to Point) {
	d := s.d
	d.mustCreating("DrawLine")
	p := d.current()
	p.Lines = append(p.Lines, Line{X1: from.X, Y1: from.Y, X2: to.X, Y2: to.Y, Color: d.ink.draw})
}

func (s surface) setFillColor(c Color) { s.d.ink.fill = c }
func (s surface) setTextColor(c Color) { s.d.ink.text = c }
func (s surface) setDrawColor(c Color) { s.d.ink.draw = c }

func (s surface) currentY() float64 { return s.d.cursor.Y }

// setY 直接移动光标，结果限制在正文区域内。
func (s surface) setY(y float64) {
	s.d.mustCreating("SetY")
	s.d.cursor.Y = s.d.opts.clampBody(y)
}

// sanitizingPainter 把 surface 包装为 Painter：每个文本调用先经过 sanitize.Clean。
type sanitizingPainter struct {
	s surface
}

var _ Painter = sanitizingPainter{}

// Painter 返回当前文档的自由绘制接口。
func (d *Document) Painter() Painter {
	return sanitizingPainter{s: surface{d: d}}
}

func (p sanitizingPainter) CreatePage() { p.s.createPage() }

func (p sanitizingPainter) DrawText(at Point, text string, style TextStyle) {
	p.s.drawText(at, sanitize.Clean(text), style)
}

func (p sanitizingPainter) DrawLine(from, to Point) { p.s.drawLine(from, to) }
func (p sanitizingPainter) SetFillColor(c Color)   { p.s.setFillColor(c) }
func (p sanitizingPainter) SetTextColor(c Color)   { p.s.setTextColor(c) }
func (p sanitizingPainter) SetDrawColor(c Color)   { p.s.setDrawColor(c) }
func (p sanitizingPainter) CurrentY() float64      { return p.s.currentY() }
func (p sanitizingPainter) SetY(y float64)         { p.s.setY(y) }
func (p sanitizingPainter) PageNumber() int        { return p.s.d.PageNumber() }
func (p sanitizingPainter) PageCountToken() string { return p.s.d.opts.PageCountToken }
