package layout

import "github.com/ByLCY/quire/sanitize"

// 该文件定义缓冲的页面模型，供排版、定稿、渲染与调试 JSON 共用。

// Result 是定稿后的文档，页面内容不再变化。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
	// PageCount 为最终页数，等于 len(Pages)。
	PageCount int `json:"pageCount"`
	// Breaks 为空间不足引发的自动分页次数，不含显式换页。
	Breaks int `json:"breaks"`
	// Placeholders 为定稿时替换的页数占位符处数。
	Placeholders int `json:"placeholders"`
}

// Page 记录页面尺寸与已经定位好的绘制原语（单位：mm）。
type Page struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
	// 主体内容
	Texts []TextBox `json:"texts"`
	Lines []Line    `json:"lines,omitempty"`
	// 页眉与页脚在每页各绘制一次
	Header []TextBox `json:"header"`
	Footer []TextBox `json:"footer"`

	headerDone bool
	footerDone bool
}

// Decorated 表示页眉与页脚是否都已绘制。
func (p *Page) Decorated() bool { return p.headerDone && p.footerDone }

// Margin 以毫米为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// TextBox 表示一行已经排好坐标的文本（一个 cell）。
// X/Y 为区域左上角，Width 为 0 时表示延伸到右边距。
type TextBox struct {
	Content  sanitize.Text `json:"content"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Font     Font          `json:"font"`
	FontSize float64       `json:"fontSize"` // pt
	Color    Color         `json:"color"`
	Align    string        `json:"align,omitempty"` // left/center/right，默认 left
	Fill     *Color        `json:"fill,omitempty"`
	Border   *Color        `json:"border,omitempty"`
}

// Font 描述字族与字重，渲染器负责映射到实际字体。
type Font struct {
	Mono   bool `json:"mono,omitempty"`
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // 线宽（mm），<=0 时由渲染器给默认值
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// EachText 依次访问页面中的全部文本原语（页眉、主体、页脚）。
func (p *Page) EachText(fn func(tb *TextBox)) {
	for i := range p.Header {
		fn(&p.Header[i])
	}
	for i := range p.Texts {
		fn(&p.Texts[i])
	}
	for i := range p.Footer {
		fn(&p.Footer[i])
	}
}
