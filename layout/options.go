package layout

import (
	"strings"

	"github.com/ByLCY/quire/sanitize"
)

// 默认版式取自 A4 纵向、10mm 左右边距的报告模板。
const (
	DefaultPageWidth  = 210.0
	DefaultPageHeight = 297.0

	// DefaultPageCountToken 是页脚里代表「总页数」的占位符。
	DefaultPageCountToken = "{nb}"
	// PageNumberToken 在页脚绘制时替换为当前页码。
	PageNumberToken = "{page}"
)

// Options 配置版式几何、页眉页脚与各内容块的排版参数。
type Options struct {
	PageWidth  float64
	PageHeight float64
	Margin     Margin

	// BodyTop 为正文区域顶部（页眉之下）。
	BodyTop float64
	// BodyBottom 为正文可用的下边界：任何一行都不会越过它。
	BodyBottom float64
	// EnsureLimit 是 EnsureSpace 使用的阈值，不大于 BodyBottom。
	EnsureLimit float64

	Header Decoration
	Footer Decoration
	// FooterY 为页脚 cell 的顶部位置。
	FooterY float64

	PageCountToken string

	BodyWrap       int     // 正文每行字符预算
	BulletWrap     int     // 列表项每行字符预算
	CodeLineCap    int     // 代码行的硬上限
	CharWidthRatio float64 // 表格列宽 / 字符数

	Palette Palette
}

// Decoration 描述页眉或页脚的一行文本。
type Decoration struct {
	Text   string
	Align  string
	Height float64
	Style  Style
}

// DefaultOptions 返回与原报告模板一致的默认参数。
func DefaultOptions() Options {
	return Options{
		PageWidth:   DefaultPageWidth,
		PageHeight:  DefaultPageHeight,
		Margin:      Margin{Top: 10, Right: 10, Bottom: 20, Left: 10},
		BodyTop:     18,
		BodyBottom:  277,
		EnsureLimit: 270,
		Header: Decoration{
			Align:  "right",
			Height: 5,
			Style:  Style{Weight: WeightBold, Size: SizeSmall, Tone: ToneMuted},
		},
		Footer: Decoration{
			Text:   "Pagina {page}/{nb}",
			Align:  "center",
			Height: 10,
			Style:  Style{Weight: WeightItalic, Size: SizeSmall, Tone: ToneMuted},
		},
		FooterY:        282,
		PageCountToken: DefaultPageCountToken,
		BodyWrap:       95,
		BulletWrap:     90,
		CodeLineCap:    100,
		CharWidthRatio: 2.5,
		Palette:        DefaultPalette(),
	}
}

// normalize 补齐零值字段，保证几何关系自洽。
func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.PageWidth <= 0 {
		o.PageWidth = def.PageWidth
	}
	if o.PageHeight <= 0 {
		o.PageHeight = def.PageHeight
	}
	if o.BodyBottom <= 0 || o.BodyBottom > o.PageHeight {
		o.BodyBottom = o.PageHeight - o.Margin.Bottom
	}
	if o.BodyTop <= 0 {
		o.BodyTop = o.Margin.Top
	}
	if o.BodyTop >= o.BodyBottom {
		o.BodyTop = def.BodyTop
		o.BodyBottom = def.BodyBottom
	}
	if o.EnsureLimit <= 0 || o.EnsureLimit > o.BodyBottom {
		o.EnsureLimit = o.BodyBottom
	}
	if o.FooterY <= 0 {
		o.FooterY = o.PageHeight - 15
	}
	if strings.TrimSpace(o.PageCountToken) == "" {
		o.PageCountToken = DefaultPageCountToken
	}
	// 页脚文本先经过 sanitize 再登记占位符，记号必须与清洗后的形式一致。
	o.PageCountToken = sanitize.Clean(o.PageCountToken).String()
	if o.CharWidthRatio <= 0 {
		o.CharWidthRatio = def.CharWidthRatio
	}
	if o.Palette.Sizes == nil {
		o.Palette.Sizes = def.Palette.Sizes
	}
	if o.Palette.Tones == nil {
		o.Palette.Tones = def.Palette.Tones
	}
	return o
}

// clampBody 把纵坐标限制在 [BodyTop, BodyBottom]。
func (o Options) clampBody(y float64) float64 {
	return min(max(y, o.BodyTop), o.BodyBottom)
}

func (o Options) isZero() bool {
	return o.PageWidth == 0 && o.PageHeight == 0 && o.BodyTop == 0 && o.BodyBottom == 0
}

// contentWidth 为左右边距之间的宽度。
func (o Options) contentWidth() float64 {
	return o.PageWidth - o.Margin.Left - o.Margin.Right
}

// bodyHeight 为正文区域高度。
func (o Options) bodyHeight() float64 {
	return o.BodyBottom - o.BodyTop
}
