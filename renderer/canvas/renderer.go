package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/quire/fonts"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/renderer"
)

// cellPadding 为单元格内左右留白（mm），与 fpdf 的默认 cell margin 一致。
const cellPadding = 1.0

// Renderer 通过 github.com/tdewolff/canvas 与内置的 Latin Modern 字体绘制版面。
type Renderer struct {
	// Fonts 按名称覆盖内置字体数据（名称见 fonts.Names），来自配置中的 fonts 映射。
	Fonts map[string][]byte

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer 创建使用内置字体的 canvas 渲染器。
func NewRenderer() *Renderer {
	return &Renderer{fontFamilies: map[string]*canvas.FontFamily{}}
}

// Render 把版面结果绘制为 PDF 字节。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if err := renderer.Check(result); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, page); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", page.Number, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) error {
	r.drawLines(ctx, page.Lines)
	for _, group := range [][]layout.TextBox{page.Header, page.Texts, page.Footer} {
		for _, tb := range group {
			if err := r.drawTextBox(ctx, tb); err != nil {
				return err
			}
		}
	}
	return nil
}

// drawTextBox 先绘制单元格背景与边框，再在单元格内垂直居中绘制文本。
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb layout.TextBox) error {
	if tb.Fill != nil || tb.Border != nil {
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(canvas.Transparent)
		if tb.Fill != nil {
			ctx.SetFillColor(colorFromLayout(*tb.Fill))
		}
		if tb.Border != nil {
			ctx.SetStrokeColor(colorFromLayout(*tb.Border))
			ctx.SetStrokeWidth(renderer.DefaultLineWidth)
		}
		ctx.DrawPath(tb.X, tb.Y, canvas.Rectangle(tb.Width, tb.Height))
	}
	if tb.Content == "" {
		return nil
	}

	face, err := r.fontFace(tb.Font, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width - cellPadding
	default:
		textAlign = canvas.Left
		anchorX = tb.X + cellPadding
	}

	// 基线位于单元格垂直中线附近：中线加上 (Ascent - Descent)/2
	metrics := face.Metrics()
	baseline := tb.Y + (tb.Height+metrics.Ascent-metrics.Descent)/2
	ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, tb.Content.String(), textAlign))
	return nil
}

// drawLines 绘制直线列表（毫米单位）
func (r *Renderer) drawLines(ctx *canvas.Context, lines []layout.Line) {
	ctx.SetFillColor(canvas.Transparent)
	for _, ln := range lines {
		ctx.SetStrokeColor(colorFromLayout(ln.Color))
		ctx.SetStrokeWidth(renderer.LineWidth(ln))
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

func (r *Renderer) fontFace(font layout.Font, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily(fonts.Select(font.Mono, font.Bold, font.Italic))
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal), nil
}

// ensureFontFamily 每个内置字体对应一个只含常规样式的字族，字重由字体文件本身决定。
func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if r.fontFamilies == nil {
		r.fontFamilies = map[string]*canvas.FontFamily{}
	}
	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}
	data, ok := r.Fonts[name]
	if !ok {
		var err error
		if data, err = fonts.Load(name); err != nil {
			return nil, err
		}
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	r.fontFamilies[name] = family
	return family, nil
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
