// Package fpdfrenderer 使用 codeberg.org/go-pdf/fpdf 与 PDF 核心字体（Helvetica、Courier）绘制定稿后的版面。
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/renderer"
)

const (
	sansFamily = "Helvetica"
	monoFamily = "Courier"
)

// Renderer 使用 fpdf 输出 PDF。页面几何、分页与页数已在 layout 阶段确定，
// 这里只按坐标绘制，并关闭 fpdf 自身的自动分页。
type Renderer struct {
	// CellMargin 为单元格内左右留白（mm），<=0 时使用 fpdf 默认值。
	CellMargin float64
	// Compress 控制是否压缩页面内容流。
	Compress bool
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer 创建默认配置的 fpdf 渲染器。
func NewRenderer() *Renderer { return &Renderer{Compress: true} }

// Render 把全部页面绘制为 PDF 字节。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if err := renderer.Check(result); err != nil {
		return nil, err
	}
	first := result.Pages[0]
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(r.Compress)
	if r.CellMargin > 0 {
		pdf.SetCellMargin(r.CellMargin)
	}
	applyMeta(pdf, result.Meta)

	// 页面文本已是 ASCII 为主的清洗结果，剩余字符按 cp1252 编码。
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, page := range result.Pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		for _, ln := range page.Lines {
			drawLine(pdf, ln)
		}
		for _, tb := range page.Header {
			drawCell(pdf, tr, tb)
		}
		for _, tb := range page.Texts {
			drawCell(pdf, tr, tb)
		}
		for _, tb := range page.Footer {
			drawCell(pdf, tr, tb)
		}
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("绘制第 %d 页失败: %w", page.Number, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(pdf *fpdf.Fpdf, meta layout.DocumentMeta) {
	pdf.SetTitle(meta.Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetCreator(meta.Creator, true)
	if len(meta.Keywords) > 0 {
		pdf.SetKeywords(strings.Join(meta.Keywords, ", "), true)
	}
}

func drawCell(pdf *fpdf.Fpdf, tr func(string) string, tb layout.TextBox) {
	family, style := fontOf(tb.Font)
	pdf.SetFont(family, style, tb.FontSize)
	pdf.SetTextColor(tb.Color.R, tb.Color.G, tb.Color.B)

	fill := tb.Fill != nil
	if fill {
		pdf.SetFillColor(tb.Fill.R, tb.Fill.G, tb.Fill.B)
	}
	border := ""
	if tb.Border != nil {
		border = "1"
		pdf.SetDrawColor(tb.Border.R, tb.Border.G, tb.Border.B)
		pdf.SetLineWidth(renderer.DefaultLineWidth)
	}
	pdf.SetXY(tb.X, tb.Y)
	pdf.CellFormat(tb.Width, tb.Height, tr(tb.Content.String()), border, 0, alignOf(tb.Align), fill, 0, "")
}

func drawLine(pdf *fpdf.Fpdf, ln layout.Line) {
	pdf.SetDrawColor(ln.Color.R, ln.Color.G, ln.Color.B)
	pdf.SetLineWidth(renderer.LineWidth(ln))
	pdf.Line(ln.X1, ln.Y1, ln.X2, ln.Y2)
}

// fontOf 把 layout.Font 映射为核心字体的字族与样式串。
func fontOf(f layout.Font) (string, string) {
	family := sansFamily
	if f.Mono {
		family = monoFamily
	}
	style := ""
	if f.Bold {
		style += "B"
	}
	if f.Italic {
		style += "I"
	}
	return family, style
}

func alignOf(align string) string {
	switch strings.ToLower(align) {
	case "center":
		return "C"
	case "right", "end":
		return "R"
	default:
		return "L"
	}
}
