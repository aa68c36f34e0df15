package layout

import (
	"strings"
	"testing"
)

func bodyTexts(res *Result) []TextBox {
	var out []TextBox
	for _, p := range res.Pages {
		out = append(out, p.Texts...)
	}
	return out
}

// 30 字符的单元格、列宽 50mm（预算 20）：保留 18 个字符加 ".."。
func TestTableCellTruncation(t *testing.T) {
	d := NewDocument(testOptions())
	long := strings.Repeat("abcdefghij", 3)
	d.Render(TableRow{Cells: []any{long, "kort"}, Widths: []float64{50, 50}})
	res := finalize(t, d)
	texts := bodyTexts(res)
	if len(texts) != 2 {
		t.Fatalf("期望 2 个单元格，实际 %d", len(texts))
	}
	got := texts[0].Content
	if got.Len() != 20 || got.String() != long[:18]+".." {
		t.Fatalf("截断结果 %q (长度 %d)", got, got.Len())
	}
	if texts[1].Content != "kort" {
		t.Fatalf("未超长的单元格应原样输出: %q", texts[1].Content)
	}
	if texts[0].X != 10 || texts[1].X != 60 {
		t.Fatalf("单元格 x 偏移不正确: %.1f %.1f", texts[0].X, texts[1].X)
	}
	if texts[0].Border == nil || texts[0].Fill != nil {
		t.Fatalf("普通行应有边框且无填充")
	}
}

func TestFitCellSmallBudget(t *testing.T) {
	cases := []struct {
		value any
		width float64
		want  string
	}{
		{"abcdef", 2.5, "."}, // 预算 1
		{"abcdef", 1, ""},    // 预算 0
		{"abc", 7.5, "abc"},  // 恰好等于预算
		{"abcd", 7.5, "a.."}, // 预算 3
		{nil, 10, ""},        // nil 为空
		{12.5, 10, "12.5"},   // 数字
		{"Overzicht € – ok", 100, "Overzicht E - ok"},
	}
	for _, c := range cases {
		if got := FitCell(c.value, c.width, 2.5); got.String() != c.want {
			t.Fatalf("FitCell(%v, %g) = %q，期望 %q", c.value, c.width, got, c.want)
		}
	}
}

func TestEmphasisRowIsBoldAndFilled(t *testing.T) {
	d := NewDocument(testOptions())
	d.Render(TableRow{Cells: []any{"Route", "Status"}, Widths: []float64{40, 40}, Emphasis: true})
	res := finalize(t, d)
	fill := DefaultPalette().Color(ToneEmphasisFill)
	for _, tb := range bodyTexts(res) {
		if !tb.Font.Bold {
			t.Fatalf("强调行应为粗体: %q", tb.Content)
		}
		if tb.Fill == nil || *tb.Fill != fill {
			t.Fatalf("强调行填充色不正确: %+v", tb.Fill)
		}
		if tb.Height != tableRowHeight {
			t.Fatalf("行高应为 %.1f，实际 %.1f", tableRowHeight, tb.Height)
		}
	}
}

func TestTableRowWidthMismatchPanics(t *testing.T) {
	d := NewDocument(testOptions())
	mustContractPanic(t, "TableRow", func() {
		d.Render(TableRow{Cells: []any{"a", "b", "c"}, Widths: []float64{40, 40}})
	})
}

// 表头与第一行数据不分离：剩余空间只够放分类标签与表头时整体移到下一页。
func TestTableHeaderNotOrphaned(t *testing.T) {
	d := NewDocument(testOptions())
	d.Space(240) // 光标 260，剩余 10mm
	d.Render(Table{
		Caption: "Afspraken",
		Widths:  []float64{50, 50},
		Header:  []any{"Route", "Functie"},
		Rows:    [][]any{{"/api/health", "Health check"}},
	})
	res := finalize(t, d)
	if len(res.Pages) != 2 {
		t.Fatalf("期望 2 页，实际 %d", len(res.Pages))
	}
	if n := len(res.Pages[0].Texts); n != 0 {
		t.Fatalf("第一页不应有表格内容，实际 %d 个", n)
	}
	p2 := res.Pages[1].Texts
	if len(p2) != 5 || p2[0].Content != "Afspraken" || p2[1].Content != "Route" || p2[3].Content != "/api/health" {
		t.Fatalf("第二页内容不正确: %+v", p2)
	}
}

// 多行数据的表格随数据行逐行分页，续页不重复表头。
func TestTableRowsBreakIndividually(t *testing.T) {
	d := NewDocument(testOptions())
	d.Render(Table{Widths: []float64{60, 60}, Header: []any{"k", "v"}, Rows: repeatRows(50)})
	res := finalize(t, d)
	if len(res.Pages) != 2 {
		t.Fatalf("期望 2 页，实际 %d", len(res.Pages))
	}
	// 250mm / 6mm = 41 行（含表头）
	if got := len(res.Pages[0].Texts) / 2; got != 41 {
		t.Fatalf("第一页应有 41 行，实际 %d", got)
	}
	if res.Pages[1].Texts[0].Font.Bold {
		t.Fatalf("续页首行不应是表头")
	}
}

func TestZeroRowTableReservesHeaderOnly(t *testing.T) {
	d := NewDocument(testOptions())
	d.Space(237) // 光标 257，剩余 13mm
	d.Render(Table{Caption: "Leeg", Widths: []float64{50}, Header: []any{"Kolom"}})
	res := finalize(t, d)
	if len(res.Pages) != 1 {
		t.Fatalf("无数据行的表格只需标签与表头的空间，实际 %d 页", len(res.Pages))
	}
}

func TestCodeLineTruncation(t *testing.T) {
	d := NewDocument(testOptions())
	long := strings.Repeat("a", 120)
	d.Render(CodeBlock{Text: "short\n" + long + "\n" + strings.Repeat("b", 100)})
	res := finalize(t, d)
	texts := bodyTexts(res)
	if len(texts) != 3 {
		t.Fatalf("期望 3 行代码，实际 %d", len(texts))
	}
	if texts[0].Content != "  short" {
		t.Fatalf("代码行应带两个空格缩进: %q", texts[0].Content)
	}
	if want := "  " + strings.Repeat("a", 97) + "..."; texts[1].Content.String() != want {
		t.Fatalf("超长代码行截断不正确: %q", texts[1].Content)
	}
	if texts[2].Content.Len() != 102 {
		t.Fatalf("恰好 100 字符的行不应截断: %d", texts[2].Content.Len())
	}
	for _, tb := range texts {
		if !tb.Font.Mono || tb.Fill == nil || tb.Height != codeLine {
			t.Fatalf("代码行样式不正确: %+v", tb)
		}
	}
	if y := d.Cursor().Y; y != 20+3*codeLine+codeGapAfter {
		t.Fatalf("代码块之后光标 %.2f", y)
	}
}

func TestBulletHangingIndent(t *testing.T) {
	d := NewDocument(testOptions())
	d.Render(Bullet{Text: strings.Repeat("punt ", 40)})
	res := finalize(t, d)
	texts := bodyTexts(res)
	if len(texts) < 2 {
		t.Fatalf("长列表项应折行，实际 %d 行", len(texts))
	}
	if !strings.HasPrefix(texts[0].Content.String(), "  -  punt") {
		t.Fatalf("首行缺少项目符号: %q", texts[0].Content)
	}
	for _, tb := range texts[1:] {
		s := tb.Content.String()
		if !strings.HasPrefix(s, "     punt") {
			t.Fatalf("续行缺少悬挂缩进: %q", s)
		}
		if len(s)-5 > 90 {
			t.Fatalf("续行超过预算: %d", len(s)-5)
		}
	}
}

func TestSectionHeaderDrawsRule(t *testing.T) {
	d := NewDocument(testOptions())
	d.Render(SectionHeader{Text: "2. Architectuur — overzicht"})
	res := finalize(t, d)
	p := res.Pages[0]
	if len(p.Texts) != 1 || p.Texts[0].Content != "2. Architectuur - overzicht" {
		t.Fatalf("标题文本不正确: %+v", p.Texts)
	}
	tb := p.Texts[0]
	if !tb.Font.Bold || tb.FontSize != 14 || tb.Y != 26 {
		t.Fatalf("标题样式或位置不正确: %+v", tb)
	}
	if len(p.Lines) != 1 {
		t.Fatalf("标题下应有一条分隔线")
	}
	ln := p.Lines[0]
	if ln.X1 != 10 || ln.X2 != 200 || ln.Y1 != 36 {
		t.Fatalf("分隔线位置不正确: %+v", ln)
	}
	if y := d.Cursor().Y; y != 40 {
		t.Fatalf("标题之后光标应为 40，实际 %.2f", y)
	}
}

func TestParagraphBlankLineGap(t *testing.T) {
	d := NewDocument(testOptions())
	d.Render(Paragraph{Text: "eerste\n\ntweede"})
	res := finalize(t, d)
	texts := bodyTexts(res)
	if len(texts) != 2 {
		t.Fatalf("期望两行，实际 %d", len(texts))
	}
	if gap := texts[1].Y - texts[0].Y; gap != bodyLine+paragraphGap {
		t.Fatalf("空行间隔应为 %.1f，实际 %.1f", bodyLine+paragraphGap, gap)
	}
}
