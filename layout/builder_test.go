package layout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ByLCY/quire/dsl"
)

func buildScript(t *testing.T, src string, data any, opts BuildOptions) *Result {
	t.Helper()
	script, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析脚本失败: %v", err)
	}
	res, err := Build(script, data, opts)
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return res
}

const reportScript = `
report "VoxApp" {
  meta {
    author: "VoxApp"
    subject: "Projectdocument ${project.version}"
    keywords: ["voice", "ai"]
  }
  header "VOXAPP - VERTROUWELIJK" align right
  footer "Pagina {page} van {nb}"

  space 50
  center "VOXAPP" size 28 bold tone heading height 15
  center "${project.tagline}" color #505064
  rule 60 150
  page

  section "1. Wat is VoxApp?"
  para "Een AI-receptionist voor ${project.market}."
  table [55, 75] caption "Status" {
    head "Module" "Status"
    row "Agenda" "WERKEND"
    row "Facturatie" 3
    head "Infra" "Status"
    row "Database" "OK"
  }
  ensure 20
  head [40, 40] "Plan" "Prijs"
  row [40, 40] "Starter" "€99/mnd"
}
`

func TestBuildReport(t *testing.T) {
	var data any
	if err := json.Unmarshal([]byte(`{"project":{"version":"2.1","tagline":"Altijd bereikbaar","market":"KMO's"}}`), &data); err != nil {
		t.Fatal(err)
	}
	var missing []string
	res := buildScript(t, reportScript, data, BuildOptions{
		Layout:       DefaultOptions(),
		OnUnresolved: func(p string) { missing = append(missing, p) },
	})
	if len(missing) != 0 {
		t.Fatalf("不应有未解析路径: %v", missing)
	}
	if res.PageCount != 2 {
		t.Fatalf("期望 2 页，实际 %d", res.PageCount)
	}
	if res.Meta.Title != "VoxApp" || res.Meta.Subject != "Projectdocument 2.1" || res.Meta.Creator != "Quire" {
		t.Fatalf("元信息不正确: %+v", res.Meta)
	}
	if len(res.Meta.Keywords) != 2 {
		t.Fatalf("关键词不正确: %v", res.Meta.Keywords)
	}

	title := res.Pages[0]
	if len(title.Texts) != 2 || title.Texts[0].Content != "VOXAPP" || title.Texts[0].FontSize != 28 || title.Texts[0].Align != "center" {
		t.Fatalf("标题页内容不正确: %+v", title.Texts)
	}
	if title.Texts[0].Y != 68 || title.Texts[1].Y != 83 {
		t.Fatalf("居中行位置不正确: %.1f %.1f", title.Texts[0].Y, title.Texts[1].Y)
	}
	if c := title.Texts[1].Color; c != (Color{R: 0x50, G: 0x50, B: 0x64}) {
		t.Fatalf("自定义颜色未生效: %+v", c)
	}
	if len(title.Lines) != 1 || title.Lines[0].X1 != 60 || title.Lines[0].Y1 != 93 {
		t.Fatalf("分隔线不正确: %+v", title.Lines)
	}
	if got := res.Pages[1].Footer[0].Content; got != "Pagina 2 van 2" {
		t.Fatalf("页脚 = %q", got)
	}
	if got := res.Pages[0].Header[0]; got.Content != "VOXAPP - VERTROUWELIJK" || got.Align != "right" {
		t.Fatalf("页眉 = %+v", got)
	}

	var contents []string
	bold := 0
	for _, tb := range res.Pages[1].Texts {
		contents = append(contents, tb.Content.String())
		if tb.Font.Bold && tb.Fill != nil {
			bold++
		}
	}
	joined := strings.Join(contents, "|")
	for _, want := range []string{"Een AI-receptionist voor KMO's.", "Status|Module|Status|Agenda", "Facturatie|3", "Infra|Status|Database", "Starter|E99/mnd"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("第二页缺少 %q:\n%s", want, joined)
		}
	}
	// 两个表内表头与一个独立表头
	if bold != 6 {
		t.Fatalf("强调单元格应为 6 个，实际 %d", bold)
	}
}

func TestBuildReportsUnresolvedPaths(t *testing.T) {
	var missing []string
	res := buildScript(t, `report "x" { para "Hallo ${klant.naam}" }`, map[string]any{}, BuildOptions{
		OnUnresolved: func(p string) { missing = append(missing, p) },
	})
	if len(missing) != 1 || missing[0] != "klant.naam" {
		t.Fatalf("未解析路径 = %v", missing)
	}
	if got := res.Pages[0].Texts[0].Content; got != "Hallo ${klant.naam}" {
		t.Fatalf("未解析的占位符应保留: %q", got)
	}
}

func TestBuildRowWidthMismatchIsError(t *testing.T) {
	for _, src := range []string{
		`report "x" { row [10, 20] "a" }`,
		`report "x" { table [10, 20] { row "a" "b" "c" } }`,
	} {
		script, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("解析失败: %v", err)
		}
		_, err = Build(script, nil, BuildOptions{})
		if err == nil || !strings.Contains(err.Error(), "不一致") {
			t.Fatalf("%s: 期望列数错误，实际 %v", src, err)
		}
	}
}

func TestBuildRejectsNegativeSizes(t *testing.T) {
	for _, src := range []string{
		`report "x" { space -50 para "hallo" }`,
		`report "x" { ensure -1 }`,
		`report "x" { center "t" height -3 }`,
		`report "x" { center "t" size 0 }`,
	} {
		script, err := dsl.ParseString(src)
		if err != nil {
			t.Fatalf("解析失败: %v", err)
		}
		if _, err := Build(script, nil, BuildOptions{}); err == nil {
			t.Fatalf("%s: 负的尺寸应报错", src)
		}
	}
}

func TestBuildUnknownTone(t *testing.T) {
	script, err := dsl.ParseString(`report "x" { center "t" tone neon }`)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if _, err := Build(script, nil, BuildOptions{}); err == nil {
		t.Fatalf("未知颜色档位应报错")
	}
}

func TestBuildNilScript(t *testing.T) {
	if _, err := Build(nil, nil, BuildOptions{}); err == nil {
		t.Fatalf("空脚本应报错")
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"#1a1a2e": {R: 26, G: 26, B: 46},
		"#fff":    {R: 255, G: 255, B: 255},
		"96C":     {R: 0x99, G: 0x66, B: 0xcc},
	}
	for in, want := range cases {
		got, err := parseColor(in)
		if err != nil || got != want {
			t.Fatalf("parseColor(%q) = %+v, %v", in, got, err)
		}
	}
	if _, err := parseColor("#12"); err == nil {
		t.Fatalf("非法颜色应报错")
	}
}
