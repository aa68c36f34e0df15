package dsl_test

import (
	"os"
	"strings"
	"testing"

	"github.com/ByLCY/quire/dsl"
)

const sampleScript = `
report "VoxApp" {
  meta {
    title: "VoxApp Projectdocument"
    author: "VoxApp"
    keywords: ["voice", "platform"]
  }
  header "VOXAPP - VERTROUWELIJK" align right
  footer "Pagina {page}/{nb}"

  // title page
  space 50
  center "VOXAPP" size 28 bold tone heading height 15
  rule 60 150
  page

  section "1. WAT IS VOXAPP?"
  subsection "Kerngegevens"
  para "VoxApp is een AI-receptionist platform " "voor KMO's."
  bullet "Website: www.voxapp.tech"
  code "line one" "\nline two"
  ensure 20
  caption "Afspraken"
  table [55, 75, 50] caption "Admin" {
    head "Route" "Functie" "Status"
    row "/api/health" "Health check" "WERKEND"
    row "/api/metrics" 42 "BASIS"
  }
  head [40, 35] "Plan" "Prijs"
  row [40, 35] "Starter" "E99/mnd"
}
`

func TestParseScript(t *testing.T) {
	s, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if s.Name != "VoxApp" {
		t.Fatalf("expected report name VoxApp, got %q", s.Name)
	}
	var kinds []string
	for _, it := range s.Items {
		kinds = append(kinds, it.Kind())
	}
	want := "meta header footer space center rule page section subsection para bullet code ensure caption table head row"
	if got := strings.Join(kinds, " "); got != want {
		t.Fatalf("statement kinds mismatch:\n got=%s\nwant=%s", got, want)
	}
}

func TestParseDetails(t *testing.T) {
	s, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	items := s.Items

	meta := items[0].Meta
	if len(meta.Entries) != 3 || meta.Entries[0].Key != "title" || string(*meta.Entries[0].Value) != "VoxApp Projectdocument" {
		t.Fatalf("unexpected meta entries: %+v", meta.Entries)
	}
	if kw := meta.Entries[2].Values; len(kw) != 2 || kw[1] != "platform" {
		t.Fatalf("unexpected keywords: %v", kw)
	}
	if items[1].Header.Align != "right" {
		t.Fatalf("header align = %q", items[1].Header.Align)
	}
	if items[2].Footer.Text != "Pagina {page}/{nb}" {
		t.Fatalf("footer text = %q", items[2].Footer.Text)
	}

	center := items[4].Center
	if center.Text != "VOXAPP" || len(center.Opts) != 4 {
		t.Fatalf("unexpected center: %+v", center)
	}
	if *center.Opts[0].Size != 28 || *center.Opts[1].Weight != "bold" || *center.Opts[2].Tone != "heading" || *center.Opts[3].Height != 15 {
		t.Fatalf("unexpected center options")
	}
	if r := items[5].Rule; r.X1 != 60 || r.X2 != 150 {
		t.Fatalf("unexpected rule: %+v", r)
	}
	if got := items[9].Para.Join(); got != "VoxApp is een AI-receptionist platform voor KMO's." {
		t.Fatalf("para join = %q", got)
	}
	if got := items[11].Code.Join(); got != "line one\nline two" {
		t.Fatalf("code join = %q", got)
	}

	table := items[14].Table
	if len(table.Widths) != 3 || table.Widths[2] != 50 {
		t.Fatalf("unexpected widths: %v", table.Widths)
	}
	if table.Caption == nil || *table.Caption != "Admin" {
		t.Fatalf("unexpected caption")
	}
	if len(table.Rows) != 3 || table.Rows[0].Kind != "head" {
		t.Fatalf("unexpected rows: %+v", table.Rows)
	}
	if v := table.Rows[2].Cells[1].Value(); v != 42.0 {
		t.Fatalf("numeric cell = %#v", v)
	}
	if items[15].Head == nil || len(items[15].Head.Cells) != 2 {
		t.Fatalf("loose head row not parsed")
	}
}

func TestParseErrorHasPosition(t *testing.T) {
	_, err := dsl.ParseFile("broken.report", strings.NewReader("report \"x\" {\n  section\n}"))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "broken.report") {
		t.Fatalf("error should carry file name: %v", err)
	}
}

// 仓库自带的示例脚本必须始终可解析。
func TestParseBundledExample(t *testing.T) {
	f, err := os.Open("../examples/projectdocument.report")
	if err != nil {
		t.Fatalf("open example: %v", err)
	}
	defer f.Close()
	script, err := dsl.ParseFile("projectdocument.report", f)
	if err != nil {
		t.Fatalf("parse example: %v", err)
	}
	kinds := map[string]int{}
	for _, it := range script.Items {
		kinds[it.Kind()]++
	}
	for _, want := range []string{"meta", "header", "footer", "center", "rule", "page", "section", "subsection", "para", "bullet", "code", "caption", "table", "head", "row", "ensure", "space"} {
		if kinds[want] == 0 {
			t.Fatalf("example should use %q statements", want)
		}
	}
	if kinds["unknown"] != 0 {
		t.Fatalf("example has unknown statements")
	}
}
