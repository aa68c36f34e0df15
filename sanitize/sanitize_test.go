package sanitize

import "testing"

func TestCleanTable(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a — b", "a - b"},
		{"“quoted”", `"quoted"`},
		{"it’s", "it's"},
		{"wait…", "wait..."},
		{"• item", "* item"},
		{"A → B ← C", "A -> B <- C"},
		{"x ≥ 1, y ≤ 2", "x >= 1, y <= 2"},
		{"€99/mnd", "E99/mnd"},
		{"café", "cafe"},
		{"België", "Belgie"},
		{"plain ascii", "plain ascii"},
	}
	for _, c := range cases {
		if got := Clean(c.in).String(); got != c.want {
			t.Fatalf("Clean(%q) = %q，期望 %q", c.in, got, c.want)
		}
	}
}

// 分解后带出表内字符的符号，同样要落到替换结果上。
func TestCleanFoldsIntoTable(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"↛", "->"},
		{"↚", "<-"},
		{"≰", "<="},
		{"≱", ">="},
		{"a ↛ b", "a -> b"},
	}
	for _, c := range cases {
		if got := Clean(c.in).String(); got != c.want {
			t.Fatalf("Clean(%q) = %q，期望 %q", c.in, got, c.want)
		}
	}
}

// 表外且不可分解的字符原样通过，不报错。
func TestCleanPassesThroughUnmapped(t *testing.T) {
	in := "中文 ° £"
	if got := Clean(in).String(); got != in {
		t.Fatalf("表外字符被改写: got=%q want=%q", got, in)
	}
}

func TestCleanIdempotent(t *testing.T) {
	samples := []string{
		"",
		"Versie 2.0 — Eigen Orchestratie",
		"……→↓↑",
		"éèüő́",
		"中文—mix",
		"tab\tand\nnewline",
		"↛ ↚ ≰ ≱",
		"é ≰",
	}
	for _, s := range samples {
		once := Clean(s)
		twice := Clean(once.String())
		if once != twice {
			t.Fatalf("Clean 非幂等: in=%q once=%q twice=%q", s, once, twice)
		}
	}
}

func TestTextLenCountsRunes(t *testing.T) {
	if n := Clean("中文ab").Len(); n != 4 {
		t.Fatalf("Len = %d，期望 4", n)
	}
}
