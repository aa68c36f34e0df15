package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10bolditalic"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
)

// 内置字体名称。
const (
	Regular    = "lmroman10-regular"
	Bold       = "lmroman10-bold"
	Italic     = "lmroman10-italic"
	BoldItalic = "lmroman10-bolditalic"
	Mono       = "lmmono10-regular"
)

var builtin = map[string][]byte{
	Regular:    lmroman10regular.TTF,
	Bold:       lmroman10bold.TTF,
	Italic:     lmroman10italic.TTF,
	BoldItalic: lmroman10bolditalic.TTF,
	Mono:       lmmono10regular.TTF,
}

// Select 按字族与字重选择内置字体名称。等宽字族只有常规字重。
func Select(mono, bold, italic bool) string {
	switch {
	case mono:
		return Mono
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Regular
	}
}

// Load 返回内置字体的字节数据，name 可写为 "embed:lmroman10-regular" 或直接 "lmroman10-regular"。
func Load(name string) ([]byte, error) {
	key := strings.TrimPrefix(name, "embed:")
	data, ok := builtin[key]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 可用字体为 %s", key, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回全部内置字体名称（已排序）。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
