package renderer

import (
	"errors"

	"github.com/ByLCY/quire/layout"
)

// Renderer 将定稿后的版面输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误，不做任何文件写入。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

var (
	// ErrNoResult 表示传入的版面结果为空。
	ErrNoResult = errors.New("渲染结果为空")
	// ErrNoPages 表示版面结果中没有页面。
	ErrNoPages = errors.New("缺少可渲染的页面")
)

// Check 校验版面结果是否可以渲染。
func Check(result *layout.Result) error {
	if result == nil {
		return ErrNoResult
	}
	if len(result.Pages) == 0 {
		return ErrNoPages
	}
	return nil
}

// LineWidth 返回线段的线宽，未指定时使用 DefaultLineWidth。
func LineWidth(ln layout.Line) float64 {
	if ln.Width > 0 {
		return ln.Width
	}
	return DefaultLineWidth
}

// DefaultLineWidth 为边框与分隔线的默认线宽（mm）。
const DefaultLineWidth = 0.2
