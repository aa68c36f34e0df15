package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/quire/config"
	"github.com/ByLCY/quire/dsl"
	"github.com/ByLCY/quire/layout"
	"github.com/ByLCY/quire/renderer"
	canvasrenderer "github.com/ByLCY/quire/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/quire/renderer/fpdf"
)

// ErrUnresolved 表示严格模式下脚本中存在无法解析的 ${path}。
var ErrUnresolved = errors.New("存在无法解析的数据路径")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// run 串联解析、布局与渲染。
func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	data, err := loadData(cfg.Data)
	if err != nil {
		return err
	}

	file, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("无法打开脚本文件 %s: %w", cfg.Input, err)
	}
	script, err := dsl.ParseFile(cfg.Input, file)
	file.Close()
	if err != nil {
		return fmt.Errorf("解析脚本失败: %w", err)
	}

	opts, err := cfg.LayoutOptions()
	if err != nil {
		return err
	}

	var missing []string
	seen := map[string]bool{}
	result, err := layout.Build(script, data, layout.BuildOptions{
		Layout: opts,
		OnUnresolved: func(path string) {
			if seen[path] {
				return
			}
			seen[path] = true
			missing = append(missing, path)
			logger.Warn("Unresolved data path", slog.String("path", path))
		},
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	if cfg.Strict && len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(missing, ", "))
	}
	logger.Debug("Layout finished",
		slog.Int("pages", result.PageCount),
		slog.Int("breaks", result.Breaks),
		slog.Int("placeholders", result.Placeholders),
	)

	if cfg.Debug != "" {
		if err := writeDebug(result, cfg.Debug); err != nil {
			return err
		}
		logger.Debug("Wrote layout debug JSON", slog.String("path", cfg.Debug))
	}

	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(cfg.Output, pdfBytes, 0o644); err != nil {
		return err
	}

	logger.Info("Wrote PDF",
		slog.String("output", cfg.Output),
		slog.Int("pages", len(result.Pages)),
		slog.Int("bytes", len(pdfBytes)),
	)
	return nil
}

// newRenderer 按配置选择后端；canvas 后端会读入 fonts 中列出的字体文件。
func newRenderer(cfg config.Config) (renderer.Renderer, error) {
	switch cfg.Backend {
	case config.BackendFPDF:
		return fpdfrenderer.NewRenderer(), nil
	case config.BackendCanvas:
		r := canvasrenderer.NewRenderer()
		for name, path := range cfg.Fonts {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("读取字体 %s 失败: %w", name, err)
			}
			if r.Fonts == nil {
				r.Fonts = map[string][]byte{}
			}
			r.Fonts[name] = data
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}

// loadData 解析 --data：以 { 或 [ 开头时视为内联 JSON，否则视为 JSON 文件路径。
func loadData(src string) (any, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, nil
	}
	raw := []byte(src)
	if !strings.HasPrefix(src, "{") && !strings.HasPrefix(src, "[") {
		var err error
		if raw, err = os.ReadFile(src); err != nil {
			return nil, fmt.Errorf("读取数据文件失败: %w", err)
		}
	}
	var data any
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
	}
	return data, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
