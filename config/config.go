package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ByLCY/quire/fonts"
	"github.com/ByLCY/quire/layout"
)

const (
	EnvPrefix         = "QUIRE"
	DefaultConfigName = "quire"

	BackendFPDF   = "fpdf"
	BackendCanvas = "canvas"
)

// ErrInvalidConfig 表示合并后的配置无法通过校验。
var ErrInvalidConfig = errors.New("invalid configuration")

// Config 是 render 命令的完整配置：默认值 < 配置文件 < 环境变量 < 命令行参数。
type Config struct {
	Input   string `mapstructure:"input"`
	Output  string `mapstructure:"output"`
	Data    string `mapstructure:"data"`
	Debug   string `mapstructure:"debug"`
	Backend string `mapstructure:"backend"`

	// Strict 为 true 时，脚本中无法解析的 ${path} 视为错误。
	Strict  bool       `mapstructure:"strict"`
	Verbose bool       `mapstructure:"verbose"`
	Page    PageConfig `mapstructure:"page"`

	// Fonts 把内置字体名映射到 TTF 文件路径，仅 canvas 后端使用。
	Fonts map[string]string `mapstructure:"fonts"`

	ConfigFilePath string `mapstructure:"-"`
}

// PageConfig 描述版式参数，长度写作 "10mm"、"1in" 等。
type PageConfig struct {
	Width          string  `mapstructure:"width"`
	Height         string  `mapstructure:"height"`
	Margin         string  `mapstructure:"margin"`
	BodyTop        string  `mapstructure:"bodyTop"`
	BodyBottom     string  `mapstructure:"bodyBottom"`
	EnsureLimit    string  `mapstructure:"ensureLimit"`
	FooterY        string  `mapstructure:"footerY"`
	Header         string  `mapstructure:"header"`
	Footer         string  `mapstructure:"footer"`
	PageCountToken string  `mapstructure:"pageCountToken"`
	BodyWrap       int     `mapstructure:"bodyWrap"`
	BulletWrap     int     `mapstructure:"bulletWrap"`
	CodeLineCap    int     `mapstructure:"codeLineCap"`
	CharWidthRatio float64 `mapstructure:"charWidthRatio"`
}

// flagKeys 为与命令行参数同名的配置键。
var flagKeys = []string{"input", "output", "data", "debug", "backend", "strict"}

// RegisterFlags 在 fs 上注册 render 命令的参数。
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("input", "i", "", "Report script path (required)")
	fs.StringP("output", "o", "", "PDF output path (default output/report.pdf)")
	fs.String("data", "", "JSON data bound to ${path} placeholders: a file path or inline JSON")
	fs.String("debug", "", "Write the laid-out pages as JSON to this path")
	fs.String("backend", "", `Output back end ("fpdf" or "canvas")`)
	fs.Bool("strict", false, "Fail when a ${path} placeholder cannot be resolved")
}

// LoadAndValidate 合并全部配置来源并校验，同时按 verbose 创建日志器。
func LoadAndValidate(cfgFile string, verbose bool, flags *pflag.FlagSet) (Config, *slog.Logger, error) {
	var cfg Config
	logger := newLogger(verbose)
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			logger.Error("Error reading configuration file", slog.String("path", cfgFile), slog.Any("error", err))
			return cfg, logger, fmt.Errorf("error reading config file %q: %w", cfgFile, err)
		}
		logger.Debug("No configuration file found, using defaults/env/flags.")
	} else {
		cfg.ConfigFilePath = v.ConfigFileUsed()
		logger.Debug("Using configuration file", slog.String("path", cfg.ConfigFilePath))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range flagKeys {
			flag := flags.Lookup(key)
			if flag == nil {
				logger.Debug("Flag lookup failed during binding", slog.String("flag", key))
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return cfg, logger, fmt.Errorf("error binding flag '--%s': %w", key, err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, logger, fmt.Errorf("error unmarshalling configuration: %w", err)
	}
	cfg.Verbose = cfg.Verbose || verbose

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", slog.Any("error", err))
		return cfg, logger, err
	}
	return cfg, logger, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func setDefaults(v *viper.Viper) {
	def := layout.DefaultOptions()
	v.SetDefault("input", "")
	v.SetDefault("output", filepath.Join("output", "report.pdf"))
	v.SetDefault("data", "")
	v.SetDefault("debug", "")
	v.SetDefault("backend", BackendFPDF)
	v.SetDefault("strict", false)
	v.SetDefault("verbose", false)

	v.SetDefault("page.width", mmString(def.PageWidth))
	v.SetDefault("page.height", mmString(def.PageHeight))
	v.SetDefault("page.margin", fmt.Sprintf("%s %s %s %s",
		mmString(def.Margin.Top), mmString(def.Margin.Right), mmString(def.Margin.Bottom), mmString(def.Margin.Left)))
	v.SetDefault("page.bodyTop", mmString(def.BodyTop))
	v.SetDefault("page.bodyBottom", mmString(def.BodyBottom))
	v.SetDefault("page.ensureLimit", mmString(def.EnsureLimit))
	v.SetDefault("page.footerY", mmString(def.FooterY))
	v.SetDefault("page.header", def.Header.Text)
	v.SetDefault("page.footer", def.Footer.Text)
	v.SetDefault("page.pageCountToken", def.PageCountToken)
	v.SetDefault("page.bodyWrap", def.BodyWrap)
	v.SetDefault("page.bulletWrap", def.BulletWrap)
	v.SetDefault("page.codeLineCap", def.CodeLineCap)
	v.SetDefault("page.charWidthRatio", def.CharWidthRatio)
}

func mmString(v float64) string {
	return fmt.Sprintf("%gmm", v)
}

// Validate 检查必填项、后端名称、字体覆盖与版式几何。
func (c Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("%w: input script path is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	}
	switch c.Backend {
	case BackendFPDF, BackendCanvas:
	default:
		return fmt.Errorf("%w: unknown backend %q (want %q or %q)", ErrInvalidConfig, c.Backend, BackendFPDF, BackendCanvas)
	}
	for name, path := range c.Fonts {
		if !slices.Contains(fonts.Names(), name) {
			return fmt.Errorf("%w: fonts: unknown font %q (see `quire fonts`)", ErrInvalidConfig, name)
		}
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%w: fonts.%s: empty path", ErrInvalidConfig, name)
		}
	}
	_, err := c.LayoutOptions()
	return err
}

// LayoutOptions 把页面配置转换为 layout.Options。
func (c Config) LayoutOptions() (layout.Options, error) {
	o := layout.DefaultOptions()
	p := c.Page

	lengths := []struct {
		key string
		raw string
		dst *float64
	}{
		{"page.width", p.Width, &o.PageWidth},
		{"page.height", p.Height, &o.PageHeight},
		{"page.bodyTop", p.BodyTop, &o.BodyTop},
		{"page.bodyBottom", p.BodyBottom, &o.BodyBottom},
		{"page.ensureLimit", p.EnsureLimit, &o.EnsureLimit},
		{"page.footerY", p.FooterY, &o.FooterY},
	}
	for _, l := range lengths {
		if strings.TrimSpace(l.raw) == "" {
			continue
		}
		n, err := layout.ParseLength(l.raw)
		if err != nil {
			return o, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, l.key, err)
		}
		*l.dst = n.ToMM()
	}
	if strings.TrimSpace(p.Margin) != "" {
		m, err := layout.ParseMargin(p.Margin)
		if err != nil {
			return o, fmt.Errorf("%w: page.margin: %v", ErrInvalidConfig, err)
		}
		o.Margin = m
	}

	if o.PageWidth <= o.Margin.Left+o.Margin.Right {
		return o, fmt.Errorf("%w: page.margin leaves no content width", ErrInvalidConfig)
	}
	if o.BodyTop >= o.BodyBottom || o.BodyBottom > o.PageHeight {
		return o, fmt.Errorf("%w: body area %.1f-%.1fmm does not fit page height %.1fmm", ErrInvalidConfig, o.BodyTop, o.BodyBottom, o.PageHeight)
	}
	if o.EnsureLimit > o.BodyBottom {
		return o, fmt.Errorf("%w: page.ensureLimit must not exceed page.bodyBottom", ErrInvalidConfig)
	}

	o.Header.Text = p.Header
	o.Footer.Text = p.Footer
	if p.PageCountToken != "" {
		o.PageCountToken = p.PageCountToken
	}
	if p.BodyWrap != 0 {
		o.BodyWrap = p.BodyWrap
	}
	if p.BulletWrap != 0 {
		o.BulletWrap = p.BulletWrap
	}
	if p.CodeLineCap != 0 {
		o.CodeLineCap = p.CodeLineCap
	}
	if p.CharWidthRatio < 0 {
		return o, fmt.Errorf("%w: page.charWidthRatio must be positive", ErrInvalidConfig)
	}
	if p.CharWidthRatio > 0 {
		o.CharWidthRatio = p.CharWidthRatio
	}
	return o, nil
}
