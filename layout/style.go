package layout

// Style 由三个相互独立的维度组成：字重、字号档位与颜色档位。Mono 选择等宽字族。
type Style struct {
	Weight Weight
	Size   SizeTier
	Tone   Tone
	Mono   bool
}

// Weight 为字重。
type Weight int

const (
	WeightRegular Weight = iota
	WeightBold
	WeightItalic
)

// SizeTier 为字号档位，具体 pt 值由 Palette 给出。
type SizeTier int

const (
	SizeSmall   SizeTier = iota // 8pt：页眉页脚、表格、代码
	SizeBody                    // 9pt
	SizeLead                    // 10pt
	SizeSubhead                 // 11pt
	SizeHeading                 // 14pt
	SizeSubtitle                // 16pt
	SizeTitle                   // 28pt
)

// Tone 为颜色档位。
type Tone int

const (
	ToneBody Tone = iota
	ToneHeading
	ToneSubhead
	ToneMuted
	ToneCode
	ToneLead
	ToneSubtle
	ToneCodeFill
	ToneEmphasisFill
)

// Palette 把档位映射为具体的字号与颜色。
type Palette struct {
	Sizes map[SizeTier]float64
	Tones map[Tone]Color
}

// DefaultPalette 返回报告模板使用的配色与字号。
func DefaultPalette() Palette {
	return Palette{
		Sizes: map[SizeTier]float64{
			SizeSmall:    8,
			SizeBody:     9,
			SizeLead:     10,
			SizeSubhead:  11,
			SizeHeading:  14,
			SizeSubtitle: 16,
			SizeTitle:    28,
		},
		Tones: map[Tone]Color{
			ToneBody:         {R: 30, G: 30, B: 30},
			ToneHeading:      {R: 26, G: 26, B: 46},
			ToneSubhead:      {R: 50, G: 50, B: 80},
			ToneMuted:        {R: 150, G: 150, B: 150},
			ToneCode:         {R: 40, G: 40, B: 40},
			ToneLead:         {R: 80, G: 80, B: 100},
			ToneSubtle:       {R: 120, G: 120, B: 120},
			ToneCodeFill:     {R: 245, G: 245, B: 245},
			ToneEmphasisFill: {R: 230, G: 230, B: 240},
		},
	}
}

// Size 返回档位对应的 pt 值，未知档位退回正文字号。
func (p Palette) Size(t SizeTier) float64 {
	if v, ok := p.Sizes[t]; ok {
		return v
	}
	return 9
}

// Color 返回档位对应的颜色，未知档位退回正文颜色。
func (p Palette) Color(t Tone) Color {
	if c, ok := p.Tones[t]; ok {
		return c
	}
	return Color{R: 30, G: 30, B: 30}
}

// font 将 Style 映射为渲染器使用的 Font。
func (s Style) font() Font {
	return Font{
		Mono:   s.Mono,
		Bold:   s.Weight == WeightBold,
		Italic: s.Weight == WeightItalic,
	}
}

// ParseTone 解析脚本中的颜色档位名称。
func ParseTone(name string) (Tone, bool) {
	switch name {
	case "body", "":
		return ToneBody, true
	case "heading":
		return ToneHeading, true
	case "subhead":
		return ToneSubhead, true
	case "muted":
		return ToneMuted, true
	case "code":
		return ToneCode, true
	case "lead":
		return ToneLead, true
	case "subtle":
		return ToneSubtle, true
	}
	return ToneBody, false
}
