package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit 为长度值在配置中书写时的单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位，按 mm 处理
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// pt 与 mm 的换算常数。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length 保留数值与原始单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToMM 把长度换算为毫米，无单位数值视为毫米。
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT 把长度换算为 pt。
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

var unitSuffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

// ParseLength 解析 "10mm"、"1in"、"12pt" 或纯数字形式的长度。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("长度 %q 无法解析: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度 %q 不能为负", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// ParseMargin 按 CSS 的 1/2/4 值写法解析页边距，例如 "10mm 10mm 20mm"。
func ParseMargin(value string) (Margin, error) {
	fields := strings.Fields(value)
	vals := make([]float64, len(fields))
	for i, f := range fields {
		l, err := ParseLength(f)
		if err != nil {
			return Margin{}, err
		}
		vals[i] = l.ToMM()
	}
	switch len(vals) {
	case 1:
		return Margin{Top: vals[0], Right: vals[0], Bottom: vals[0], Left: vals[0]}, nil
	case 2:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	case 4:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	default:
		return Margin{}, fmt.Errorf("页边距 %q 需要 1 到 4 个值", value)
	}
}
