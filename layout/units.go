package layout

import (
	"strconv"
	"strings"
)

// This file keeps unit-safe helpers for lengths coming from the DSL.
// All layout math runs in millimeters; conversions happen at the boundary.

// Unit represents the original unit of a length value as specified in DSL.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64
	Unit  Unit
}

// ToMM converts this length to millimeters. Unit-less values pass through.
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

// ToPT converts this length to points.
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

// ParseLengthStr parses a DSL length string preserving its unit.
func ParseLengthStr(value string) Length {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}

// parseLength 把 DSL 长度字符串解析为毫米，解析失败返回 0。
func parseLength(value string) float64 {
	return ParseLengthStr(value).ToMM()
}

// parseDimension 在 parseLength 的基础上额外支持百分比（相对 reference）。
func parseDimension(value string, reference float64) float64 {
	if value == "" {
		return 0
	}
	if strings.HasSuffix(value, "%") {
		num := strings.TrimSuffix(value, "%")
		if f, err := strconv.ParseFloat(num, 64); err == nil {
			return reference * f / 100
		}
		return 0
	}
	return parseLength(value)
}

// LineHeightKind distinguishes factor-based vs absolute line-height.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec preserves author intent: a factor (1.2x) or an absolute length.
type LineHeightSpec struct {
	Kind   LineHeightKind
	Factor float64
	Len    Length
}

// ResolveMM computes the absolute line height in millimeters for fontSize (mm).
func (s LineHeightSpec) ResolveMM(fontSize float64) float64 {
	switch s.Kind {
	case LineHeightAbsolute:
		return s.Len.ToMM()
	default:
		if s.Factor > 0 {
			return fontSize * s.Factor
		}
		return fontSize * 1.4
	}
}

// parseLineHeight 解析 "1.2x" 或绝对长度两种写法。
func parseLineHeight(value string) LineHeightSpec {
	v := strings.TrimSpace(value)
	if strings.HasSuffix(v, "x") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64); err == nil && f > 0 {
			return LineHeightSpec{Kind: LineHeightFactor, Factor: f}
		}
	}
	if l := ParseLengthStr(v); l.Value > 0 {
		return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}
	}
	return LineHeightSpec{Kind: LineHeightFactor, Factor: 1.4}
}
