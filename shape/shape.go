package shape

import "github.com/ByLCY/vellum/linebreak"

// FontResource 描述一个字体资源的来源与风格。
type FontResource struct {
	Name   string
	Family string
	Style  string
	Src    string
}

// Face 是绑定了字号的字体面，可测量文本宽度（毫米）。
type Face interface {
	linebreak.Measurer
}

// Provider 按字体资源与字号（毫米）提供测量用字体面。
type Provider interface {
	Face(font FontResource, sizeMM float64) (Face, error)
}
