package canvasshape

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/vellum/layout"
	"github.com/ByLCY/vellum/shape"
)

// Shaper 基于 github.com/tdewolff/canvas 的字体测量实现。
// 字体族按资源缓存，同一字体不同字号共享解析结果。
type Shaper struct {
	baseDir   string
	fontBlobs map[string][]byte

	mu       sync.Mutex
	families map[string]*familyEntry
}

var _ shape.Provider = (*Shaper)(nil)

type familyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options 配置 Shaper。
type Options struct {
	// BaseDir 路径型字体资源的根目录。
	BaseDir string
	// Fonts 以名字注入的内存字体（src 写 built-in:<name> 引用）。
	Fonts map[string]Resource
}

// Resource 支持字节或路径两种提供方式。
type Resource struct {
	Bytes []byte
	Path  string
}

// New 创建以 baseDir 解析字体路径的 Shaper。
func New(baseDir string) *Shaper { return NewWithOptions(Options{BaseDir: baseDir}) }

// NewWithOptions 创建带注入资源的 Shaper。
func NewWithOptions(opts Options) *Shaper {
	s := &Shaper{
		baseDir:   opts.BaseDir,
		fontBlobs: map[string][]byte{},
		families:  map[string]*familyEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			s.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			if data, err := os.ReadFile(res.Path); err == nil && len(data) > 0 {
				s.fontBlobs[name] = data
			}
		}
	}
	return s
}

// Face 返回绑定字号的测量字体面。sizeMM 为毫米字号。
func (s *Shaper) Face(font shape.FontResource, sizeMM float64) (shape.Face, error) {
	family, style, err := s.ensureFamily(font)
	if err != nil {
		return nil, err
	}
	face := family.Face(sizeMM*layout.MmToPt, canvas.Black, style, canvas.FontNormal)
	return &measuredFace{face: face}, nil
}

type measuredFace struct {
	face *canvas.FontFace
}

// TextWidth 返回文本宽度（毫米）。
func (f *measuredFace) TextWidth(text string) float64 {
	return f.face.TextWidth(text)
}

func (s *Shaper) ensureFamily(font shape.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := cacheKey(font)
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.families[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	data, err := s.loadFontBytes(font)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", font.Name, err)
	}

	s.families[key] = &familyEntry{family: family, style: style}
	return family, style, nil
}

func (s *Shaper) loadFontBytes(font shape.FontResource) ([]byte, error) {
	if font.Src == "" {
		return nil, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	src := font.Src
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := s.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	path := src
	if s.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许相对字体路径：%s", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}
	return os.ReadFile(path)
}

func cacheKey(font shape.FontResource) string {
	return font.Family + "|" + font.Name + "|" + font.Style + "|" + font.Src
}

// parseFontStyle 把 DSL 字体风格字符串映射到 canvas 的风格枚举。
func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(strings.TrimSpace(style))
	out := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		out = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		out = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		out = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		out = canvas.FontBold
	case strings.Contains(s, "medium"):
		out = canvas.FontMedium
	case strings.Contains(s, "light"):
		out = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		out |= canvas.FontItalic
	}
	return out
}
