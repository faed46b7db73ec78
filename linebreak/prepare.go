package linebreak

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// 该文件负责把原始段落文本与测量后端加工成可断行的 Paragraph：
// 预先计算逐字节对齐的宽度/弹性/可调字形前缀和，供精确行构造与
// 近似估算共用（近似趟依赖这些数组实现 O(1) 的行估算）。

// Measurer 由排版后端实现，负责测量字符串在当前字体下的宽度。
// 宽度单位由调用方约定（本仓库统一为 mm）。
type Measurer interface {
	TextWidth(s string) float64
}

// Strategy 选择断行算法。
type Strategy int

const (
	// StrategySimple 贪心首次适配断行。
	StrategySimple Strategy = iota
	// StrategyOptimized 两趟 Knuth–Plass 动态规划断行。
	StrategyOptimized
)

// HyphenFunc 是断词回调：返回 word 内部所有允许插入连字符的字节偏移。
// 返回 nil 表示该词不可断。词典本身不在本仓库范围内。
type HyphenFunc func(lang language.Tag, word string) []int

// Costs 保存用户可调的成本倍率，0 视为 1（默认值）。
type Costs struct {
	Hyphenation float64
	Runt        float64
}

// ParagraphSpec 描述一个待断行的段落及其排版参数。
type ParagraphSpec struct {
	Text      string
	Justify   bool
	Strategy  Strategy
	Lang      language.Tag
	Hyphenate HyphenFunc
	Size      float64 // 字号，与 Measurer 同单位
	Costs     Costs
	Strict    bool // 内部一致性检查失败时 panic（调试用）
}

// Paragraph 是经过测量的段落，持有断行所需的全部前缀和数组。
// 数组均按字节下标对齐（长度 len(Text)+1），非 rune 边界的字节沿用前值，
// 因此任意断点区间的宽度/弹性都可 O(1) 求差。
type Paragraph struct {
	Spec ParagraphSpec

	cumWidth   []float64
	cumStretch []float64
	cumShrink  []float64
	cumJust    []int
	cumSpace   []int
	trim       []int // trim[i]：text[:i] 去除尾随空白后的终点

	hyphenWidth  float64
	nonMonotonic bool // 存在负宽度内容时，活动窗口前移需更保守
}

// 12pt 的毫米值，作为缺省字号兜底。
const defaultSizeMM = 12 * 0.352777

// Prepare 测量段落文本并构建前缀和数组。
func Prepare(spec ParagraphSpec, m Measurer) (*Paragraph, error) {
	if m == nil {
		return nil, fmt.Errorf("linebreak: 缺少测量后端 Measurer")
	}
	if spec.Size <= 0 {
		spec.Size = defaultSizeMM
	}

	n := len(spec.Text)
	p := &Paragraph{
		Spec:       spec,
		cumWidth:   make([]float64, n+1),
		cumStretch: make([]float64, n+1),
		cumShrink:  make([]float64, n+1),
		cumJust:    make([]int, n+1),
		cumSpace:   make([]int, n+1),
		trim:       make([]int, n+1),
	}
	p.hyphenWidth = m.TextWidth("-")

	// 同一 rune 只测量一次。
	cache := map[rune]float64{}
	advance := func(r rune) float64 {
		if w, ok := cache[r]; ok {
			return w
		}
		w := m.TextWidth(string(r))
		cache[r] = w
		return w
	}

	var width, stretch, shrink float64
	var just, spaces int
	lastSolid := 0 // 最近一个非空白 rune 的终点
	for pos := 0; pos < n; {
		r, sz := utf8.DecodeRuneInString(spec.Text[pos:])
		adv := advance(r)
		if adv < 0 {
			p.nonMonotonic = true
		}
		switch {
		case r == '\n' || r == '\r':
			// 换行不占宽度，也不提供弹性。
		case unicode.IsSpace(r):
			// 词间空白按 TeX 惯例给出 1/2 拉伸、1/3 收缩预算。
			width += adv
			stretch += adv / 2
			shrink += adv / 3
			spaces++
		default:
			width += adv
			if isJustifiable(r) {
				just++
			}
			lastSolid = pos + sz
		}
		for k := pos + 1; k < pos+sz; k++ {
			p.cumWidth[k] = p.cumWidth[pos]
			p.cumStretch[k] = p.cumStretch[pos]
			p.cumShrink[k] = p.cumShrink[pos]
			p.cumJust[k] = p.cumJust[pos]
			p.cumSpace[k] = p.cumSpace[pos]
			p.trim[k] = p.trim[pos]
		}
		pos += sz
		p.cumWidth[pos] = width
		p.cumStretch[pos] = stretch
		p.cumShrink[pos] = shrink
		p.cumJust[pos] = just
		p.cumSpace[pos] = spaces
		p.trim[pos] = lastSolid
	}
	return p, nil
}

// Lines 按段落声明的策略断行，返回覆盖全文的行序列。
func (p *Paragraph) Lines(width float64) []Line {
	if p.Spec.Strategy == StrategyOptimized {
		return Optimized(p, width)
	}
	return Simple(p, width)
}

// LineText 返回某行的最终文本（尾随空白已修剪，断词断点补连字符）。
func (p *Paragraph) LineText(ln Line) string {
	s := p.Spec.Text[ln.Start:ln.Trim]
	if ln.Hyphen {
		s += "-"
	}
	return s
}

// isJustifiable 判断一个 rune 是否参与超出自然弹性后的均摊
// （CJK 字形允许在两侧加注间距）。
func isJustifiable(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
