package linebreak

import (
	"math"
	"unicode/utf8"
)

// 成本模型常数。
const (
	overfullCost        = 1_000_000.0 // 超限行的固定劣度
	defaultHyphCost     = 135.0
	defaultRuntCost     = 100.0
	consecutiveDashCost = 30.0 // 连续两行以连字符/破折号结尾的附加成本
	maxRatio            = 10.0
	minRatio            = -1.0
	minApproxRatio      = -0.5 // 近似趟允许的最小比率，略宽松
	boundEps            = 1e-3
)

// Line 是一个不可变的候选行：文本区间、宽度与弹性预算、连字符使用。
type Line struct {
	Start int
	End   int
	Trim  int // 修剪尾随空白后的终点

	Width        float64
	Stretch      float64
	Shrink       float64
	Justifiables int

	Hyphen    bool // 断词产生的行尾连字符
	Dash      bool // 行尾为连字符或破折号（含 Hyphen）
	Mandatory bool // 行尾为强制断点
	Break     Breakpoint
}

// line 构造 [start, end) 区间在断点 bp 下的精确候选行。
func (p *Paragraph) line(start, end int, bp Breakpoint) Line {
	t := p.trim[end]
	if t < start {
		t = start
	}
	ln := Line{
		Start:        start,
		End:          end,
		Trim:         t,
		Width:        p.cumWidth[t] - p.cumWidth[start],
		Stretch:      p.cumStretch[t] - p.cumStretch[start],
		Shrink:       p.cumShrink[t] - p.cumShrink[start],
		Justifiables: p.cumJust[t] - p.cumJust[start],
		Hyphen:       bp.Kind == BreakHyphen,
		Mandatory:    bp.Kind == BreakMandatory,
		Break:        bp,
	}
	if ln.Hyphen {
		ln.Width += p.hyphenWidth
		ln.Dash = true
	} else if t > start {
		r, _ := utf8.DecodeLastRuneInString(p.Spec.Text[start:t])
		ln.Dash = isDash(r)
	}
	return ln
}

// estimateLine 用前缀和数组构造近似候选行：不做连字符宽度修正，
// 也不检查行尾字符，仅供近似趟使用。
func (p *Paragraph) estimateLine(start, end int, bp Breakpoint) Line {
	t := p.trim[end]
	if t < start {
		t = start
	}
	return Line{
		Start:        start,
		End:          end,
		Trim:         t,
		Width:        p.cumWidth[t] - p.cumWidth[start],
		Stretch:      p.cumStretch[t] - p.cumStretch[start],
		Shrink:       p.cumShrink[t] - p.cumShrink[start],
		Justifiables: p.cumJust[t] - p.cumJust[start],
		Hyphen:       bp.Kind == BreakHyphen,
		Dash:         bp.Kind == BreakHyphen,
		Mandatory:    bp.Kind == BreakMandatory,
		Break:        bp,
	}
}

// CostMetrics 是一趟断行使用的只读成本参数（已乘入用户倍率）。
type CostMetrics struct {
	MinRatio float64
	HyphCost float64
	RuntCost float64
}

// Metrics 返回精确趟或近似趟的成本参数。
func (p *Paragraph) Metrics(approx bool) CostMetrics {
	m := CostMetrics{MinRatio: minRatio, HyphCost: defaultHyphCost, RuntCost: defaultRuntCost}
	if approx {
		m.MinRatio = minApproxRatio
	}
	if c := p.Spec.Costs.Hyphenation; c > 0 {
		m.HyphCost *= c
	}
	if c := p.Spec.Costs.Runt; c > 0 {
		m.RuntCost *= c
	}
	return m
}

// ratio 计算行在给定可用宽度下的归一化伸缩比：正值拉伸、负值收缩。
// 超出自然拉伸预算的部分按每单位半 em 的可调字形预算延伸，上限 10。
func (p *Paragraph) ratio(available float64, ln Line) float64 {
	delta := available - ln.Width
	if delta == 0 {
		return 0
	}
	if delta > 0 {
		r := math.Inf(1)
		if ln.Stretch > 0 {
			r = delta / ln.Stretch
		}
		if r > 1 {
			extra := delta - ln.Stretch
			budget := float64(ln.Justifiables) * p.Spec.Size / 2
			if budget > 0 {
				r = 1 + extra/budget
			}
		}
		return math.Min(r, maxRatio)
	}
	if ln.Shrink > 0 {
		return math.Max(delta/ln.Shrink, minRatio-1)
	}
	return minRatio - 1
}

// cost 计算选择该行的成本：劣度（比率立方）加各项惩罚，最终平方。
// prevDash 表示上一行是否以连字符/破折号结尾；last 表示行尾是段落
// （或显式换行分段）的终点，此时两端对齐不再拉伸。
func (p *Paragraph) cost(met CostMetrics, available float64, ln Line, prevDash, last bool) float64 {
	r := p.ratio(available, ln)
	var badness, penalty float64
	if r < met.MinRatio {
		badness = overfullCost
	} else if justified := p.Spec.Justify && !last; justified || r < 0 {
		c := math.Max(math.Min(r, maxRatio), -maxRatio)
		badness = 100 * math.Abs(c*c*c)
	}
	if last && ln.Start > 0 && p.cumSpace[ln.Trim]-p.cumSpace[ln.Start] == 0 {
		// 段尾孤词：整行没有任何断行机会。
		penalty += met.RuntCost
	}
	if ln.Break.Kind == BreakHyphen {
		f := 1.0
		if ln.Break.Left < 5 {
			f += 0.15 * float64(5-ln.Break.Left)
		}
		if ln.Break.Right < 5 {
			f += 0.15 * float64(5-ln.Break.Right)
		}
		penalty += met.HyphCost * f
	}
	if prevDash && ln.Dash {
		penalty += consecutiveDashCost
	}
	t := 1 + badness + penalty
	return t * t
}
