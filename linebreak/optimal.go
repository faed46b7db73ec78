package linebreak

import "math"

// 两趟 Knuth–Plass 式断行：先用前缀和估算跑一趟近似动态规划，
// 把近似最优路径的精确成本作为上界；再带着上界跑精确趟，剪掉
// 累计成本超过上界的候选。上界只影响性能，不影响最优性。

// Optimized 返回最小总成本的断行方案。断行表最终必须恰好覆盖到
// 段尾；若上界剪枝导致表不完整（上界计算有误），Strict 模式下
// panic，否则退回无上界重跑一次。
func Optimized(p *Paragraph, width float64) []Line {
	bound := p.approxBound(width)
	lines, ok := p.optimizedRun(width, bound+boundEps, false)
	if ok {
		return lines
	}
	if p.Spec.Strict {
		panic("linebreak: 断行表未覆盖到段尾")
	}
	lines, _ = p.optimizedRun(width, math.Inf(1), false)
	return lines
}

// approxBound 跑近似趟并重算其路径的精确成本。若近似路径本身
// 不可行（包含超限行），返回 +Inf，精确趟退化为无剪枝。
func (p *Paragraph) approxBound(width float64) float64 {
	path, ok := p.optimizedRun(width, math.Inf(1), true)
	if !ok {
		return math.Inf(1)
	}
	met := p.Metrics(false)
	total := 0.0
	prevDash := false
	start := 0
	for _, approx := range path {
		ln := p.line(start, approx.End, approx.Break)
		if p.ratio(width, ln) < minRatio {
			return math.Inf(1)
		}
		total += p.cost(met, width, ln, prevDash, ln.Mandatory)
		prevDash = ln.Dash
		start = ln.End
	}
	return total
}

// tableEntry 是动态规划表的一项：以 ln 结束、经由 pred 到达的
// 最优前缀，total 为累计成本。表首固定为段首哨兵。
type tableEntry struct {
	pred  int
	total float64
	ln    Line
}

// optimizedRun 单向扫描所有断点。活动窗口 [active, len(table)) 裁剪
// 前驱集合：某前驱产生的行一旦低于最小比率，其后只会更差，窗口即可
// 前移；存在负宽度内容时宽度不再单调，窗口保持不动。
// 返回的 ok 为 false 表示最终表项没有覆盖到段尾。
func (p *Paragraph) optimizedRun(width, bound float64, approx bool) ([]Line, bool) {
	met := p.Metrics(approx)
	table := []tableEntry{{pred: -1}}
	active := 0
	failed := false

	p.Breakpoints(func(end int, bp Breakpoint) bool {
		bestIdx := -1
		var best tableEntry
		for i := active; i < len(table); i++ {
			pred := &table[i]
			var ln Line
			if approx {
				ln = p.estimateLine(pred.ln.End, end, bp)
			} else {
				ln = p.line(pred.ln.End, end, bp)
			}
			if p.ratio(width, ln) < met.MinRatio && i == active && !p.nonMonotonic {
				active++
			}
			total := pred.total + p.cost(met, width, ln, pred.ln.Dash, ln.Mandatory)
			if total > bound {
				continue
			}
			// 成本相同时偏向更晚的前驱（行更满），与贪心口径一致。
			if bestIdx < 0 || total <= best.total {
				best = tableEntry{pred: i, total: total, ln: ln}
				bestIdx = i
			}
		}
		if bestIdx >= 0 {
			table = append(table, best)
		}
		if bp.Kind == BreakMandatory {
			if bestIdx < 0 {
				// 所有候选都被剪掉，强制断点无法成行：本趟作废。
				failed = true
				return false
			}
			// 任何行都不能跨越强制断点，此前的表项全部失效。
			active = len(table) - 1
		}
		return true
	})

	last := table[len(table)-1]
	if failed || last.ln.End != len(p.Spec.Text) {
		return nil, false
	}

	// 沿前驱链回溯出行序列。
	count := 0
	for i := len(table) - 1; table[i].pred >= 0; i = table[i].pred {
		count++
	}
	lines := make([]Line, count)
	for i := len(table) - 1; table[i].pred >= 0; i = table[i].pred {
		count--
		lines[count] = table[i].ln
	}
	return lines, true
}
