package linebreak

// Simple 贪心首次适配断行：沿断点不断延长当前行，超限时提交此前
// 最后一个可行的尝试并从其终点重新开始。对同一输入重复调用结果
// 完全一致；除单个不可分割的超宽单元外，产出行不会超过目标宽度。
func Simple(p *Paragraph, width float64) []Line {
	met := p.Metrics(false)
	var lines []Line
	start := 0
	var pred *Line // 目前最后一个可行的尝试
	p.Breakpoints(func(end int, bp Breakpoint) bool {
		attempt := p.line(start, end, bp)
		if p.ratio(width, attempt) < met.MinRatio && pred != nil {
			// 超限且存在更短的可行行：提交之，从其终点重来。
			lines = append(lines, *pred)
			start = pred.End
			pred = nil
			attempt = p.line(start, end, bp)
		}
		if bp.Kind == BreakMandatory || p.ratio(width, attempt) < met.MinRatio {
			// 强制断点必须成行；仍然超限说明没有更短的切分能放下。
			lines = append(lines, attempt)
			start = end
			pred = nil
		} else {
			pred = &attempt
		}
		return true
	})
	return lines
}
