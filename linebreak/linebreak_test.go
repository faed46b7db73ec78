package linebreak

import (
	"math"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

// fixedMeasurer 是测试用的最小测量后端：每个 rune 宽 1，不依赖字体。
type fixedMeasurer struct{}

func (fixedMeasurer) TextWidth(s string) float64 {
	n := 0
	for range s {
		n++
	}
	return float64(n)
}

func prepare(t *testing.T, spec ParagraphSpec) *Paragraph {
	t.Helper()
	if spec.Size <= 0 {
		spec.Size = 10
	}
	p, err := Prepare(spec, fixedMeasurer{})
	if err != nil {
		t.Fatalf("Prepare 失败: %v", err)
	}
	return p
}

func lineTexts(p *Paragraph, lines []Line) []string {
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = p.LineText(ln)
	}
	return out
}

// TestFoxExample 两种断行器在目标宽度恰好容纳前三个词时必须给出
// 相同的两行切分：不加两端对齐时放得下的行成本趋同，没有重新
// 均衡的动机。
func TestFoxExample(t *testing.T) {
	text := "The quick brown fox jumps."
	for _, strategy := range []Strategy{StrategySimple, StrategyOptimized} {
		p := prepare(t, ParagraphSpec{Text: text, Strategy: strategy})
		lines := p.Lines(17) // 容纳 "The quick brown"（15），"The quick brown fox"（19）连收缩也放不下
		got := lineTexts(p, lines)
		if len(got) != 2 || got[0] != "The quick brown" || got[1] != "fox jumps." {
			t.Fatalf("策略 %d 切分错误: %q", strategy, got)
		}
	}
}

// TestLinesCoverText 所有行首尾相接、无缝隙无重叠，最后一行恰好
// 结束于文本末尾。
func TestLinesCoverText(t *testing.T) {
	texts := []string{
		"",
		"word",
		"a b c d e f g h i j k l m n o p",
		"深入浅出的排版引擎需要处理混合文字 with latin words 的情况",
		"first paragraph\nsecond one here\n\nthird",
		"an-example with-many dash-separated words-inside",
	}
	widths := []float64{3, 7, 12, 25, 60, 1000}
	for _, text := range texts {
		for _, strategy := range []Strategy{StrategySimple, StrategyOptimized} {
			p := prepare(t, ParagraphSpec{Text: text, Strategy: strategy})
			for _, w := range widths {
				lines := p.Lines(w)
				if len(lines) == 0 {
					t.Fatalf("文本 %q 宽度 %g 策略 %d: 没有输出行", text, w, strategy)
				}
				pos := 0
				for i, ln := range lines {
					if ln.Start != pos {
						t.Fatalf("文本 %q 宽度 %g 策略 %d: 第 %d 行起点 %d, 期望 %d", text, w, strategy, i, ln.Start, pos)
					}
					pos = ln.End
				}
				if pos != len(text) {
					t.Fatalf("文本 %q 宽度 %g 策略 %d: 终点 %d 未到文本末尾 %d", text, w, strategy, pos, len(text))
				}
			}
		}
	}
}

// TestSimpleNeverOverflows 贪心断行的行宽不会超过目标宽度，除非该行
// 是一个不可分割的单元（内部没有任何断行机会）。
func TestSimpleNeverOverflows(t *testing.T) {
	text := "short words and one extraordinarilylongunbreakableword end"
	p := prepare(t, ParagraphSpec{Text: text})
	for _, w := range []float64{5, 10, 15, 30} {
		for _, ln := range Simple(p, w) {
			if ln.Width <= w+1e-9 {
				continue
			}
			if p.cumSpace[ln.Trim]-p.cumSpace[ln.Start] != 0 {
				t.Fatalf("宽度 %g: 行 %q 超宽且并非不可分割", w, p.LineText(ln))
			}
		}
	}
}

// TestSimpleIdempotent 相同输入重复断行，输出完全一致。
func TestSimpleIdempotent(t *testing.T) {
	p := prepare(t, ParagraphSpec{Text: "the same input must yield the same output every time"})
	a := Simple(p, 17)
	b := Simple(p, 17)
	if len(a) != len(b) {
		t.Fatalf("两次断行行数不同: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("第 %d 行不一致: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func pathCost(p *Paragraph, lines []Line, width float64) float64 {
	met := p.Metrics(false)
	total := 0.0
	prevDash := false
	for _, ln := range lines {
		total += p.cost(met, width, ln, prevDash, ln.Mandatory)
		prevDash = ln.Dash
	}
	return total
}

// TestOptimizedNeverWorseThanBound 近似趟可行时，精确趟必须完成，
// 且其总成本不高于近似路径的精确成本（上界永不丢失最优解）。
func TestOptimizedNeverWorseThanBound(t *testing.T) {
	texts := []string{
		"tiny",
		"this is a longer piece of text that will wrap over several lines of output",
		"justified text stretches interior lines to the target width when asked to",
	}
	for _, text := range texts {
		for _, justify := range []bool{false, true} {
			p := prepare(t, ParagraphSpec{Text: text, Justify: justify, Strategy: StrategyOptimized})
			for _, w := range []float64{9, 14, 22, 40} {
				bound := p.approxBound(w)
				if math.IsInf(bound, 1) {
					continue
				}
				lines, ok := p.optimizedRun(w, bound+boundEps, false)
				if !ok {
					t.Fatalf("文本 %q 宽度 %g: 有界精确趟未完成", text, w)
				}
				if got := pathCost(p, lines, w); got > bound+boundEps {
					t.Fatalf("文本 %q 宽度 %g: 精确趟成本 %g 超过上界 %g", text, w, got, bound)
				}
			}
		}
	}
}

// TestOptimizedNotWorseThanSimple 同一成本函数下，动态规划的总成本
// 不应高于贪心。
func TestOptimizedNotWorseThanSimple(t *testing.T) {
	text := "an optimal breaker may take an early worse looking break to avoid a terrible one later on"
	for _, w := range []float64{12, 18, 26} {
		p := prepare(t, ParagraphSpec{Text: text, Justify: true})
		greedy := pathCost(p, Simple(p, w), w)
		optimal := pathCost(p, Optimized(p, w), w)
		if optimal > greedy+1e-9 {
			t.Fatalf("宽度 %g: 最优成本 %g 高于贪心成本 %g", w, optimal, greedy)
		}
	}
}

// TestMandatoryBreaks 显式换行必须成为行边界，空行保留为空行。
func TestMandatoryBreaks(t *testing.T) {
	for _, strategy := range []Strategy{StrategySimple, StrategyOptimized} {
		p := prepare(t, ParagraphSpec{Text: "foo\n\nbar", Strategy: strategy})
		got := lineTexts(p, p.Lines(100))
		want := []string{"foo", "", "bar"}
		if len(got) != len(want) {
			t.Fatalf("策略 %d 行数错误: %q", strategy, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("策略 %d 第 %d 行: got %q want %q", strategy, i, got[i], want[i])
			}
		}
	}
}

// TestHyphenation 断词回调给出的断点可用，行尾补连字符。
func TestHyphenation(t *testing.T) {
	hyph := func(lang language.Tag, word string) []int {
		if word == "typesetting" {
			return []int{4} // type-setting
		}
		return nil
	}
	p := prepare(t, ParagraphSpec{
		Text:      "fine typesetting here",
		Strategy:  StrategyOptimized,
		Hyphenate: hyph,
	})
	lines := p.Lines(10) // 容不下 "fine typesetting"，但容得下 "fine type-"
	got := lineTexts(p, lines)
	if len(got) < 2 || got[0] != "fine type-" {
		t.Fatalf("断词未生效: %q", got)
	}
	if !lines[0].Hyphen || !lines[0].Dash {
		t.Fatalf("断词行未标记连字符: %+v", lines[0])
	}
}

// TestEmptyParagraph 空文本产生恰好一个空行。
func TestEmptyParagraph(t *testing.T) {
	for _, strategy := range []Strategy{StrategySimple, StrategyOptimized} {
		p := prepare(t, ParagraphSpec{Text: "", Strategy: strategy})
		lines := p.Lines(42)
		if len(lines) != 1 || lines[0].Start != 0 || lines[0].End != 0 {
			t.Fatalf("策略 %d: 空文本输出 %+v", strategy, lines)
		}
	}
}

// TestBreakpointsEnumeration 断点种类与位置。
func TestBreakpointsEnumeration(t *testing.T) {
	p := prepare(t, ParagraphSpec{Text: "ab cd\nef"})
	type rec struct {
		end int
		bp  Breakpoint
	}
	var got []rec
	p.Breakpoints(func(end int, bp Breakpoint) bool {
		got = append(got, rec{end, bp})
		return true
	})
	want := []rec{
		{3, Breakpoint{Kind: BreakNormal}},     // "ab " 之后
		{6, Breakpoint{Kind: BreakMandatory}},  // 换行
		{8, Breakpoint{Kind: BreakMandatory}},  // 段尾
	}
	if len(got) != len(want) {
		t.Fatalf("断点枚举错误: %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("第 %d 个断点: got %+v want %+v", i, got[i], want[i])
		}
	}
}

// TestTrimmedWidth 行宽不包含尾随空白。
func TestTrimmedWidth(t *testing.T) {
	p := prepare(t, ParagraphSpec{Text: "ab   cd"})
	var normal *Line
	p.Breakpoints(func(end int, bp Breakpoint) bool {
		if bp.Kind == BreakNormal {
			ln := p.line(0, end, bp)
			normal = &ln
			return false
		}
		return true
	})
	if normal == nil {
		t.Fatalf("没有普通断点")
	}
	if normal.Trim != 2 || normal.Width != 2 {
		t.Fatalf("尾随空白未修剪: trim=%d width=%g", normal.Trim, normal.Width)
	}
	if !strings.HasPrefix(p.Spec.Text[normal.Start:normal.Trim], "ab") {
		t.Fatalf("修剪区间内容错误")
	}
}

// TestConsecutiveDashPenalty 连续两行以破折号结尾要付出额外成本。
func TestConsecutiveDashPenalty(t *testing.T) {
	p := prepare(t, ParagraphSpec{Text: "aa-bb"})
	met := p.Metrics(false)
	ln := p.line(3, 5, Breakpoint{Kind: BreakMandatory})
	withPrev := p.cost(met, 100, ln, true, true)
	withoutPrev := p.cost(met, 100, ln, false, true)
	if ln.Dash {
		t.Fatalf("bb 不应被视为破折号结尾")
	}
	if withPrev != withoutPrev {
		t.Fatalf("非破折号行不应受前行影响: %g vs %g", withPrev, withoutPrev)
	}
	dashLn := p.line(0, 3, Breakpoint{Kind: BreakNormal})
	if !dashLn.Dash {
		t.Fatalf("aa- 应被视为破折号结尾")
	}
	a := p.cost(met, 100, dashLn, true, false)
	b := p.cost(met, 100, dashLn, false, false)
	if a <= b {
		t.Fatalf("连续破折号未加价: %g <= %g", a, b)
	}
}
