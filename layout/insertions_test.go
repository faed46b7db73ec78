package layout

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestInsertionsHeight(t *testing.T) {
	ins := NewInsertions()
	if ins.Height() != 0 {
		t.Fatalf("空插入区高度应为 0")
	}

	child := &PlacedChild{Clearance: 2}
	ins.PushFloat(child, Frame{Size: Size{W: 40, H: 10}}, false)
	if !almostEqual(ins.Height(), 12) {
		t.Fatalf("浮动块高度应含间距: %g", ins.Height())
	}

	ins.ReserveSeparator(40)
	ins.ReserveSeparator(40) // 重复预留无效果
	want := 12 + SeparatorHeight()
	if !almostEqual(ins.Height(), want) {
		t.Fatalf("分隔符高度计算有误: %g != %g", ins.Height(), want)
	}

	ins.PushFootnote(Frame{Size: Size{W: 40, H: 6}})
	if !almostEqual(ins.Height(), want+6) {
		t.Fatalf("脚注高度未计入: %g", ins.Height())
	}
}

func TestInsertionsFinalizeStacking(t *testing.T) {
	base := NewRegions(Size{W: 40, H: 100})
	ins := NewInsertions()

	top := &PlacedChild{Clearance: 2, AlignH: HAlignLeft}
	bot := &PlacedChild{Clearance: 3, AlignH: HAlignLeft}
	ins.PushFloat(top, Frame{Size: Size{W: 40, H: 10}}, false)
	ins.PushFloat(bot, Frame{Size: Size{W: 40, H: 8}}, true)
	ins.ReserveSeparator(40)
	ins.PushFootnote(Frame{Size: Size{W: 40, H: 6}})

	inner := Frame{Size: Size{W: 40, H: 20}}
	out := ins.Finalize(inner, base)

	if out.Size.H != 100 {
		t.Fatalf("合成后的 Frame 应为区域完整高度")
	}

	// 顺序：顶部浮动块、正文、底部浮动块、分隔符、脚注。
	var topY, innerY, botY, sepY, noteY float64
	count := 0
	for _, it := range out.Items {
		switch c := it.Content.(type) {
		case SubFrame:
			switch c.Frame.Size.H {
			case 10.0:
				topY = it.Pos.Y
			case 20.0:
				innerY = it.Pos.Y
			case 8.0:
				botY = it.Pos.Y
			case 6.0:
				noteY = it.Pos.Y
			}
			count++
		case RuleItem:
			sepY = it.Pos.Y
			count++
		}
	}
	if count != 5 {
		t.Fatalf("应有 5 个元素，实际 %d", count)
	}
	if topY != 0 {
		t.Fatalf("顶部浮动块应贴顶: %g", topY)
	}
	if !almostEqual(innerY, 12) {
		t.Fatalf("正文应排在顶部浮动块与间距之后: %g", innerY)
	}
	if !almostEqual(noteY, 94) {
		t.Fatalf("脚注应贴底: %g", noteY)
	}
	if sepY >= noteY {
		t.Fatalf("分隔符应在脚注之上: sep=%g note=%g", sepY, noteY)
	}
	if botY+8 > sepY-sepClearance+1e-9 {
		t.Fatalf("底部浮动块应在分隔符间距之上: bot=%g sep=%g", botY, sepY)
	}
	if innerY+20 > botY+1e-9 {
		t.Fatalf("底部浮动块不应与正文重叠")
	}
}
