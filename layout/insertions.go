package layout

// 脚注分隔符的默认几何参数（毫米）。
const (
	sepClearance = 3.0
	sepGap       = 1.5
	sepThickness = 0.2
)

// floatSlot 记录一个已承诺放置的浮动块及其排版结果。
type floatSlot struct {
	child *PlacedChild
	frame Frame
}

// Insertions 是一次布局尝试中某个区域（页或列）的插入区：
// 顶部与底部的浮动块、脚注和脚注分隔符。
// 插入区占掉的高度从正文可用空间里扣除。
type Insertions struct {
	top       []floatSlot
	bottom    []floatSlot
	footnotes []Frame
	// sepWidth 大于 0 时表示分隔符已预留。
	sepWidth float64
	// Skips 本次尝试中已在此插入区承诺放置的元素。
	Skips map[Location]struct{}
	// Notes 是在已承诺浮动块里发现、尚未落地的脚注。
	// 挂在插入区而不是 Work 上：重试恢复 Work 时浮动块不会重排，
	// 标记不会再次被扫描到，所以这些脚注必须跟随插入区存活。
	Notes []*Footnote
	// Spill 是已承诺脚注溢出到下一列的剩余部分，同上跟随插入区存活。
	Spill *FootnoteSpill
}

// NewInsertions 构造空插入区。
func NewInsertions() *Insertions {
	return &Insertions{Skips: make(map[Location]struct{})}
}

// Skipped 报告 loc 是否已承诺放入本插入区。
func (ins *Insertions) Skipped(loc Location) bool {
	_, ok := ins.Skips[loc]
	return ok
}

// Skip 把 loc 记入承诺集合。
func (ins *Insertions) Skip(loc Location) {
	ins.Skips[loc] = struct{}{}
}

// PushFloat 承诺一个浮动块到顶部或底部。
func (ins *Insertions) PushFloat(child *PlacedChild, frame Frame, bottom bool) {
	slot := floatSlot{child: child, frame: frame}
	if bottom {
		ins.bottom = append(ins.bottom, slot)
	} else {
		ins.top = append(ins.top, slot)
	}
}

// PushFootnote 承诺一个脚注 Frame。
func (ins *Insertions) PushFootnote(frame Frame) {
	ins.footnotes = append(ins.footnotes, frame)
}

// ReserveSeparator 预留脚注分隔符。重复调用无效果。
func (ins *Insertions) ReserveSeparator(width float64) {
	if ins.sepWidth == 0 {
		ins.sepWidth = width
	}
}

// SeparatorReserved 报告分隔符是否已预留。
func (ins *Insertions) SeparatorReserved() bool {
	return ins.sepWidth > 0
}

// SeparatorHeight 返回分隔符连同上下间距占用的高度。
func SeparatorHeight() float64 {
	return sepClearance + sepThickness + sepGap
}

// Height 返回插入区当前占用的总高度。
func (ins *Insertions) Height() float64 {
	var h float64
	for _, s := range ins.top {
		h += s.frame.Height() + s.child.Clearance
	}
	for _, s := range ins.bottom {
		h += s.frame.Height() + s.child.Clearance
	}
	if ins.sepWidth > 0 {
		h += SeparatorHeight()
	}
	for _, f := range ins.footnotes {
		h += f.Height()
	}
	return h
}

// Shrink 返回扣除插入区高度后的区域序列。
func (ins *Insertions) Shrink(base Regions) Regions {
	return base.Shrunk(ins.Height())
}

// Finalize 把正文 Frame 与插入区合成最终 Frame：
// 顶部浮动块自上而下，正文紧随其后；底部浮动块自下而上
// 叠在脚注区之上；分隔符与脚注贴底。
func (ins *Insertions) Finalize(inner Frame, base Regions) Frame {
	if len(ins.top) == 0 && len(ins.bottom) == 0 && len(ins.footnotes) == 0 && ins.sepWidth == 0 {
		return inner
	}
	out := Frame{Size: Size{W: base.Size.W, H: base.Full}}

	top := 0.0
	for _, s := range ins.top {
		x := alignOffset(out.Size.W, s.frame.Width(), s.child.AlignH)
		out.PushFrame(Point{X: x, Y: top}.Add(s.child.Delta), s.frame)
		top += s.frame.Height() + s.child.Clearance
	}

	out.PushFrame(Point{Y: top}, inner)

	bottom := out.Size.H
	for i := len(ins.footnotes) - 1; i >= 0; i-- {
		bottom -= ins.footnotes[i].Height()
	}
	y := bottom
	for _, f := range ins.footnotes {
		out.PushFrame(Point{Y: y}, f)
		y += f.Height()
	}
	if ins.sepWidth > 0 {
		bottom -= sepGap + sepThickness
		out.Push(Point{Y: bottom}, RuleItem{Width: ins.sepWidth / 3, Thickness: sepThickness})
		bottom -= sepClearance
	}
	for _, s := range ins.bottom {
		bottom -= s.frame.Height() + s.child.Clearance
		x := alignOffset(out.Size.W, s.frame.Width(), s.child.AlignH)
		out.PushFrame(Point{X: x, Y: bottom + s.child.Clearance}.Add(s.child.Delta), s.frame)
	}

	return out
}
