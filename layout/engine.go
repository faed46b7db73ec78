package layout

// Location 是布局元素的稳定标识。同一元素在页面被重算多少次，
// 拿到的 Location 都不变，跳过集合才能跨重试生效。
type Location int

// Locator 分配 Location。每次整页重试前重置游标，
// 保证相同的布局顺序产出相同的标识序列。
type Locator struct {
	next Location
}

// Next 返回下一个 Location。
func (l *Locator) Next() Location {
	loc := l.next
	l.next++
	return loc
}

// Reset 把游标拨回起点，供整页重试使用。
func (l *Locator) Reset() { l.next = 0 }

// Engine 携带一次排版过程中的共享状态。
type Engine struct {
	Locator  Locator
	Warnings []string
}

// Warn 记录一条非致命的排版警告。
func (e *Engine) Warn(msg string) {
	e.Warnings = append(e.Warnings, msg)
}

// Layoutable 是可以被排进区域序列的内容。
// 返回的 Frame 数与消耗的区域数一致。
type Layoutable interface {
	Layout(eng *Engine, regions Regions) ([]Frame, error)
}

// PlacedChild 是一个显式定位的元素：浮动块或精确摆放的块。
type PlacedChild struct {
	// Content 待排版的内容。
	Content Layoutable
	// Scope 浮动到列（ScopeColumn）还是整页（ScopeParent）。
	Scope Scope
	// Float 为真时按浮动协议延迟放置，否则在流内精确摆放。
	Float bool
	// AlignH 水平对齐。
	AlignH HAlign
	// AlignV 垂直对齐；VAlignAuto 时按中点启发式决定顶部或底部。
	AlignV VAlign
	// Clearance 浮动块与正文之间的间距。
	Clearance float64
	// Delta 放置后的附加位移。
	Delta Point
	// Loc 稳定标识，由 Locator 分配。
	Loc Location
}

// Footnote 是一条脚注：正文中的标记加底部的内容。
type Footnote struct {
	// Content 脚注正文。
	Content Layoutable
	// Loc 稳定标识。
	Loc Location
	// Ref 为真时这只是对已有脚注的引用，不重复排版。
	Ref bool
}
