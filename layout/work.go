package layout

// Work 是跨页传递的剩余工作：还没排完的正文块、
// 被推迟的浮动块与脚注，以及已放置元素的跳过集合。
// 每页完成后 Work 被推进；重试前先 Clone 快照，失败则恢复。
type Work struct {
	// Queue 尚未排入的正文块，按文档顺序。
	Queue []Block
	// Floats 被推迟到后续区域的浮动块。
	Floats []*PlacedChild
	// Footnotes 被推迟的脚注。
	Footnotes []*Footnote
	// Spill 上一列没排完的脚注剩余部分。
	Spill *FootnoteSpill
	// Skips 已经成功放置（承诺不再移动）的元素。
	Skips map[Location]struct{}
	// Lines 行号计数器，文档范围计数时跨页累计。
	Lines int
}

// FootnoteSpill 保存一条脚注溢出到下一列的剩余 Frame。
type FootnoteSpill struct {
	Note   *Footnote
	Frames []Frame
}

// NewWork 以给定正文块队列初始化工作状态。
func NewWork(blocks []Block) *Work {
	return &Work{Queue: blocks, Skips: make(map[Location]struct{})}
}

// Clone 生成可独立推进的深拷贝，用于重试前快照。
// Queue 与推迟列表按值复制切片；元素本身不可变（或由放置协议保证
// 只在承诺后修改），共享指针是安全的。
func (w *Work) Clone() *Work {
	out := &Work{
		Queue:     append([]Block(nil), w.Queue...),
		Floats:    append([]*PlacedChild(nil), w.Floats...),
		Footnotes: append([]*Footnote(nil), w.Footnotes...),
		Skips:     make(map[Location]struct{}, len(w.Skips)),
		Lines:     w.Lines,
	}
	for loc := range w.Skips {
		out.Skips[loc] = struct{}{}
	}
	if w.Spill != nil {
		out.Spill = &FootnoteSpill{
			Note:   w.Spill.Note,
			Frames: append([]Frame(nil), w.Spill.Frames...),
		}
	}
	return out
}

// Done 报告所有工作是否都已完成。
func (w *Work) Done() bool {
	return len(w.Queue) == 0 && len(w.Floats) == 0 &&
		len(w.Footnotes) == 0 && w.Spill == nil
}

// Skipped 报告 loc 是否已被承诺放置。
func (w *Work) Skipped(loc Location) bool {
	_, ok := w.Skips[loc]
	return ok
}

// Skip 把 loc 记入承诺集合。
func (w *Work) Skip(loc Location) {
	w.Skips[loc] = struct{}{}
}
