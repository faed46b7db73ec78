package layout

import "fmt"

// 单页/单列的重试次数上限。跳过集合保证单调推进，
// 正常情况下远达不到；达到说明放置协议出了错。
const maxAttempts = 64

// Composer 负责排出一页：驱动各列的分发，处理浮动块与脚注
// 的放置信号，最后把插入区合成进页面 Frame。
type Composer struct {
	eng  *Engine
	conf *Config
	work *Work

	pageIns *Insertions
	colIns  *Insertions
	// colFull 当前列的完整高度，浮动块推迟判断用。
	colFull float64
	// colInsBase 本次尝试开始时列插入区已占的高度。
	// 同一次尝试里新承诺的插入还没从区域里扣掉，按增量扣减。
	colInsBase float64
}

// Compose 排出一页内容。Work 被原地推进：排进本页的内容出队，
// 推迟的浮动块与脚注留待下一页。
func Compose(eng *Engine, work *Work, conf *Config) (Frame, error) {
	c := &Composer{eng: eng, conf: conf, work: work, pageIns: NewInsertions()}
	base := NewRegions(conf.Area)

	snapshot := work.Clone()
	for attempt := 0; ; attempt++ {
		frame, err := c.pageContents(base)
		if r, ok := AsRelayout(err); ok {
			if r.Scope != ScopeParent {
				return Frame{}, fmt.Errorf("列级重排信号越过了列循环: %w", err)
			}
			if attempt >= maxAttempts {
				return Frame{}, fmt.Errorf("页面重排超过 %d 次仍未收敛", maxAttempts)
			}
			work.restore(snapshot)
			continue
		}
		if err != nil {
			return Frame{}, err
		}
		for loc := range c.pageIns.Skips {
			work.Skip(loc)
		}
		c.adoptNotes(c.pageIns)
		return c.pageIns.Finalize(frame, base), nil
	}
}

// Work 返回本次排版推进中的工作状态，供分发器消费队列。
func (c *Composer) Work() *Work { return c.work }

// pageContents 在页级插入区扣除后依次排各列。
func (c *Composer) pageContents(base Regions) (Frame, error) {
	regions := c.pageIns.Shrink(base)
	n := c.conf.Columns
	if n < 1 {
		n = 1
	}
	colW := (base.Size.W - c.conf.Gutter*float64(n-1)) / float64(n)

	out := Frame{Size: Size{W: base.Size.W, H: regions.Size.H}}
	for i := 0; i < n; i++ {
		if i > 0 && c.work.Done() {
			break
		}
		colFrame, err := c.column(i, colW, regions.Size.H)
		if err != nil {
			return Frame{}, err
		}
		slot := i
		if c.conf.Dir == DirRTL {
			slot = n - 1 - i
		}
		x := float64(slot) * (colW + c.conf.Gutter)
		out.PushFrame(Point{X: x}, colFrame)
	}
	return out, nil
}

// column 排出一列：注入上一列的脚注续排，快照 Work，
// 对列级重排信号恢复并重试，其它信号原样上抛。
func (c *Composer) column(idx int, width, height float64) (Frame, error) {
	c.colIns = NewInsertions()
	c.colFull = height
	base := NewRegions(Size{W: width, H: height})

	if sp := c.work.Spill; sp != nil {
		c.work.Spill = nil
		c.colIns.ReserveSeparator(width)
		if len(sp.Frames) > 0 {
			c.colIns.PushFootnote(sp.Frames[0])
			if len(sp.Frames) > 1 {
				c.colIns.Spill = &FootnoteSpill{Note: sp.Note, Frames: sp.Frames[1:]}
			}
		}
	}

	snapshot := c.work.Clone()
	var inner Frame
	for attempt := 0; ; attempt++ {
		regions := c.colIns.Shrink(base)
		regions.Last = &c.colFull
		c.colInsBase = c.colIns.Height()
		var err error
		inner, err = c.columnContents(regions)
		if r, ok := AsRelayout(err); ok && r.Scope == ScopeColumn {
			if attempt >= maxAttempts {
				return Frame{}, fmt.Errorf("第 %d 列重排超过 %d 次仍未收敛", idx, maxAttempts)
			}
			c.work.restore(snapshot)
			continue
		}
		if err != nil {
			return Frame{}, err
		}
		break
	}

	for loc := range c.colIns.Skips {
		c.work.Skip(loc)
	}
	c.adoptNotes(c.colIns)
	if c.colIns.Spill != nil {
		c.work.Spill = c.colIns.Spill
		c.colIns.Spill = nil
	}

	frame := c.colIns.Finalize(inner, base)
	if nc := c.conf.Numbering; nc != nil {
		if idx == 0 && nc.Scope == NumberByPage {
			c.work.Lines = 0
		}
		if err := overlayLineNumbers(c.eng, &frame, nc, &c.work.Lines); err != nil {
			return Frame{}, err
		}
	}
	return frame, nil
}

// columnContents 先按原顺序重新供给所有被推迟的浮动块与脚注，
// 再把（可能已缩小的）区域交给分发器。
func (c *Composer) columnContents(regions Regions) (Frame, error) {
	if pending := c.work.Floats; len(pending) > 0 {
		c.work.Floats = nil
		for _, f := range pending {
			if err := c.Float(f, regions, 0); err != nil {
				return Frame{}, err
			}
		}
	}

	if c.conf.Footnotes {
		pending := c.work.Footnotes
		c.work.Footnotes = nil
		pending = append(append([]*Footnote(nil), pending...), c.pageIns.Notes...)
		pending = append(pending, c.colIns.Notes...)
		for _, n := range pending {
			if err := c.footnote(n, regions, 0, false); err != nil {
				return Frame{}, err
			}
		}
	}

	return c.conf.Distributor.Distribute(c, c.eng, regions)
}

// skipped 汇总三处承诺集合。
func (c *Composer) skipped(loc Location) bool {
	return c.work.Skipped(loc) || c.pageIns.Skipped(loc) || c.colIns.Skipped(loc)
}

// adoptNotes 把插入区里发现的待处理脚注并入 Work 队列（去重）。
func (c *Composer) adoptNotes(ins *Insertions) {
	for _, n := range ins.Notes {
		if c.skipped(n.Loc) || containsNote(c.work.Footnotes, n) {
			continue
		}
		c.work.Footnotes = append(c.work.Footnotes, n)
	}
	ins.Notes = nil
}

func containsNote(list []*Footnote, n *Footnote) bool {
	for _, m := range list {
		if m.Loc == n.Loc {
			return true
		}
	}
	return false
}

// Float 处理一个浮动块。已承诺的无动作；放不下且后面还有区域
// 则推迟；放得下则承诺进对应范围的插入区并发出重排信号。
func (c *Composer) Float(child *PlacedChild, regions Regions, flowY float64) error {
	if c.skipped(child.Loc) {
		return nil
	}
	if len(c.work.Floats) > 0 {
		c.work.Floats = append(c.work.Floats, child)
		return nil
	}

	ins := c.colIns
	baseW := regions.Size.W
	if child.Scope == ScopeParent {
		ins = c.pageIns
		baseW = c.conf.Area.W
	}

	base := NewRegions(Size{W: baseW, H: c.colFull})
	frames, err := child.Content.Layout(c.eng, base)
	if err != nil {
		return err
	}
	var fr Frame
	if len(frames) > 0 {
		fr = frames[0]
	}

	need := fr.Height() + child.Clearance
	remaining := regions.Size.H - flowY
	if child.Scope == ScopeParent && c.conf.Columns > 1 {
		// 页级浮动块占掉所有列的空间，用各列均摊后的剩余估算。
		remaining = regions.Size.H - flowY/float64(c.conf.Columns)
	}
	if need > remaining+sizeEps {
		if regions.MayProgress() && need <= regions.Full+sizeEps {
			c.work.Floats = append(c.work.Floats, child)
			return nil
		}
		c.eng.Warn("浮动块高于可用空间，超排放置")
	}

	bottom := child.AlignV == VAlignBottom
	if child.AlignV == VAlignAuto {
		bottom = flowY+fr.Height()/2 > regions.Full/2
	}
	ins.PushFloat(child, fr, bottom)
	ins.Skip(child.Loc)

	for _, n := range fr.Footnotes() {
		if !c.skipped(n.Loc) {
			ins.Notes = append(ins.Notes, n)
		}
	}
	return Relayout{Scope: child.Scope}
}

// Footnotes 扫描新产出的 Frame 中的脚注标记并逐个处理。
// 仅第一条脚注允许触发宿主迁移；迁移信号立即上抛，
// 放置产生的重排信号合并后返回。
func (c *Composer) Footnotes(regions Regions, frame *Frame, flowNeed float64, breakable bool) error {
	if !c.conf.Footnotes {
		return nil
	}
	notes := frame.Footnotes()
	if len(notes) == 0 {
		return nil
	}

	var relayout *Relayout
	for i, n := range notes {
		migratable := i == 0 && breakable && regions.MayProgress()
		if err := c.footnote(n, regions, flowNeed, migratable); err != nil {
			if IsMigrateHost(err) {
				return err
			}
			if r, ok := AsRelayout(err); ok {
				relayout = combineRelayout(relayout, &r)
				continue
			}
			return err
		}
	}
	if relayout != nil {
		return *relayout
	}
	return nil
}

// footnote 处理一条脚注。
func (c *Composer) footnote(n *Footnote, regions Regions, flowNeed float64, migratable bool) error {
	if n.Ref || c.skipped(n.Loc) {
		return nil
	}
	// 已有续排或排队的脚注时入队保序。
	if c.work.Spill != nil || c.colIns.Spill != nil || len(c.work.Footnotes) > 0 {
		c.work.Footnotes = append(c.work.Footnotes, n)
		return nil
	}

	sepH := 0.0
	if !c.colIns.SeparatorReserved() {
		sepH = SeparatorHeight()
	}
	avail := regions.Size.H - flowNeed - sepH - (c.colIns.Height() - c.colInsBase)
	// 续排区域是后续列的脚注区，高度要预留分隔符。
	cont := c.colFull - SeparatorHeight()
	pod := Regions{
		Size: Size{W: regions.Size.W, H: avail},
		Full: c.colFull,
		Last: &cont,
	}
	frames, err := n.Content.Layout(c.eng, pod)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return nil
	}

	first := frames[0]
	if len(first.Items) == 0 && len(frames) > 1 {
		// 一行都放不下：能迁移就迁移宿主，否则整条排队等下一列。
		if migratable {
			return MigrateHost{}
		}
		c.work.Footnotes = append(c.work.Footnotes, n)
		return nil
	}

	c.colIns.ReserveSeparator(regions.Size.W)
	c.colIns.PushFootnote(first)
	c.colIns.Skip(n.Loc)
	if len(frames) > 1 {
		c.colIns.Spill = &FootnoteSpill{Note: n, Frames: frames[1:]}
	}
	for _, nested := range first.Footnotes() {
		if !c.skipped(nested.Loc) {
			c.work.Footnotes = append(c.work.Footnotes, nested)
		}
	}
	return Relayout{Scope: ScopeColumn}
}

// restore 把工作状态整体恢复为快照内容。快照本身保持可复用。
func (w *Work) restore(snapshot *Work) {
	fresh := snapshot.Clone()
	*w = *fresh
}
