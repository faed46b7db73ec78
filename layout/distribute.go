package layout

import "github.com/ByLCY/vellum/linebreak"

// Block 是正文流中的一个排版单元。
type Block interface {
	isBlock()
}

// NoteAnchor 把一条脚注锚在段落文本的某个字节偏移上。
type NoteAnchor struct {
	Offset int
	Note   *Footnote
}

// ParBlock 是一个已测量的段落。Next 记录已经排出的行数，
// 跨列续排时通过复制块并前移 Next 实现，原块保持不变。
type ParBlock struct {
	Par     *linebreak.Paragraph
	Leading float64
	Notes   []NoteAnchor
	Next    int
}

func (*ParBlock) isBlock() {}

// VSpaceBlock 是一段垂直间距。Weak 的间距在列顶折叠。
type VSpaceBlock struct {
	H    float64
	Weak bool
}

func (*VSpaceBlock) isBlock() {}

func (*PlacedChild) isBlock() {}

// Distributor 把 Work 队列中的块排进一列的正文区域。
// 浮动块与脚注通过 Composer 回调处理，控制流信号原样上抛。
type Distributor interface {
	Distribute(c *Composer, eng *Engine, regions Regions) (Frame, error)
}

// BlockDistributor 是默认实现：按文档顺序逐块填充，
// 放不下且还有后续区域时结束当前列。
type BlockDistributor struct{}

func (BlockDistributor) Distribute(c *Composer, eng *Engine, regions Regions) (Frame, error) {
	out := Frame{Size: Size{W: regions.Size.W, H: regions.Size.H}}
	work := c.Work()
	y := 0.0

	for len(work.Queue) > 0 {
		switch b := work.Queue[0].(type) {
		case *VSpaceBlock:
			work.Queue = work.Queue[1:]
			if b.Weak && y == 0 {
				continue
			}
			if y+b.H > regions.Size.H+sizeEps && regions.MayProgress() {
				// 列尾的间距不跨列携带。
				return out, nil
			}
			y += b.H

		case *PlacedChild:
			work.Queue = work.Queue[1:]
			if b.Float {
				if err := c.Float(b, regions, y); err != nil {
					return out, err
				}
				continue
			}
			done, err := distributePlaced(c, eng, &out, b, regions, &y)
			if err != nil {
				return out, err
			}
			if !done {
				work.Queue = prepend(work.Queue, b)
				return out, nil
			}

		case *ParBlock:
			rest, err := distributePar(c, &out, b, regions, &y)
			if err != nil {
				return out, err
			}
			if rest != nil {
				work.Queue[0] = rest
				return out, nil
			}
			work.Queue = work.Queue[1:]
		}
	}
	return out, nil
}

// distributePlaced 在流内精确摆放一个非浮动块。
// 放不下且可换列时返回 done=false，由调用方重新入队。
func distributePlaced(c *Composer, eng *Engine, out *Frame, b *PlacedChild, regions Regions, y *float64) (bool, error) {
	sub := regions
	sub.Size.H -= *y
	frames, err := b.Content.Layout(eng, sub)
	if err != nil {
		return false, err
	}
	var fr Frame
	if len(frames) > 0 {
		fr = frames[0]
	}
	if *y > 0 && *y+fr.Height() > regions.Size.H+sizeEps && regions.MayProgress() {
		return false, nil
	}
	x := alignOffset(out.Size.W, fr.Width(), b.AlignH)
	out.PushFrame(Point{X: x, Y: *y}.Add(b.Delta), fr)
	if err := c.Footnotes(regions, &fr, *y+fr.Height(), *y > 0); err != nil {
		if IsMigrateHost(err) && *y > 0 && regions.MayProgress() {
			out.Items = out.Items[:len(out.Items)-1]
			return false, nil
		}
		if !IsMigrateHost(err) {
			return false, err
		}
	}
	*y += fr.Height()
	return true, nil
}

// distributePar 把段落的行依次排入当前列。排不完时返回
// 续排块（Next 前移的副本），排完返回 nil。
func distributePar(c *Composer, out *Frame, b *ParBlock, regions Regions, y *float64) (*ParBlock, error) {
	lines := b.Par.Lines(regions.Size.W)
	for i := b.Next; i < len(lines); i++ {
		if *y+b.Leading > regions.Size.H+sizeEps && regions.MayProgress() {
			rest := *b
			rest.Next = i
			return &rest, nil
		}
		lf := lineFrame(c, b, lines, i, regions.Size.W)

		out.PushFrame(Point{Y: *y}, lf)
		err := c.Footnotes(regions, &lf, *y+b.Leading, *y > 0)
		if err != nil {
			if IsMigrateHost(err) && *y > 0 && regions.MayProgress() {
				// 连同宿主行一起搬到下一列。
				out.Items = out.Items[:len(out.Items)-1]
				rest := *b
				rest.Next = i
				return &rest, nil
			}
			if !IsMigrateHost(err) {
				return nil, err
			}
		}
		*y += b.Leading
	}
	return nil, nil
}

// lineFrame 构造一行文本的 Frame，附带行号锚点与脚注标记。
func lineFrame(c *Composer, b *ParBlock, lines []linebreak.Line, i int, width float64) Frame {
	ln := lines[i]
	lf := Frame{Size: Size{W: width, H: b.Leading}}
	justified := b.Par.Spec.Justify && !ln.Mandatory && i < len(lines)-1
	lf.Push(Point{}, TextItem{
		Text:      b.Par.LineText(ln),
		FontSize:  b.Par.Spec.Size,
		Width:     width,
		Justified: justified,
		Line:      ln,
	})
	if c.conf.Numbering != nil {
		lf.Push(Point{}, FrameMarker{Line: true})
	}
	last := i == len(lines)-1
	for _, a := range b.Notes {
		if (a.Offset >= ln.Start && a.Offset < ln.End) || (last && a.Offset >= ln.End) {
			lf.Push(Point{}, FrameMarker{Note: a.Note})
		}
	}
	return lf
}

func prepend(queue []Block, b Block) []Block {
	out := make([]Block, 0, len(queue)+1)
	out = append(out, b)
	return append(out, queue...)
}
