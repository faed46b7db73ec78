package layout

import "github.com/ByLCY/vellum/linebreak"

// TextContent 把一个段落排进区域序列，必要时跨区域续排。
// 浮动块说明文字与脚注正文都用它实现。
type TextContent struct {
	Par     *linebreak.Paragraph
	Leading float64
	// Notes 嵌套脚注（脚注里再引脚注）。
	Notes []NoteAnchor
}

func (t *TextContent) Layout(eng *Engine, regions Regions) ([]Frame, error) {
	lines := t.Par.Lines(regions.Size.W)
	var frames []Frame
	cur := Frame{Size: Size{W: regions.Size.W}}
	y := 0.0

	flush := func() {
		cur.Size.H = y
		frames = append(frames, cur)
		cur = Frame{Size: Size{W: regions.Size.W}}
		y = 0
	}

	for i := range lines {
		// 当前区域放不下这一行且还有后续区域时换区域。
		// 单行高于整个区域时只能超排，避免空转。
		for y+t.Leading > regions.Size.H+sizeEps && regions.MayProgress() {
			if y == 0 && t.Leading > regions.Full+sizeEps {
				break
			}
			flush()
			if !regions.Next() {
				break
			}
		}
		ln := lines[i]
		lf := Frame{Size: Size{W: regions.Size.W, H: t.Leading}}
		lf.Push(Point{}, TextItem{
			Text:      t.Par.LineText(ln),
			FontSize:  t.Par.Spec.Size,
			Width:     regions.Size.W,
			Justified: t.Par.Spec.Justify && !ln.Mandatory && i < len(lines)-1,
			Line:      ln,
		})
		last := i == len(lines)-1
		for _, a := range t.Notes {
			if (a.Offset >= ln.Start && a.Offset < ln.End) || (last && a.Offset >= ln.End) {
				lf.Push(Point{}, FrameMarker{Note: a.Note})
			}
		}
		cur.PushFrame(Point{Y: y}, lf)
		y += t.Leading
	}
	flush()
	return frames, nil
}

// BoxContent 是一个固定尺寸的矩形占位（图表等不可断的内容）。
// 高度超出区域时原样返回，由调用方决定推迟或超排。
type BoxContent struct {
	Size Size
}

func (b *BoxContent) Layout(eng *Engine, regions Regions) ([]Frame, error) {
	fr := Frame{Size: b.Size}
	fr.Push(Point{}, RuleItem{Width: b.Size.W, Thickness: sepThickness})
	return []Frame{fr}, nil
}

// StackContent 依次叠放多段内容（图加说明）。整体不可断。
type StackContent struct {
	Items []Layoutable
	Gap   float64
}

func (s *StackContent) Layout(eng *Engine, regions Regions) ([]Frame, error) {
	// 子项各自排进不可推进的单区域，整体高度为各项之和。
	out := Frame{Size: Size{W: regions.Size.W}}
	y := 0.0
	for i, item := range s.Items {
		if i > 0 {
			y += s.Gap
		}
		sub := NewRegions(Size{W: regions.Size.W, H: regions.Full})
		frames, err := item.Layout(eng, sub)
		if err != nil {
			return nil, err
		}
		for _, fr := range frames {
			x := alignOffset(out.Size.W, fr.Width(), HAlignCenter)
			out.PushFrame(Point{X: x, Y: y}, fr)
			y += fr.Height()
		}
	}
	out.Size.H = y
	return []Frame{out}, nil
}
