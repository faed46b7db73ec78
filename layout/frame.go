package layout

import "github.com/ByLCY/vellum/linebreak"

// Frame 是排版产物：固定尺寸的矩形，内含带定位的元素。
// 坐标以左上角为原点，向右向下为正。
type Frame struct {
	Size     Size
	Baseline float64
	Items    []FrameItem
}

// FrameItem 是 Frame 中一个带位置的元素。
type FrameItem struct {
	Pos     Point
	Content any
}

// TextItem 是一行已排好的文本。
type TextItem struct {
	Text     string
	FontSize float64
	Width    float64
	// Justified 为真时该行按 Width 两端对齐渲染。
	Justified bool
	// Line 保留断行结果，供调试输出使用。
	Line linebreak.Line
}

// RuleItem 是一条水平分隔线（脚注分隔符）。
type RuleItem struct {
	Width     float64
	Thickness float64
}

// FrameMarker 是不可见的标记元素，占位零尺寸。
type FrameMarker struct {
	// Note 非空时表示此处有一个待放置的脚注引用。
	Note *Footnote
	// Line 为真时表示此处是一个行号锚点。
	Line bool
}

// SubFrame 把一个子 Frame 嵌入父 Frame。
type SubFrame struct {
	Frame Frame
}

// Push 向 Frame 追加一个元素。
func (f *Frame) Push(pos Point, content any) {
	f.Items = append(f.Items, FrameItem{Pos: pos, Content: content})
}

// PushFrame 把子 Frame 嵌入到指定位置。
func (f *Frame) PushFrame(pos Point, sub Frame) {
	f.Items = append(f.Items, FrameItem{Pos: pos, Content: SubFrame{Frame: sub}})
}

// Height 返回 Frame 高度。
func (f Frame) Height() float64 { return f.Size.H }

// Width 返回 Frame 宽度。
func (f Frame) Width() float64 { return f.Size.W }

// Translate 把所有元素平移 delta。
func (f *Frame) Translate(delta Point) {
	for i := range f.Items {
		f.Items[i].Pos = f.Items[i].Pos.Add(delta)
	}
}

// Markers 递归遍历 Frame（含嵌套子 Frame），按出现顺序产出所有标记。
// yield 返回 false 时停止遍历。
func (f Frame) Markers(yield func(FrameMarker) bool) bool {
	for _, it := range f.Items {
		switch c := it.Content.(type) {
		case FrameMarker:
			if !yield(c) {
				return false
			}
		case SubFrame:
			if !c.Frame.Markers(yield) {
				return false
			}
		}
	}
	return true
}

// Footnotes 收集 Frame 中按顺序出现的所有脚注标记。
func (f Frame) Footnotes() []*Footnote {
	var notes []*Footnote
	f.Markers(func(m FrameMarker) bool {
		if m.Note != nil {
			notes = append(notes, m.Note)
		}
		return true
	})
	return notes
}
