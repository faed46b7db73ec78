package layout

// NumberScope 决定行号的计数范围。
type NumberScope int

const (
	// NumberByDocument 全文连续计数。
	NumberByDocument NumberScope = iota
	// NumberByPage 每页从头计数。
	NumberByPage
)

// NumberingConfig 配置行号叠加层。
type NumberingConfig struct {
	Scope NumberScope
	// Margin 行号右缘到列左缘的距离。
	Margin float64
	// Make 生成某个行号的 Frame。
	Make func(eng *Engine, n int) (Frame, error)
}

// overlayLineNumbers 在列 Frame 上叠加行号：深度优先遍历
// 找到行锚点的绝对位置，在列左侧外缘放对应编号。
func overlayLineNumbers(eng *Engine, frame *Frame, conf *NumberingConfig, counter *int) error {
	anchors := collectLineAnchors(frame, Point{})
	for _, pos := range anchors {
		*counter++
		num, err := conf.Make(eng, *counter)
		if err != nil {
			return err
		}
		frame.PushFrame(Point{X: pos.X - conf.Margin - num.Width(), Y: pos.Y}, num)
	}
	return nil
}

// collectLineAnchors 递归收集行锚点相对 frame 原点的位置。
func collectLineAnchors(frame *Frame, origin Point) []Point {
	var out []Point
	for _, it := range frame.Items {
		switch c := it.Content.(type) {
		case FrameMarker:
			if c.Line {
				out = append(out, origin.Add(it.Pos))
			}
		case SubFrame:
			out = append(out, collectLineAnchors(&c.Frame, origin.Add(it.Pos))...)
		}
	}
	return out
}
