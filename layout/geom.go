package layout

// 该文件定义布局计算共用的几何基础类型，单位统一为毫米（mm）。

// Point 是页面坐标系中的一个点，原点在左上角。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add 返回两点分量相加的结果。
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Size 描述一个矩形区域的宽高。
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Dir 表示多栏排布方向。
type Dir int

const (
	// DirLTR 栏自左向右排布。
	DirLTR Dir = iota
	// DirRTL 栏自右向左排布。
	DirRTL
)

// HAlign 水平对齐方式。
type HAlign int

const (
	HAlignLeft HAlign = iota
	HAlignCenter
	HAlignRight
)

// VAlign 纵向对齐方式；VAlignAuto 留给启发式决定。
type VAlign int

const (
	VAlignAuto VAlign = iota
	VAlignTop
	VAlignBottom
)

// alignOffset 计算将 width 宽的内容放入 container 时的水平偏移。
func alignOffset(container, width float64, align HAlign) float64 {
	if container <= width {
		return 0
	}
	switch align {
	case HAlignCenter:
		return (container - width) / 2
	case HAlignRight:
		return container - width
	default:
		return 0
	}
}
