package layout

// Regions 描述一段内容可以依次流入的区域序列：
// Size 是当前区域的剩余尺寸，Backlog 是后续区域的高度，
// Last 非空时表示末尾有无限多个该高度的区域可用。
type Regions struct {
	// Size 当前区域的可用尺寸（宽 x 剩余高）。
	Size Size
	// Full 当前区域未被占用时的完整高度。
	Full float64
	// Backlog 后续各区域的高度。
	Backlog []float64
	// Last 若非空，Backlog 之后还有无限个该高度的区域。
	Last *float64
	// ExpandX/ExpandY 指示产出的 Frame 是否应撑满对应方向。
	ExpandX bool
	ExpandY bool
}

// NewRegions 构造只有单个区域的序列。
func NewRegions(size Size) Regions {
	return Regions{Size: size, Full: size.H}
}

// MayProgress 报告换到下一个区域是否可能带来更多空间。
// 当前区域已是最后一个、且没有 Last 兜底时返回 false。
func (r Regions) MayProgress() bool {
	return len(r.Backlog) > 0 || r.Last != nil
}

// MayBreak 报告是否存在下一个区域可以断到。
func (r Regions) MayBreak() bool {
	return r.MayProgress()
}

// InLast 报告当前区域是否已经处于 Last 循环中（再换区域尺寸不变）。
func (r Regions) InLast() bool {
	return len(r.Backlog) == 0 && r.Last != nil && *r.Last == r.Full
}

// Next 前进到下一个区域。没有下一个区域时保持不变并返回 false。
func (r *Regions) Next() bool {
	switch {
	case len(r.Backlog) > 0:
		h := r.Backlog[0]
		r.Backlog = r.Backlog[1:]
		r.Size.H = h
		r.Full = h
	case r.Last != nil:
		r.Size.H = *r.Last
		r.Full = *r.Last
	default:
		return false
	}
	return true
}

// Shrunk 返回当前区域高度缩减 amount 后的副本，后续区域不受影响。
func (r Regions) Shrunk(amount float64) Regions {
	out := r
	out.Size.H -= amount
	return out
}

// WithHeight 返回把当前区域高度替换为 h 的副本。
func (r Regions) WithHeight(h float64) Regions {
	out := r
	out.Size.H = h
	out.Full = h
	return out
}

// Base 返回用于解析相对尺寸的基准：当前区域的完整尺寸。
func (r Regions) Base() Size {
	return Size{W: r.Size.W, H: r.Full}
}

// Fits 报告高度为 h 的内容能否放进当前区域（带少量浮点容差）。
func (r Regions) Fits(h float64) bool {
	return h <= r.Size.H+sizeEps
}

// sizeEps 吸收毫米级运算中的浮点误差。
const sizeEps = 1e-6
