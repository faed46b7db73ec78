package layout

import "errors"

// 布局过程中的控制流通过 error 传递：
// Relayout 要求某个范围重算，MigrateHost 要求宿主块整体搬到下一列。
// 它们不是失败，调用方用 errors.As 识别并按协议处理。

// Scope 标记需要重新布局的范围。
type Scope int

const (
	// ScopeColumn 只重算当前列。
	ScopeColumn Scope = iota
	// ScopeParent 重算整页（包括页级插入区）。
	ScopeParent
)

func (s Scope) String() string {
	if s == ScopeParent {
		return "parent"
	}
	return "column"
}

// Relayout 表示插入区状态发生了变化，指定范围需要重新布局。
type Relayout struct {
	Scope Scope
}

func (r Relayout) Error() string {
	return "需要重新布局：" + r.Scope.String()
}

// MigrateHost 表示当前块应整体迁移到下一列再尝试。
type MigrateHost struct{}

func (MigrateHost) Error() string {
	return "宿主块需要迁移到下一列"
}

// AsRelayout 提取 err 中的 Relayout 信号。
func AsRelayout(err error) (Relayout, bool) {
	var r Relayout
	ok := errors.As(err, &r)
	return r, ok
}

// IsMigrateHost 报告 err 是否为迁移信号。
func IsMigrateHost(err error) bool {
	var m MigrateHost
	return errors.As(err, &m)
}

// combineRelayout 合并两个重布局需求，取更大的范围。
func combineRelayout(a, b *Relayout) *Relayout {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.Scope == ScopeParent {
		return b
	}
	return a
}
