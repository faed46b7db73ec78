package layout

// Config 是排版一页所需的不变配置。
type Config struct {
	// Area 页面内容区尺寸（页边距已由上层扣除）。
	Area Size
	// Columns 列数，至少为 1。
	Columns int
	// Gutter 列间距。
	Gutter float64
	// Dir 列的排列方向。
	Dir Dir
	// Footnotes 是否在本层处理脚注（仅文档流根层为真）。
	Footnotes bool
	// Numbering 非空时启用行号叠加。
	Numbering *NumberingConfig
	// Distributor 正文分发器。
	Distributor Distributor
}

// NewConfig 返回带合理缺省值的配置。
func NewConfig(area Size) *Config {
	return &Config{
		Area:        area,
		Columns:     1,
		Gutter:      5,
		Dir:         DirLTR,
		Footnotes:   true,
		Distributor: BlockDistributor{},
	}
}
