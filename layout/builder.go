package layout

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/ByLCY/vellum/binding"
	"github.com/ByLCY/vellum/dsl"
	"github.com/ByLCY/vellum/linebreak"
	"github.com/ByLCY/vellum/shape"
)

// 单个 page 节最多排出的物理页数，防止死循环吃满内存。
const maxPagesPerSection = 1000

// BuildOptions 控制从 DSL 文档到排版结果的转换。
type BuildOptions struct {
	// Fonts 提供文本测量后端，必填。
	Fonts shape.Provider
	// Hyphenate 可选的断词回调。
	Hyphenate linebreak.HyphenFunc
	// Data 绑定到 ${...} 占位符的外部数据。
	Data any
}

// Result 是整篇文档的排版结果。
type Result struct {
	Meta     map[string]string
	Pages    []Page
	Warnings []string
}

// Page 是一个排好的物理页。
type Page struct {
	// Size 含页边距的整页尺寸。
	Size Size
	// Margin 四边页边距。
	Margin Margin
	// Frame 内容区的排版结果，渲染时按 Margin 偏移。
	Frame Frame
}

// Margin 四边距，单位毫米。
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Build 把解析后的 DSL 文档排成页面序列。
func Build(doc *dsl.Document, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("DSL 文档为空")
	}
	if opts.Fonts == nil {
		return nil, fmt.Errorf("缺少字体提供方 Fonts")
	}

	b := &builder{
		opts:     opts,
		eng:      &Engine{},
		fonts:    map[string]shape.FontResource{},
		pageSets: map[string]*dsl.Block{},
		meta:     map[string]string{},
	}

	for _, sec := range doc.Sections {
		switch {
		case sec.Meta != nil:
			b.collectMeta(sec.Meta.Block)
		case sec.Resources != nil:
			b.collectResources(sec.Resources.Block)
		case sec.PageSet != nil:
			b.pageSets[sec.PageSet.Name] = sec.PageSet.Block
		}
	}
	b.bindRoot()

	result := &Result{Meta: b.meta}
	for _, sec := range doc.Sections {
		if sec.Page == nil {
			continue
		}
		pages, err := b.buildPageSection(sec.Page)
		if err != nil {
			return nil, err
		}
		result.Pages = append(result.Pages, pages...)
	}
	result.Warnings = b.eng.Warnings
	return result, nil
}

type builder struct {
	opts     BuildOptions
	eng      *Engine
	fonts    map[string]shape.FontResource
	pageSets map[string]*dsl.Block
	meta     map[string]string
	bindData any
}

func (b *builder) collectMeta(block *dsl.Block) {
	if block == nil {
		return
	}
	for _, st := range block.Statements {
		if st.Assignment != nil {
			b.meta[st.Assignment.Key] = st.Assignment.Value.Text()
		}
	}
}

func (b *builder) collectResources(block *dsl.Block) {
	for _, cmd := range block.Commands("font") {
		name := cmd.Arg(0)
		if name == "" {
			b.eng.Warn("忽略未命名的字体声明")
			continue
		}
		b.fonts[name] = shape.FontResource{
			Name:   name,
			Family: cmd.Block.GetString("family", name),
			Style:  cmd.Block.GetString("style", ""),
			Src:    cmd.Block.GetString("src", ""),
		}
	}
}

// bindRoot 把 meta 并入绑定数据根，支持 ${meta.title} 一类引用。
func (b *builder) bindRoot() {
	root := map[string]interface{}{}
	if m, ok := b.opts.Data.(map[string]interface{}); ok {
		for k, v := range m {
			root[k] = v
		}
	}
	metaAny := map[string]interface{}{}
	for k, v := range b.meta {
		metaAny[k] = v
	}
	root["meta"] = metaAny
	b.bindData = root
}

// pageSettings 汇总一个 page 节的全部排版参数。
type pageSettings struct {
	size    Size
	margin  Margin
	columns int
	gutter  float64
	dir     Dir

	font       shape.FontResource
	fontSize   float64 // mm
	leading    float64 // mm
	noteSize   float64 // mm
	justify    bool
	hyphenate  bool
	strategy   linebreak.Strategy
	lang       language.Tag
	parSpacing float64

	numbering *NumberingConfig
}

// 页面尺寸预设（毫米）。
var pagePresets = map[string]Size{
	"a4":     {W: 210, H: 297},
	"a5":     {W: 148, H: 210},
	"letter": {W: 215.9, H: 279.4},
}

func (b *builder) buildPageSection(sec *dsl.PageSection) ([]Page, error) {
	st, err := b.resolveSettings(sec)
	if err != nil {
		return nil, err
	}

	area := Size{
		W: st.size.W - st.margin.Left - st.margin.Right,
		H: st.size.H - st.margin.Top - st.margin.Bottom,
	}
	if area.W <= 0 || area.H <= 0 {
		return nil, fmt.Errorf("页边距超过页面尺寸 %gx%g", st.size.W, st.size.H)
	}

	blocks, err := b.buildBlocks(sec.Block, st, area)
	if err != nil {
		return nil, err
	}

	conf := NewConfig(area)
	conf.Columns = st.columns
	conf.Gutter = st.gutter
	conf.Dir = st.dir
	conf.Numbering = st.numbering

	work := NewWork(blocks)
	var pages []Page
	for !work.Done() {
		if len(pages) >= maxPagesPerSection {
			return nil, fmt.Errorf("page 节排版超过 %d 页仍未完成", maxPagesPerSection)
		}
		frame, err := Compose(b.eng, work, conf)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{Size: st.size, Margin: st.margin, Frame: frame})
	}
	if len(pages) == 0 {
		// 空 page 节也产出一张空页。
		pages = append(pages, Page{Size: st.size, Margin: st.margin, Frame: Frame{Size: area}})
	}
	return pages, nil
}

// resolveSettings 按 缺省 < page-set < 页内赋值 的顺序合并参数。
func (b *builder) resolveSettings(sec *dsl.PageSection) (*pageSettings, error) {
	st := &pageSettings{
		size:       pagePresets["a4"],
		margin:     Margin{Top: 20, Right: 20, Bottom: 20, Left: 20},
		columns:    1,
		gutter:     5,
		dir:        DirLTR,
		fontSize:   12 * PtToMm,
		justify:    true,
		strategy:   linebreak.StrategyOptimized,
		lang:       language.English,
		parSpacing: 3,
	}

	preset, ok := pagePresets[strings.ToLower(sec.Spec.Size)]
	if !ok {
		return nil, fmt.Errorf("未知页面尺寸预设 %q", sec.Spec.Size)
	}
	st.size = preset

	var useSet string
	for i, p := range sec.Spec.Params {
		switch p.Value {
		case "landscape":
			st.size = Size{W: st.size.H, H: st.size.W}
		case "use":
			if i+1 < len(sec.Spec.Params) {
				useSet = sec.Spec.Params[i+1].Value
			}
		}
	}
	if useSet != "" {
		set, ok := b.pageSets[useSet]
		if !ok {
			return nil, fmt.Errorf("页面引用了未定义的 page-set %q", useSet)
		}
		if err := b.applySettings(st, set); err != nil {
			return nil, err
		}
	}
	if err := b.applySettings(st, sec.Block); err != nil {
		return nil, err
	}

	if st.font.Src == "" {
		if len(b.fonts) == 0 {
			return nil, fmt.Errorf("文档没有声明任何字体资源")
		}
		for _, f := range b.fonts {
			st.font = f
			break
		}
	}
	if st.leading == 0 {
		st.leading = st.fontSize * 1.4
	}
	if st.noteSize == 0 {
		st.noteSize = st.fontSize * 0.8
	}
	return st, nil
}

func (b *builder) applySettings(st *pageSettings, block *dsl.Block) error {
	if block == nil {
		return nil
	}
	for _, s := range block.Statements {
		if s.Assignment == nil {
			continue
		}
		key, val := s.Assignment.Key, s.Assignment.Value
		switch key {
		case "margin":
			st.margin = resolveMargin(val.Strings(), st.size)
		case "columns":
			if n, err := strconv.Atoi(val.Text()); err == nil && n >= 1 {
				st.columns = n
			}
		case "gutter":
			st.gutter = parseLength(val.Text())
		case "dir":
			if val.Text() == "rtl" {
				st.dir = DirRTL
			}
		case "font":
			f, ok := b.fonts[val.Text()]
			if !ok {
				return fmt.Errorf("页面引用了未声明的字体 %q", val.Text())
			}
			st.font = f
		case "font-size":
			st.fontSize = parseLength(val.Text())
		case "line-height":
			st.leading = parseLineHeight(val.Text()).ResolveMM(st.fontSize)
		case "note-size":
			st.noteSize = parseLength(val.Text())
		case "justify":
			st.justify = parseBool(val.Text(), st.justify)
		case "hyphenate":
			st.hyphenate = parseBool(val.Text(), st.hyphenate)
		case "breaker":
			if val.Text() == "simple" {
				st.strategy = linebreak.StrategySimple
			} else {
				st.strategy = linebreak.StrategyOptimized
			}
		case "lang":
			st.lang = language.Make(val.Text())
		case "par-spacing":
			st.parSpacing = parseLength(val.Text())
		case "line-numbers":
			st.numbering = b.numberingConfig(val.Text(), st)
		case "number-margin":
			if st.numbering != nil {
				st.numbering.Margin = parseLength(val.Text())
			}
		}
	}
	return nil
}

func parseBool(v string, def bool) bool {
	switch strings.ToLower(v) {
	case "on", "true", "yes":
		return true
	case "off", "false", "no":
		return false
	}
	return def
}

// resolveMargin 支持 1/2/3/4 个值的边距写法：
// 全部；[上下, 左右]；[上, 左右, 下]；[上, 右, 下, 左]。
func resolveMargin(values []string, page Size) Margin {
	dims := make([]float64, 0, 4)
	for _, v := range values {
		dims = append(dims, parseDimension(v, page.W))
	}
	switch len(dims) {
	case 1:
		return Margin{Top: dims[0], Right: dims[0], Bottom: dims[0], Left: dims[0]}
	case 2:
		return Margin{Top: dims[0], Right: dims[1], Bottom: dims[0], Left: dims[1]}
	case 3:
		return Margin{Top: dims[0], Right: dims[1], Bottom: dims[2], Left: dims[1]}
	case 4:
		return Margin{Top: dims[0], Right: dims[1], Bottom: dims[2], Left: dims[3]}
	default:
		return Margin{Top: 20, Right: 20, Bottom: 20, Left: 20}
	}
}

func (b *builder) numberingConfig(scope string, st *pageSettings) *NumberingConfig {
	nc := &NumberingConfig{Scope: NumberByDocument, Margin: 4}
	if scope == "page" {
		nc.Scope = NumberByPage
	}
	numSize := st.fontSize * 0.75
	font := st.font
	nc.Make = func(eng *Engine, n int) (Frame, error) {
		face, err := b.opts.Fonts.Face(font, numSize)
		if err != nil {
			return Frame{}, fmt.Errorf("行号字体加载失败: %w", err)
		}
		text := strconv.Itoa(n)
		w := face.TextWidth(text)
		fr := Frame{Size: Size{W: w, H: numSize}}
		fr.Push(Point{}, TextItem{Text: text, FontSize: numSize, Width: w})
		return fr, nil
	}
	return nc
}

// buildBlocks 把 page 节里的语句按文档顺序转成正文块。
func (b *builder) buildBlocks(block *dsl.Block, st *pageSettings, area Size) ([]Block, error) {
	var out []Block
	for _, s := range block.Statements {
		switch {
		case s.Text != nil:
			pb, err := b.paragraph(string(s.Text.Value), st)
			if err != nil {
				return nil, err
			}
			out = appendPar(out, pb, st.parSpacing)

		case s.Command != nil:
			blocks, err := b.command(s.Command, st, area)
			if err != nil {
				return nil, err
			}
			out = append(out, blocks...)
		}
	}
	return out, nil
}

// appendPar 在段落前插入弱间距（列顶折叠）。
func appendPar(out []Block, pb *ParBlock, spacing float64) []Block {
	if len(out) > 0 && spacing > 0 {
		out = append(out, &VSpaceBlock{H: spacing, Weak: true})
	}
	return append(out, pb)
}

func (b *builder) command(cmd *dsl.Command, st *pageSettings, area Size) ([]Block, error) {
	switch cmd.Name {
	case "par":
		text := cmd.Arg(0)
		local := *st
		if cmd.Block != nil {
			if t := cmd.Block.GetString("text", ""); t != "" {
				text = t
			}
			if err := b.applySettings(&local, cmd.Block); err != nil {
				return nil, err
			}
		}
		pb, err := b.paragraph(text, &local)
		if err != nil {
			return nil, err
		}
		return []Block{&VSpaceBlock{H: st.parSpacing, Weak: true}, pb}, nil

	case "vspace":
		return []Block{&VSpaceBlock{
			H:    parseLength(cmd.Arg(0)),
			Weak: cmd.HasArg("weak"),
		}}, nil

	case "float":
		child, err := b.float(cmd, st, area)
		if err != nil {
			return nil, err
		}
		return []Block{child}, nil

	case "box":
		child, err := b.box(cmd, st, area)
		if err != nil {
			return nil, err
		}
		return []Block{child}, nil

	default:
		b.eng.Warn(fmt.Sprintf("忽略未知命令 %q（%s）", cmd.Name, cmd.Pos))
		return nil, nil
	}
}

// paragraph 构造一个段落块：插值、抽取行内脚注、测量。
func (b *builder) paragraph(raw string, st *pageSettings) (*ParBlock, error) {
	text := binding.Interpolate(raw, b.bindData)
	clean, inline := extractNotes(text)

	par, err := b.prepare(clean, st, st.fontSize, st.justify)
	if err != nil {
		return nil, err
	}

	var anchors []NoteAnchor
	for _, nt := range inline {
		note, err := b.footnote(nt.text, st)
		if err != nil {
			return nil, err
		}
		anchors = append(anchors, NoteAnchor{Offset: nt.offset, Note: note})
	}

	return &ParBlock{Par: par, Leading: st.leading, Notes: anchors}, nil
}

func (b *builder) prepare(text string, st *pageSettings, size float64, justify bool) (*linebreak.Paragraph, error) {
	face, err := b.opts.Fonts.Face(st.font, size)
	if err != nil {
		return nil, fmt.Errorf("字体 %s 加载失败: %w", st.font.Name, err)
	}
	spec := linebreak.ParagraphSpec{
		Text:     text,
		Justify:  justify,
		Strategy: st.strategy,
		Lang:     st.lang,
		Size:     size,
	}
	if st.hyphenate {
		spec.Hyphenate = b.opts.Hyphenate
	}
	return linebreak.Prepare(spec, face)
}

// footnote 构造一条脚注，分配稳定位置标识。
func (b *builder) footnote(text string, st *pageSettings) (*Footnote, error) {
	par, err := b.prepare(text, st, st.noteSize, false)
	if err != nil {
		return nil, err
	}
	return &Footnote{
		Content: &TextContent{Par: par, Leading: st.noteSize * 1.3},
		Loc:     b.eng.Locator.Next(),
	}, nil
}

func (b *builder) float(cmd *dsl.Command, st *pageSettings, area Size) (*PlacedChild, error) {
	scope := ScopeColumn
	if cmd.HasArg("page") {
		scope = ScopeParent
	}
	valign := VAlignAuto
	switch {
	case cmd.HasArg("top"):
		valign = VAlignTop
	case cmd.HasArg("bottom"):
		valign = VAlignBottom
	}

	baseW := area.W
	if scope == ScopeColumn && st.columns > 1 {
		baseW = (area.W - st.gutter*float64(st.columns-1)) / float64(st.columns)
	}
	w := baseW
	h := 30.0
	clearance := 4.0
	var caption string
	if cmd.Block != nil {
		if v := cmd.Block.GetString("width", ""); v != "" {
			w = parseDimension(v, baseW)
		}
		if v := cmd.Block.GetString("height", ""); v != "" {
			h = parseLength(v)
		}
		if v := cmd.Block.GetString("clearance", ""); v != "" {
			clearance = parseLength(v)
		}
		caption = cmd.Block.GetString("caption", "")
	}

	content, err := b.floatContent(w, h, caption, st)
	if err != nil {
		return nil, err
	}
	return &PlacedChild{
		Content:   content,
		Scope:     scope,
		Float:     true,
		AlignH:    HAlignCenter,
		AlignV:    valign,
		Clearance: clearance,
		Loc:       b.eng.Locator.Next(),
	}, nil
}

func (b *builder) floatContent(w, h float64, caption string, st *pageSettings) (Layoutable, error) {
	box := &BoxContent{Size: Size{W: w, H: h}}
	if caption == "" {
		return box, nil
	}
	text := binding.Interpolate(caption, b.bindData)
	clean, inline := extractNotes(text)
	par, err := b.prepare(clean, st, st.noteSize, false)
	if err != nil {
		return nil, err
	}
	capt := &TextContent{Par: par, Leading: st.noteSize * 1.3}
	for _, nt := range inline {
		note, err := b.footnote(nt.text, st)
		if err != nil {
			return nil, err
		}
		capt.Notes = append(capt.Notes, NoteAnchor{Offset: nt.offset, Note: note})
	}
	return &StackContent{Items: []Layoutable{box, capt}, Gap: 1.5}, nil
}

func (b *builder) box(cmd *dsl.Command, st *pageSettings, area Size) (*PlacedChild, error) {
	w, h := area.W/2, 20.0
	align := HAlignLeft
	if cmd.Block != nil {
		if v := cmd.Block.GetString("width", ""); v != "" {
			w = parseDimension(v, area.W)
		}
		if v := cmd.Block.GetString("height", ""); v != "" {
			h = parseLength(v)
		}
		switch cmd.Block.GetString("align", "") {
		case "center":
			align = HAlignCenter
		case "right":
			align = HAlignRight
		}
	}
	return &PlacedChild{
		Content: &BoxContent{Size: Size{W: w, H: h}},
		AlignH:  align,
		Loc:     b.eng.Locator.Next(),
	}, nil
}

type inlineNote struct {
	offset int
	text   string
}

// extractNotes 抽取文本中 ^[...] 形式的行内脚注，
// 返回去掉标记后的文本与各脚注在其中的字节锚点。
func extractNotes(text string) (string, []inlineNote) {
	var notes []inlineNote
	var sb strings.Builder
	i := 0
	for i < len(text) {
		j := strings.Index(text[i:], "^[")
		if j < 0 {
			sb.WriteString(text[i:])
			break
		}
		sb.WriteString(text[i : i+j])
		rest := text[i+j+2:]
		depth := 1
		end := -1
		for k := 0; k < len(rest) && end < 0; k++ {
			switch rest[k] {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					end = k
				}
			}
		}
		if end < 0 {
			// 不闭合的标记按原文保留。
			sb.WriteString(text[i+j:])
			break
		}
		notes = append(notes, inlineNote{offset: sb.Len(), text: rest[:end]})
		i = i + j + 2 + end + 1
	}
	return sb.String(), notes
}
