package layout

import (
	"strings"
	"testing"

	"github.com/ByLCY/vellum/dsl"
	"github.com/ByLCY/vellum/shape"
)

// stubFonts 固定每字符 2mm，跳过真实字体加载。
type stubFonts struct{}

func (stubFonts) Face(font shape.FontResource, sizeMM float64) (shape.Face, error) {
	return stubFace{}, nil
}

type stubFace struct{}

func (stubFace) TextWidth(s string) float64 { return float64(len([]rune(s))) * 2 }

const demoDoc = `doc demo v1 {
	meta {
		title: "排版示例"
	}
	resources {
		font main {
			family: "Noto Sans"
			src: "fonts/NotoSans.ttf"
		}
	}
	page-set narrow {
		margin: [30mm, 25mm]
		columns: 2
		gutter: 6mm
	}
	page a4 use narrow {
		font: main
		font-size: 10pt
		line-height: 1.5x
		"第一段正文 ${meta.title}"
		vspace 4mm
		"第二段正文^[一条脚注]"
		float column top {
			width: 50%
			height: 20mm
			caption: "图一"
		}
	}
}`

func buildDemo(t *testing.T) *Result {
	t.Helper()
	doc, err := dsl.ParseString(demoDoc)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	res, err := Build(doc, BuildOptions{Fonts: stubFonts{}})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return res
}

func TestBuildDemoDocument(t *testing.T) {
	res := buildDemo(t)

	if res.Meta["title"] != "排版示例" {
		t.Fatalf("meta 收集有误: %v", res.Meta)
	}
	if len(res.Pages) == 0 {
		t.Fatalf("应至少排出一页")
	}

	p := res.Pages[0]
	if p.Size.W != 210 || p.Size.H != 297 {
		t.Fatalf("页面应为 A4: %+v", p.Size)
	}
	// page-set 的两值边距：上下 30、左右 25。
	if p.Margin.Top != 30 || p.Margin.Left != 25 {
		t.Fatalf("page-set 边距未生效: %+v", p.Margin)
	}

	texts := collectTexts(p.Frame)
	joined := strings.Join(texts, "\n")
	if !strings.Contains(joined, "排版示例") {
		t.Fatalf("正文应完成 meta 插值: %v", texts)
	}
	if strings.Contains(joined, "^[") {
		t.Fatalf("行内脚注标记应被抽取: %v", texts)
	}
	if !strings.Contains(joined, "一条脚注") {
		t.Fatalf("脚注内容应出现在页面上: %v", texts)
	}
	if !strings.Contains(joined, "图一") {
		t.Fatalf("浮动块说明应出现在页面上: %v", texts)
	}
}

func TestBuildMissingFont(t *testing.T) {
	src := `doc x v1 {
		page a4 {
			font: ghost
			"text"
		}
	}`
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	if _, err := Build(doc, BuildOptions{Fonts: stubFonts{}}); err == nil {
		t.Fatalf("引用未声明字体应报错")
	}
}

func TestBuildUnknownPreset(t *testing.T) {
	src := `doc x v1 {
		resources {
			font main { src: "a.ttf" }
		}
		page tabloid {
			"text"
		}
	}`
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	if _, err := Build(doc, BuildOptions{Fonts: stubFonts{}}); err == nil ||
		!strings.Contains(err.Error(), "预设") {
		t.Fatalf("未知页面预设应报错，实际 %v", err)
	}
}

func TestResolveMargin(t *testing.T) {
	page := Size{W: 100, H: 200}
	cases := []struct {
		values []string
		want   Margin
	}{
		{[]string{"10mm"}, Margin{10, 10, 10, 10}},
		{[]string{"10mm", "20mm"}, Margin{10, 20, 10, 20}},
		{[]string{"10mm", "20mm", "30mm"}, Margin{10, 20, 30, 20}},
		{[]string{"10mm", "20mm", "30mm", "40mm"}, Margin{10, 20, 30, 40}},
		{[]string{"10%"}, Margin{10, 10, 10, 10}},
	}
	for _, c := range cases {
		got := resolveMargin(c.values, page)
		if got != c.want {
			t.Errorf("resolveMargin(%v) = %+v, 期望 %+v", c.values, got, c.want)
		}
	}
}

func TestExtractNotes(t *testing.T) {
	clean, notes := extractNotes("前文^[注一]中段^[注二]尾部")
	if clean != "前文中段尾部" {
		t.Fatalf("清理后的文本不符: %q", clean)
	}
	if len(notes) != 2 || notes[0].text != "注一" || notes[1].text != "注二" {
		t.Fatalf("脚注抽取不符: %+v", notes)
	}
	if notes[0].offset != len("前文") || notes[1].offset != len("前文中段") {
		t.Fatalf("脚注锚点偏移不符: %+v", notes)
	}

	// 嵌套方括号与不闭合标记。
	clean, notes = extractNotes("a^[n [x] m]b")
	if clean != "ab" || len(notes) != 1 || notes[0].text != "n [x] m" {
		t.Fatalf("嵌套方括号处理有误: %q %+v", clean, notes)
	}
	clean, notes = extractNotes("a^[未闭合")
	if clean != "a^[未闭合" || len(notes) != 0 {
		t.Fatalf("不闭合标记应原样保留: %q", clean)
	}
}
