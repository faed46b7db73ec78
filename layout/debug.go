package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将排版结果输出为 JSON，便于调试或可视化。
// Frame 元素带上类型标签，嵌套 Frame 递归展开。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	doc := debugDoc{Meta: res.Meta, Warnings: res.Warnings}
	for _, p := range res.Pages {
		doc.Pages = append(doc.Pages, debugPage{
			Width:  p.Size.W,
			Height: p.Size.H,
			Margin: [4]float64{p.Margin.Top, p.Margin.Right, p.Margin.Bottom, p.Margin.Left},
			Frame:  debugFrame(p.Frame),
		})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

type debugDoc struct {
	Meta     map[string]string `json:"meta,omitempty"`
	Pages    []debugPage       `json:"pages"`
	Warnings []string          `json:"warnings,omitempty"`
}

type debugPage struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Margin [4]float64   `json:"margin"`
	Frame  debugFrameTo `json:"frame"`
}

type debugFrameTo struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Items  []debugItem `json:"items,omitempty"`
}

type debugItem struct {
	Kind      string        `json:"kind"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Text      string        `json:"text,omitempty"`
	FontSize  float64       `json:"fontSize,omitempty"`
	Width     float64       `json:"width,omitempty"`
	Justified bool          `json:"justified,omitempty"`
	Frame     *debugFrameTo `json:"frame,omitempty"`
}

func debugFrame(f Frame) debugFrameTo {
	out := debugFrameTo{Width: f.Size.W, Height: f.Size.H}
	for _, it := range f.Items {
		di := debugItem{X: it.Pos.X, Y: it.Pos.Y}
		switch c := it.Content.(type) {
		case TextItem:
			di.Kind = "text"
			di.Text = c.Text
			di.FontSize = c.FontSize
			di.Width = c.Width
			di.Justified = c.Justified
		case RuleItem:
			di.Kind = "rule"
			di.Width = c.Width
		case FrameMarker:
			if c.Note != nil {
				di.Kind = "footnote-marker"
			} else {
				di.Kind = "line-marker"
			}
		case SubFrame:
			di.Kind = "frame"
			sub := debugFrame(c.Frame)
			di.Frame = &sub
		default:
			di.Kind = "unknown"
		}
		out.Items = append(out.Items, di)
	}
	return out
}
