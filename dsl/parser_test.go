package dsl

import (
	"strings"
	"testing"
)

const sampleDoc = `doc sample v1 {
	// front matter
	meta {
		title: "A Study"
		author: "L. Chen"
	}
	resources {
		font serif {
			family: "Source Serif"
			src: "fonts/serif.ttf"
		}
	}
	page-set wide {
		margin: [15mm, 20mm, 15mm, 20mm]
		columns: 2
	}
	page a4 landscape use wide {
		font: serif
		font-size: 11pt
		"Opening paragraph."
		vspace 6mm weak
		float page bottom {
			width: 80%
			caption: "Figure 1"
		}
	}
}`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(sampleDoc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc
}

func TestParseSections(t *testing.T) {
	doc := parseSample(t)
	if doc.Name != "sample" || doc.Version != "v1" {
		t.Fatalf("doc header = %q %q", doc.Name, doc.Version)
	}

	kinds := make([]string, 0, len(doc.Sections))
	for _, sec := range doc.Sections {
		kinds = append(kinds, sec.Kind())
	}
	want := "meta resources page-set page"
	if got := strings.Join(kinds, " "); got != want {
		t.Fatalf("section kinds = %q, want %q", got, want)
	}
}

func TestParseMetaAssignments(t *testing.T) {
	doc := parseSample(t)
	block := doc.Sections[0].Meta.Block
	if got := block.GetString("title", ""); got != "A Study" {
		t.Fatalf("title = %q", got)
	}
	if got := block.GetString("missing", "fallback"); got != "fallback" {
		t.Fatalf("default lookup = %q", got)
	}
	if v := block.Get("nope"); v != nil {
		t.Fatalf("Get for absent key should be nil, got %+v", v)
	}
}

func TestParseResourcesCommands(t *testing.T) {
	doc := parseSample(t)
	fonts := doc.Sections[1].Resources.Block.Commands("font")
	if len(fonts) != 1 {
		t.Fatalf("font commands = %d", len(fonts))
	}
	cmd := fonts[0]
	if cmd.Arg(0) != "serif" || cmd.Arg(5) != "" {
		t.Fatalf("args = %q %q", cmd.Arg(0), cmd.Arg(5))
	}
	if got := cmd.Block.GetString("family", ""); got != "Source Serif" {
		t.Fatalf("family = %q", got)
	}
}

func TestParsePageSetArray(t *testing.T) {
	doc := parseSample(t)
	set := doc.Sections[2].PageSet
	if set.Name != "wide" {
		t.Fatalf("page-set name = %q", set.Name)
	}
	margin := set.Block.Get("margin").Strings()
	if len(margin) != 4 || margin[0] != "15mm" || margin[3] != "20mm" {
		t.Fatalf("margin values = %v", margin)
	}
	// Strings on a scalar wraps it in a one-element slice.
	if cols := set.Block.Get("columns").Strings(); len(cols) != 1 || cols[0] != "2" {
		t.Fatalf("columns values = %v", cols)
	}
}

func TestParsePageSpec(t *testing.T) {
	doc := parseSample(t)
	page := doc.Sections[3].Page
	if page.Spec.Size != "a4" {
		t.Fatalf("size preset = %q", page.Spec.Size)
	}
	params := make([]string, 0, len(page.Spec.Params))
	for _, p := range page.Spec.Params {
		params = append(params, p.Value)
	}
	if got := strings.Join(params, " "); got != "landscape use wide" {
		t.Fatalf("spec params = %q", got)
	}
}

func TestParsePageStatements(t *testing.T) {
	doc := parseSample(t)
	block := doc.Sections[3].Page.Block

	var texts, commands []string
	for _, st := range block.Statements {
		switch {
		case st.Text != nil:
			texts = append(texts, string(st.Text.Value))
		case st.Command != nil:
			commands = append(commands, st.Command.Name)
		}
	}
	if len(texts) != 1 || texts[0] != "Opening paragraph." {
		t.Fatalf("text statements = %v", texts)
	}
	if got := strings.Join(commands, " "); got != "vspace float" {
		t.Fatalf("commands = %q", got)
	}

	vspace := block.Commands("vspace")[0]
	if vspace.Arg(0) != "6mm" || !vspace.HasArg("weak") {
		t.Fatalf("vspace args = %v", vspace.Args)
	}

	float := block.Commands("float")[0]
	if !float.HasArg("page") || !float.HasArg("bottom") || float.HasArg("top") {
		t.Fatalf("float args = %v", float.Args)
	}
	if got := float.Block.GetString("width", ""); got != "80%" {
		t.Fatalf("float width = %q", got)
	}
}

func TestParseValueText(t *testing.T) {
	src := `doc x v1 {
		meta {
			count: 3
			size: 12pt
			name: unquoted-ident
		}
	}`
	doc, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	block := doc.Sections[0].Meta.Block
	for key, want := range map[string]string{
		"count": "3",
		"size":  "12pt",
		"name":  "unquoted-ident",
	} {
		if got := block.GetString(key, ""); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		`page a4 {}`,          // missing doc header
		`doc x v1 { page a4 `, // unterminated block
		`doc x { }`,           // missing version
	}
	for _, src := range cases {
		if _, err := ParseString(src); err == nil {
			t.Errorf("expected parse error for %q", src)
		}
	}
}
