package layout

import "testing"

func TestParseLengthStr(t *testing.T) {
	cases := []struct {
		in     string
		wantMM float64
	}{
		{"10mm", 10},
		{"1.5cm", 15},
		{"1in", 25.4},
		{"72pt", 72 * PtToMm},
		{" 12 ", 12},
		{"", 0},
		{"abc", 0},
	}
	for _, c := range cases {
		if got := ParseLengthStr(c.in).ToMM(); !almostEqual(got, c.wantMM) {
			t.Errorf("ParseLengthStr(%q).ToMM() = %g, 期望 %g", c.in, got, c.wantMM)
		}
	}
}

func TestLengthToPT(t *testing.T) {
	if got := ParseLengthStr("12pt").ToPT(); !almostEqual(got, 12) {
		t.Fatalf("pt 值应原样返回: %g", got)
	}
	if got := (Length{Value: 10, Unit: UnitMM}).ToPT(); !almostEqual(got, 10*MmToPt) {
		t.Fatalf("mm 转 pt 不符: %g", got)
	}
}

func TestParseDimension(t *testing.T) {
	if got := parseDimension("50%", 80); !almostEqual(got, 40) {
		t.Fatalf("百分比应相对参考值: %g", got)
	}
	if got := parseDimension("25mm", 80); !almostEqual(got, 25) {
		t.Fatalf("普通长度不受参考值影响: %g", got)
	}
	if got := parseDimension("", 80); got != 0 {
		t.Fatalf("空值应为 0: %g", got)
	}
	if got := parseDimension("x%", 80); got != 0 {
		t.Fatalf("坏的百分比应为 0: %g", got)
	}
}

func TestParseLineHeight(t *testing.T) {
	if got := parseLineHeight("1.5x").ResolveMM(10); !almostEqual(got, 15) {
		t.Fatalf("倍数行高不符: %g", got)
	}
	if got := parseLineHeight("6mm").ResolveMM(10); !almostEqual(got, 6) {
		t.Fatalf("绝对行高不符: %g", got)
	}
	// 无法解析时落回 1.4 倍。
	if got := parseLineHeight("??").ResolveMM(10); !almostEqual(got, 14) {
		t.Fatalf("缺省行高不符: %g", got)
	}
	if got := (LineHeightSpec{}).ResolveMM(10); !almostEqual(got, 14) {
		t.Fatalf("零值行高不符: %g", got)
	}
}
