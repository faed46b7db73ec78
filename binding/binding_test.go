package binding

import "testing"

func sampleData() map[string]interface{} {
	return map[string]interface{}{
		"meta": map[string]interface{}{
			"title": "年报",
			"year":  2026,
		},
		"authors": []interface{}{
			map[string]interface{}{"name": "陈琳"},
			map[string]interface{}{"name": "赵铭"},
		},
		"grid": []interface{}{
			[]interface{}{"a", "b"},
			[]interface{}{"c", "d"},
		},
	}
}

func TestInterpolate(t *testing.T) {
	data := sampleData()
	cases := []struct {
		in, want string
	}{
		{"《${meta.title}》", "《年报》"},
		{"${meta.year} 年度", "2026 年度"},
		{"作者：${authors[1].name}", "作者：赵铭"},
		{"${grid[1][0]}", "c"},
		{"${meta.subtitle:-暂无副标题}", "暂无副标题"},
		{"${meta.title:-备用}", "年报"},
		{"${missing.path}", "${missing.path}"},
		{"无占位符", "无占位符"},
		{"${ meta.title }", "年报"},
	}
	for _, c := range cases {
		if got := Interpolate(c.in, data); got != c.want {
			t.Errorf("Interpolate(%q) = %q, 期望 %q", c.in, got, c.want)
		}
	}
}

func TestInterpolateNilData(t *testing.T) {
	if got := Interpolate("${meta.title}", nil); got != "${meta.title}" {
		t.Fatalf("空数据应原样返回: %q", got)
	}
}

func TestLookup(t *testing.T) {
	data := sampleData()

	if v, ok := Lookup(data, "authors[0].name"); !ok || v != "陈琳" {
		t.Fatalf("路径取值失败: %v %v", v, ok)
	}
	if _, ok := Lookup(data, "authors[5].name"); ok {
		t.Fatalf("越界下标应返回 false")
	}
	if _, ok := Lookup(data, "meta.title.deep"); ok {
		t.Fatalf("穿过标量继续取值应返回 false")
	}
	if _, ok := Lookup(data, "authors[x]"); ok {
		t.Fatalf("非数字下标应返回 false")
	}
}
