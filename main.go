package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/vellum/dsl"
	"github.com/ByLCY/vellum/layout"
	canvasshape "github.com/ByLCY/vellum/shape/canvas"
)

func main() {
	input := flag.String("in", "examples/demo.vellum", "DSL 文件路径")
	debug := flag.String("debug", "output/layout.json", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	if err := run(*input, *debug, inputData); err != nil {
		log.Fatalf("排版失败: %v", err)
	}
}

// run 串联解析、排版与调试输出。
func run(inputPath, debugPath string, data any) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	shaper := canvasshape.New(filepath.Dir(inputPath))
	result, err := layout.Build(doc, layout.BuildOptions{
		Fonts: shaper,
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("排版计算失败: %w", err)
	}
	for _, w := range result.Warnings {
		log.Printf("警告: %s", w)
	}

	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(result, debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	fmt.Printf("已排出 %d 页\n", len(result.Pages))
	return nil
}
