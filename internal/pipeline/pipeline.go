package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hanzitools/guifan/internal/document"
	"github.com/hanzitools/guifan/internal/domain"
	"github.com/hanzitools/guifan/internal/engine"
)

// Options 一次批处理运行的参数
// Converter 已绑定构建完成的方案，方案级错误在进入这里之前就已致命
type Options struct {
	Converter *engine.Converter
	Input     string          // 输入文件或目录
	Output    string          // 输出文件或目录
	Workers   int             // 并发处理的文件数上限
	Bridge    document.Bridge // DOC 桥接器，可为 nil
}

// Run 执行一次批处理
// 单个文件的失败只记入报表，从不中止整个运行；
// ctx 取消后不再派发新文件，在处理中的文件完成后收尾
func Run(ctx context.Context, opts Options) (*Report, error) {
	files, outputs, err := resolveFiles(opts.Input, opts.Output)
	if err != nil {
		return nil, err
	}
	log.Printf("找到 %d 个待处理文件", len(files))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan int)
	results := make(chan domain.FileResult, len(files))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- ProcessFile(ctx, opts, files[i], outputs[i])
			}
		}()
	}

dispatch:
	for i := range files {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	report := &Report{Scheme: opts.Converter.Scheme().Name}
	for r := range results {
		report.Results = append(report.Results, r)
	}
	// 完成顺序不定，报表按输入路径排序保持稳定输出
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Path < report.Results[j].Path
	})
	return report, nil
}

// ProcessFile 处理单个文件：提取、逐段转换、写回、输出
func ProcessFile(ctx context.Context, opts Options, inputPath, outputPath string) domain.FileResult {
	result := domain.FileResult{Path: inputPath, Output: outputPath}

	doc, format, err := document.Open(ctx, inputPath, document.OpenOptions{
		JoinRuns: opts.Converter.Scheme().JoinRuns,
		Bridge:   opts.Bridge,
	})
	result.Format = format
	if err != nil {
		result.Err = err
		return result
	}

	segments := doc.Extract()
	converted := make([]string, len(segments))
	for i, seg := range segments {
		text, count := opts.Converter.ConvertSegment(seg.Text)
		converted[i] = text
		result.Substitutions += count
	}

	if err := doc.Rewrite(converted); err != nil {
		result.Err = &domain.DocumentWriteError{Path: outputPath, Err: err}
		return result
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		result.Err = &domain.DocumentWriteError{Path: outputPath, Err: err}
		return result
	}
	if err := doc.WriteTo(outputPath); err != nil {
		result.Err = err
		return result
	}

	log.Printf("处理完成: %s -> %s (%d 处替换)", inputPath, outputPath, result.Substitutions)
	return result
}

// IsSupported 判断路径是否是受支持的输入文件
// ~$ 开头的 Office 临时文件被排除
func IsSupported(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "~$") {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".docx", ".doc":
		return true
	default:
		return false
	}
}

// resolveFiles 展开输入并为每个文件确定输出路径
func resolveFiles(input, output string) (files, outputs []string, err error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, nil, fmt.Errorf("读取输入路径失败: %w", err)
	}

	if !info.IsDir() {
		out := output
		if st, err := os.Stat(output); err == nil && st.IsDir() {
			out = filepath.Join(output, filepath.Base(input))
		}
		return []string{input}, []string{out}, nil
	}

	// 目录输入：递归收集受支持的文件，输出保持相对目录结构
	err = filepath.Walk(input, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() || !IsSupported(path) {
			return nil
		}
		rel, err := filepath.Rel(input, path)
		if err != nil {
			return err
		}
		files = append(files, path)
		outputs = append(outputs, filepath.Join(output, rel))
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("遍历输入目录失败: %w", err)
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("在目录 %s 中没有找到受支持的文件", input)
	}
	return files, outputs, nil
}
