package cmd

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hanzitools/guifan/internal/config"
	"github.com/hanzitools/guifan/internal/dict"
	"github.com/hanzitools/guifan/internal/document"
	"github.com/hanzitools/guifan/internal/engine"
	"github.com/hanzitools/guifan/internal/pipeline"
	"github.com/hanzitools/guifan/internal/watch"
)

// 进程退出码
const (
	ExitOK          = 0 // 全部文件处理成功
	ExitFileErrors  = 1 // 一个或多个文件处理失败
	ExitSchemeFatal = 2 // 启动失败：参数错误或方案/字典加载失败，未处理任何文件
)

// Run 执行 convert 子命令，返回进程退出码
// 方案构建失败在任何文件被处理前中止：部分构建的方案会
// 悄悄漏转，宁可整体失败
func Run(ctx context.Context, args *CommandLineArgs) int {
	settings := config.LoadSettings()

	configManager := config.NewConfigManager()
	cfg, err := configManager.LoadConfig(settings.SchemesPath)
	if err != nil {
		log.Printf("致命: 加载方案注册表失败: %v", err)
		return ExitSchemeFatal
	}

	schemeCfg, err := configManager.FindScheme(cfg, args.Scheme)
	if err != nil {
		log.Printf("致命: %v", err)
		return ExitSchemeFatal
	}

	// 命令行开关覆盖方案声明中的对应标志
	resolved := *schemeCfg
	if args.KeepSimp {
		resolved.KeepMixedScript = true
	}
	if args.JoinRuns {
		resolved.JoinRuns = true
	}

	scheme, err := dict.Build(resolved, settings.DictDir)
	if err != nil {
		log.Printf("致命: 构建方案失败: %v", err)
		return ExitSchemeFatal
	}
	log.Printf("方案 %s 构建完成 (最长词组 %d 字, 保留简体=%v, 合并视图=%v)",
		scheme.Name, scheme.MaxPhraseLen(), scheme.KeepMixedScript, scheme.JoinRuns)

	// 仅在输入含有 DOC 文件时才启动桥接器
	var bridge document.Bridge
	if inputHasLegacyDoc(args.Input) {
		b, err := document.NewSofficeBridge(settings.SofficePath)
		if err != nil {
			// 桥接器缺席只影响 DOC 文件，逐文件失败会记入报表
			log.Printf("警告: 启动 DOC 桥接器失败: %v", err)
		} else {
			bridge = b
			defer b.Close()
		}
	}

	opts := pipeline.Options{
		Converter: engine.NewConverter(scheme),
		Input:     args.Input,
		Output:    args.Output,
		Workers:   settings.Workers,
		Bridge:    bridge,
	}

	report, err := pipeline.Run(ctx, opts)
	if err != nil {
		log.Printf("批处理失败: %v", err)
		return ExitFileErrors
	}
	report.Print(os.Stdout)

	if args.Watch {
		if code := runWatch(ctx, opts); code != ExitOK {
			return code
		}
	}

	if report.Failed() > 0 {
		return ExitFileErrors
	}
	return ExitOK
}

// runWatch 批处理之后进入监听模式，直到 ctx 取消
func runWatch(ctx context.Context, opts pipeline.Options) int {
	if err := os.MkdirAll(opts.Output, 0755); err != nil {
		log.Printf("错误: 创建输出目录失败: %v", err)
		return ExitFileErrors
	}
	store, err := watch.NewSQLiteStore(filepath.Join(opts.Output, ".guifan.db"))
	if err != nil {
		log.Printf("错误: 打开台账失败: %v", err)
		return ExitFileErrors
	}
	defer store.Close()

	watcher := watch.NewWatcher(opts, store)
	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		log.Printf("错误: 监听循环退出: %v", err)
		return ExitFileErrors
	}
	return ExitOK
}

// inputHasLegacyDoc 判断输入中是否存在 .doc 文件
func inputHasLegacyDoc(input string) bool {
	info, err := os.Stat(input)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return strings.ToLower(filepath.Ext(input)) == ".doc"
	}
	found := false
	filepath.Walk(input, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !fi.IsDir() && strings.ToLower(filepath.Ext(path)) == ".doc" {
			found = true
		}
		return nil
	})
	return found
}
