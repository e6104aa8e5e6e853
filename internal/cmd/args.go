package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	AppName    = "guifan"
	AppVersion = "1.1.0"
)

// CommandLineArgs convert 子命令的命令行参数
type CommandLineArgs struct {
	Scheme      string
	Input       string
	Output      string
	KeepSimp    bool // 保留混杂的简体字，不启用清理表
	JoinRuns    bool // DOCX 使用合并视图策略
	Watch       bool // 批处理后继续监听输入目录
	Verbose     bool
	ShowVersion bool
	ShowHelp    bool
}

// ParseConvertArgs 解析 convert 子命令的参数
func ParseConvertArgs(argv []string) (*CommandLineArgs, error) {
	args := &CommandLineArgs{}

	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.StringVar(&args.Scheme, "scheme", "t2gov", "转换方案名")
	fs.StringVar(&args.Input, "input", "", "输入文件或目录路径")
	fs.StringVar(&args.Output, "output", "", "输出文件或目录路径")
	fs.BoolVar(&args.KeepSimp, "keep-simp", false, "保留混杂的简体字，不做简转繁清理")
	fs.BoolVar(&args.JoinRuns, "join-runs", false, "合并格式相同的相邻 run 后再匹配词组")
	fs.BoolVar(&args.Watch, "watch", false, "批处理完成后继续监听输入目录")
	fs.BoolVar(&args.Verbose, "verbose", false, "详细输出")
	fs.BoolVar(&args.ShowVersion, "version", false, "显示版本信息")
	fs.BoolVar(&args.ShowHelp, "help", false, "显示帮助信息")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	return args, nil
}

// ValidateArgs 验证命令行参数
func ValidateArgs(args *CommandLineArgs) error {
	if args.Scheme == "" {
		return fmt.Errorf("方案名不能为空")
	}
	if args.Input == "" {
		return fmt.Errorf("必须指定输入文件或目录")
	}

	info, err := os.Stat(args.Input)
	if err != nil {
		return fmt.Errorf("输入路径无效: %w", err)
	}

	if args.Watch && !info.IsDir() {
		return fmt.Errorf("监听模式要求输入是目录")
	}

	if args.Output == "" {
		// 自动生成输出路径
		if info.IsDir() {
			args.Output = args.Input + "_converted"
		} else {
			args.Output = GenerateOutputFileName(args.Input)
		}
	}

	return nil
}

// GenerateOutputFileName 为单文件输入生成输出文件名
func GenerateOutputFileName(inputFile string) string {
	ext := filepath.Ext(inputFile)
	base := strings.TrimSuffix(inputFile, ext)
	return base + "_converted" + ext
}

// ShowUsage 打印帮助信息
func ShowUsage() {
	fmt.Printf(`%s v%s - 繁体字形规范化工具

将港台、混合或旧字形的繁体文本转换为《通用规范汉字表》规范繁体字形，
支持 txt、docx、doc 输入，转换时不改动文档格式。

用法:
  %s convert --scheme <方案名> --input <文件|目录> --output <文件|目录> [选项]

选项:
  --scheme     转换方案名 (默认 t2gov)
  --input      输入文件或目录
  --output     输出文件或目录 (默认在输入名后加 _converted)
  --keep-simp  保留混杂的简体字，不做简转繁清理
  --join-runs  合并格式相同的相邻 run 后再匹配词组
  --watch      批处理完成后继续监听输入目录
  --verbose    详细输出
  --version    显示版本信息
  --help       显示帮助信息

退出码:
  0  全部文件处理成功
  1  一个或多个文件处理失败（报表已打印）
  2  启动失败（参数错误或方案/字典加载失败），未处理任何文件
`, AppName, AppVersion, AppName)
}
