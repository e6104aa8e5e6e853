package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hanzitools/guifan/internal/cmd"
)

func main() {
	argv := os.Args[1:]

	// 裸调用或顶层 --help/--version
	if len(argv) == 0 {
		cmd.ShowUsage()
		os.Exit(cmd.ExitSchemeFatal)
	}
	switch argv[0] {
	case "--version", "-version":
		fmt.Printf("%s v%s\n", cmd.AppName, cmd.AppVersion)
		return
	case "--help", "-help", "help":
		cmd.ShowUsage()
		return
	case "convert":
		argv = argv[1:]
	default:
		fmt.Fprintf(os.Stderr, "未知子命令: %s\n\n", argv[0])
		cmd.ShowUsage()
		os.Exit(cmd.ExitSchemeFatal)
	}

	args, err := cmd.ParseConvertArgs(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数解析失败: %v\n请运行 %s --help 查看用法\n", err, cmd.AppName)
		os.Exit(cmd.ExitSchemeFatal)
	}

	if args.ShowVersion {
		fmt.Printf("%s v%s\n", cmd.AppName, cmd.AppVersion)
		return
	}
	if args.ShowHelp {
		cmd.ShowUsage()
		return
	}

	// 设置日志级别
	if args.Verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	log.Printf("启动 %s v%s", cmd.AppName, cmd.AppVersion)

	if err := cmd.ValidateArgs(args); err != nil {
		log.Printf("参数验证失败: %v", err)
		os.Exit(cmd.ExitSchemeFatal)
	}

	// Ctrl+C 触发批级中止：不再派发新文件，处理中的文件收尾
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(cmd.Run(ctx, args))
}
