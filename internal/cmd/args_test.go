package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConvertArgs(t *testing.T) {
	args, err := ParseConvertArgs([]string{
		"--scheme", "t2gov-hk",
		"--input", "in.txt",
		"--output", "out.txt",
		"--keep-simp",
		"--join-runs",
		"--verbose",
	})
	if err != nil {
		t.Fatalf("ParseConvertArgs 失败: %v", err)
	}
	if args.Scheme != "t2gov-hk" || args.Input != "in.txt" || args.Output != "out.txt" {
		t.Errorf("参数解析结果不符: %+v", args)
	}
	if !args.KeepSimp || !args.JoinRuns || !args.Verbose {
		t.Errorf("布尔开关未生效: %+v", args)
	}
	if args.Watch || args.ShowVersion || args.ShowHelp {
		t.Errorf("未指定的开关应保持关闭: %+v", args)
	}
}

func TestParseConvertArgsDefaults(t *testing.T) {
	args, err := ParseConvertArgs([]string{"--input", "in.txt"})
	if err != nil {
		t.Fatalf("ParseConvertArgs 失败: %v", err)
	}
	if args.Scheme != "t2gov" {
		t.Errorf("默认方案 = %s，期望 t2gov", args.Scheme)
	}
	if args.Output != "" {
		t.Errorf("Output 默认应为空，实际 %q", args.Output)
	}
}

func TestParseConvertArgsUnknownFlag(t *testing.T) {
	if _, err := ParseConvertArgs([]string{"--no-such-flag"}); err == nil {
		t.Error("未知参数应返回错误")
	}
}

func TestValidateArgs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "in.txt")
	if err := os.WriteFile(file, []byte("文字"), 0644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}

	t.Run("missing scheme", func(t *testing.T) {
		err := ValidateArgs(&CommandLineArgs{Input: file})
		if err == nil {
			t.Error("空方案名应返回错误")
		}
	})

	t.Run("missing input", func(t *testing.T) {
		err := ValidateArgs(&CommandLineArgs{Scheme: "t2gov"})
		if err == nil {
			t.Error("缺少输入路径应返回错误")
		}
	})

	t.Run("nonexistent input", func(t *testing.T) {
		err := ValidateArgs(&CommandLineArgs{Scheme: "t2gov", Input: filepath.Join(dir, "missing.txt")})
		if err == nil {
			t.Error("输入不存在应返回错误")
		}
	})

	t.Run("watch requires directory", func(t *testing.T) {
		err := ValidateArgs(&CommandLineArgs{Scheme: "t2gov", Input: file, Watch: true})
		if err == nil {
			t.Error("监听模式配单文件输入应返回错误")
		}
	})

	t.Run("auto output for file", func(t *testing.T) {
		args := &CommandLineArgs{Scheme: "t2gov", Input: file}
		if err := ValidateArgs(args); err != nil {
			t.Fatalf("ValidateArgs 失败: %v", err)
		}
		expected := filepath.Join(dir, "in_converted.txt")
		if args.Output != expected {
			t.Errorf("自动输出路径 = %s，期望 %s", args.Output, expected)
		}
	})

	t.Run("auto output for directory", func(t *testing.T) {
		args := &CommandLineArgs{Scheme: "t2gov", Input: dir}
		if err := ValidateArgs(args); err != nil {
			t.Fatalf("ValidateArgs 失败: %v", err)
		}
		if args.Output != dir+"_converted" {
			t.Errorf("自动输出路径 = %s", args.Output)
		}
	})

	t.Run("explicit output untouched", func(t *testing.T) {
		args := &CommandLineArgs{Scheme: "t2gov", Input: file, Output: "custom.txt"}
		if err := ValidateArgs(args); err != nil {
			t.Fatalf("ValidateArgs 失败: %v", err)
		}
		if args.Output != "custom.txt" {
			t.Errorf("显式输出路径被改写: %s", args.Output)
		}
	})
}

func TestGenerateOutputFileName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a.txt", "a_converted.txt"},
		{"dir/b.docx", "dir/b_converted.docx"},
		{"c.doc", "c_converted.doc"},
		{"noext", "noext_converted"},
		{"archive.tar.gz", "archive.tar_converted.gz"},
	}
	for _, tt := range tests {
		if got := GenerateOutputFileName(tt.input); got != tt.expected {
			t.Errorf("GenerateOutputFileName(%q) = %q，期望 %q", tt.input, got, tt.expected)
		}
	}
}
