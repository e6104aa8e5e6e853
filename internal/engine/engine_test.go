package engine

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hanzitools/guifan/internal/config"
	"github.com/hanzitools/guifan/internal/dict"
)

// buildScheme 从给定的源文件内容构建方案
func buildScheme(t *testing.T, cfg config.SchemeConfig, sources map[string]string) *dict.Scheme {
	t.Helper()
	dir := t.TempDir()
	for name, content := range sources {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write source %s: %v", name, err)
		}
	}
	scheme, err := dict.Build(cfg, dir)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return scheme
}

// standardScheme 覆盖词组、单字和清理表的测试方案
func standardScheme(t *testing.T, keepMixedScript bool) *dict.Scheme {
	t.Helper()
	return buildScheme(t, config.SchemeConfig{
		Name:            "test",
		PhraseSources:   []string{"phrases.txt"},
		CharSources:     []string{"chars.txt"},
		CleanupSources:  []string{"cleanup.txt"},
		KeepMixedScript: keepMixedScript,
	}, map[string]string{
		"phrases.txt": "臺灣甲\t臺灣乙\n著名\t著名\n",
		"chars.txt":   "裡\t裏\n臺\t台\n著\t着\n",
		"cleanup.txt": "里\t裏\n",
	})
}

func TestConvert(t *testing.T) {
	scheme := standardScheme(t, false)

	tests := []struct {
		name     string
		input    string
		expected string
		count    int
	}{
		{
			name:     "character rule",
			input:    "這裡",
			expected: "這裏",
			count:    1,
		},
		{
			name:     "phrase wins over character rule",
			input:    "臺灣甲",
			expected: "臺灣乙",
			count:    1,
		},
		{
			name:     "character rule applies outside phrase",
			input:    "臺北",
			expected: "台北",
			count:    1,
		},
		{
			name:     "phrase protects context",
			input:    "著名著",
			expected: "著名着",
			count:    2,
		},
		{
			name:     "cleanup rule for stray simplified",
			input:    "這里",
			expected: "這裏",
			count:    1,
		},
		{
			name:     "unknown grapheme passes through",
			input:    "𠀀",
			expected: "𠀀",
			count:    0,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
			count:    0,
		},
		{
			name:     "non-chinese passthrough",
			input:    "hello, 世界 123",
			expected: "hello, 世界 123",
			count:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, count := Convert(scheme, tt.input)
			if out != tt.expected {
				t.Errorf("Convert(%q) = %q, expected %q", tt.input, out, tt.expected)
			}
			if count != tt.count {
				t.Errorf("Convert(%q) count = %d, expected %d", tt.input, count, tt.count)
			}
		})
	}
}

func TestConvertLongestMatchPriority(t *testing.T) {
	// AB→X 与 A→Y 同时存在时，输入 AB 必须得到 X 而不是 YB
	scheme := buildScheme(t, config.SchemeConfig{
		Name:          "test",
		PhraseSources: []string{"phrases.txt"},
		CharSources:   []string{"chars.txt"},
	}, map[string]string{
		"phrases.txt": "甲乙\t丙\n甲乙丁\t戊\n",
		"chars.txt":   "甲\t己\n",
	})

	tests := []struct {
		input    string
		expected string
	}{
		{input: "甲乙", expected: "丙"},
		{input: "甲乙丁", expected: "戊"},
		{input: "甲", expected: "己"},
		{input: "甲乙甲", expected: "丙己"},
	}
	for _, tt := range tests {
		if out, _ := Convert(scheme, tt.input); out != tt.expected {
			t.Errorf("Convert(%q) = %q, expected %q", tt.input, out, tt.expected)
		}
	}
}

func TestConvertMixedScriptToggle(t *testing.T) {
	input := "這里"

	strict := standardScheme(t, false)
	if out, _ := Convert(strict, input); out != "這裏" {
		t.Errorf("keepMixedScript=false: Convert(%q) = %q, expected 這裏", input, out)
	}

	keep := standardScheme(t, true)
	if out, _ := Convert(keep, input); out != "這里" {
		t.Errorf("keepMixedScript=true: Convert(%q) = %q, expected 這里", input, out)
	}
}

func TestConvertEmptySchemeIsIdentity(t *testing.T) {
	scheme := buildScheme(t, config.SchemeConfig{
		Name:        "empty",
		CharSources: []string{"empty.txt"},
	}, map[string]string{"empty.txt": ""})

	for _, input := range []string{"", "這裡", "hello 世界", "𠀀𠀁"} {
		out, count := Convert(scheme, input)
		if out != input || count != 0 {
			t.Errorf("Convert(%q) = %q, %d; expected identity", input, out, count)
		}
	}
}

func TestConvertIdempotence(t *testing.T) {
	scheme := standardScheme(t, false)

	inputs := []string{"這裡很著名", "裡裡外外", "著著著名"}
	for _, input := range inputs {
		once, _ := Convert(scheme, input)
		twice, count := Convert(scheme, once)
		if twice != once {
			t.Errorf("Convert not idempotent: %q -> %q -> %q", input, once, twice)
		}
		_ = count
	}
}

func TestConverterMatchesConvert(t *testing.T) {
	scheme := standardScheme(t, false)
	conv := NewConverter(scheme)

	inputs := []string{"這裡", "臺灣甲", "這裡", "", "plain"}
	for _, input := range inputs {
		want, wantCount := Convert(scheme, input)
		got, gotCount := conv.ConvertSegment(input)
		if got != want || gotCount != wantCount {
			t.Errorf("ConvertSegment(%q) = %q, %d; expected %q, %d", input, got, gotCount, want, wantCount)
		}
	}
}

func TestConverterDeterministicUnderConcurrency(t *testing.T) {
	scheme := standardScheme(t, false)
	conv := NewConverter(scheme)

	input := "這裡的臺灣甲很著名"
	want, wantCount := Convert(scheme, input)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, count := conv.ConvertSegment(input)
				if got != want || count != wantCount {
					t.Errorf("concurrent ConvertSegment(%q) = %q, %d; expected %q, %d",
						input, got, count, want, wantCount)
					return
				}
			}
		}()
	}
	wg.Wait()
}
