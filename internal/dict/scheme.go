package dict

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/hanzitools/guifan/internal/config"
	"github.com/hanzitools/guifan/internal/domain"
)

// Scheme 一个构建完成的转换方案
// 构建后不可变，可在所有并发工作间只读共享
type Scheme struct {
	Name            string
	KeepMixedScript bool // true 时不启用简转繁清理表
	JoinRuns        bool // true 时 DOCX 使用合并视图策略

	// phrases 按键的码点长度分桶，下标即长度（2..MaxPhraseLen）
	phrases [MaxPhraseLen + 1]map[string]string
	chars   map[rune]string
	cleanup map[rune]string
	maxLen  int
}

// Build 按方案声明构建 Scheme
// 各表内按声明顺序加载字典源，后加载的源在键冲突时覆盖先加载的；
// 字典源缺失或不可读返回 SchemeLoadError，规则行格式错误返回 DictionaryParseError
func Build(cfg config.SchemeConfig, baseDir string) (*Scheme, error) {
	s := &Scheme{
		Name:            cfg.Name,
		KeepMixedScript: cfg.KeepMixedScript,
		JoinRuns:        cfg.JoinRuns,
		chars:           make(map[rune]string),
		cleanup:         make(map[rune]string),
	}

	// 词组源与单字源都允许同时含有词组键和单字键，
	// 按键长度路由到对应的表
	for _, src := range cfg.PhraseSources {
		if err := s.loadSource(src, baseDir, s.addGeneral); err != nil {
			return nil, err
		}
	}
	for _, src := range cfg.CharSources {
		if err := s.loadSource(src, baseDir, s.addGeneral); err != nil {
			return nil, err
		}
	}
	// 清理表只接受单字键，按码点查询是它的既定语义
	for _, src := range cfg.CleanupSources {
		if err := s.loadSource(src, baseDir, s.addCleanup); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// loadSource 读取一个字典源并按 add 回调入表
func (s *Scheme) loadSource(src, baseDir string, add func(Rule, string) error) error {
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, src)
	}

	f, err := os.Open(path)
	if err != nil {
		return &domain.SchemeLoadError{Scheme: s.Name, Source: src, Err: err}
	}
	defer f.Close()

	rules, err := ParseRules(f, src)
	if err != nil {
		return err
	}
	for _, rule := range rules {
		if err := add(rule, src); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheme) addGeneral(rule Rule, src string) error {
	n := utf8.RuneCountInString(rule.Key)
	if n == 1 {
		r, _ := utf8.DecodeRuneInString(rule.Key)
		s.chars[r] = rule.Repl
		return nil
	}
	if s.phrases[n] == nil {
		s.phrases[n] = make(map[string]string)
	}
	s.phrases[n][rule.Key] = rule.Repl
	if n > s.maxLen {
		s.maxLen = n
	}
	return nil
}

func (s *Scheme) addCleanup(rule Rule, src string) error {
	if utf8.RuneCountInString(rule.Key) != 1 {
		return &domain.DictionaryParseError{Source: src, Line: 0,
			Reason: fmt.Sprintf("清理表只接受单字键: %q", rule.Key)}
	}
	r, _ := utf8.DecodeRuneInString(rule.Key)
	s.cleanup[r] = rule.Repl
	return nil
}

// Phrase 查询指定长度的词组键
func (s *Scheme) Phrase(length int, key string) (string, bool) {
	if length < 2 || length > MaxPhraseLen || s.phrases[length] == nil {
		return "", false
	}
	repl, ok := s.phrases[length][key]
	return repl, ok
}

// Char 查询单字表
func (s *Scheme) Char(r rune) (string, bool) {
	repl, ok := s.chars[r]
	return repl, ok
}

// Cleanup 查询简转繁清理表
// 调用方须自行遵守 KeepMixedScript 开关
func (s *Scheme) Cleanup(r rune) (string, bool) {
	repl, ok := s.cleanup[r]
	return repl, ok
}

// MaxPhraseLen 返回实际存在的最长词组键长度，没有词组时为 0
func (s *Scheme) MaxPhraseLen() int {
	return s.maxLen
}

// Empty 判断方案的所有表是否都为空
// 空方案对任何文本都是恒等变换
func (s *Scheme) Empty() bool {
	return s.maxLen == 0 && len(s.chars) == 0 && len(s.cleanup) == 0
}
