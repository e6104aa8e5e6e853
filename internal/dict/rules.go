package dict

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/hanzitools/guifan/internal/domain"
)

// MaxPhraseLen 词组键的最大长度（按码点计）
// 扫描窗口以它为上界，超长的键视为字典格式错误
const MaxPhraseLen = 16

// Rule 一条替换规则，Repl 取自规则行的首个候选
type Rule struct {
	Key  string
	Repl string
}

// ParseRules 解析一个字典源
// 格式：UTF-8 文本，每行一条规则，键与候选之间用制表符分隔，
// 多个候选之间用空格分隔，仅首个候选生效。
// 空行与 # 开头的注释行跳过，其余不合格式的行返回 DictionaryParseError
func ParseRules(r io.Reader, source string) ([]Rule, error) {
	var rules []Rule

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, targets, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, &domain.DictionaryParseError{Source: source, Line: lineNo, Reason: "缺少制表符分隔"}
		}
		if key == "" {
			return nil, &domain.DictionaryParseError{Source: source, Line: lineNo, Reason: "键不能为空"}
		}
		if utf8.RuneCountInString(key) > MaxPhraseLen {
			return nil, &domain.DictionaryParseError{Source: source, Line: lineNo, Reason: "键超出最大长度"}
		}

		// 仅首个候选生效
		repl := targets
		if i := strings.IndexByte(targets, ' '); i >= 0 {
			repl = targets[:i]
		}
		if repl == "" {
			return nil, &domain.DictionaryParseError{Source: source, Line: lineNo, Reason: "替换目标不能为空"}
		}

		rules = append(rules, Rule{Key: key, Repl: repl})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}
