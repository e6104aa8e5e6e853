package engine

import (
	"strings"

	"github.com/hanzitools/guifan/internal/dict"
)

// Convert 对一段文本应用转换方案，返回转换结果和替换次数
// 纯函数：单次从左到右扫描，无共享可变状态，可任意并发调用
//
// 游标处的查询顺序：
//  1. 词组表，窗口由长到短，最长匹配优先
//  2. 单字表，仅对未被词组消费的码点
//  3. 清理表，仅当方案未保留混杂简体时
//  4. 均未命中则原样输出
//
// 未知码点从不报错，原样通过是既定行为
func Convert(s *dict.Scheme, text string) (string, int) {
	if text == "" || s.Empty() {
		return text, 0
	}

	rs := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	count := 0
	maxLen := s.MaxPhraseLen()

	for i := 0; i < len(rs); {
		// 词组匹配：窗口上界取剩余长度与最长词组键的较小者
		limit := maxLen
		if rem := len(rs) - i; rem < limit {
			limit = rem
		}
		matched := false
		for l := limit; l >= 2; l-- {
			if repl, ok := s.Phrase(l, string(rs[i:i+l])); ok {
				b.WriteString(repl)
				i += l
				count++
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		r := rs[i]
		if repl, ok := s.Char(r); ok {
			b.WriteString(repl)
			count++
			i++
			continue
		}
		if !s.KeepMixedScript {
			if repl, ok := s.Cleanup(r); ok {
				b.WriteString(repl)
				count++
				i++
				continue
			}
		}
		b.WriteRune(r)
		i++
	}

	return b.String(), count
}
