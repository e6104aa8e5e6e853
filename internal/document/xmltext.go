package document

import (
	"strconv"
	"strings"
)

// unescapeXML 把 w:t 负载中的 XML 实体还原为文本
// 支持五个命名实体和十进制/十六进制数字实体，
// 无法识别的实体原样保留
func unescapeXML(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '&' {
			b.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 || end > 12 {
			b.WriteByte(c)
			i++
			continue
		}
		entity := s[i+1 : i+end]
		switch entity {
		case "amp":
			b.WriteByte('&')
		case "lt":
			b.WriteByte('<')
		case "gt":
			b.WriteByte('>')
		case "quot":
			b.WriteByte('"')
		case "apos":
			b.WriteByte('\'')
		default:
			r, ok := parseNumericEntity(entity)
			if !ok {
				b.WriteByte(c)
				i++
				continue
			}
			b.WriteRune(r)
		}
		i += end + 1
	}
	return b.String()
}

func parseNumericEntity(entity string) (rune, bool) {
	if len(entity) < 2 || entity[0] != '#' {
		return 0, false
	}
	body := entity[1:]
	base := 10
	if body[0] == 'x' || body[0] == 'X' {
		body = body[1:]
		base = 16
	}
	n, err := strconv.ParseUint(body, base, 32)
	if err != nil || n > 0x10FFFF {
		return 0, false
	}
	return rune(n), true
}

// escapeXML 把文本编码为合法的 XML 字符内容
// 只转义 & < >，引号在字符内容里无需转义
func escapeXML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
