package document

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	xunicode "golang.org/x/text/encoding/unicode"
)

// Charset 检测结果，Encoding 为 nil 表示无 BOM 的 UTF-8
type Charset struct {
	Name     string
	Encoding encoding.Encoding
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectCharset 检测纯文本文件的编码
// 顺序：BOM → 严格 UTF-8 → GB18030/Big5 启发式打分
// 中文 ANSI 文本统一按 GB18030 处理而不是 GBK/GB2312，
// GB18030 向下兼容两者且覆盖扩展汉字
func DetectCharset(data []byte) Charset {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return Charset{Name: "UTF-8 BOM", Encoding: xunicode.UTF8BOM}
	case bytes.HasPrefix(data, bomUTF16LE):
		return Charset{Name: "UTF-16LE", Encoding: xunicode.UTF16(xunicode.LittleEndian, xunicode.UseBOM)}
	case bytes.HasPrefix(data, bomUTF16BE):
		return Charset{Name: "UTF-16BE", Encoding: xunicode.UTF16(xunicode.BigEndian, xunicode.UseBOM)}
	}

	if utf8.Valid(data) {
		return Charset{Name: "UTF-8", Encoding: nil}
	}

	// GB18030 的双字节空间几乎覆盖所有字节组合，Big5 文本按 GB18030
	// 解码往往也"成功"但得到乱码，因此对两种解码结果打分取高者
	gbScore := decodeAndScore(simplifiedchinese.GB18030, data)
	b5Score := decodeAndScore(traditionalchinese.Big5, data)
	if b5Score > gbScore {
		return Charset{Name: "Big5", Encoding: traditionalchinese.Big5}
	}
	return Charset{Name: "GB18030", Encoding: simplifiedchinese.GB18030}
}

// decodeAndScore 用给定编码解码并给结果打分
// 汉字加分，替换符重罚，分数只用于两种候选编码间的比较
func decodeAndScore(enc encoding.Encoding, data []byte) int {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return -1 << 30
	}
	score := 0
	for _, r := range string(out) {
		switch {
		case r == utf8.RuneError:
			score -= 10
		case unicode.Is(unicode.Han, r):
			score++
		}
	}
	return score
}

// DecodeText 按检测到的编码把原始字节解码为 UTF-8 文本
func DecodeText(cs Charset, data []byte) (string, error) {
	if cs.Encoding == nil {
		return string(data), nil
	}
	out, err := cs.Encoding.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// EncodeText 按同一编码把文本编码回原始字节形式
// 改写后的文件与输入保持相同编码
func EncodeText(cs Charset, text string) ([]byte, error) {
	if cs.Encoding == nil {
		return []byte(text), nil
	}
	return cs.Encoding.NewEncoder().Bytes([]byte(text))
}
