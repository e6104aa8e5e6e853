package document

import (
	"fmt"
	"os"

	"github.com/hanzitools/guifan/internal/domain"
)

// PlainText 纯文本文档：整个文件解码后是唯一的一个文本段
// 改写后按检测到的原编码重新编码输出
type PlainText struct {
	path    string
	charset Charset
	text    string
	written string
}

// OpenPlainText 读取并解码一个纯文本文件
func OpenPlainText(path string) (*PlainText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.DocumentReadError{Path: path, Err: err}
	}

	cs := DetectCharset(data)
	text, err := DecodeText(cs, data)
	if err != nil {
		return nil, &domain.DocumentReadError{Path: path, Err: fmt.Errorf("按 %s 解码失败: %w", cs.Name, err)}
	}

	return &PlainText{path: path, charset: cs, text: text, written: text}, nil
}

// CharsetName 返回检测到的编码名
func (d *PlainText) CharsetName() string {
	return d.charset.Name
}

// Extract 返回唯一的文本段
func (d *PlainText) Extract() []domain.TextSegment {
	return []domain.TextSegment{{Text: d.text, Anchor: "text"}}
}

// Rewrite 写回转换结果
func (d *PlainText) Rewrite(converted []string) error {
	if len(converted) != 1 {
		return fmt.Errorf("文本段数量不匹配: 期望 1，收到 %d", len(converted))
	}
	d.written = converted[0]
	return nil
}

// WriteTo 按原编码把文档写到输出路径
func (d *PlainText) WriteTo(path string) error {
	data, err := EncodeText(d.charset, d.written)
	if err != nil {
		return &domain.DocumentWriteError{Path: path, Err: fmt.Errorf("按 %s 编码失败: %w", d.charset.Name, err)}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &domain.DocumentWriteError{Path: path, Err: err}
	}
	return nil
}
