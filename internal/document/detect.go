package document

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hanzitools/guifan/internal/domain"
)

var (
	zipSignature = []byte{0x50, 0x4B, 0x03, 0x04}
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Detect 识别输入文件的容器类型
// 先看扩展名，再用文件头签名确认，两者不符视为不支持的格式
func Detect(path string) (domain.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return domain.FormatPlainText, nil
	case ".docx":
		ok, err := hasSignature(path, zipSignature)
		if err != nil {
			return domain.FormatUnknown, &domain.DocumentReadError{Path: path, Err: err}
		}
		if !ok {
			return domain.FormatUnknown, &domain.UnsupportedFormatError{Path: path, Reason: "缺少 ZIP 文件头签名"}
		}
		return domain.FormatDocx, nil
	case ".doc":
		ok, err := hasSignature(path, oleSignature)
		if err != nil {
			return domain.FormatUnknown, &domain.DocumentReadError{Path: path, Err: err}
		}
		if !ok {
			return domain.FormatUnknown, &domain.UnsupportedFormatError{Path: path, Reason: "缺少 OLE 复合文件签名"}
		}
		return domain.FormatLegacyDoc, nil
	default:
		return domain.FormatUnknown, &domain.UnsupportedFormatError{Path: path, Reason: "无法识别的扩展名"}
	}
}

func hasSignature(path string, sig []byte) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, len(sig))
	if _, err := io.ReadFull(f, buf); err != nil {
		// 比签名还短的文件不可能带签名，其余读错误原样上报
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(buf, sig), nil
}

// OpenOptions 打开文档时的策略开关
type OpenOptions struct {
	JoinRuns bool   // DOCX 使用合并视图策略
	Bridge   Bridge // DOC 转换桥接器，处理 .doc 时必需
}

// Open 识别并打开一个输入文件
func Open(ctx context.Context, path string, opts OpenOptions) (domain.Document, domain.Format, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, format, err
	}

	switch format {
	case domain.FormatPlainText:
		doc, err := OpenPlainText(path)
		if err != nil {
			return nil, format, err
		}
		return doc, format, nil
	case domain.FormatDocx:
		doc, err := OpenDocx(path, opts.JoinRuns)
		if err != nil {
			return nil, format, err
		}
		return doc, format, nil
	case domain.FormatLegacyDoc:
		doc, err := OpenLegacy(ctx, path, opts.Bridge, opts.JoinRuns)
		if err != nil {
			return nil, format, err
		}
		return doc, format, nil
	default:
		return nil, format, &domain.UnsupportedFormatError{Path: path, Reason: "无法识别的格式"}
	}
}
