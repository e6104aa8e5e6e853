package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hanzitools/guifan/internal/domain"
)

// LegacyDoc 旧式二进制 DOC 文档
// 通过桥接器取得 DOCX 结构化视图，转换在视图上进行；
// 输出 .doc 时再经桥接器写回旧容器
type LegacyDoc struct {
	ctx    context.Context
	path   string
	bridge Bridge
	inner  *Docx
}

// OpenLegacy 经桥接器打开一个 DOC 文件
func OpenLegacy(ctx context.Context, path string, bridge Bridge, joinRuns bool) (*LegacyDoc, error) {
	if bridge == nil {
		return nil, &domain.BridgeError{Path: path, Err: fmt.Errorf("桥接器未配置")}
	}

	docxPath, err := bridge.ToDocx(ctx, path)
	if err != nil {
		return nil, &domain.BridgeError{Path: path, Err: err}
	}

	inner, err := OpenDocx(docxPath, joinRuns)
	if err != nil {
		return nil, &domain.BridgeError{Path: path, Err: fmt.Errorf("打开结构化视图失败: %w", err)}
	}

	return &LegacyDoc{ctx: ctx, path: path, bridge: bridge, inner: inner}, nil
}

// Extract 委托给结构化视图
func (d *LegacyDoc) Extract() []domain.TextSegment {
	return d.inner.Extract()
}

// Rewrite 委托给结构化视图
func (d *LegacyDoc) Rewrite(converted []string) error {
	return d.inner.Rewrite(converted)
}

// WriteTo 输出文档
// 目标为 .doc 时先写出 DOCX 再经桥接器转回旧容器，
// 其他扩展名直接输出结构化视图
func (d *LegacyDoc) WriteTo(path string) error {
	if strings.ToLower(filepath.Ext(path)) != ".doc" {
		return d.inner.WriteTo(path)
	}

	tmp, err := os.MkdirTemp("", "guifan-legacy-")
	if err != nil {
		return &domain.DocumentWriteError{Path: path, Err: err}
	}
	defer os.RemoveAll(tmp)

	staging := filepath.Join(tmp, strings.TrimSuffix(filepath.Base(path), ".doc")+".docx")
	if err := d.inner.WriteTo(staging); err != nil {
		return err
	}

	converted, err := d.bridge.FromDocx(d.ctx, staging)
	if err != nil {
		return &domain.BridgeError{Path: d.path, Err: err}
	}
	if err := copyFile(converted, path); err != nil {
		return &domain.DocumentWriteError{Path: path, Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
