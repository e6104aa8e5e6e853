package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hanzitools/guifan/internal/domain"
)

// fakeBridge 以预先生成的 DOCX 冒充转换结果，避免测试依赖 soffice
type fakeBridge struct {
	docxPath    string
	toDocxErr   error
	fromDocxErr error
	toCalls     int
	fromCalls   int
}

func (b *fakeBridge) ToDocx(ctx context.Context, path string) (string, error) {
	b.toCalls++
	if b.toDocxErr != nil {
		return "", b.toDocxErr
	}
	return b.docxPath, nil
}

func (b *fakeBridge) FromDocx(ctx context.Context, path string) (string, error) {
	b.fromCalls++
	if b.fromDocxErr != nil {
		return "", b.fromDocxErr
	}
	// 真实桥接器会生成 OLE 容器，测试中直接复用 DOCX 字节
	return path, nil
}

func (b *fakeBridge) Close() error { return nil }

func TestOpenLegacyDelegatesToStructuredView(t *testing.T) {
	dir := t.TempDir()
	docx := buildDocx(t, dir, "view.docx", splitRunXML, nil)
	bridge := &fakeBridge{docxPath: docx}

	d, err := OpenLegacy(context.Background(), filepath.Join(dir, "old.doc"), bridge, false)
	if err != nil {
		t.Fatalf("OpenLegacy 失败: %v", err)
	}
	if bridge.toCalls != 1 {
		t.Errorf("ToDocx 调用次数 = %d", bridge.toCalls)
	}

	segs := d.Extract()
	if len(segs) != 3 || segs[0].Text != "你好" {
		t.Fatalf("结构化视图提取结果不符: %+v", segs)
	}
}

func TestOpenLegacyWithoutBridge(t *testing.T) {
	_, err := OpenLegacy(context.Background(), "old.doc", nil, false)
	var bridgeErr *domain.BridgeError
	if !errors.As(err, &bridgeErr) {
		t.Fatalf("错误类型 = %T，期望 *domain.BridgeError", err)
	}
}

func TestOpenLegacyBridgeFailure(t *testing.T) {
	bridge := &fakeBridge{toDocxErr: fmt.Errorf("soffice 退出码 77")}
	_, err := OpenLegacy(context.Background(), "broken.doc", bridge, false)
	var bridgeErr *domain.BridgeError
	if !errors.As(err, &bridgeErr) {
		t.Fatalf("错误类型 = %T，期望 *domain.BridgeError", err)
	}
	if bridgeErr.Path != "broken.doc" {
		t.Errorf("Path = %q", bridgeErr.Path)
	}
}

func TestLegacyWriteToDocTarget(t *testing.T) {
	dir := t.TempDir()
	docx := buildDocx(t, dir, "view.docx", splitRunXML, nil)
	bridge := &fakeBridge{docxPath: docx}

	d, err := OpenLegacy(context.Background(), filepath.Join(dir, "old.doc"), bridge, false)
	if err != nil {
		t.Fatalf("OpenLegacy 失败: %v", err)
	}

	segs := d.Extract()
	converted := make([]string, len(segs))
	for i, seg := range segs {
		converted[i] = seg.Text
	}
	converted[2] = "間"
	if err := d.Rewrite(converted); err != nil {
		t.Fatalf("Rewrite 失败: %v", err)
	}

	out := filepath.Join(dir, "out.doc")
	if err := d.WriteTo(out); err != nil {
		t.Fatalf("WriteTo 失败: %v", err)
	}
	if bridge.fromCalls != 1 {
		t.Errorf("FromDocx 调用次数 = %d", bridge.fromCalls)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("输出文件不存在: %v", err)
	}
	// fakeBridge 直接回传 DOCX 字节，可按 zip 验证改写结果
	got := readZipEntry(t, out, "word/document.xml")
	if !bytes.Contains(got, []byte("<w:t>間</w:t>")) {
		t.Errorf("改写未进入输出文件: %s", got)
	}
}

func TestLegacyWriteToDocxTargetSkipsBridge(t *testing.T) {
	dir := t.TempDir()
	docx := buildDocx(t, dir, "view.docx", splitRunXML, nil)
	bridge := &fakeBridge{docxPath: docx}

	d, err := OpenLegacy(context.Background(), filepath.Join(dir, "old.doc"), bridge, false)
	if err != nil {
		t.Fatalf("OpenLegacy 失败: %v", err)
	}
	segs := d.Extract()
	converted := make([]string, len(segs))
	for i, seg := range segs {
		converted[i] = seg.Text
	}
	if err := d.Rewrite(converted); err != nil {
		t.Fatalf("Rewrite 失败: %v", err)
	}

	out := filepath.Join(dir, "out.docx")
	if err := d.WriteTo(out); err != nil {
		t.Fatalf("WriteTo 失败: %v", err)
	}
	if bridge.fromCalls != 0 {
		t.Errorf("输出 .docx 不应经过桥接器，FromDocx 调用次数 = %d", bridge.fromCalls)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("输出文件不存在: %v", err)
	}
}
