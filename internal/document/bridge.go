package document

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Bridge 旧式二进制 DOC 与 DOCX 之间的转换桥接器
// 核心从不解析 DOC 的字节格式，一切经由桥接器往返。
// 实现不要求可重入，调用方依赖其内部串行化
type Bridge interface {
	// ToDocx 把 DOC 转为 DOCX，返回生成文件的路径
	ToDocx(ctx context.Context, docPath string) (string, error)
	// FromDocx 把 DOCX 转回 DOC，返回生成文件的路径
	FromDocx(ctx context.Context, docxPath string) (string, error)
	// Close 释放桥接器持有的资源
	Close() error
}

// SofficeBridge 用 LibreOffice 无头模式实现的桥接器
// 宿主自动化层并不线程安全，所有调用通过一把互斥锁串行；
// 单次调用失败后重建配置目录再报告错误，避免损坏的缓存状态
// 影响后续调用
type SofficeBridge struct {
	soffice string

	mu         sync.Mutex
	profileDir string // 独立的 UserInstallation 目录，失败后重建
	outDir     string
}

// NewSofficeBridge 创建桥接器并准备工作目录
func NewSofficeBridge(sofficePath string) (*SofficeBridge, error) {
	profileDir, err := os.MkdirTemp("", "guifan-soffice-profile-")
	if err != nil {
		return nil, fmt.Errorf("创建桥接器配置目录失败: %w", err)
	}
	outDir, err := os.MkdirTemp("", "guifan-soffice-out-")
	if err != nil {
		os.RemoveAll(profileDir)
		return nil, fmt.Errorf("创建桥接器输出目录失败: %w", err)
	}
	return &SofficeBridge{
		soffice:    sofficePath,
		profileDir: profileDir,
		outDir:     outDir,
	}, nil
}

// ToDocx 把 DOC 转为 DOCX
func (b *SofficeBridge) ToDocx(ctx context.Context, docPath string) (string, error) {
	return b.convert(ctx, docPath, "docx")
}

// FromDocx 把 DOCX 转回 DOC
func (b *SofficeBridge) FromDocx(ctx context.Context, docxPath string) (string, error) {
	return b.convert(ctx, docxPath, "doc")
}

func (b *SofficeBridge) convert(ctx context.Context, inputPath, target string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// 每次调用使用独立的产出目录：不同子目录下的同名输入
	// 共用一个目录会让后来的转换覆盖先前已返回的路径
	jobDir, err := os.MkdirTemp(b.outDir, "job-")
	if err != nil {
		return "", fmt.Errorf("创建转换产出目录失败: %w", err)
	}

	cmd := exec.CommandContext(ctx, b.soffice,
		"--headless", "--norestore",
		"-env:UserInstallation=file://"+filepath.ToSlash(b.profileDir),
		"--convert-to", target,
		"--outdir", jobDir,
		inputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		b.restartLocked()
		return "", fmt.Errorf("soffice 转换 %s 失败: %w: %s", inputPath, err, strings.TrimSpace(string(output)))
	}

	base := filepath.Base(inputPath)
	converted := filepath.Join(jobDir, strings.TrimSuffix(base, filepath.Ext(base))+"."+target)
	if _, err := os.Stat(converted); err != nil {
		b.restartLocked()
		return "", fmt.Errorf("soffice 未产出 %s: %w", converted, err)
	}
	return converted, nil
}

// restartLocked 重建配置目录，调用方须已持锁
func (b *SofficeBridge) restartLocked() {
	if err := os.RemoveAll(b.profileDir); err != nil {
		log.Printf("警告: 清理桥接器配置目录失败: %v", err)
	}
	profileDir, err := os.MkdirTemp("", "guifan-soffice-profile-")
	if err != nil {
		log.Printf("警告: 重建桥接器配置目录失败: %v", err)
		return
	}
	b.profileDir = profileDir
	log.Printf("桥接器已重启，新的配置目录: %s", b.profileDir)
}

// Close 清理工作目录
func (b *SofficeBridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err1 := os.RemoveAll(b.profileDir)
	err2 := os.RemoveAll(b.outDir)
	if err1 != nil {
		return err1
	}
	return err2
}
