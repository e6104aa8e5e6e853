package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings 进程级运行参数，来自环境变量或默认值
type Settings struct {
	DictDir     string // 字典源所在目录
	SchemesPath string // 方案注册表文件路径
	SofficePath string // LibreOffice 可执行文件路径，用于 DOC 转换
	Workers     int    // 批处理并发数
}

const (
	defaultDictDir     = "dicts"
	defaultSchemesFile = "schemes.json"
	defaultSoffice     = "soffice"
)

// LoadSettings 从环境变量或默认值加载运行参数
func LoadSettings() *Settings {
	// 尝试加载 .env 文件
	_ = godotenv.Load()

	s := &Settings{
		DictDir:     os.Getenv("GUIFAN_DICT_DIR"),
		SchemesPath: os.Getenv("GUIFAN_SCHEMES"),
		SofficePath: os.Getenv("GUIFAN_SOFFICE"),
		Workers:     parseIntOrDefault(os.Getenv("GUIFAN_WORKERS"), runtime.NumCPU()),
	}

	// 设置默认值
	if s.DictDir == "" {
		s.DictDir = defaultDictDir
	}
	if s.SchemesPath == "" {
		s.SchemesPath = filepath.Join(s.DictDir, defaultSchemesFile)
	}
	if s.SofficePath == "" {
		s.SofficePath = defaultSoffice
	}
	if s.Workers < 1 {
		s.Workers = 1
	}

	return s
}

func parseIntOrDefault(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("警告: 无法解析整数 '%s'，使用默认值 %d: %v", s, defaultValue, err)
		return defaultValue
	}
	return n
}
