package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SchemeConfig 表示一个命名转换方案的声明
// 同一张表内，后声明的字典源在键冲突时覆盖先声明的
type SchemeConfig struct {
	Name            string   `json:"name"`
	PhraseSources   []string `json:"phrase_sources"`
	CharSources     []string `json:"char_sources"`
	CleanupSources  []string `json:"cleanup_sources"`
	KeepMixedScript bool     `json:"keep_mixed_script"`
	JoinRuns        bool     `json:"join_runs"`
}

// Config 表示完整的方案注册表
type Config struct {
	Schemes []SchemeConfig `json:"schemes"`
}

// ConfigManager 方案注册表管理接口
type ConfigManager interface {
	LoadConfig(filePath string) (*Config, error)
	ValidateConfig(config *Config) error
	FindScheme(config *Config, name string) (*SchemeConfig, error)
}

// configManager 方案注册表管理器实现
type configManager struct{}

// NewConfigManager 创建新的方案注册表管理器
func NewConfigManager() ConfigManager {
	return &configManager{}
}

// LoadConfig 从文件加载方案注册表
func (cm *configManager) LoadConfig(filePath string) (*Config, error) {
	if filePath == "" {
		return nil, fmt.Errorf("方案配置文件路径不能为空")
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("方案配置文件不存在: %s", filePath)
	}

	if ext := filepath.Ext(filePath); ext != ".json" {
		return nil, fmt.Errorf("方案配置文件必须是 JSON 格式，当前文件: %s", ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取方案配置文件失败: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析方案配置文件失败: %w", err)
	}

	if err := cm.ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("方案配置验证失败: %w", err)
	}

	return &config, nil
}

// ValidateConfig 验证方案注册表的有效性
func (cm *configManager) ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("配置不能为空")
	}

	if len(config.Schemes) == 0 {
		return fmt.Errorf("方案列表不能为空")
	}

	nameSet := make(map[string]bool)
	for i, scheme := range config.Schemes {
		if scheme.Name == "" {
			return fmt.Errorf("第 %d 个方案的 name 不能为空", i+1)
		}
		if nameSet[scheme.Name] {
			return fmt.Errorf("方案名重复: %s", scheme.Name)
		}
		nameSet[scheme.Name] = true

		if len(scheme.PhraseSources)+len(scheme.CharSources)+len(scheme.CleanupSources) == 0 {
			return fmt.Errorf("方案 %s 没有声明任何字典源", scheme.Name)
		}
	}

	return nil
}

// FindScheme 按名称查找方案声明
func (cm *configManager) FindScheme(config *Config, name string) (*SchemeConfig, error) {
	if config == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	for i := range config.Schemes {
		if config.Schemes[i].Name == name {
			return &config.Schemes[i], nil
		}
	}
	return nil, fmt.Errorf("未找到方案: %s", name)
}
