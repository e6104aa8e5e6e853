package domain

import "fmt"

// SchemeLoadError 方案级致命错误：声明的字典源缺失或不可读
// 该错误会在任何文件被处理之前中止整个运行
type SchemeLoadError struct {
	Scheme string // 方案名
	Source string // 出错的字典源路径，方案配置本身出错时为空
	Err    error
}

func (e *SchemeLoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("加载方案 %s 失败: 字典源 %s: %v", e.Scheme, e.Source, e.Err)
	}
	return fmt.Sprintf("加载方案 %s 失败: %v", e.Scheme, e.Err)
}

func (e *SchemeLoadError) Unwrap() error { return e.Err }

// DictionaryParseError 字典源中的规则行格式错误
// 对正在构建的方案而言是致命的
type DictionaryParseError struct {
	Source string // 字典源路径
	Line   int    // 行号，从 1 开始
	Reason string
}

func (e *DictionaryParseError) Error() string {
	return fmt.Sprintf("解析字典 %s 第 %d 行失败: %s", e.Source, e.Line, e.Reason)
}

// DocumentReadError 单个输入文件读取失败，按文件记录并恢复
type DocumentReadError struct {
	Path string
	Err  error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("读取文档 %s 失败: %v", e.Path, e.Err)
}

func (e *DocumentReadError) Unwrap() error { return e.Err }

// DocumentWriteError 单个输出文件写入失败，按文件记录并恢复
type DocumentWriteError struct {
	Path string
	Err  error
}

func (e *DocumentWriteError) Error() string {
	return fmt.Sprintf("写入文档 %s 失败: %v", e.Path, e.Err)
}

func (e *DocumentWriteError) Unwrap() error { return e.Err }

// UnsupportedFormatError 无法识别或不支持的容器类型
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("不支持的文档格式 %s: %s", e.Path, e.Reason)
}

// BridgeError 调用外部 DOC 转换桥接器失败
type BridgeError struct {
	Path string
	Err  error
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("转换 DOC 文件 %s 失败: %v", e.Path, e.Err)
}

func (e *BridgeError) Unwrap() error { return e.Err }

// ErrorKind 返回错误分类名，用于报表输出
func ErrorKind(err error) string {
	switch err.(type) {
	case *SchemeLoadError:
		return "SchemeLoadError"
	case *DictionaryParseError:
		return "DictionaryParseError"
	case *DocumentReadError:
		return "DocumentReadError"
	case *DocumentWriteError:
		return "DocumentWriteError"
	case *UnsupportedFormatError:
		return "UnsupportedFormatError"
	case *BridgeError:
		return "BridgeError"
	default:
		return "Error"
	}
}
