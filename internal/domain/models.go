package domain

// Format 表示输入文档的容器类型
type Format int

const (
	FormatUnknown Format = iota
	FormatPlainText
	FormatDocx
	FormatLegacyDoc
)

// String 返回容器类型的名称
func (f Format) String() string {
	switch f {
	case FormatPlainText:
		return "txt"
	case FormatDocx:
		return "docx"
	case FormatLegacyDoc:
		return "doc"
	default:
		return "unknown"
	}
}

// TextSegment 表示从文档中提取的一段连续文本
// Anchor 是不透明的位置标识，指向该段文本在文档骨架中的位置
// (例如 "word/document.xml#t42")，核心逻辑不解释其内容
type TextSegment struct {
	Text   string
	Anchor string
}

// Document 文档模型接口
// Rewrite 只允许修改每个锚点处的文本内容，不得改动文档骨架
type Document interface {
	// Extract 按文档内顺序提取所有文本段
	Extract() []TextSegment
	// Rewrite 将转换后的文本写回各锚点，converted 的数量和顺序
	// 必须与 Extract 的返回值完全一致
	Rewrite(converted []string) error
	// WriteTo 将改写后的文档序列化到输出路径
	WriteTo(path string) error
}

// FileResult 单个文件的处理结果
type FileResult struct {
	Path          string // 输入文件路径
	Output        string // 输出文件路径（失败时可能为空）
	Format        Format // 识别出的容器类型
	Substitutions int    // 替换次数
	Err           error  // 失败原因，成功时为 nil
}

// Succeeded 判断该文件是否处理成功
func (r *FileResult) Succeeded() bool {
	return r.Err == nil
}
