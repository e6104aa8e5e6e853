package document

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	ngdocx "github.com/nguyenthenguyen/docx"

	"github.com/hanzitools/guifan/internal/domain"
)

// zipEntry 保留原始条目头，未触碰的条目按原字节重新写出
type zipEntry struct {
	header zip.FileHeader
	data   []byte
}

// textRun 一个 <w:t> 负载在所属条目内的位置与原文
type textRun struct {
	entry      int    // 所属 zip 条目下标
	start, end int    // 负载在条目数据中的字节范围
	text       string // 反转义后的原文
}

// docxSegment 一个可转换的文本段
// 独立 run 策略下恰好对应一个 textRun；
// 合并视图策略下可能覆盖同段落内格式相同的连续多个 run
type docxSegment struct {
	anchor string
	runs   []int // textRun 下标，按文档顺序
}

// Docx 基于 ZIP 结构的 DOCX 文档模型
// 仅改写 <w:t> 的文本负载，文档骨架逐字节保留
type Docx struct {
	path     string
	joinRuns bool
	entries  []zipEntry
	runs     []textRun
	segments []docxSegment
	replaced map[int]string // textRun 下标 → 转义后的新负载
}

var (
	// <w:t> 与 <w:t xml:space="preserve"> 等开标签；
	// 自闭合的 <w:t/> 没有负载，无需处理
	wtOpenRe = regexp.MustCompile(`<w:t(?:\s[^>]*)?>`)
	// 段落与 run 不会嵌套，非贪婪匹配即可
	wpRe  = regexp.MustCompile(`(?s)<w:p(?:\s[^>]*)?>.*?</w:p>`)
	wrRe  = regexp.MustCompile(`(?s)<w:r(?:\s[^>]*)?>.*?</w:r>`)
	rPrRe = regexp.MustCompile(`(?s)<w:rPr>.*?</w:rPr>`)
)

// textParts 需要转换的文档部件：正文、脚注、尾注、页眉、页脚
func isTextPart(name string) bool {
	switch name {
	case "word/document.xml", "word/footnotes.xml", "word/endnotes.xml":
		return true
	}
	if strings.HasPrefix(name, "word/header") && strings.HasSuffix(name, ".xml") {
		return true
	}
	if strings.HasPrefix(name, "word/footer") && strings.HasSuffix(name, ".xml") {
		return true
	}
	return false
}

// OpenDocx 打开一个 DOCX 文件并定位所有文本段
func OpenDocx(path string, joinRuns bool) (*Docx, error) {
	// 先用 docx 库验证文件可被正常解析，避免把损坏文件当普通 zip 处理
	if r, err := ngdocx.ReadDocxFile(path); err != nil {
		return nil, &domain.DocumentReadError{Path: path, Err: err}
	} else {
		r.Close()
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, &domain.DocumentReadError{Path: path, Err: err}
	}
	defer reader.Close()

	d := &Docx{
		path:     path,
		joinRuns: joinRuns,
		replaced: make(map[int]string),
	}

	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, &domain.DocumentReadError{Path: path, Err: fmt.Errorf("打开条目 %s 失败: %w", file.Name, err)}
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, &domain.DocumentReadError{Path: path, Err: fmt.Errorf("读取条目 %s 失败: %w", file.Name, err)}
		}
		d.entries = append(d.entries, zipEntry{header: file.FileHeader, data: data})
	}

	for i := range d.entries {
		if isTextPart(d.entries[i].header.Name) {
			d.scanPart(i)
		}
	}

	return d, nil
}

// scanPart 定位一个部件内的所有 <w:t> 负载并划分文本段
func (d *Docx) scanPart(entry int) {
	content := string(d.entries[entry].data)
	name := d.entries[entry].header.Name

	first := len(d.runs)
	for _, loc := range wtOpenRe.FindAllStringIndex(content, -1) {
		close := strings.Index(content[loc[1]:], "</w:t>")
		if close < 0 {
			continue
		}
		start := loc[1]
		end := loc[1] + close
		d.runs = append(d.runs, textRun{
			entry: entry,
			start: start,
			end:   end,
			text:  unescapeXML(content[start:end]),
		})
	}
	partRuns := make([]int, 0, len(d.runs)-first)
	for i := first; i < len(d.runs); i++ {
		partRuns = append(partRuns, i)
	}
	if len(partRuns) == 0 {
		return
	}

	if d.joinRuns {
		d.segments = append(d.segments, joinSegments(content, name, d.runs, partRuns)...)
		return
	}

	// 独立 run 策略：每个 <w:t> 自成一段，词组匹配不跨 run
	for _, ri := range partRuns {
		d.segments = append(d.segments, docxSegment{
			anchor: fmt.Sprintf("%s#t%d", name, ri-first),
			runs:   []int{ri},
		})
	}
}

// Extract 按文档顺序返回所有文本段
func (d *Docx) Extract() []domain.TextSegment {
	segs := make([]domain.TextSegment, len(d.segments))
	for i, seg := range d.segments {
		var b strings.Builder
		for _, ri := range seg.runs {
			b.WriteString(d.runs[ri].text)
		}
		segs[i] = domain.TextSegment{Text: b.String(), Anchor: seg.anchor}
	}
	return segs
}

// Rewrite 把转换结果写回各文本段
// 合并视图段按各 run 的原始码点数比例重新分配文本。
// 文本没有变化的 run 不登记改写，原负载字节（含实体写法）原样保留
func (d *Docx) Rewrite(converted []string) error {
	if len(converted) != len(d.segments) {
		return fmt.Errorf("文本段数量不匹配: 期望 %d，收到 %d", len(d.segments), len(converted))
	}

	for i, seg := range d.segments {
		if len(seg.runs) == 1 {
			ri := seg.runs[0]
			if converted[i] != d.runs[ri].text {
				d.replaced[ri] = escapeXML(converted[i])
			}
			continue
		}
		counts := make([]int, len(seg.runs))
		for j, ri := range seg.runs {
			counts[j] = len([]rune(d.runs[ri].text))
		}
		parts := redistribute(converted[i], counts)
		for j, ri := range seg.runs {
			if parts[j] != d.runs[ri].text {
				d.replaced[ri] = escapeXML(parts[j])
			}
		}
	}
	return nil
}

// WriteTo 重新打包为 DOCX
// 有改写的部件按字节范围拼接，其余条目连同条目头原样写出
func (d *Docx) WriteTo(path string) error {
	outputFile, err := os.Create(path)
	if err != nil {
		return &domain.DocumentWriteError{Path: path, Err: err}
	}
	defer outputFile.Close()

	zipWriter := zip.NewWriter(outputFile)

	for i := range d.entries {
		header := d.entries[i].header
		writer, err := zipWriter.CreateHeader(&header)
		if err != nil {
			return &domain.DocumentWriteError{Path: path, Err: fmt.Errorf("创建条目 %s 失败: %w", header.Name, err)}
		}
		if _, err := writer.Write(d.renderEntry(i)); err != nil {
			return &domain.DocumentWriteError{Path: path, Err: fmt.Errorf("写入条目 %s 失败: %w", header.Name, err)}
		}
	}

	if err := zipWriter.Close(); err != nil {
		return &domain.DocumentWriteError{Path: path, Err: err}
	}
	return nil
}

// renderEntry 生成条目的输出字节
func (d *Docx) renderEntry(entry int) []byte {
	// 收集该条目内有改写的 run，没有则原样返回
	var touched []int
	for ri := range d.runs {
		if d.runs[ri].entry == entry {
			if _, ok := d.replaced[ri]; ok {
				touched = append(touched, ri)
			}
		}
	}
	if len(touched) == 0 {
		return d.entries[entry].data
	}

	content := d.entries[entry].data
	var b strings.Builder
	b.Grow(len(content))
	pos := 0
	// runs 在扫描时即按偏移升序记录
	for _, ri := range touched {
		run := d.runs[ri]
		b.Write(content[pos:run.start])
		b.WriteString(d.replaced[ri])
		pos = run.end
	}
	b.Write(content[pos:])
	return []byte(b.String())
}
