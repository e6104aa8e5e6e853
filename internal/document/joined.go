package document

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// 嵌套段落开标签（文本框的 <w:txbxContent> 会在 run 内再嵌 <w:p>）；
// 不匹配 <w:pPr>、<w:pict> 等同前缀标签
var nestedParaRe = regexp.MustCompile(`<w:p[\s>]`)

// joinSegments 实现合并视图策略
// 同一段落内 <w:rPr> 逐字节相同的连续 run 合并为一个文本段，
// 格式不同的 run 从不合并；不在任何 run 内的 <w:t> 自成一段
func joinSegments(content, partName string, runs []textRun, partRuns []int) []docxSegment {
	if len(partRuns) == 0 {
		return nil
	}
	base := partRuns[0]

	// wtAt 按负载起始偏移定位 run 区间内的 w:t
	used := make(map[int]bool)
	wtIn := func(start, end int) []int {
		var out []int
		for _, ri := range partRuns {
			if runs[ri].start >= start && runs[ri].end <= end {
				out = append(out, ri)
			}
		}
		return out
	}

	var segments []docxSegment
	addGroup := func(group []int) {
		if len(group) == 0 {
			return
		}
		for _, ri := range group {
			used[ri] = true
		}
		anchor := fmt.Sprintf("%s#t%d", partName, group[0]-base)
		if len(group) > 1 {
			anchor = fmt.Sprintf("%s#t%d-%d", partName, group[0]-base, group[len(group)-1]-base)
		}
		segments = append(segments, docxSegment{anchor: anchor, runs: group})
	}

	for _, ploc := range wpRe.FindAllStringIndex(content, -1) {
		para := content[ploc[0]:ploc[1]]

		var group []int
		lastPr := ""
		prevEnd := -1
		for _, rloc := range wrRe.FindAllStringIndex(para, -1) {
			start, end := ploc[0]+rloc[0], ploc[0]+rloc[1]
			region := content[start:end]
			// 嵌套段落（文本框内容）是结构边界：不加入任何组，
			// 其内部的 w:t 退回独立 run 策略
			if nestedParaRe.MatchString(region) {
				addGroup(group)
				group = nil
				prevEnd = rloc[1]
				continue
			}
			// 相邻 run 之间夹着段落边界时同样断开
			if prevEnd >= 0 && strings.Contains(para[prevEnd:rloc[0]], "</w:p>") {
				addGroup(group)
				group = nil
			}
			pr := rPrRe.FindString(region)
			wts := wtIn(start, end)
			// 无文本的 run（换行符、图片锚点等）也会断开合并，
			// 避免重分配把文本移过这些结构节点
			if len(wts) == 0 {
				addGroup(group)
				group = nil
				prevEnd = rloc[1]
				continue
			}
			// 格式变化即断开，合并只发生在相邻且格式相同的 run 之间
			if len(group) > 0 && pr != lastPr {
				addGroup(group)
				group = nil
			}
			group = append(group, wts...)
			lastPr = pr
			prevEnd = rloc[1]
		}
		addGroup(group)
	}

	// 段落或 run 之外的 w:t（极少见）退回独立 run 策略
	for _, ri := range partRuns {
		if !used[ri] {
			segments = append(segments, docxSegment{
				anchor: fmt.Sprintf("%s#t%d", partName, ri-base),
				runs:   []int{ri},
			})
		}
	}

	// 段的锚点顺序与文档顺序保持一致
	sort.Slice(segments, func(i, j int) bool {
		return runs[segments[i].runs[0]].start < runs[segments[j].runs[0]].start
	})
	return segments
}

// redistribute 把转换后的文本按各 run 的原始码点数比例切回多个 run
// 边界取四舍五入的比例点并保持单调，余数落在最后一个 run；
// 规则是确定性的，同样的输入永远得到同样的切分
func redistribute(converted string, origCounts []int) []string {
	out := make([]string, len(origCounts))
	if len(origCounts) == 0 {
		return out
	}

	rs := []rune(converted)
	total := 0
	for _, c := range origCounts {
		total += c
	}
	if total == 0 {
		// 原文全为空 run，转换结果整体落在最后一个 run
		out[len(out)-1] = converted
		return out
	}

	acc := 0
	cum := 0
	for i := range origCounts {
		if i == len(origCounts)-1 {
			out[i] = string(rs[acc:])
			break
		}
		cum += origCounts[i]
		boundary := (len(rs)*cum + total/2) / total
		if boundary < acc {
			boundary = acc
		}
		if boundary > len(rs) {
			boundary = len(rs)
		}
		out[i] = string(rs[acc:boundary])
		acc = boundary
	}
	return out
}
