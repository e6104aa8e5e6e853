package pipeline

import (
	"fmt"
	"io"

	"github.com/hanzitools/guifan/internal/domain"
)

// Report 一次批处理运行的汇总
type Report struct {
	Scheme  string
	Results []domain.FileResult
}

// Succeeded 返回成功处理的文件数
func (r *Report) Succeeded() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Succeeded() {
			n++
		}
	}
	return n
}

// Failed 返回处理失败的文件数
func (r *Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// TotalSubstitutions 返回所有成功文件的替换总次数
func (r *Report) TotalSubstitutions() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Succeeded() {
			n += r.Results[i].Substitutions
		}
	}
	return n
}

// Print 输出人类可读的逐文件报表和汇总
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "方案: %s\n", r.Scheme)
	for i := range r.Results {
		res := &r.Results[i]
		if res.Succeeded() {
			fmt.Fprintf(w, "  [成功] %s -> %s (%d 处替换)\n", res.Path, res.Output, res.Substitutions)
		} else {
			fmt.Fprintf(w, "  [失败] %s: %s: %v\n", res.Path, domain.ErrorKind(res.Err), res.Err)
		}
	}
	fmt.Fprintf(w, "合计: %d 个文件，%d 成功，%d 失败，%d 处替换\n",
		len(r.Results), r.Succeeded(), r.Failed(), r.TotalSubstitutions())
}
