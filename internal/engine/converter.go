package engine

import (
	"sync"

	"github.com/hanzitools/guifan/internal/dict"
)

const (
	// 缓存条目上限，批处理中的样板文本（页眉、页脚、表头）命中率高
	maxCacheEntries = 4096
	// 超过该字节数的文本段不进缓存，正文段落几乎不会重复
	maxCacheableLen = 512
)

type cacheEntry struct {
	text  string
	count int
}

// Converter 把一个方案和一个段落级备忘缓存绑在一起
// 缓存以段落内容为键；每个构建好的方案拥有自己的 Converter，
// 因此缓存键天然隐含方案身份
type Converter struct {
	scheme *dict.Scheme

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewConverter 为一个构建完成的方案创建转换器
func NewConverter(s *dict.Scheme) *Converter {
	return &Converter{
		scheme: s,
		cache:  make(map[string]cacheEntry),
	}
}

// Scheme 返回底层方案
func (c *Converter) Scheme() *dict.Scheme {
	return c.scheme
}

// ConvertSegment 转换一个文本段，结果与 Convert 完全一致
// 并发安全；相同输入必然得到相同输出
func (c *Converter) ConvertSegment(text string) (string, int) {
	if len(text) > maxCacheableLen {
		return Convert(c.scheme, text)
	}

	c.mu.Lock()
	if e, ok := c.cache[text]; ok {
		c.mu.Unlock()
		return e.text, e.count
	}
	c.mu.Unlock()

	converted, count := Convert(c.scheme, text)

	c.mu.Lock()
	// 条目数到达上限后整体丢弃，避免无界增长
	if len(c.cache) >= maxCacheEntries {
		c.cache = make(map[string]cacheEntry)
	}
	c.cache[text] = cacheEntry{text: converted, count: count}
	c.mu.Unlock()

	return converted, count
}
