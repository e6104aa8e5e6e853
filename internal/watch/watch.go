package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hanzitools/guifan/internal/pipeline"
)

// settleDelay 文件事件到实际处理之间的静默期
// 复制中的文件会连续触发写事件，每次事件重置计时器
const settleDelay = 2 * time.Second

// Watcher 监听输入目录并转换新出现的文件
type Watcher struct {
	opts  pipeline.Options
	store ProcessedStore

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher 创建目录监听器
func NewWatcher(opts pipeline.Options, store ProcessedStore) *Watcher {
	return &Watcher{
		opts:    opts,
		store:   store,
		pending: make(map[string]*time.Timer),
	}
}

// Run 阻塞运行监听循环，直到 ctx 取消
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// 递归加入输入目录下的所有子目录
	err = filepath.Walk(w.opts.Input, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("开始监听目录 %s ...", w.opts.Input)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			// 新目录也纳入监听
			if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					if err := watcher.Add(event.Name); err != nil {
						log.Printf("警告: 监听新目录 %s 失败: %v", event.Name, err)
					}
				}
				continue
			}
			if !pipeline.IsSupported(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("错误: 监听器故障: %v", err)
		}
	}
}

// schedule 为一个文件安排延迟处理，后续事件重置计时器
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.process(ctx, path)
	})
}

// process 转换单个新文件
func (w *Watcher) process(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}

	processed, err := w.store.IsProcessed(path)
	if err != nil {
		log.Printf("错误: 查询台账失败 %s: %v", path, err)
	}
	if processed {
		log.Printf("跳过已处理文件: %s", path)
		return
	}

	rel, err := filepath.Rel(w.opts.Input, path)
	if err != nil {
		log.Printf("错误: 计算相对路径失败 %s: %v", path, err)
		return
	}
	output := filepath.Join(w.opts.Output, rel)

	result := pipeline.ProcessFile(ctx, w.opts, path, output)
	if !result.Succeeded() {
		log.Printf("错误: 处理 %s 失败: %v", path, result.Err)
		return
	}
	if err := w.store.MarkProcessed(path); err != nil {
		log.Printf("错误: 登记台账失败 %s: %v", path, err)
	}
}
