package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// LocalCache 基于 ristretto 的进程内变体表缓存，key 是数字本身。
type LocalCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewLocalCache
// maxItems: 预计条目数，用来定计数器规模
// maxBytes: 最大内存占用，按变体表的字节数计费
func NewLocalCache(maxItems, maxBytes int64, ttl time.Duration) (*LocalCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10, // 官方建议为条目数的 10 倍
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &LocalCache{cache: c, ttl: ttl}, nil
}

func (l *LocalCache) Get(num uint64) ([]string, bool) {
	v, ok := l.cache.Get(num)
	if !ok {
		return nil, false
	}
	texts, ok := v.([]string)
	return texts, ok
}

// Set 是异步的，写入后不保证立刻可读。
func (l *LocalCache) Set(num uint64, texts []string) {
	l.cache.SetWithTTL(num, texts, cost(texts), l.ttl)
}

// Wait 等待缓冲区里的写入落地，测试用。
func (l *LocalCache) Wait() {
	l.cache.Wait()
}

func (l *LocalCache) Close() {
	l.cache.Close()
}

func cost(texts []string) int64 {
	var n int64
	for _, s := range texts {
		n += int64(len(s))
	}
	return n
}
