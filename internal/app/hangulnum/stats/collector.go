package stats

import (
	"sync"
	"sync/atomic"
)

// Collector 在请求路径上调用，必须不阻塞。
type Collector interface {
	Collect(event ConversionEvent)
	Close()
}

// NopCollector 关闭统计时使用。
type NopCollector struct{}

func (NopCollector) Collect(ConversionEvent) {}
func (NopCollector) Close()                  {}

// ChannelCollector 基于 channel 的进程内收集器，缓冲满了直接丢弃。
type ChannelCollector struct {
	mu      sync.RWMutex // Collect 持读锁、Close 持写锁，保证不会向已关闭的 channel 发送
	ch      chan ConversionEvent
	closed  bool
	dropped atomic.Uint64
}

func NewChannelCollector(bufferSize int) *ChannelCollector {
	return &ChannelCollector{ch: make(chan ConversionEvent, bufferSize)}
}

func (c *ChannelCollector) Collect(event ConversionEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- event:
	default:
		c.dropped.Add(1)
	}
}

// Dropped 返回因缓冲区满被丢弃的事件数。
func (c *ChannelCollector) Dropped() uint64 {
	return c.dropped.Load()
}

func (c *ChannelCollector) Events() <-chan ConversionEvent {
	return c.ch
}

func (c *ChannelCollector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}
