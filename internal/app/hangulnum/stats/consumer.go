package stats

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultBatchSize = 100
	defaultInterval  = time.Second
	flushTimeout     = 5 * time.Second
)

// Sink 批量落库，由 repo.ConversionsRepo 实现。
type Sink interface {
	SaveBatch(ctx context.Context, events []ConversionEvent) error
}

// Consumer 消费 ChannelCollector 的事件，攒够一批或到时间就写一次。
type Consumer struct {
	sink      Sink
	events    <-chan ConversionEvent
	batchSize int
	interval  time.Duration
}

func NewConsumer(sink Sink, collector *ChannelCollector) *Consumer {
	return &Consumer{
		sink:      sink,
		events:    collector.Events(),
		batchSize: defaultBatchSize,
		interval:  defaultInterval,
	}
}

// Run 阻塞，直到 ctx 结束或 collector 关闭；退出前把剩余事件写完。
func (c *Consumer) Run(ctx context.Context) {
	runBatches(ctx, c.events, c.sink, c.batchSize, c.interval, "channel")
}

func runBatches(ctx context.Context, events <-chan ConversionEvent, sink Sink, batchSize int, interval time.Duration, source string) {
	batch := make([]ConversionEvent, 0, batchSize)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// 用独立 context：ctx 已取消时也要把最后一批写进去
		fctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := sink.SaveBatch(fctx, batch); err != nil {
			slog.Error("conversion stats: flush failed", "source", source, "count", len(batch), "err", err)
		} else {
			slog.Debug("conversion stats: flushed", "source", source, "count", len(batch))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			// 把已经在缓冲区里的也带上
			for {
				select {
				case e, ok := <-events:
					if !ok {
						flush()
						return
					}
					batch = append(batch, e)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		case e, ok := <-events:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
