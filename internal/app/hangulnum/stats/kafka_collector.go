package stats

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
)

// KafkaCollector 把事件异步写到 Kafka，由 KafkaConsumer 落库。多实例部署时用它。
type KafkaCollector struct {
	writer *kafka.Writer
}

func NewKafkaCollector(brokers []string, topic string) *KafkaCollector {
	return &KafkaCollector{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
			Async:    true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					slog.Error("kafka write failed", "count", len(messages), "err", err)
				}
			},
		},
	}
}

func (k *KafkaCollector) Collect(event ConversionEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("marshal event failed", "err", err)
		return
	}
	// Async 模式下 WriteMessages 只入队，不等 broker
	if err := k.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event.Op),
		Value: data,
	}); err != nil {
		slog.Error("kafka write failed", "err", err)
	}
}

func (k *KafkaCollector) Close() {
	if err := k.writer.Close(); err != nil {
		slog.Error("kafka writer close failed", "err", err)
	}
}
