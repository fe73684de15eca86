package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/artmart-next/internal/config"
	"github.com/artmart-next/internal/logger"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 基于 Kafka 的事件发布器
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher 创建 Kafka 发布器
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			WriteTimeout: 10 * time.Second,
			ReadTimeout:  10 * time.Second,
		},
		topic: topic,
	}
}

// NewPublisher 根据配置创建发布器，未启用时返回只记录日志的实现
func NewPublisher(cfg *config.EventsConfig) Publisher {
	if cfg == nil || !cfg.Enabled || len(cfg.Kafka.Brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
}

// PublishShippingStatusChanged 以订单号为分区键发布事件
func (p *KafkaPublisher) PublishShippingStatusChanged(ctx context.Context, event ShippingStatusChanged) error {
	return p.publish(ctx, fmt.Sprintf("order-%d", event.OrderID), event)
}

func (p *KafkaPublisher) publish(ctx context.Context, key string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	logger.Debugw("event_published", "topic", p.topic, "key", key)
	return nil
}

// Close 关闭发布器
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// NopPublisher 不投递事件，仅记录日志
type NopPublisher struct{}

// PublishShippingStatusChanged 记录事件
func (NopPublisher) PublishShippingStatusChanged(_ context.Context, event ShippingStatusChanged) error {
	logger.Infow("event_publish_skipped",
		"event_type", event.EventType,
		"order_id", event.OrderID,
		"from", event.From,
		"to", event.To,
	)
	return nil
}

// Close 无需释放资源
func (NopPublisher) Close() error { return nil }
