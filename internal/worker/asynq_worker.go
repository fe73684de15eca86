package worker

import (
	"context"
	"errors"

	"github.com/artmart-next/internal/events"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/provider"
	"github.com/artmart-next/internal/queue"
	"github.com/artmart-next/internal/service"

	"github.com/hibiken/asynq"
)

// SessionPurger 过期会话清理
type SessionPurger interface {
	PurgeExpiredSessions() (int64, error)
}

// Consumer 异步任务消费者
type Consumer struct {
	publisher events.Publisher
	sessions  SessionPurger
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil {
		return &Consumer{}
	}
	consumer := &Consumer{publisher: c.EventPublisher}
	if c.AuthService != nil {
		consumer.sessions = c.AuthService
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskShippingStatusChanged, c.handleShippingStatusChanged)
}

func (c *Consumer) handleShippingStatusChanged(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_shipping_changed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseShippingStatusChangedPayload(task)
	if err != nil {
		logger.Warnw("worker_shipping_changed_unmarshal_failed", "error", err)
		// 载荷损坏时重试无意义
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_shipping_changed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.publisher == nil {
		logger.Warnw("worker_shipping_changed_skip_publisher_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := service.PublishShippingStatusChanged(ctx, c.publisher, payload); err != nil {
		logger.Warnw("worker_shipping_changed_publish_failed",
			"order_id", payload.OrderID,
			"order_no", payload.OrderNo,
			"to", payload.To,
			"error", err,
		)
		return err
	}
	logger.Debugw("worker_shipping_changed_published", "order_id", payload.OrderID, "to", payload.To)
	return nil
}

func (c *Consumer) purgeExpiredSessions() {
	if c == nil || c.sessions == nil {
		return
	}
	removed, err := c.sessions.PurgeExpiredSessions()
	if err != nil {
		logger.Warnw("worker_session_purge_failed", "error", err)
		return
	}
	if removed > 0 {
		logger.Infow("worker_session_purged", "removed", removed)
	}
}
