package queue

import (
	"encoding/json"
	"time"

	"github.com/artmart-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskShippingStatusChanged 发货状态变更事件投递任务
	TaskShippingStatusChanged = constants.TaskShippingStatusChanged
)

// ShippingStatusChangedPayload 发货状态变更任务载荷
type ShippingStatusChangedPayload struct {
	OrderID   uint      `json:"order_id"`
	OrderNo   string    `json:"order_no"`
	ArtistID  uint      `json:"artist_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewShippingStatusChangedTask 创建发货状态变更任务
func NewShippingStatusChangedTask(payload ShippingStatusChangedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskShippingStatusChanged, body, asynq.MaxRetry(5)), nil
}

// ParseShippingStatusChangedPayload 解析任务载荷
func ParseShippingStatusChangedPayload(task *asynq.Task) (ShippingStatusChangedPayload, error) {
	var payload ShippingStatusChangedPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
