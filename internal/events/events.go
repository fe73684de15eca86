package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// 事件类型
const (
	TypeShippingStatusChanged = "SHIPPING_STATUS_CHANGED"
)

// Envelope 事件公共字段
type Envelope struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ShippingStatusChanged 发货状态变更事件
type ShippingStatusChanged struct {
	Envelope
	OrderID  uint   `json:"order_id"`
	OrderNo  string `json:"order_no"`
	ArtistID uint   `json:"artist_id"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// NewShippingStatusChanged 构建发货状态变更事件
func NewShippingStatusChanged(orderID uint, orderNo string, artistID uint, from, to string, at time.Time) ShippingStatusChanged {
	return ShippingStatusChanged{
		Envelope: Envelope{
			EventID:   uuid.NewString(),
			EventType: TypeShippingStatusChanged,
			Timestamp: at,
		},
		OrderID:  orderID,
		OrderNo:  orderNo,
		ArtistID: artistID,
		From:     from,
		To:       to,
	}
}

// Publisher 领域事件发布接口
type Publisher interface {
	PublishShippingStatusChanged(ctx context.Context, event ShippingStatusChanged) error
	Close() error
}
