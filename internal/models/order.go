package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                   // 主键
	OrderNo        string    `gorm:"uniqueIndex;not null" json:"order_no"`                   // 订单编号
	UserID         uint      `gorm:"index;not null" json:"user_id"`                          // 买家用户ID
	Status         string    `gorm:"type:varchar(20);index;not null" json:"status"`          // 订单状态
	ShippingStatus string    `gorm:"type:varchar(20);index;not null" json:"shipping_status"` // 发货状态
	TotalPrice     int64     `gorm:"not null;default:0" json:"total_price"`                  // 订单总额（kobo）
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt      time.Time `json:"updated_at"`                                             // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 买家
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// BeforeSave 时间统一以 UTC 落库，sqlite 按文本比较时间窗口
func (o *Order) BeforeSave(_ *gorm.DB) error {
	if !o.CreatedAt.IsZero() {
		o.CreatedAt = o.CreatedAt.UTC()
	}
	if !o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.UpdatedAt.UTC()
	}
	return nil
}
