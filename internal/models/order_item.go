package models

import (
	"time"
)

// OrderItem 订单项表
type OrderItem struct {
	ID             uint      `gorm:"primarykey" json:"id"`                      // 主键
	OrderID        uint      `gorm:"index;not null" json:"order_id"`            // 订单ID
	ArtworkID      uint      `gorm:"index;not null" json:"artwork_id"`          // 作品ID
	Quantity       int       `gorm:"not null" json:"quantity"`                  // 数量
	Price          int64     `gorm:"not null" json:"price"`                     // 下单时单价（kobo）
	DiscountID     *uint     `gorm:"index" json:"discount_id,omitempty"`        // 折扣ID
	DiscountAmount int64     `gorm:"not null;default:0" json:"discount_amount"` // 折扣金额（kobo）
	FinalPrice     int64     `gorm:"not null;default:0" json:"final_price"`     // 实付金额（kobo）
	PlatformFee    int64     `gorm:"not null;default:0" json:"platform_fee"`    // 平台服务费（kobo）
	CreatedAt      time.Time `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt      time.Time `json:"updated_at"`                                // 更新时间

	Artwork *Artwork `gorm:"foreignKey:ArtworkID" json:"artwork,omitempty"` // 作品
	Order   *Order   `gorm:"foreignKey:OrderID" json:"order,omitempty"`     // 订单
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
