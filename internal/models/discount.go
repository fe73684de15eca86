package models

import (
	"time"
)

// Discount 艺术家折扣码
type Discount struct {
	ID          uint      `gorm:"primarykey" json:"id"`                              // 主键
	ArtistID    uint      `gorm:"index;not null" json:"artist_id"`                   // 艺术家ID
	Code        string    `gorm:"uniqueIndex;type:varchar(50);not null" json:"code"` // 折扣码
	Description string    `gorm:"type:varchar(255);not null" json:"description"`     // 描述
	Percentage  int       `gorm:"not null" json:"percentage"`                        // 折扣百分比（1-100）
	StartDate   time.Time `gorm:"index;not null" json:"start_date"`                  // 生效时间
	EndDate     time.Time `gorm:"index;not null" json:"end_date"`                    // 失效时间
	MaxUses     *int      `json:"max_uses"`                                          // 最大使用次数（null 表示不限）
	UsedCount   int       `gorm:"not null;default:0" json:"used_count"`              // 已使用次数
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`            // 是否启用
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                        // 更新时间
}

// TableName 指定表名
func (Discount) TableName() string {
	return "discounts"
}

// DiscountArtwork 折扣与作品关联
type DiscountArtwork struct {
	DiscountID uint `gorm:"primaryKey;autoIncrement:false" json:"discount_id"` // 折扣ID
	ArtworkID  uint `gorm:"primaryKey;autoIncrement:false" json:"artwork_id"`  // 作品ID
}

// TableName 指定表名
func (DiscountArtwork) TableName() string {
	return "discount_artworks"
}

// IsValid 判断折扣在 now 时刻是否可用
func (d *Discount) IsValid(now time.Time) bool {
	if !d.IsActive {
		return false
	}
	if now.Before(d.StartDate) || now.After(d.EndDate) {
		return false
	}
	if d.MaxUses != nil && d.UsedCount >= *d.MaxUses {
		return false
	}
	return true
}
