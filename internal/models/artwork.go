package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Artwork 作品表
type Artwork struct {
	ID          uint            `gorm:"primarykey" json:"id"`                            // 主键
	ArtistID    uint            `gorm:"index;not null" json:"artist_id"`                 // 艺术家ID
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`         // 标题
	Description string          `gorm:"type:text;not null" json:"description"`           // 描述
	Price       int64           `gorm:"not null" json:"price"`                           // 价格（kobo）
	Dimensions  string          `gorm:"type:varchar(100);not null" json:"dimensions"`    // 尺寸（如 20x30x2）
	Weight      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"weight"`       // 重量（kg）
	Condition   string          `gorm:"type:varchar(20);not null" json:"condition"`      // 品相
	Category    string          `gorm:"type:varchar(30);not null;index" json:"category"` // 分类
	Stock       *int            `json:"stock"`                                           // 库存（null 表示不限量）
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt   time.Time       `json:"updated_at"`                                      // 更新时间

	// 关联
	Images []Image `gorm:"foreignKey:ArtworkID" json:"images"` // 图片列表
}

// TableName 指定表名
func (Artwork) TableName() string {
	return "artworks"
}

// UnlimitedStock 是否不限库存
func (a *Artwork) UnlimitedStock() bool {
	return a.Stock == nil
}

// Image 作品图片
type Image struct {
	ID        uint      `gorm:"primarykey" json:"id"`                  // 主键
	ArtworkID uint      `gorm:"index;not null" json:"artwork_id"`      // 作品ID
	URL       string    `gorm:"type:varchar(500);not null" json:"url"` // 访问地址
	Blurhash  string    `gorm:"type:varchar(100)" json:"blurhash"`     // 预览哈希
	CreatedAt time.Time `json:"created_at"`                            // 创建时间
}

// TableName 指定表名
func (Image) TableName() string {
	return "images"
}
