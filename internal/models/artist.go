package models

import "time"

// Artist 艺术家资料（每个用户至多一个）
type Artist struct {
	ID                     uint      `gorm:"primarykey" json:"id"`                              // 主键
	UserID                 uint      `gorm:"uniqueIndex;not null" json:"user_id"`               // 用户ID
	Name                   string    `gorm:"type:varchar(120);not null" json:"name"`            // 艺术家名称
	Bio                    string    `gorm:"type:text" json:"bio"`                              // 简介
	PortfolioURL           string    `gorm:"type:varchar(500)" json:"portfolio_url"`            // 作品集地址
	PaystackSubaccountCode string    `gorm:"type:varchar(100)" json:"paystack_subaccount_code"` // Paystack 子账户编码
	BankCode               string    `gorm:"type:varchar(20)" json:"bank_code"`                 // 结算银行编码
	AccountNumberLast4     string    `gorm:"type:varchar(4)" json:"account_number_last4"`       // 结算账号后四位
	CreatedAt              time.Time `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt              time.Time `json:"updated_at"`                                        // 更新时间
}

// TableName 指定表名
func (Artist) TableName() string {
	return "artists"
}
