package models

import "time"

// Session 登录会话
type Session struct {
	ID        string    `gorm:"primarykey;type:varchar(64)" json:"id"` // 会话ID（uuid）
	UserID    uint      `gorm:"index;not null" json:"user_id"`         // 用户ID
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`      // 过期时间
	IPAddress string    `gorm:"type:varchar(64)" json:"ip_address"`    // 登录IP
	UserAgent string    `gorm:"type:varchar(500)" json:"user_agent"`   // 客户端标识
	CreatedAt time.Time `json:"created_at"`                            // 创建时间
}

// TableName 指定表名
func (Session) TableName() string {
	return "sessions"
}

// Expired 判断会话是否已过期
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
