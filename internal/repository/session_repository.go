package repository

import (
	"errors"
	"time"

	"github.com/artmart-next/internal/models"

	"gorm.io/gorm"
)

// SessionRepository 会话数据访问接口
type SessionRepository interface {
	Create(session *models.Session) error
	GetByID(id string) (*models.Session, error)
	Delete(id string) error
	DeleteExpired(before time.Time) (int64, error)
}

// GormSessionRepository GORM 实现
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建会话仓库
func NewSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Create 创建会话
func (r *GormSessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// GetByID 根据会话ID获取
func (r *GormSessionRepository) GetByID(id string) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Delete 删除会话
func (r *GormSessionRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Session{}).Error
}

// DeleteExpired 清理过期会话
func (r *GormSessionRepository) DeleteExpired(before time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", before).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
