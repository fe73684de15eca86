package repository

import (
	"errors"

	"github.com/artmart-next/internal/models"

	"gorm.io/gorm"
)

// ArtistRepository 艺术家数据访问接口
type ArtistRepository interface {
	GetByUserID(userID uint) (*models.Artist, error)
	GetByID(id uint) (*models.Artist, error)
	List() ([]models.Artist, error)
	Create(artist *models.Artist) error
}

// GormArtistRepository GORM 实现
type GormArtistRepository struct {
	db *gorm.DB
}

// NewArtistRepository 创建艺术家仓库
func NewArtistRepository(db *gorm.DB) *GormArtistRepository {
	return &GormArtistRepository{db: db}
}

// GetByUserID 根据用户ID获取艺术家资料，不存在时返回 nil
func (r *GormArtistRepository) GetByUserID(userID uint) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.Where("user_id = ?", userID).First(&artist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &artist, nil
}

// GetByID 根据 ID 获取艺术家
func (r *GormArtistRepository) GetByID(id uint) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.First(&artist, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &artist, nil
}

// List 列出全部艺术家
func (r *GormArtistRepository) List() ([]models.Artist, error) {
	var artists []models.Artist
	if err := r.db.Order("id ASC").Find(&artists).Error; err != nil {
		return nil, err
	}
	return artists, nil
}

// Create 创建艺术家
func (r *GormArtistRepository) Create(artist *models.Artist) error {
	return r.db.Create(artist).Error
}
