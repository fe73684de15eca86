package repository

import (
	"errors"
	"strings"

	"github.com/artmart-next/internal/models"

	"gorm.io/gorm"
)

// DiscountRepository 折扣数据访问接口
type DiscountRepository interface {
	ListByArtist(artistID uint) ([]models.Discount, error)
	AppliedArtworkCounts(artistID uint) (map[uint]int64, error)
	GetByCode(code string) (*models.Discount, error)
	CodeExists(code string) (bool, error)
	CreateWithArtworks(discount *models.Discount, artworkIDs []uint) error
	RedeemUse(id uint) (bool, error)
	AppliesTo(discountID, artworkID uint) (bool, error)
	WithTx(tx *gorm.DB) DiscountRepository
}

// GormDiscountRepository GORM 实现
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository 创建折扣仓库
func NewDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDiscountRepository) WithTx(tx *gorm.DB) DiscountRepository {
	if tx == nil {
		return r
	}
	return &GormDiscountRepository{db: tx}
}

// ListByArtist 列出艺术家的折扣，按创建时间倒序
func (r *GormDiscountRepository) ListByArtist(artistID uint) ([]models.Discount, error) {
	var discounts []models.Discount
	if err := r.db.Where("artist_id = ?", artistID).
		Order("created_at DESC, id DESC").
		Find(&discounts).Error; err != nil {
		return nil, err
	}
	return discounts, nil
}

// AppliedArtworkCounts 统计每个折扣关联的本艺术家作品数
func (r *GormDiscountRepository) AppliedArtworkCounts(artistID uint) (map[uint]int64, error) {
	type countRow struct {
		DiscountID uint
		Total      int64
	}
	var rows []countRow
	err := r.db.Table("discount_artworks AS da").
		Select("da.discount_id AS discount_id, COUNT(*) AS total").
		Joins("JOIN artworks aw ON aw.id = da.artwork_id").
		Where("aw.artist_id = ?", artistID).
		Group("da.discount_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.DiscountID] = row.Total
	}
	return counts, nil
}

// GetByCode 根据折扣码获取
func (r *GormDiscountRepository) GetByCode(code string) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.Where("code = ?", strings.TrimSpace(code)).First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &discount, nil
}

// CodeExists 判断折扣码是否已被使用
func (r *GormDiscountRepository) CodeExists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Discount{}).Where("code = ?", strings.TrimSpace(code)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateWithArtworks 创建折扣并写入作品关联
func (r *GormDiscountRepository) CreateWithArtworks(discount *models.Discount, artworkIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(discount).Error; err != nil {
			return err
		}
		if len(artworkIDs) == 0 {
			return nil
		}
		links := make([]models.DiscountArtwork, 0, len(artworkIDs))
		seen := make(map[uint]struct{}, len(artworkIDs))
		for _, id := range artworkIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			links = append(links, models.DiscountArtwork{DiscountID: discount.ID, ArtworkID: id})
		}
		return tx.Create(&links).Error
	})
}

// RedeemUse 在未超出使用上限时累加一次使用次数
func (r *GormDiscountRepository) RedeemUse(id uint) (bool, error) {
	result := r.db.Model(&models.Discount{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", id).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AppliesTo 判断折扣是否关联该作品
func (r *GormDiscountRepository) AppliesTo(discountID, artworkID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.DiscountArtwork{}).
		Where("discount_id = ? AND artwork_id = ?", discountID, artworkID).
		Count(&count).Error
	return count > 0, err
}
