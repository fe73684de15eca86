package repository

import (
	"errors"
	"strings"

	"github.com/artmart-next/internal/models"

	"gorm.io/gorm"
)

// ArtworkRepository 作品数据访问接口
type ArtworkRepository interface {
	List(filter ArtworkListFilter) ([]models.Artwork, int64, error)
	GetByID(id uint) (*models.Artwork, error)
	GetByIDForArtist(artistID, id uint) (*models.Artwork, error)
	CreateWithImages(artwork *models.Artwork, images []models.Image) error
	CountOwned(artistID uint, ids []uint) (int64, error)
	DecrementStock(id uint, quantity int) (bool, error)
	FirstImages(artworkIDs []uint) (map[uint]models.Image, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ArtworkRepository
}

// GormArtworkRepository GORM 实现
type GormArtworkRepository struct {
	db *gorm.DB
}

// NewArtworkRepository 创建作品仓库
func NewArtworkRepository(db *gorm.DB) *GormArtworkRepository {
	return &GormArtworkRepository{db: db}
}

// WithTx 绑定事务
func (r *GormArtworkRepository) WithTx(tx *gorm.DB) ArtworkRepository {
	if tx == nil {
		return r
	}
	return &GormArtworkRepository{db: tx}
}

// Transaction 执行事务
func (r *GormArtworkRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("images.id ASC")
}

// List 分页查询艺术家作品，总数与列表使用同一搜索条件
func (r *GormArtworkRepository) List(filter ArtworkListFilter) ([]models.Artwork, int64, error) {
	var artworks []models.Artwork

	query := r.db.Model(&models.Artwork{}).Where("artist_id = ?", filter.ArtistID)
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, argCount := buildCaseInsensitiveLike(dbDialectName(r.db), []string{"title", "description"})
		query = query.Where(condition, repeatLikeArgs(containsPattern(search), argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Images", orderedImages).
		Order("created_at DESC, id DESC").
		Find(&artworks).Error; err != nil {
		return nil, 0, err
	}
	return artworks, total, nil
}

// GetByID 按 ID 获取作品
func (r *GormArtworkRepository) GetByID(id uint) (*models.Artwork, error) {
	var artwork models.Artwork
	if err := r.db.Preload("Images", orderedImages).First(&artwork, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &artwork, nil
}

// GetByIDForArtist 获取属于该艺术家的作品，不属于或不存在时返回 nil
func (r *GormArtworkRepository) GetByIDForArtist(artistID, id uint) (*models.Artwork, error) {
	var artwork models.Artwork
	err := r.db.Preload("Images", orderedImages).
		Where("id = ? AND artist_id = ?", id, artistID).
		First(&artwork).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &artwork, nil
}

// CreateWithImages 在同一事务中写入作品与图片
func (r *GormArtworkRepository) CreateWithImages(artwork *models.Artwork, images []models.Image) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Images").Create(artwork).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		for i := range images {
			images[i].ArtworkID = artwork.ID
		}
		if err := tx.Create(&images).Error; err != nil {
			return err
		}
		artwork.Images = images
		return nil
	})
}

// CountOwned 统计给定作品中属于该艺术家的数量
func (r *GormArtworkRepository) CountOwned(artistID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Artwork{}).
		Where("artist_id = ? AND id IN ?", artistID, ids).
		Count(&count).Error
	return count, err
}

// DecrementStock 扣减有限库存，库存不足或为无限库存时返回 false
func (r *GormArtworkRepository) DecrementStock(id uint, quantity int) (bool, error) {
	result := r.db.Model(&models.Artwork{}).
		Where("id = ? AND stock IS NOT NULL AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// FirstImages 获取每个作品的首张图片
func (r *GormArtworkRepository) FirstImages(artworkIDs []uint) (map[uint]models.Image, error) {
	result := make(map[uint]models.Image, len(artworkIDs))
	if len(artworkIDs) == 0 {
		return result, nil
	}
	var images []models.Image
	err := r.db.Where("id IN (?)",
		r.db.Model(&models.Image{}).
			Select("MIN(id)").
			Where("artwork_id IN ?", artworkIDs).
			Group("artwork_id"),
	).Find(&images).Error
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		result[img.ArtworkID] = img
	}
	return result, nil
}
