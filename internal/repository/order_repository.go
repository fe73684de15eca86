package repository

import (
	"errors"
	"time"

	"github.com/artmart-next/internal/models"

	"gorm.io/gorm"
)

// artistOwnsOrderSQL 订单中至少存在一个属于该艺术家作品的订单项
const artistOwnsOrderSQL = "EXISTS (SELECT 1 FROM order_items oi JOIN artworks aw ON aw.id = oi.artwork_id WHERE oi.order_id = orders.id AND aw.artist_id = ?)"

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByIDForArtist(artistID, orderID uint) (*models.Order, error)
	UpdateShippingStatus(orderID uint, from, to string, at time.Time) (bool, error)
	ListArtistOrderLines(filter ArtistOrderLineFilter) ([]ArtistOrderLineRow, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建订单及订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "User").Create(order).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Omit("Artwork", "Order").Create(&items).Error; err != nil {
			return err
		}
		order.Items = items
		return nil
	})
}

// GetByIDForArtist 获取包含该艺术家作品的订单，否则返回 nil
func (r *GormOrderRepository) GetByIDForArtist(artistID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("orders.id = ?", orderID).
		Where(artistOwnsOrderSQL, artistID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// UpdateShippingStatus 仅当当前状态为 from 时更新为 to，返回是否更新成功
func (r *GormOrderRepository) UpdateShippingStatus(orderID uint, from, to string, at time.Time) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND shipping_status = ?", orderID, from).
		UpdateColumns(map[string]interface{}{
			"shipping_status": to,
			"updated_at":      at.UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListArtistOrderLines 查询艺术家作品相关的订单项，按下单时间倒序
func (r *GormOrderRepository) ListArtistOrderLines(filter ArtistOrderLineFilter) ([]ArtistOrderLineRow, error) {
	var rows []ArtistOrderLineRow
	query := r.db.Table("order_items AS oi").
		Select(`oi.id AS order_item_id,
			oi.order_id AS order_id,
			o.order_no AS order_no,
			o.status AS order_status,
			o.shipping_status AS shipping_status,
			o.created_at AS order_created_at,
			aw.id AS artwork_id,
			aw.title AS artwork_title,
			oi.quantity AS quantity,
			oi.price AS price,
			oi.discount_amount AS discount_amount,
			oi.final_price AS final_price,
			COALESCE(u.name, '') AS buyer_name,
			COALESCE(u.email, '') AS buyer_email`).
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN artworks aw ON aw.id = oi.artwork_id").
		Joins("LEFT JOIN users u ON u.id = o.user_id").
		Where("aw.artist_id = ?", filter.ArtistID)
	if filter.ShippingStatus != "" {
		query = query.Where("o.shipping_status = ?", filter.ShippingStatus)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Order("o.created_at DESC, oi.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
