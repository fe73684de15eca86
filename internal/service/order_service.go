package service

import (
	"context"
	"time"

	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/events"
	"github.com/artmart-next/internal/logger"
	"github.com/artmart-next/internal/metrics"
	"github.com/artmart-next/internal/queue"
	"github.com/artmart-next/internal/repository"

	"github.com/hibiken/asynq"
)

const recentSalesLimit = 5

// ShippingTaskEnqueuer 发货状态变更任务投递
type ShippingTaskEnqueuer interface {
	EnqueueShippingStatusChanged(payload queue.ShippingStatusChangedPayload, opts ...asynq.Option) (bool, error)
}

// OrderService 艺术家订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	artworkRepo repository.ArtworkRepository
	tasks       ShippingTaskEnqueuer
	publisher   events.Publisher
	now         func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, artworkRepo repository.ArtworkRepository, tasks ShippingTaskEnqueuer, publisher events.Publisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		artworkRepo: artworkRepo,
		tasks:       tasks,
		publisher:   publisher,
		now:         time.Now,
	}
}

// ImagePreview 作品首图预览
type ImagePreview struct {
	URL      string `json:"url"`
	Blurhash string `json:"blurhash"`
}

// BuyerView 买家信息
type BuyerView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderLineView 艺术家视角的订单行
type OrderLineView struct {
	OrderItemID    uint          `json:"order_item_id"`
	OrderID        uint          `json:"order_id"`
	OrderNo        string        `json:"order_no"`
	Status         string        `json:"status"`
	ShippingStatus string        `json:"shipping_status"`
	CreatedAt      time.Time     `json:"created_at"`
	ArtworkID      uint          `json:"artwork_id"`
	ArtworkTitle   string        `json:"artwork_title"`
	Quantity       int           `json:"quantity"`
	Price          int64         `json:"price"`
	DiscountAmount int64         `json:"discount_amount"`
	FinalPrice     int64         `json:"final_price"`
	Image          *ImagePreview `json:"image"`
	Buyer          *BuyerView    `json:"buyer,omitempty"`
}

// ShippingUpdateResult 发货状态更新结果
type ShippingUpdateResult struct {
	OrderID        uint   `json:"order_id"`
	ShippingStatus string `json:"shipping_status"`
}

// UpdateShippingStatus 推进订单发货状态
// 查询限定在艺术家可见的订单内，写入为带原状态条件的单条 UPDATE
func (s *OrderService) UpdateShippingStatus(ctx context.Context, artistID, orderID uint, target string) (*ShippingUpdateResult, error) {
	if !IsShippingTarget(target) {
		metrics.ShippingTransitionsTotal.WithLabelValues(target, "rejected").Inc()
		return nil, &InvalidTransitionError{To: target}
	}

	order, err := s.orderRepo.GetByIDForArtist(artistID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		metrics.ShippingTransitionsTotal.WithLabelValues(target, "not_found").Inc()
		return nil, ErrOrderNotFound
	}

	from := order.ShippingStatus
	if !CanTransitionShipping(from, target) {
		metrics.ShippingTransitionsTotal.WithLabelValues(target, "rejected").Inc()
		return nil, &InvalidTransitionError{From: from, To: target}
	}

	now := s.now()
	updated, err := s.orderRepo.UpdateShippingStatus(order.ID, from, target, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		metrics.ShippingTransitionsTotal.WithLabelValues(target, "conflict").Inc()
		logger.Warnw("shipping_transition_conflict", "order_id", order.ID, "artist_id", artistID, "from", from, "to", target)
		return nil, &InvalidTransitionError{From: from, To: target}
	}

	metrics.ShippingTransitionsTotal.WithLabelValues(target, "ok").Inc()
	logger.Infow("shipping_status_changed", "order_id", order.ID, "order_no", order.OrderNo, "artist_id", artistID, "from", from, "to", target)

	s.dispatchShippingChanged(ctx, queue.ShippingStatusChangedPayload{
		OrderID:   order.ID,
		OrderNo:   order.OrderNo,
		ArtistID:  artistID,
		From:      from,
		To:        target,
		ChangedAt: now,
	})
	return &ShippingUpdateResult{OrderID: order.ID, ShippingStatus: target}, nil
}

// dispatchShippingChanged 优先投递异步任务，队列不可用时直接发布事件
func (s *OrderService) dispatchShippingChanged(ctx context.Context, payload queue.ShippingStatusChangedPayload) {
	if s.tasks != nil {
		queued, err := s.tasks.EnqueueShippingStatusChanged(payload)
		if err != nil {
			logger.Warnw("shipping_task_enqueue_failed", "order_id", payload.OrderID, "error", err)
		}
		if queued {
			return
		}
	}
	if err := PublishShippingStatusChanged(ctx, s.publisher, payload); err != nil {
		logger.Warnw("shipping_event_publish_failed", "order_id", payload.OrderID, "error", err)
	}
}

// PublishShippingStatusChanged 将任务载荷转换为领域事件并发布
func PublishShippingStatusChanged(ctx context.Context, publisher events.Publisher, payload queue.ShippingStatusChangedPayload) error {
	if publisher == nil {
		return nil
	}
	event := events.NewShippingStatusChanged(payload.OrderID, payload.OrderNo, payload.ArtistID, payload.From, payload.To, payload.ChangedAt)
	return publisher.PublishShippingStatusChanged(ctx, event)
}

// ListOrders 艺术家全部订单行
func (s *OrderService) ListOrders(artistID uint) ([]OrderLineView, error) {
	return s.listLines(repository.ArtistOrderLineFilter{ArtistID: artistID}, false)
}

// ListPendingOrders 待发货订单行
func (s *OrderService) ListPendingOrders(artistID uint) ([]OrderLineView, error) {
	return s.listLines(repository.ArtistOrderLineFilter{
		ArtistID:       artistID,
		ShippingStatus: constants.ShippingStatusPending,
	}, false)
}

// ListRecentSales 最近 5 笔销售，附带买家信息
func (s *OrderService) ListRecentSales(artistID uint) ([]OrderLineView, error) {
	return s.listLines(repository.ArtistOrderLineFilter{ArtistID: artistID, Limit: recentSalesLimit}, true)
}

func (s *OrderService) listLines(filter repository.ArtistOrderLineFilter, withBuyer bool) ([]OrderLineView, error) {
	rows, err := s.orderRepo.ListArtistOrderLines(filter)
	if err != nil {
		return nil, err
	}
	artworkIDs := make([]uint, 0, len(rows))
	seen := make(map[uint]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ArtworkID]; ok {
			continue
		}
		seen[row.ArtworkID] = struct{}{}
		artworkIDs = append(artworkIDs, row.ArtworkID)
	}
	firstImages, err := s.artworkRepo.FirstImages(artworkIDs)
	if err != nil {
		return nil, err
	}

	views := make([]OrderLineView, 0, len(rows))
	for _, row := range rows {
		view := OrderLineView{
			OrderItemID:    row.OrderItemID,
			OrderID:        row.OrderID,
			OrderNo:        row.OrderNo,
			Status:         row.OrderStatus,
			ShippingStatus: row.ShippingStatus,
			CreatedAt:      row.OrderCreatedAt,
			ArtworkID:      row.ArtworkID,
			ArtworkTitle:   row.ArtworkTitle,
			Quantity:       row.Quantity,
			Price:          row.Price,
			DiscountAmount: row.DiscountAmount,
			FinalPrice:     row.FinalPrice,
		}
		if img, ok := firstImages[row.ArtworkID]; ok {
			view.Image = &ImagePreview{URL: img.URL, Blurhash: img.Blurhash}
		}
		if withBuyer {
			view.Buyer = &BuyerView{Name: row.BuyerName, Email: row.BuyerEmail}
		}
		views = append(views, view)
	}
	return views, nil
}
