package repository

import "time"

// ArtworkListFilter 查询作品列表的过滤条件
type ArtworkListFilter struct {
	ArtistID uint
	Page     int
	PageSize int
	Search   string
}

// ArtistOrderLineFilter 查询艺术家订单行的过滤条件
type ArtistOrderLineFilter struct {
	ArtistID       uint
	ShippingStatus string
	Limit          int
}

// ArtistOrderLineRow 艺术家订单行（订单项 + 订单 + 作品 + 买家）
type ArtistOrderLineRow struct {
	OrderItemID    uint
	OrderID        uint
	OrderNo        string
	OrderStatus    string
	ShippingStatus string
	OrderCreatedAt time.Time
	ArtworkID      uint
	ArtworkTitle   string
	Quantity       int
	Price          int64
	DiscountAmount int64
	FinalPrice     int64
	BuyerName      string
	BuyerEmail     string
}
