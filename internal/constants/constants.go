package constants

// 订单状态常量
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusCancelled = "CANCELLED"
)

// 发货状态常量
const (
	ShippingStatusPending   = "PENDING"
	ShippingStatusShipped   = "SHIPPED"
	ShippingStatusDelivered = "DELIVERED"
)

// 作品分类常量
const (
	CategoryPainting    = "PAINTING"
	CategorySculpture   = "SCULPTURE"
	CategoryPhotography = "PHOTOGRAPHY"
	CategoryDigitalArt  = "DIGITAL_ART"
	CategoryDrawing     = "DRAWING"
	CategoryPrintmaking = "PRINTMAKING"
	CategoryOther       = "OTHER"
)

// 作品品相常量
const (
	ConditionNew     = "NEW"
	ConditionLikeNew = "LIKE_NEW"
	ConditionGood    = "GOOD"
	ConditionFair    = "FAIR"
)

// ArtworkCategories 可选分类
var ArtworkCategories = []string{
	CategoryPainting,
	CategorySculpture,
	CategoryPhotography,
	CategoryDigitalArt,
	CategoryDrawing,
	CategoryPrintmaking,
	CategoryOther,
}

// ArtworkConditions 可选品相
var ArtworkConditions = []string{
	ConditionNew,
	ConditionLikeNew,
	ConditionGood,
	ConditionFair,
}

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 提示消息类型
const (
	ToastIntentSuccess = "success"
	ToastIntentError   = "error"
	ToastIntentInfo    = "info"
	ToastIntentWarning = "warning"
)

// 异步队列名称与任务类型
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskShippingStatusChanged = "order:shipping_status_changed"
)

// 角色常量
const (
	RoleArtist = "artist"
)

// 币种常量
const (
	CurrencyNGN = "NGN"
)
