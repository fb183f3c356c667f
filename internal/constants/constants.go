package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// 支付状态常量
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// 履约状态常量
const (
	FulfillmentStatusUnfulfilled = "unfulfilled"
	FulfillmentStatusProcessing  = "processing"
	FulfillmentStatusShipped     = "shipped"
	FulfillmentStatusDelivered   = "delivered"
	FulfillmentStatusCanceled    = "canceled"
)

// 优惠券类型常量
const (
	CouponTypePercentage   = "percentage"
	CouponTypeFixedAmount  = "fixed_amount"
	CouponTypeFreeShipping = "free_shipping"
)

// 购物车约束常量
const (
	// CartLineMaxQuantity 单行最大购买数量
	CartLineMaxQuantity = 10
	// CartTTLSecondsDefault 购物车会话滑动 TTL（7 天）
	CartTTLSecondsDefault = 604800
	// CartSessionCookie 购物车会话 Cookie 名称
	CartSessionCookie = "vn_cart_session"
)

// 弃购回收常量
const (
	// AbandonedCartExpireDays 弃购记录有效期（天）
	AbandonedCartExpireDays = 7
	// RecoveryDiscountPercent 召回优惠固定折扣（百分比）
	RecoveryDiscountPercent = 10
)

// 评价时间窗常量
const (
	// ReviewWindowMinDays 发货后多少天起可评价
	ReviewWindowMinDays = 3
	// ReviewWindowMaxDays 发货后多少天内可评价
	ReviewWindowMaxDays = 100
)

// 队列与任务常量
const (
	QueueDefault = "default"

	TaskCartIdleCheck       = "cart:idle_check"
	TaskAbandonedCartRemind = "abandoned_cart:remind"
	TaskOrderConfirmEmail   = "order:confirm_email"
)

// 站点默认值
const (
	SiteCurrencyDefault = "USD"
)
