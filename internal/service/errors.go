package service

import "errors"

// 业务错误定义，handler 层映射为响应码。
var (
	// 购物车
	ErrCartUnavailable    = errors.New("cart storage unavailable")
	ErrCartLineNotFound   = errors.New("cart line not found")
	ErrCartQuantityLimit  = errors.New("cart line quantity limit exceeded")
	ErrCartVendorMismatch = errors.New("cart holds items from another vendor")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("invalid quantity")

	// 商品与库存
	ErrProductNotAvailable = errors.New("product not available")
	ErrVariantNotAvailable = errors.New("variant not available")
	ErrInsufficientStock   = errors.New("insufficient stock")

	// 优惠券
	ErrCouponNotFound         = errors.New("coupon not found")
	ErrCouponInactive         = errors.New("coupon inactive")
	ErrCouponNotStarted       = errors.New("coupon not started")
	ErrCouponExpired          = errors.New("coupon expired")
	ErrCouponUsageLimit       = errors.New("coupon usage limit reached")
	ErrCouponPerCustomerLimit = errors.New("coupon per-customer limit reached")
	ErrCouponFirstTimeOnly    = errors.New("coupon restricted to first order")
	ErrCouponMinPurchase      = errors.New("coupon minimum purchase not met")
	ErrCouponNotApplicable    = errors.New("coupon not applicable to cart items")
	ErrCouponInvalid          = errors.New("coupon invalid")

	// 订单
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderFetchFailed        = errors.New("order fetch failed")
	ErrOrderCreateFailed       = errors.New("order create failed")
	ErrOrderUpdateFailed       = errors.New("order update failed")
	ErrOrderCancelNotAllowed   = errors.New("order cancel not allowed")
	ErrOrderStatusInvalid      = errors.New("order status transition not allowed")
	ErrIdempotencyKeyRequired  = errors.New("idempotency key required")
	ErrGuestEmailRequired      = errors.New("guest email required")
	ErrInvalidEmail            = errors.New("invalid email")
	ErrVendorNotAvailable      = errors.New("vendor store not available")
	ErrTenantNotAvailable      = errors.New("tenant not available")
	ErrTenantOrderQuotaReached = errors.New("tenant order quota reached")

	// 认证
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordTooShort   = errors.New("password too short")

	// 弃购召回
	ErrRecoveryTokenNotFound = errors.New("recovery token not found")
	ErrRecoveryLinkExpired   = errors.New("recovery link expired")
	ErrRecoveryAlreadyUsed   = errors.New("recovery link already used")

	// 评价
	ErrReviewOrderItemNotFound = errors.New("review order item not found")
	ErrReviewNotEligible       = errors.New("review not eligible")
	ErrReviewAlreadyExists     = errors.New("review already exists")
	ErrReviewRatingInvalid     = errors.New("review rating invalid")
)
