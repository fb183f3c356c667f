package repository

import "time"

// OrderListFilter 订单列表筛选
type OrderListFilter struct {
	VendorStoreID     uint
	CustomerID        uint
	Status            string
	PaymentStatus     string
	FulfillmentStatus string
	OrderNo           string
	GuestEmail        string
	CreatedFrom       *time.Time
	CreatedTo         *time.Time
	Page              int
	PageSize          int
}

// CouponListFilter 优惠券列表筛选
type CouponListFilter struct {
	VendorStoreID uint
	Code          string
	Type          string
	IsActive      *bool
	Page          int
	PageSize      int
}
