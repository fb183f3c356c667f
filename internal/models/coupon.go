package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券（店铺内 code 唯一）
type Coupon struct {
	ID                   uint           `gorm:"primarykey" json:"id"`                                                   // 主键
	VendorStoreID        uint           `gorm:"not null;uniqueIndex:idx_coupon_store_code" json:"vendor_store_id"`     // 店铺ID
	Code                 string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_coupon_store_code" json:"code"` // 优惠码
	Type                 string         `gorm:"not null" json:"type"`                                                   // 类型（percentage/fixed_amount/free_shipping）
	Value                Money          `gorm:"type:decimal(20,2);not null" json:"value"`                               // 数值（百分比或固定金额）
	MinPurchaseAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"min_purchase_amount"`       // 使用门槛
	MaxDiscountAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"max_discount_amount"`       // 最大优惠金额（0 表示不限制）
	UsageLimit           int            `gorm:"not null;default:0" json:"usage_limit"`                                  // 总使用上限（0 表示不限制）
	UsedCount            int            `gorm:"not null;default:0" json:"used_count"`                                   // 已使用次数
	PerCustomerLimit     int            `gorm:"not null;default:0" json:"per_customer_limit"`                           // 每人使用上限（0 表示不限制）
	FirstTimeOnly        bool           `gorm:"not null;default:false" json:"first_time_only"`                          // 仅限首单
	ApplicableProducts   UintArray      `gorm:"type:text" json:"applicable_products"`                                   // 适用商品ID集合（空表示全部）
	ExcludedProducts     UintArray      `gorm:"type:text" json:"excluded_products"`                                     // 排除商品ID集合
	ApplicableCategories UintArray      `gorm:"type:text" json:"applicable_categories"`                                 // 适用分类ID集合（空表示全部）
	StartsAt             *time.Time     `gorm:"index" json:"starts_at"`                                                 // 生效时间
	EndsAt               *time.Time     `gorm:"index" json:"ends_at"`                                                   // 失效时间
	IsActive             bool           `gorm:"not null" json:"is_active"`                                              // 是否启用
	CreatedAt            time.Time      `gorm:"index" json:"created_at"`                                                // 创建时间
	UpdatedAt            time.Time      `gorm:"index" json:"updated_at"`                                                // 更新时间
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`                                                         // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
