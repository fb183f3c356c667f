package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                          // 主键
	OrderNo           string         `gorm:"uniqueIndex;not null" json:"order_no"`                          // 订单编号
	TenantID          uint           `gorm:"index;not null" json:"tenant_id"`                               // 租户ID
	VendorStoreID     uint           `gorm:"index;not null" json:"vendor_store_id"`                         // 店铺ID
	CustomerID        uint           `gorm:"index;not null" json:"customer_id,omitempty"`                   // 顾客ID（游客订单为 0）
	GuestEmail        string         `gorm:"index" json:"guest_email,omitempty"`                            // 游客邮箱
	Status            string         `gorm:"index;not null" json:"status"`                                  // 订单状态
	PaymentStatus     string         `gorm:"index;not null" json:"payment_status"`                          // 支付状态
	FulfillmentStatus string         `gorm:"index;not null" json:"fulfillment_status"`                      // 履约状态
	Currency          string         `gorm:"not null" json:"currency"`                                      // 币种
	Subtotal          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`         // 商品小计
	ShippingAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_amount"`  // 运费
	TaxAmount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax_amount"`       // 税额
	DiscountAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // 优惠金额
	PlatformFee       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"platform_fee"`     // 平台抽成
	ProcessorCost     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"processor_cost"`   // 支付通道成本
	VendorPayout      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"vendor_payout"`    // 商家应得
	TotalAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`     // 实付金额
	CouponID          *uint          `gorm:"index" json:"coupon_id,omitempty"`                              // 优惠券ID
	CouponCode        string         `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`                 // 优惠码快照
	IdempotencyKey    string         `gorm:"type:varchar(128);uniqueIndex;not null" json:"idempotency_key"` // 幂等键（客户端提交）
	PaymentMethodRef  string         `gorm:"type:varchar(128)" json:"payment_method_ref,omitempty"`         // 支付方式引用（外部通道不透明引用）
	ShippingAddress   JSON           `gorm:"type:json" json:"shipping_address"`                             // 收货地址快照
	ClientIP          string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                   // 下单客户端IP
	PaidAt            *time.Time     `gorm:"index" json:"paid_at"`                                          // 支付时间
	ShippedAt         *time.Time     `gorm:"index" json:"shipped_at"`                                       // 发货时间
	DeliveredAt       *time.Time     `gorm:"index" json:"delivered_at"`                                     // 签收时间
	CanceledAt        *time.Time     `gorm:"index" json:"canceled_at"`                                      // 取消时间
	RefundedAt        *time.Time     `gorm:"index" json:"refunded_at"`                                      // 退款时间
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                       // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间

	// 关联
	Items       []OrderItem  `gorm:"foreignKey:OrderID" json:"items,omitempty"`              // 订单项
	VendorStore *VendorStore `gorm:"foreignKey:VendorStoreID" json:"vendor_store,omitempty"` // 所属店铺
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
