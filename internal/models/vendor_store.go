package models

import (
	"time"

	"gorm.io/gorm"
)

// VendorStore 商家店铺表
type VendorStore struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                            // 主键
	TenantID        uint           `gorm:"index;not null" json:"tenant_id"`                                 // 租户ID
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`                                // 唯一标识
	Name            string         `gorm:"not null" json:"name"`                                            // 店铺名称
	Email           string         `gorm:"type:varchar(200)" json:"email"`                                  // 联系邮箱
	PasswordHash    string         `gorm:"type:varchar(200)" json:"-"`                                      // 商家登录密码哈希
	Currency        string         `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`         // 结算币种
	ShippingFlatRate Money         `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_flat_rate"` // 固定运费
	FreeShippingMin Money          `gorm:"type:decimal(20,2);not null;default:0" json:"free_shipping_min"`  // 免运费门槛（0 表示不启用）
	TaxRegion       string         `gorm:"type:varchar(32)" json:"tax_region"`                              // 税率区域编码
	TotalOrders     int            `gorm:"not null;default:0" json:"total_orders"`                          // 累计订单数
	TotalSales      Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_sales"`        // 累计销售额
	IsActive        bool           `gorm:"not null;index" json:"is_active"`                                 // 是否启用
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                         // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"` // 关联租户
}

// TableName 指定表名
func (VendorStore) TableName() string {
	return "vendor_stores"
}
