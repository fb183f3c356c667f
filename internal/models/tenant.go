package models

import (
	"time"

	"gorm.io/gorm"
)

// Tenant 租户表（平台上的商家主体，套餐限额挂在这里）
type Tenant struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                               // 主键
	Name               string         `gorm:"not null" json:"name"`                                               // 租户名称
	PlanCode           string         `gorm:"type:varchar(32);not null;default:'free'" json:"plan_code"`          // 套餐编码
	PlatformFeePercent Money          `gorm:"type:decimal(20,2);not null;default:0" json:"platform_fee_percent"`  // 平台抽成百分比
	MaxOrders          int            `gorm:"not null;default:0" json:"max_orders"`                               // 当期订单配额（0 表示不限制）
	CurrentOrders      int            `gorm:"not null;default:0" json:"current_orders"`                           // 当期已用订单数
	MaxProducts        int            `gorm:"not null;default:0" json:"max_products"`                             // 商品配额（0 表示不限制）
	CurrentProducts    int            `gorm:"not null;default:0" json:"current_products"`                         // 已用商品数
	IsActive           bool           `gorm:"not null" json:"is_active"`                                          // 是否启用
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                            // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                                            // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                                     // 软删除时间
}

// TableName 指定表名
func (Tenant) TableName() string {
	return "tenants"
}
