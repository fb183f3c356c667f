package models

import (
	"time"

	"gorm.io/gorm"
)

// AbandonedCart 弃购记录表
type AbandonedCart struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                      // 主键
	CartSessionID    string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"cart_session_id"` // 购物车会话ID
	VendorStoreID    uint           `gorm:"index;not null" json:"vendor_store_id"`                     // 店铺ID
	CustomerID       uint           `gorm:"index" json:"customer_id,omitempty"`                        // 顾客ID（匿名为 0）
	CustomerEmail    string         `gorm:"index" json:"customer_email,omitempty"`                     // 顾客邮箱
	CustomerName     string         `gorm:"type:varchar(100)" json:"customer_name,omitempty"`          // 顾客姓名
	SnapshotJSON     JSON           `gorm:"type:json;not null" json:"snapshot"`                        // 购物车快照
	CartTotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cart_total"`   // 快照总额
	ItemCount        int            `gorm:"not null;default:0" json:"item_count"`                      // 快照商品件数
	RecoveryToken    string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"recovery_token"` // 召回令牌
	DiscountCode     string         `gorm:"type:varchar(64);index" json:"discount_code,omitempty"`     // 召回专属优惠码
	ExpiresAt        time.Time      `gorm:"index;not null" json:"expires_at"`                          // 召回链接失效时间
	FirstReminderAt  *time.Time     `json:"first_reminder_at"`                                        // 首封提醒时间
	SecondReminderAt *time.Time     `json:"second_reminder_at"`                                       // 次封提醒时间
	IsRecovered      bool           `gorm:"not null;default:false;index" json:"is_recovered"`          // 是否已召回
	RecoveredAt      *time.Time     `json:"recovered_at"`                                             // 召回时间
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (AbandonedCart) TableName() string {
	return "abandoned_carts"
}
