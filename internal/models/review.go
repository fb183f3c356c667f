package models

import (
	"time"

	"gorm.io/gorm"
)

// Review 商品评价表（一个订单项至多一条）
type Review struct {
	ID          uint           `gorm:"primarykey" json:"id"`                       // 主键
	OrderID     uint           `gorm:"index;not null" json:"order_id"`             // 订单ID
	OrderItemID uint           `gorm:"uniqueIndex;not null" json:"order_item_id"`  // 订单项ID
	ProductID   uint           `gorm:"index;not null" json:"product_id"`           // 商品ID
	CustomerID  uint           `gorm:"index" json:"customer_id,omitempty"`         // 顾客ID（游客为 0）
	Rating      int            `gorm:"not null" json:"rating"`                     // 评分（1-5）
	Content     string         `gorm:"type:text" json:"content"`                   // 评价内容
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                    // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
