package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 商品分类表（店铺内唯一 slug）
type Category struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                                     // 主键
	VendorStoreID uint           `gorm:"not null;uniqueIndex:idx_category_store_slug" json:"vendor_store_id"`     // 店铺ID
	Slug          string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_store_slug" json:"slug"` // 唯一标识
	Name          string         `gorm:"not null" json:"name"`                                                     // 分类名称
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                                        // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                                  // 创建时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                           // 软删除时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
