package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                      // 主键
	VendorStoreID uint           `gorm:"not null;index" json:"vendor_store_id"`                     // 店铺ID
	CategoryID    *uint          `gorm:"index" json:"category_id,omitempty"`                        // 分类ID
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`                          // 唯一标识
	Name          string         `gorm:"not null" json:"name"`                                      // 商品名称
	Description   string         `gorm:"type:text" json:"description"`                              // 商品描述
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`       // 基础售价
	Images        StringArray    `gorm:"type:json" json:"images"`                                   // 图片数组
	Tags          StringArray    `gorm:"type:json" json:"tags"`                                     // 标签数组
	TrackQuantity bool           `gorm:"not null" json:"track_quantity"`                            // 是否跟踪库存
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                  // 商品级库存
	IsActive      bool           `gorm:"not null;index" json:"is_active"`                           // 是否上架
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	VendorStore *VendorStore     `gorm:"foreignKey:VendorStoreID" json:"vendor_store,omitempty"` // 所属店铺
	Category    *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`        // 分类信息
	Variants    []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`         // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
