package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品规格表（如颜色/尺码维度）
type ProductVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                                             // 主键
	ProductID     uint           `gorm:"not null;index;uniqueIndex:idx_variant_product_sku" json:"product_id"`            // 商品ID
	SKUCode       string         `gorm:"column:sku_code;type:varchar(64);not null;uniqueIndex:idx_variant_product_sku" json:"sku_code"` // SKU编码（同商品内唯一）
	Name          string         `gorm:"not null" json:"name"`                                                             // 规格名称
	Price         *Money         `gorm:"type:decimal(20,2)" json:"price,omitempty"`                                        // 规格售价（空则用商品价）
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                                         // 规格级库存
	IsActive      bool           `gorm:"not null;index" json:"is_active"`                                                  // 是否启用
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                                                // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                                          // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                                          // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                                   // 软删除时间

	Product      *Product             `gorm:"foreignKey:ProductID" json:"product,omitempty"`       // 关联商品
	Combinations []VariantCombination `gorm:"foreignKey:VariantID" json:"combinations,omitempty"` // 组合列表
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// VariantCombination 规格组合表（多维规格的最细粒度库存单元）
type VariantCombination struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                                                 // 主键
	VariantID     uint           `gorm:"not null;index;uniqueIndex:idx_combination_variant_sku" json:"variant_id"`            // 规格ID
	SKUCode       string         `gorm:"column:sku_code;type:varchar(64);not null;uniqueIndex:idx_combination_variant_sku" json:"sku_code"` // 组合SKU编码
	OptionsJSON   JSON           `gorm:"type:json" json:"options"`                                                             // 组合选项值
	Price         *Money         `gorm:"type:decimal(20,2)" json:"price,omitempty"`                                            // 组合售价（空则向上回退）
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                                             // 组合级库存
	IsActive      bool           `gorm:"not null;index" json:"is_active"`                                                      // 是否启用
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                                              // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                                              // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                                       // 软删除时间
}

// TableName 指定表名
func (VariantCombination) TableName() string {
	return "variant_combinations"
}
