package repository

import (
	"errors"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// VariantRepository 商品规格数据访问接口
type VariantRepository interface {
	GetByID(id uint) (*models.ProductVariant, error)
	ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error)
	Create(variant *models.ProductVariant) error
	Update(variant *models.ProductVariant) error
	ReserveStock(variantID uint, quantity int) (int64, error)
	ReleaseStock(variantID uint, quantity int) (int64, error)
	GetCombinationByID(id uint) (*models.VariantCombination, error)
	ReserveCombinationStock(combinationID uint, quantity int) (int64, error)
	ReleaseCombinationStock(combinationID uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) VariantRepository
}

// GormVariantRepository GORM 实现
type GormVariantRepository struct {
	db *gorm.DB
}

// NewVariantRepository 创建规格仓库
func NewVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVariantRepository) WithTx(tx *gorm.DB) VariantRepository {
	if tx == nil {
		return r
	}
	return &GormVariantRepository{db: tx}
}

// GetByID 根据 ID 获取规格
func (r *GormVariantRepository) GetByID(id uint) (*models.ProductVariant, error) {
	if id == 0 {
		return nil, errors.New("invalid variant id")
	}
	var variant models.ProductVariant
	if err := r.db.First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// ListByProduct 根据商品获取规格列表
func (r *GormVariantRepository) ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}
	query := r.db.Model(&models.ProductVariant{}).Where("product_id = ?", productID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var variants []models.ProductVariant
	if err := query.Order("sort_order DESC, id ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Create 创建规格
func (r *GormVariantRepository) Create(variant *models.ProductVariant) error {
	if variant == nil {
		return errors.New("variant is nil")
	}
	return r.db.Create(variant).Error
}

// Update 更新规格
func (r *GormVariantRepository) Update(variant *models.ProductVariant) error {
	if variant == nil {
		return errors.New("variant is nil")
	}
	return r.db.Save(variant).Error
}

// ReserveStock 预占规格级库存（条件扣减，返回影响行数）
func (r *GormVariantRepository) ReserveStock(variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock reserve params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ? AND stock_quantity >= ?", variantID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseStock 释放规格级库存
func (r *GormVariantRepository) ReleaseStock(variantID uint, quantity int) (int64, error) {
	if variantID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock release params")
	}
	result := r.db.Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// GetCombinationByID 根据 ID 获取规格组合
func (r *GormVariantRepository) GetCombinationByID(id uint) (*models.VariantCombination, error) {
	if id == 0 {
		return nil, errors.New("invalid combination id")
	}
	var combination models.VariantCombination
	if err := r.db.First(&combination, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &combination, nil
}

// ReserveCombinationStock 预占组合级库存（条件扣减，返回影响行数）
func (r *GormVariantRepository) ReserveCombinationStock(combinationID uint, quantity int) (int64, error) {
	if combinationID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock reserve params")
	}
	result := r.db.Model(&models.VariantCombination{}).
		Where("id = ? AND stock_quantity >= ?", combinationID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseCombinationStock 释放组合级库存
func (r *GormVariantRepository) ReleaseCombinationStock(combinationID uint, quantity int) (int64, error) {
	if combinationID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock release params")
	}
	result := r.db.Model(&models.VariantCombination{}).
		Where("id = ?", combinationID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
