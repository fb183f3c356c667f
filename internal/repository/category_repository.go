package repository

import (
	"errors"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 商品分类数据访问接口
type CategoryRepository interface {
	GetByID(id uint) (*models.Category, error)
	GetBySlug(vendorStoreID uint, slug string) (*models.Category, error)
	ListByStore(vendorStoreID uint) ([]models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) CategoryRepository
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCategoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	if tx == nil {
		return r
	}
	return &GormCategoryRepository{db: tx}
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetBySlug 根据店铺与 slug 获取分类
func (r *GormCategoryRepository) GetBySlug(vendorStoreID uint, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("vendor_store_id = ? AND slug = ?", vendorStoreID, slug).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// ListByStore 店铺分类列表（按排序权重）
func (r *GormCategoryRepository) ListByStore(vendorStoreID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("vendor_store_id = ?", vendorStoreID).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	return categories, err
}

// Create 创建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	if category == nil {
		return errors.New("category is nil")
	}
	return r.db.Create(category).Error
}

// Update 更新分类
func (r *GormCategoryRepository) Update(category *models.Category) error {
	if category == nil || category.ID == 0 {
		return errors.New("category id is required")
	}
	return r.db.Save(category).Error
}

// Delete 删除分类
func (r *GormCategoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}
