package repository

import (
	"errors"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// VendorStoreRepository 店铺数据访问接口
type VendorStoreRepository interface {
	GetByID(id uint) (*models.VendorStore, error)
	GetBySlug(slug string) (*models.VendorStore, error)
	Create(store *models.VendorStore) error
	Update(store *models.VendorStore) error
	IncrementSales(id uint, amount models.Money) error
	DecrementSales(id uint, amount models.Money) error
	WithTx(tx *gorm.DB) VendorStoreRepository
}

// GormVendorStoreRepository GORM 实现
type GormVendorStoreRepository struct {
	db *gorm.DB
}

// NewVendorStoreRepository 创建店铺仓库
func NewVendorStoreRepository(db *gorm.DB) *GormVendorStoreRepository {
	return &GormVendorStoreRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVendorStoreRepository) WithTx(tx *gorm.DB) VendorStoreRepository {
	if tx == nil {
		return r
	}
	return &GormVendorStoreRepository{db: tx}
}

// GetByID 根据 ID 获取店铺
func (r *GormVendorStoreRepository) GetByID(id uint) (*models.VendorStore, error) {
	var store models.VendorStore
	if err := r.db.Preload("Tenant").First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// GetBySlug 根据 slug 获取店铺
func (r *GormVendorStoreRepository) GetBySlug(slug string) (*models.VendorStore, error) {
	if slug == "" {
		return nil, nil
	}
	var store models.VendorStore
	if err := r.db.Preload("Tenant").Where("slug = ?", slug).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

// Create 创建店铺
func (r *GormVendorStoreRepository) Create(store *models.VendorStore) error {
	if store == nil {
		return errors.New("vendor store is nil")
	}
	return r.db.Create(store).Error
}

// Update 更新店铺
func (r *GormVendorStoreRepository) Update(store *models.VendorStore) error {
	if store == nil {
		return errors.New("vendor store is nil")
	}
	return r.db.Save(store).Error
}

// IncrementSales 累加店铺销售统计（与订单写入同事务）
func (r *GormVendorStoreRepository) IncrementSales(id uint, amount models.Money) error {
	if id == 0 {
		return errors.New("invalid vendor store id")
	}
	return r.db.Model(&models.VendorStore{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_orders": gorm.Expr("total_orders + 1"),
			"total_sales":  gorm.Expr("total_sales + ?", amount),
		}).Error
}

// DecrementSales 回退店铺销售统计（订单取消用）
func (r *GormVendorStoreRepository) DecrementSales(id uint, amount models.Money) error {
	if id == 0 {
		return errors.New("invalid vendor store id")
	}
	return r.db.Model(&models.VendorStore{}).
		Where("id = ? AND total_orders > 0", id).
		Updates(map[string]interface{}{
			"total_orders": gorm.Expr("total_orders - 1"),
			"total_sales":  gorm.Expr("total_sales - ?", amount),
		}).Error
}
