package repository

import (
	"errors"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// TenantRepository 租户数据访问接口
type TenantRepository interface {
	GetByID(id uint) (*models.Tenant, error)
	Create(tenant *models.Tenant) error
	Update(tenant *models.Tenant) error
	IncrementOrderUsage(id uint) (int64, error)
	DecrementOrderUsage(id uint) error
	WithTx(tx *gorm.DB) TenantRepository
}

// GormTenantRepository GORM 实现
type GormTenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository 创建租户仓库
func NewTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTenantRepository) WithTx(tx *gorm.DB) TenantRepository {
	if tx == nil {
		return r
	}
	return &GormTenantRepository{db: tx}
}

// GetByID 根据 ID 获取租户
func (r *GormTenantRepository) GetByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := r.db.First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tenant, nil
}

// Create 创建租户
func (r *GormTenantRepository) Create(tenant *models.Tenant) error {
	if tenant == nil {
		return errors.New("tenant is nil")
	}
	return r.db.Create(tenant).Error
}

// Update 更新租户
func (r *GormTenantRepository) Update(tenant *models.Tenant) error {
	if tenant == nil {
		return errors.New("tenant is nil")
	}
	return r.db.Save(tenant).Error
}

// IncrementOrderUsage 占用一个订单配额（条件自增，返回影响行数；0 表示配额已满）
func (r *GormTenantRepository) IncrementOrderUsage(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid tenant id")
	}
	result := r.db.Model(&models.Tenant{}).
		Where("id = ? AND (max_orders = 0 OR current_orders < max_orders)", id).
		UpdateColumn("current_orders", gorm.Expr("current_orders + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DecrementOrderUsage 释放一个订单配额（订单取消用）
func (r *GormTenantRepository) DecrementOrderUsage(id uint) error {
	if id == 0 {
		return errors.New("invalid tenant id")
	}
	return r.db.Model(&models.Tenant{}).
		Where("id = ? AND current_orders > 0", id).
		UpdateColumn("current_orders", gorm.Expr("current_orders - 1")).Error
}
