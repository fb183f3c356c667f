package repository

import (
	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// CouponUsageRepository 优惠券使用记录数据访问接口
type CouponUsageRepository interface {
	Create(usage *models.CouponUsage) error
	CountByCouponAndCustomer(couponID, customerID uint) (int64, error)
	CountByCouponAndEmail(couponID uint, email string) (int64, error)
	DeleteByOrder(orderID uint) error
	WithTx(tx *gorm.DB) CouponUsageRepository
}

// GormCouponUsageRepository GORM 实现
type GormCouponUsageRepository struct {
	db *gorm.DB
}

// NewCouponUsageRepository 创建使用记录仓库
func NewCouponUsageRepository(db *gorm.DB) *GormCouponUsageRepository {
	return &GormCouponUsageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponUsageRepository) WithTx(tx *gorm.DB) CouponUsageRepository {
	if tx == nil {
		return r
	}
	return &GormCouponUsageRepository{db: tx}
}

// Create 创建使用记录
func (r *GormCouponUsageRepository) Create(usage *models.CouponUsage) error {
	return r.db.Create(usage).Error
}

// CountByCouponAndCustomer 统计某顾客对某券的使用次数
func (r *GormCouponUsageRepository) CountByCouponAndCustomer(couponID, customerID uint) (int64, error) {
	if couponID == 0 || customerID == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND customer_id = ?", couponID, customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCouponAndEmail 按邮箱统计某券的使用次数（游客单）
func (r *GormCouponUsageRepository) CountByCouponAndEmail(couponID uint, email string) (int64, error) {
	if couponID == 0 || email == "" {
		return 0, nil
	}
	var count int64
	if err := r.db.Model(&models.CouponUsage{}).
		Where("coupon_id = ? AND customer_email = ?", couponID, email).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteByOrder 删除订单关联的使用记录（取消订单回滚用）
func (r *GormCouponUsageRepository) DeleteByOrder(orderID uint) error {
	if orderID == 0 {
		return nil
	}
	return r.db.Where("order_id = ?", orderID).Delete(&models.CouponUsage{}).Error
}
