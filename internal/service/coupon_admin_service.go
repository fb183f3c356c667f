package service

import (
	"strings"
	"time"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService 商家端优惠券管理
type CouponAdminService struct {
	couponRepo repository.CouponRepository
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(couponRepo repository.CouponRepository) *CouponAdminService {
	return &CouponAdminService{couponRepo: couponRepo}
}

// CouponUpsertInput 创建/更新优惠券输入
type CouponUpsertInput struct {
	Code                 string
	Type                 string
	Value                models.Money
	MinPurchaseAmount    models.Money
	MaxDiscountAmount    models.Money
	UsageLimit           int
	PerCustomerLimit     int
	FirstTimeOnly        bool
	ApplicableProducts   models.UintArray
	ExcludedProducts     models.UintArray
	ApplicableCategories models.UintArray
	StartsAt             *time.Time
	EndsAt               *time.Time
	IsActive             bool
}

// Create 创建优惠券
func (s *CouponAdminService) Create(vendorStoreID uint, input CouponUpsertInput) (*models.Coupon, error) {
	normalized, err := normalizeCouponInput(input)
	if err != nil {
		return nil, err
	}
	existing, err := s.couponRepo.GetByVendorAndCode(vendorStoreID, normalized.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCouponInvalid
	}

	coupon := &models.Coupon{
		VendorStoreID:        vendorStoreID,
		Code:                 normalized.Code,
		Type:                 normalized.Type,
		Value:                normalized.Value,
		MinPurchaseAmount:    normalized.MinPurchaseAmount,
		MaxDiscountAmount:    normalized.MaxDiscountAmount,
		UsageLimit:           normalized.UsageLimit,
		PerCustomerLimit:     normalized.PerCustomerLimit,
		FirstTimeOnly:        normalized.FirstTimeOnly,
		ApplicableProducts:   normalized.ApplicableProducts,
		ExcludedProducts:     normalized.ExcludedProducts,
		ApplicableCategories: normalized.ApplicableCategories,
		StartsAt:             normalized.StartsAt,
		EndsAt:               normalized.EndsAt,
		IsActive:             normalized.IsActive,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Update 更新优惠券
func (s *CouponAdminService) Update(vendorStoreID, couponID uint, input CouponUpsertInput) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil || coupon.VendorStoreID != vendorStoreID {
		return nil, ErrCouponNotFound
	}
	normalized, err := normalizeCouponInput(input)
	if err != nil {
		return nil, err
	}
	if normalized.Code != coupon.Code {
		existing, err := s.couponRepo.GetByVendorAndCode(vendorStoreID, normalized.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != coupon.ID {
			return nil, ErrCouponInvalid
		}
	}

	coupon.Code = normalized.Code
	coupon.Type = normalized.Type
	coupon.Value = normalized.Value
	coupon.MinPurchaseAmount = normalized.MinPurchaseAmount
	coupon.MaxDiscountAmount = normalized.MaxDiscountAmount
	coupon.UsageLimit = normalized.UsageLimit
	coupon.PerCustomerLimit = normalized.PerCustomerLimit
	coupon.FirstTimeOnly = normalized.FirstTimeOnly
	coupon.ApplicableProducts = normalized.ApplicableProducts
	coupon.ExcludedProducts = normalized.ExcludedProducts
	coupon.ApplicableCategories = normalized.ApplicableCategories
	coupon.StartsAt = normalized.StartsAt
	coupon.EndsAt = normalized.EndsAt
	coupon.IsActive = normalized.IsActive
	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete 删除优惠券
func (s *CouponAdminService) Delete(vendorStoreID, couponID uint) error {
	coupon, err := s.couponRepo.GetByID(couponID)
	if err != nil {
		return err
	}
	if coupon == nil || coupon.VendorStoreID != vendorStoreID {
		return ErrCouponNotFound
	}
	return s.couponRepo.Delete(couponID)
}

// List 商家优惠券列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(filter)
}

// Get 商家优惠券详情
func (s *CouponAdminService) Get(vendorStoreID, couponID uint) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil || coupon.VendorStoreID != vendorStoreID {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

func normalizeCouponInput(input CouponUpsertInput) (CouponUpsertInput, error) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if input.Code == "" {
		return input, ErrCouponInvalid
	}
	switch input.Type {
	case constants.CouponTypePercentage:
		if input.Value.Decimal.LessThanOrEqual(decimal.Zero) ||
			input.Value.Decimal.GreaterThan(decimal.NewFromInt(100)) {
			return input, ErrCouponInvalid
		}
	case constants.CouponTypeFixedAmount:
		if input.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return input, ErrCouponInvalid
		}
	case constants.CouponTypeFreeShipping:
		// 免邮券不携带数值
	default:
		return input, ErrCouponInvalid
	}
	if input.UsageLimit < 0 || input.PerCustomerLimit < 0 {
		return input, ErrCouponInvalid
	}
	if input.StartsAt != nil && input.EndsAt != nil && !input.EndsAt.After(*input.StartsAt) {
		return input, ErrCouponInvalid
	}
	return input, nil
}
