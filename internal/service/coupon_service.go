package service

import (
	"strings"
	"time"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponService 优惠券校验与折扣计算。纯计算：使用计数只在下单事务里移动。
type CouponService struct {
	couponRepo repository.CouponRepository
	usageRepo  repository.CouponUsageRepository
	orderRepo  repository.OrderRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository, usageRepo repository.CouponUsageRepository, orderRepo repository.OrderRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		usageRepo:  usageRepo,
		orderRepo:  orderRepo,
	}
}

// CouponItem 参与优惠计算的购物车行
type CouponItem struct {
	ProductID  uint
	CategoryID *uint
	TotalPrice models.Money
}

// CouponCheckInput 优惠券校验输入。游客单 CustomerID 为 0，按 CustomerEmail 计量。
type CouponCheckInput struct {
	VendorStoreID uint
	Code          string
	CustomerID    uint
	CustomerEmail string
	Items         []CouponItem
	ShippingCost  models.Money
}

// CouponResult 优惠券校验结果
type CouponResult struct {
	Coupon         *models.Coupon
	DiscountAmount models.Money
	FreeShipping   bool
}

// ValidateAndCalculate 校验优惠券并计算折扣。
// 校验顺序固定：存在 -> 启用 -> 时间窗 -> 用量限制 -> 消费门槛 -> 适用范围，
// 任一步失败立即短路返回对应错误。
func (s *CouponService) ValidateAndCalculate(input CouponCheckInput) (*CouponResult, error) {
	trimmed := strings.TrimSpace(input.Code)
	if trimmed == "" {
		return nil, ErrCouponInvalid
	}

	coupon, err := s.couponRepo.GetByVendorAndCode(input.VendorStoreID, trimmed)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if !coupon.IsActive {
		return nil, ErrCouponInactive
	}

	now := time.Now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return nil, ErrCouponNotStarted
	}
	if coupon.EndsAt != nil && now.After(*coupon.EndsAt) {
		return nil, ErrCouponExpired
	}

	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, ErrCouponUsageLimit
	}
	if coupon.PerCustomerLimit > 0 {
		count, err := s.countCustomerUsage(coupon.ID, input)
		if err != nil {
			return nil, err
		}
		if int(count) >= coupon.PerCustomerLimit {
			return nil, ErrCouponPerCustomerLimit
		}
	}
	if coupon.FirstTimeOnly {
		paid, err := s.countPaidOrders(input)
		if err != nil {
			return nil, err
		}
		if paid > 0 {
			return nil, ErrCouponFirstTimeOnly
		}
	}

	subtotal := itemsSubtotal(input.Items)
	if subtotal.LessThan(coupon.MinPurchaseAmount.Decimal) {
		return nil, ErrCouponMinPurchase
	}

	if err := checkApplicability(coupon, input.Items); err != nil {
		return nil, err
	}

	discount, freeShipping, err := calculateDiscount(coupon, subtotal, input.ShippingCost)
	if err != nil {
		return nil, err
	}
	return &CouponResult{
		Coupon:         coupon,
		DiscountAmount: discount,
		FreeShipping:   freeShipping,
	}, nil
}

// countCustomerUsage 统计顾客对该券的历史使用次数，游客按邮箱计量
func (s *CouponService) countCustomerUsage(couponID uint, input CouponCheckInput) (int64, error) {
	if input.CustomerID != 0 {
		return s.usageRepo.CountByCouponAndCustomer(couponID, input.CustomerID)
	}
	if input.CustomerEmail != "" {
		return s.usageRepo.CountByCouponAndEmail(couponID, input.CustomerEmail)
	}
	return 0, nil
}

// countPaidOrders 统计顾客在该店铺的已支付订单数，游客按邮箱计量
func (s *CouponService) countPaidOrders(input CouponCheckInput) (int64, error) {
	if input.CustomerID != 0 {
		return s.orderRepo.CountPaidByCustomerAndVendor(input.CustomerID, input.VendorStoreID)
	}
	if input.CustomerEmail != "" {
		return s.orderRepo.CountPaidByGuestEmailAndVendor(input.CustomerEmail, input.VendorStoreID)
	}
	return 0, nil
}

// calculateDiscount 按券类型计算折扣，单一计算点。基数是整单小计。
func calculateDiscount(coupon *models.Coupon, subtotal decimal.Decimal, shippingCost models.Money) (models.Money, bool, error) {
	switch coupon.Type {
	case constants.CouponTypePercentage:
		if coupon.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return models.Money{}, false, ErrCouponInvalid
		}
		percent := coupon.Value.Decimal.Div(decimal.NewFromInt(100))
		discount := subtotal.Mul(percent)
		if coupon.MaxDiscountAmount.Decimal.GreaterThan(decimal.Zero) && discount.GreaterThan(coupon.MaxDiscountAmount.Decimal) {
			discount = coupon.MaxDiscountAmount.Decimal
		}
		return models.NewMoneyFromDecimal(discount), false, nil
	case constants.CouponTypeFixedAmount:
		if coupon.Value.Decimal.LessThanOrEqual(decimal.Zero) {
			return models.Money{}, false, ErrCouponInvalid
		}
		discount := coupon.Value.Decimal
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		return models.NewMoneyFromDecimal(discount), false, nil
	case constants.CouponTypeFreeShipping:
		return models.NewMoneyFromDecimal(shippingCost.Decimal), true, nil
	default:
		return models.Money{}, false, ErrCouponInvalid
	}
}

// checkApplicability 校验券的适用范围：
// 购物车含任一排除商品即拒绝；配置了适用商品/分类集合时，至少要有一行命中。
func checkApplicability(coupon *models.Coupon, items []CouponItem) error {
	for _, item := range items {
		if coupon.ExcludedProducts.Contains(item.ProductID) {
			return ErrCouponNotApplicable
		}
	}
	if len(coupon.ApplicableProducts) == 0 && len(coupon.ApplicableCategories) == 0 {
		return nil
	}
	for _, item := range items {
		if len(coupon.ApplicableProducts) > 0 && coupon.ApplicableProducts.Contains(item.ProductID) {
			return nil
		}
		if len(coupon.ApplicableCategories) > 0 && item.CategoryID != nil && coupon.ApplicableCategories.Contains(*item.CategoryID) {
			return nil
		}
	}
	return ErrCouponNotApplicable
}

func itemsSubtotal(items []CouponItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice.Decimal)
	}
	return subtotal
}
