package service

import (
	"errors"
	"testing"
	"time"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCouponEnv(t *testing.T) (*CouponService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	return NewCouponService(
		repository.NewCouponRepository(db),
		repository.NewCouponUsageRepository(db),
		repository.NewOrderRepository(db),
	), db
}

func mustMoney(t *testing.T, raw string) models.Money {
	t.Helper()
	m, err := models.NewMoneyFromString(raw)
	if err != nil {
		t.Fatalf("parse money %q failed: %v", raw, err)
	}
	return m
}

func couponItems(t *testing.T, totals ...string) []CouponItem {
	t.Helper()
	items := make([]CouponItem, 0, len(totals))
	for i, total := range totals {
		items = append(items, CouponItem{
			ProductID:  uint(i + 1),
			TotalPrice: mustMoney(t, total),
		})
	}
	return items
}

func TestValidateAndCalculatePercentageCappedByMaxDiscount(t *testing.T) {
	svc, db := newCouponEnv(t)
	store := createTestStore(t, db, createTestTenant(t, db, 0).ID, "5.00", "0")
	coupon := &models.Coupon{
		VendorStoreID:     store.ID,
		Code:              "PCT20",
		Type:              constants.CouponTypePercentage,
		Value:             mustMoney(t, "20"),
		MaxDiscountAmount: mustMoney(t, "10.00"),
		IsActive:          true,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	result, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "PCT20",
		Items:         couponItems(t, "100.00"),
		ShippingCost:  mustMoney(t, "5.00"),
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	// 20% of 100.00 is 20.00, capped at 10.00
	if result.DiscountAmount.String() != "10.00" {
		t.Fatalf("discount want 10.00 got %s", result.DiscountAmount.String())
	}
	if result.FreeShipping {
		t.Fatalf("percentage coupon must not set free shipping")
	}
}

func TestValidateAndCalculateFixedAmountClampedToSubtotal(t *testing.T) {
	svc, db := newCouponEnv(t)
	store := createTestStore(t, db, createTestTenant(t, db, 0).ID, "5.00", "0")
	coupon := &models.Coupon{
		VendorStoreID: store.ID,
		Code:          "FLAT50",
		Type:          constants.CouponTypeFixedAmount,
		Value:         mustMoney(t, "50.00"),
		IsActive:      true,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	result, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "FLAT50",
		Items:         couponItems(t, "29.99"),
		ShippingCost:  mustMoney(t, "5.00"),
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.DiscountAmount.String() != "29.99" {
		t.Fatalf("fixed discount must clamp to subtotal, got %s", result.DiscountAmount.String())
	}
}

func TestValidateAndCalculateFreeShipping(t *testing.T) {
	svc, db := newCouponEnv(t)
	store := createTestStore(t, db, createTestTenant(t, db, 0).ID, "7.50", "0")
	coupon := &models.Coupon{
		VendorStoreID: store.ID,
		Code:          "SHIPFREE",
		Type:          constants.CouponTypeFreeShipping,
		IsActive:      true,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	result, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "SHIPFREE",
		Items:         couponItems(t, "40.00"),
		ShippingCost:  mustMoney(t, "7.50"),
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !result.FreeShipping {
		t.Fatalf("expected free shipping flag")
	}
	if result.DiscountAmount.String() != "7.50" {
		t.Fatalf("free shipping discount want 7.50 got %s", result.DiscountAmount.String())
	}
}

func TestValidateAndCalculateValidationOrder(t *testing.T) {
	svc, db := newCouponEnv(t)
	store := createTestStore(t, db, createTestTenant(t, db, 0).ID, "5.00", "0")
	past := time.Now().Add(-time.Hour)

	cases := []struct {
		name    string
		coupon  models.Coupon
		wantErr error
	}{
		{
			name: "inactive",
			coupon: models.Coupon{
				Code: "C-INACTIVE", Type: constants.CouponTypePercentage,
				Value: mustMoney(t, "10"), IsActive: false,
			},
			wantErr: ErrCouponInactive,
		},
		{
			name: "expired",
			coupon: models.Coupon{
				Code: "C-EXPIRED", Type: constants.CouponTypePercentage,
				Value: mustMoney(t, "10"), IsActive: true, EndsAt: &past,
			},
			wantErr: ErrCouponExpired,
		},
		{
			name: "usage limit",
			coupon: models.Coupon{
				Code: "C-USED", Type: constants.CouponTypePercentage,
				Value: mustMoney(t, "10"), IsActive: true,
				UsageLimit: 1, UsedCount: 1,
			},
			wantErr: ErrCouponUsageLimit,
		},
		{
			name: "min purchase",
			coupon: models.Coupon{
				Code: "C-MIN", Type: constants.CouponTypePercentage,
				Value: mustMoney(t, "10"), IsActive: true,
				MinPurchaseAmount: mustMoney(t, "500.00"),
			},
			wantErr: ErrCouponMinPurchase,
		},
	}
	for _, tc := range cases {
		coupon := tc.coupon
		coupon.VendorStoreID = store.ID
		if err := db.Create(&coupon).Error; err != nil {
			t.Fatalf("%s: create coupon failed: %v", tc.name, err)
		}
		_, err := svc.ValidateAndCalculate(CouponCheckInput{
			VendorStoreID: store.ID,
			Code:          coupon.Code,
			Items:         couponItems(t, "30.00"),
			ShippingCost:  mustMoney(t, "5.00"),
		})
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: want %v got %v", tc.name, tc.wantErr, err)
		}
	}

	if _, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "NO-SUCH-CODE",
		Items:         couponItems(t, "30.00"),
	}); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("missing coupon want ErrCouponNotFound got %v", err)
	}
}

func TestValidateAndCalculateProductScope(t *testing.T) {
	svc, db := newCouponEnv(t)
	store := createTestStore(t, db, createTestTenant(t, db, 0).ID, "5.00", "0")
	coupon := &models.Coupon{
		VendorStoreID:      store.ID,
		Code:               "SCOPED",
		Type:               constants.CouponTypeFixedAmount,
		Value:              mustMoney(t, "5.00"),
		ApplicableProducts: models.UintArray{1},
		IsActive:           true,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	// 行 1 命中适用集合即可用，折扣基数是整单小计
	items := []CouponItem{
		{ProductID: 1, TotalPrice: mustMoney(t, "3.00")},
		{ProductID: 2, TotalPrice: mustMoney(t, "100.00")},
	}
	result, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "SCOPED",
		Items:         items,
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.DiscountAmount.String() != "5.00" {
		t.Fatalf("discount on full subtotal want 5.00 got %s", result.DiscountAmount.String())
	}

	// 没有任何行命中适用集合时拒绝
	if _, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "SCOPED",
		Items:         []CouponItem{{ProductID: 2, TotalPrice: mustMoney(t, "100.00")}},
	}); !errors.Is(err, ErrCouponNotApplicable) {
		t.Fatalf("want ErrCouponNotApplicable got %v", err)
	}
}

func TestValidateAndCalculateExcludedProductRejectsCart(t *testing.T) {
	svc, db := newCouponEnv(t)
	store := createTestStore(t, db, createTestTenant(t, db, 0).ID, "5.00", "0")
	coupon := &models.Coupon{
		VendorStoreID:    store.ID,
		Code:             "NOEXCL",
		Type:             constants.CouponTypeFixedAmount,
		Value:            mustMoney(t, "5.00"),
		ExcludedProducts: models.UintArray{2},
		IsActive:         true,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	// 购物车含任一排除商品整单拒绝，不是丢弃该行后继续
	if _, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "NOEXCL",
		Items: []CouponItem{
			{ProductID: 1, TotalPrice: mustMoney(t, "10.00")},
			{ProductID: 2, TotalPrice: mustMoney(t, "20.00")},
		},
	}); !errors.Is(err, ErrCouponNotApplicable) {
		t.Fatalf("cart with excluded product want ErrCouponNotApplicable got %v", err)
	}

	// 不含排除商品时正常可用
	result, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "NOEXCL",
		Items:         []CouponItem{{ProductID: 1, TotalPrice: mustMoney(t, "10.00")}},
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.DiscountAmount.String() != "5.00" {
		t.Fatalf("discount want 5.00 got %s", result.DiscountAmount.String())
	}
}

func TestValidateAndCalculatePerCustomerLimit(t *testing.T) {
	svc, db := newCouponEnv(t)
	store := createTestStore(t, db, createTestTenant(t, db, 0).ID, "5.00", "0")
	coupon := &models.Coupon{
		VendorStoreID:    store.ID,
		Code:             "ONCE",
		Type:             constants.CouponTypeFixedAmount,
		Value:            mustMoney(t, "5.00"),
		PerCustomerLimit: 1,
		IsActive:         true,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	usage := &models.CouponUsage{
		CouponID:       coupon.ID,
		CustomerID:     42,
		OrderID:        1,
		DiscountAmount: mustMoney(t, "5.00"),
	}
	if err := db.Create(usage).Error; err != nil {
		t.Fatalf("create usage failed: %v", err)
	}

	if _, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "ONCE",
		CustomerID:    42,
		Items:         couponItems(t, "30.00"),
	}); !errors.Is(err, ErrCouponPerCustomerLimit) {
		t.Fatalf("want ErrCouponPerCustomerLimit got %v", err)
	}

	// 其他顾客不受影响
	if _, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "ONCE",
		CustomerID:    43,
		Items:         couponItems(t, "30.00"),
	}); err != nil {
		t.Fatalf("other customer should pass, got %v", err)
	}
}

func TestValidateAndCalculateGuestPerCustomerLimitByEmail(t *testing.T) {
	svc, db := newCouponEnv(t)
	store := createTestStore(t, db, createTestTenant(t, db, 0).ID, "5.00", "0")
	coupon := &models.Coupon{
		VendorStoreID:    store.ID,
		Code:             "ONCE-G",
		Type:             constants.CouponTypeFixedAmount,
		Value:            mustMoney(t, "5.00"),
		PerCustomerLimit: 1,
		IsActive:         true,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	usage := &models.CouponUsage{
		CouponID:       coupon.ID,
		CustomerID:     0,
		CustomerEmail:  "guest@example.com",
		OrderID:        1,
		DiscountAmount: mustMoney(t, "5.00"),
	}
	if err := db.Create(usage).Error; err != nil {
		t.Fatalf("create usage failed: %v", err)
	}

	// 游客没有顾客ID，按邮箱计量每人上限
	if _, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "ONCE-G",
		CustomerEmail: "guest@example.com",
		Items:         couponItems(t, "30.00"),
	}); !errors.Is(err, ErrCouponPerCustomerLimit) {
		t.Fatalf("guest reuse want ErrCouponPerCustomerLimit got %v", err)
	}

	// 另一个邮箱不受影响
	if _, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "ONCE-G",
		CustomerEmail: "other@example.com",
		Items:         couponItems(t, "30.00"),
	}); err != nil {
		t.Fatalf("other guest should pass, got %v", err)
	}
}

func TestValidateAndCalculateGuestFirstTimeOnlyByEmail(t *testing.T) {
	svc, db := newCouponEnv(t)
	store := createTestStore(t, db, createTestTenant(t, db, 0).ID, "5.00", "0")
	coupon := &models.Coupon{
		VendorStoreID: store.ID,
		Code:          "WELCOME-G",
		Type:          constants.CouponTypeFixedAmount,
		Value:         mustMoney(t, "5.00"),
		FirstTimeOnly: true,
		IsActive:      true,
	}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	paid := &models.Order{
		OrderNo:           "GT-PAID-1",
		TenantID:          store.TenantID,
		VendorStoreID:     store.ID,
		GuestEmail:        "repeat@example.com",
		Status:            constants.OrderStatusConfirmed,
		PaymentStatus:     constants.PaymentStatusPaid,
		FulfillmentStatus: constants.FulfillmentStatusUnfulfilled,
		Currency:          "USD",
		IdempotencyKey:    "gt-paid-1",
	}
	if err := db.Create(paid).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "WELCOME-G",
		CustomerEmail: "repeat@example.com",
		Items:         couponItems(t, "30.00"),
	}); !errors.Is(err, ErrCouponFirstTimeOnly) {
		t.Fatalf("guest with paid order want ErrCouponFirstTimeOnly got %v", err)
	}

	if _, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "WELCOME-G",
		CustomerEmail: "fresh@example.com",
		Items:         couponItems(t, "30.00"),
	}); err != nil {
		t.Fatalf("first-time guest should pass, got %v", err)
	}
}

func TestCouponAdminCreateInactivePersistsFalse(t *testing.T) {
	svc, db := newCouponEnv(t)
	store := createTestStore(t, db, createTestTenant(t, db, 0).ID, "5.00", "0")
	admin := NewCouponAdminService(repository.NewCouponRepository(db))

	created, err := admin.Create(store.ID, CouponUpsertInput{
		Code:     "draft10",
		Type:     constants.CouponTypePercentage,
		Value:    mustMoney(t, "10"),
		IsActive: false,
	})
	if err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	// 未启用状态要原样落库，不能被列默认值吃掉
	var stored models.Coupon
	if err := db.First(&stored, created.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("coupon created inactive must persist inactive")
	}
	if _, err := svc.ValidateAndCalculate(CouponCheckInput{
		VendorStoreID: store.ID,
		Code:          "DRAFT10",
		Items:         couponItems(t, "30.00"),
	}); !errors.Is(err, ErrCouponInactive) {
		t.Fatalf("inactive coupon want ErrCouponInactive got %v", err)
	}
}

func TestCalculateDiscountRejectsNonPositiveValue(t *testing.T) {
	coupon := &models.Coupon{Type: constants.CouponTypePercentage}
	if _, _, err := calculateDiscount(coupon, decimal.NewFromInt(100), models.Money{}); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("zero percentage want ErrCouponInvalid got %v", err)
	}
	coupon.Type = constants.CouponTypeFixedAmount
	if _, _, err := calculateDiscount(coupon, decimal.NewFromInt(100), models.Money{}); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("zero fixed amount want ErrCouponInvalid got %v", err)
	}
	coupon.Type = "bogus"
	if _, _, err := calculateDiscount(coupon, decimal.NewFromInt(100), models.Money{}); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("unknown type want ErrCouponInvalid got %v", err)
	}
}
