package service

import (
	"errors"
	"testing"
	"time"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"gorm.io/gorm"
)

func newReviewEnv(t *testing.T) (*ReviewService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	return NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewOrderRepository(db),
	), db
}

func createReviewableOrder(t *testing.T, db *gorm.DB, customerID uint, paymentStatus string, shippedAt *time.Time) (*models.Order, *models.OrderItem) {
	t.Helper()
	tenant := createTestTenant(t, db, 0)
	store := createTestStore(t, db, tenant.ID, "0", "0")
	product := createTestProduct(t, db, store.ID, "10.00", 10)
	order := &models.Order{
		OrderNo:           generateOrderNo(),
		TenantID:          tenant.ID,
		VendorStoreID:     store.ID,
		CustomerID:        customerID,
		Status:            constants.OrderStatusConfirmed,
		PaymentStatus:     paymentStatus,
		FulfillmentStatus: constants.FulfillmentStatusShipped,
		Currency:          "USD",
		IdempotencyKey:    generateOrderNo(),
		ShippedAt:         shippedAt,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	item := &models.OrderItem{
		OrderID:    order.ID,
		ProductID:  product.ID,
		Name:       product.Name,
		UnitPrice:  product.Price,
		Quantity:   1,
		TotalPrice: product.Price,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create order item failed: %v", err)
	}
	return order, item
}

func daysAgo(days int) *time.Time {
	at := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	return &at
}

func TestEvaluateReviewWindow(t *testing.T) {
	now := time.Now()
	shipped := now.Add(-5 * 24 * time.Hour)
	base := &models.Order{PaymentStatus: constants.PaymentStatusPaid, ShippedAt: &shipped}

	if got := evaluateReviewWindow(base, false, now); !got.Eligible {
		t.Fatalf("5 days after shipment must be eligible, got %+v", got)
	}
	if got := evaluateReviewWindow(base, true, now); got.Reason != ReviewBlockAlreadyReviewed {
		t.Fatalf("existing review want already_reviewed got %+v", got)
	}

	refunded := &models.Order{PaymentStatus: constants.PaymentStatusRefunded, ShippedAt: &shipped}
	if got := evaluateReviewWindow(refunded, false, now); got.Reason != ReviewBlockRefunded {
		t.Fatalf("refunded order want refunded got %+v", got)
	}

	unpaid := &models.Order{PaymentStatus: constants.PaymentStatusPending}
	if got := evaluateReviewWindow(unpaid, false, now); got.Reason != ReviewBlockNotPaid {
		t.Fatalf("unpaid order want not_paid got %+v", got)
	}

	notShipped := &models.Order{PaymentStatus: constants.PaymentStatusPaid}
	if got := evaluateReviewWindow(notShipped, false, now); got.Reason != ReviewBlockNotShipped {
		t.Fatalf("unshipped order want not_shipped got %+v", got)
	}

	// 发货 2 天：窗口未开，还差 1 天
	early := now.Add(-2 * 24 * time.Hour)
	earlyOrder := &models.Order{PaymentStatus: constants.PaymentStatusPaid, ShippedAt: &early}
	got := evaluateReviewWindow(earlyOrder, false, now)
	if got.Reason != ReviewBlockWindowNotOpen {
		t.Fatalf("2 days want window_not_open got %+v", got)
	}
	if got.DaysUntilOpen != 1 {
		t.Fatalf("days until open want 1 got %d", got.DaysUntilOpen)
	}

	// 发货刚满 3 天：窗口开放
	exact := now.Add(-3 * 24 * time.Hour)
	exactOrder := &models.Order{PaymentStatus: constants.PaymentStatusPaid, ShippedAt: &exact}
	if got := evaluateReviewWindow(exactOrder, false, now); !got.Eligible {
		t.Fatalf("exactly 3 days must be eligible, got %+v", got)
	}

	// 超过 100 天：窗口关闭
	stale := now.Add(-101 * 24 * time.Hour)
	staleOrder := &models.Order{PaymentStatus: constants.PaymentStatusPaid, ShippedAt: &stale}
	if got := evaluateReviewWindow(staleOrder, false, now); got.Reason != ReviewBlockWindowExpired {
		t.Fatalf("101 days want window_expired got %+v", got)
	}
}

func TestCreateReviewLifecycle(t *testing.T) {
	svc, db := newReviewEnv(t)
	customerID := uint(7)
	_, item := createReviewableOrder(t, db, customerID, constants.PaymentStatusPaid, daysAgo(5))

	eligibility, err := svc.CheckEligibility(customerID, item.ID)
	if err != nil {
		t.Fatalf("check eligibility failed: %v", err)
	}
	if !eligibility.Eligible {
		t.Fatalf("want eligible got %+v", eligibility)
	}

	if _, err := svc.CreateReview(CreateReviewInput{OrderItemID: item.ID, CustomerID: customerID, Rating: 0}); !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("rating 0 want ErrReviewRatingInvalid got %v", err)
	}
	if _, err := svc.CreateReview(CreateReviewInput{OrderItemID: item.ID, CustomerID: customerID, Rating: 6}); !errors.Is(err, ErrReviewRatingInvalid) {
		t.Fatalf("rating 6 want ErrReviewRatingInvalid got %v", err)
	}

	review, err := svc.CreateReview(CreateReviewInput{
		OrderItemID: item.ID,
		CustomerID:  customerID,
		Rating:      5,
		Content:     "  solid build quality  ",
	})
	if err != nil {
		t.Fatalf("create review failed: %v", err)
	}
	if review.Content != "solid build quality" {
		t.Fatalf("content must be trimmed, got %q", review.Content)
	}

	// 同一订单项只能评一次
	if _, err := svc.CreateReview(CreateReviewInput{OrderItemID: item.ID, CustomerID: customerID, Rating: 4}); !errors.Is(err, ErrReviewAlreadyExists) {
		t.Fatalf("want ErrReviewAlreadyExists got %v", err)
	}

	reviews, total, err := svc.ListByProduct(item.ProductID, 1, 20)
	if err != nil {
		t.Fatalf("list reviews failed: %v", err)
	}
	if total != 1 || len(reviews) != 1 {
		t.Fatalf("list want 1 review got total=%d len=%d", total, len(reviews))
	}
}

func TestCreateReviewOwnershipAndWindowGuards(t *testing.T) {
	svc, db := newReviewEnv(t)
	_, item := createReviewableOrder(t, db, 7, constants.PaymentStatusPaid, daysAgo(5))

	// 非本人订单项视同不存在
	if _, err := svc.CreateReview(CreateReviewInput{OrderItemID: item.ID, CustomerID: 8, Rating: 5}); !errors.Is(err, ErrReviewOrderItemNotFound) {
		t.Fatalf("foreign order item want ErrReviewOrderItemNotFound got %v", err)
	}
	if _, err := svc.CreateReview(CreateReviewInput{OrderItemID: 99999, CustomerID: 7, Rating: 5}); !errors.Is(err, ErrReviewOrderItemNotFound) {
		t.Fatalf("missing order item want ErrReviewOrderItemNotFound got %v", err)
	}

	// 窗口未开时拒绝写入
	_, earlyItem := createReviewableOrder(t, db, 7, constants.PaymentStatusPaid, daysAgo(1))
	if _, err := svc.CreateReview(CreateReviewInput{OrderItemID: earlyItem.ID, CustomerID: 7, Rating: 5}); !errors.Is(err, ErrReviewNotEligible) {
		t.Fatalf("early review want ErrReviewNotEligible got %v", err)
	}

	// 退款订单不可评价
	_, refundedItem := createReviewableOrder(t, db, 7, constants.PaymentStatusRefunded, daysAgo(5))
	if _, err := svc.CreateReview(CreateReviewInput{OrderItemID: refundedItem.ID, CustomerID: 7, Rating: 5}); !errors.Is(err, ErrReviewNotEligible) {
		t.Fatalf("refunded review want ErrReviewNotEligible got %v", err)
	}
}
