package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"
)

type orderEnv struct {
	*cartEnv
	orderService *OrderService
	orderRepo    repository.OrderRepository
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()
	env := newCartEnv(t)
	orderRepo := repository.NewOrderRepository(env.db)
	couponRepo := repository.NewCouponRepository(env.db)
	usageRepo := repository.NewCouponUsageRepository(env.db)
	vendorRepo := repository.NewVendorStoreRepository(env.db)
	tenantRepo := repository.NewTenantRepository(env.db)
	couponService := NewCouponService(couponRepo, usageRepo, orderRepo)
	taxProvider := NewConfigTaxRateProvider(0, map[string]float64{"US-CA": 10})
	orderService := NewOrderService(
		orderRepo, env.productRepo, couponRepo, usageRepo, vendorRepo, tenantRepo,
		env.cartService, couponService, env.stock, taxProvider, env.enqueuer,
		CheckoutFees{ProcessorFeePercent: 2.9, ProcessorFeeFixed: 0.30},
	)
	return &orderEnv{cartEnv: env, orderService: orderService, orderRepo: orderRepo}
}

func (env *orderEnv) fillCart(t *testing.T, productID uint, quantity int) string {
	t.Helper()
	sessionID := env.cartService.NewSessionID()
	if _, err := env.cartService.AddLine(context.Background(), sessionID, AddLineInput{ProductID: productID, Quantity: quantity}); err != nil {
		t.Fatalf("fill cart failed: %v", err)
	}
	return sessionID
}

func TestCreateOrderTotalsAndSideEffects(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tenant := createTestTenant(t, env.db, 10)
	store := createTestStore(t, env.db, tenant.ID, "5.00", "0")
	product := createTestProduct(t, env.db, store.ID, "29.99", 10)
	sessionID := env.fillCart(t, product.ID, 2)

	order, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		GuestEmail:     "buyer@example.test",
		IdempotencyKey: fmt.Sprintf("key-%d", nextFixtureID()),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 29.99 × 2 = 59.98；运费 5.00；税 10% × 59.98 = 6.00
	if order.Subtotal.String() != "59.98" {
		t.Fatalf("subtotal want 59.98 got %s", order.Subtotal.String())
	}
	if order.ShippingAmount.String() != "5.00" {
		t.Fatalf("shipping want 5.00 got %s", order.ShippingAmount.String())
	}
	if order.TaxAmount.String() != "6.00" {
		t.Fatalf("tax want 6.00 got %s", order.TaxAmount.String())
	}
	if order.TotalAmount.String() != "70.98" {
		t.Fatalf("total want 70.98 got %s", order.TotalAmount.String())
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("new order must be pending/pending, got %s/%s", order.Status, order.PaymentStatus)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("order items snapshot wrong: %+v", order.Items)
	}

	// 库存在同一事务内扣减
	var productAfter models.Product
	if err := env.db.First(&productAfter, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if productAfter.StockQuantity != 8 {
		t.Fatalf("stock want 8 got %d", productAfter.StockQuantity)
	}

	// 租户配额与店铺统计同事务推进
	var tenantAfter models.Tenant
	if err := env.db.First(&tenantAfter, tenant.ID).Error; err != nil {
		t.Fatalf("reload tenant failed: %v", err)
	}
	if tenantAfter.CurrentOrders != 1 {
		t.Fatalf("tenant current orders want 1 got %d", tenantAfter.CurrentOrders)
	}
	var storeAfter models.VendorStore
	if err := env.db.First(&storeAfter, store.ID).Error; err != nil {
		t.Fatalf("reload store failed: %v", err)
	}
	if storeAfter.TotalOrders != 1 {
		t.Fatalf("store total orders want 1 got %d", storeAfter.TotalOrders)
	}
	if storeAfter.TotalSales.String() != "70.98" {
		t.Fatalf("store total sales want 70.98 got %s", storeAfter.TotalSales.String())
	}

	// 下单成功后购物车清空
	cart, err := env.cartService.Get(ctx, sessionID)
	if err != nil {
		t.Fatalf("read cart failed: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("cart must be cleared after checkout")
	}
	if len(env.enqueuer.confirmMail) != 1 {
		t.Fatalf("confirm email task want 1 got %d", len(env.enqueuer.confirmMail))
	}
}

func TestCreateOrderFreeShippingThresholdAndCoupon(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tenant := createTestTenant(t, env.db, 0)
	store := createTestStore(t, env.db, tenant.ID, "5.00", "50.00")
	product := createTestProduct(t, env.db, store.ID, "30.00", 10)
	coupon := &models.Coupon{
		VendorStoreID: store.ID,
		Code:          "TENOFF",
		Type:          constants.CouponTypeFixedAmount,
		Value:         mustMoney(t, "10.00"),
		IsActive:      true,
	}
	if err := env.db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	sessionID := env.fillCart(t, product.ID, 2)

	order, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		GuestEmail:     "buyer@example.test",
		CouponCode:     "TENOFF",
		IdempotencyKey: fmt.Sprintf("key-%d", nextFixtureID()),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 小计 60.00 达到免邮门槛；券减 10.00；税基 50.00 × 10% = 5.00
	if order.ShippingAmount.String() != "0.00" {
		t.Fatalf("shipping want 0.00 got %s", order.ShippingAmount.String())
	}
	if order.DiscountAmount.String() != "10.00" {
		t.Fatalf("discount want 10.00 got %s", order.DiscountAmount.String())
	}
	if order.TaxAmount.String() != "5.00" {
		t.Fatalf("tax want 5.00 got %s", order.TaxAmount.String())
	}
	if order.TotalAmount.String() != "55.00" {
		t.Fatalf("total want 55.00 got %s", order.TotalAmount.String())
	}
	if order.CouponCode != "TENOFF" {
		t.Fatalf("coupon code snapshot missing")
	}

	// 券用量在同事务推进
	var couponAfter models.Coupon
	if err := env.db.First(&couponAfter, coupon.ID).Error; err != nil {
		t.Fatalf("reload coupon failed: %v", err)
	}
	if couponAfter.UsedCount != 1 {
		t.Fatalf("coupon used count want 1 got %d", couponAfter.UsedCount)
	}
}

func TestCreateOrderFreeShippingCouponKeepsShippingAmount(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tenant := createTestTenant(t, env.db, 0)
	store := createTestStore(t, env.db, tenant.ID, "5.00", "0")
	product := createTestProduct(t, env.db, store.ID, "15.00", 10)
	coupon := &models.Coupon{
		VendorStoreID: store.ID,
		Code:          "SHIPFREE",
		Type:          constants.CouponTypeFreeShipping,
		IsActive:      true,
	}
	if err := env.db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	sessionID := env.fillCart(t, product.ID, 2)

	order, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		GuestEmail:     "buyer@example.test",
		CouponCode:     "SHIPFREE",
		IdempotencyKey: fmt.Sprintf("key-%d", nextFixtureID()),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 免邮券：运费存折前应收 5.00，减免走折扣字段；税 10% × 30.00 = 3.00
	if order.Subtotal.String() != "30.00" {
		t.Fatalf("subtotal want 30.00 got %s", order.Subtotal.String())
	}
	if order.ShippingAmount.String() != "5.00" {
		t.Fatalf("shipping want 5.00 got %s", order.ShippingAmount.String())
	}
	if order.DiscountAmount.String() != "5.00" {
		t.Fatalf("discount want 5.00 got %s", order.DiscountAmount.String())
	}
	if order.TaxAmount.String() != "3.00" {
		t.Fatalf("tax want 3.00 got %s", order.TaxAmount.String())
	}
	if order.TotalAmount.String() != "33.00" {
		t.Fatalf("total want 33.00 got %s", order.TotalAmount.String())
	}

	// 总额恒等式：subtotal + shipping + tax - discount
	sum := order.Subtotal.Decimal.
		Add(order.ShippingAmount.Decimal).
		Add(order.TaxAmount.Decimal).
		Sub(order.DiscountAmount.Decimal)
	if !sum.Equal(order.TotalAmount.Decimal) {
		t.Fatalf("total identity broken: %s != %s", sum.String(), order.TotalAmount.String())
	}
}

func TestCreateOrderIdempotencyKeyDedupes(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tenant := createTestTenant(t, env.db, 0)
	store := createTestStore(t, env.db, tenant.ID, "0", "0")
	product := createTestProduct(t, env.db, store.ID, "10.00", 10)
	sessionID := env.fillCart(t, product.ID, 1)
	key := fmt.Sprintf("key-%d", nextFixtureID())

	first, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		GuestEmail:     "buyer@example.test",
		IdempotencyKey: key,
	})
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	// 同键重复提交返回同一订单，不再扣减库存
	second, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		GuestEmail:     "buyer@example.test",
		IdempotencyKey: key,
	})
	if err != nil {
		t.Fatalf("duplicate create failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("duplicate submit want order %d got %d", first.ID, second.ID)
	}
	var productAfter models.Product
	if err := env.db.First(&productAfter, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if productAfter.StockQuantity != 9 {
		t.Fatalf("stock decremented twice: want 9 got %d", productAfter.StockQuantity)
	}

	if _, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID: sessionID,
		GuestEmail:    "buyer@example.test",
	}); !errors.Is(err, ErrIdempotencyKeyRequired) {
		t.Fatalf("missing key want ErrIdempotencyKeyRequired got %v", err)
	}
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tenant := createTestTenant(t, env.db, 0)
	store := createTestStore(t, env.db, tenant.ID, "0", "0")
	product := createTestProduct(t, env.db, store.ID, "10.00", 3)
	sessionID := env.fillCart(t, product.ID, 3)

	// 加购后库存被别的订单买走
	if err := env.db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("stock_quantity", 2).Error; err != nil {
		t.Fatalf("shrink stock failed: %v", err)
	}

	_, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		GuestEmail:     "buyer@example.test",
		IdempotencyKey: fmt.Sprintf("key-%d", nextFixtureID()),
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}

	// 整个事务回滚：配额未占用，无订单落库
	var tenantAfter models.Tenant
	if err := env.db.First(&tenantAfter, tenant.ID).Error; err != nil {
		t.Fatalf("reload tenant failed: %v", err)
	}
	if tenantAfter.CurrentOrders != 0 {
		t.Fatalf("tenant quota must roll back, got %d", tenantAfter.CurrentOrders)
	}
	var count int64
	if err := env.db.Model(&models.Order{}).Where("vendor_store_id = ?", store.ID).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("no order should persist, got %d", count)
	}
}

func TestCreateOrderTenantQuotaReached(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tenant := createTestTenant(t, env.db, 1)
	if err := env.db.Model(&models.Tenant{}).Where("id = ?", tenant.ID).
		Update("current_orders", 1).Error; err != nil {
		t.Fatalf("fill quota failed: %v", err)
	}
	store := createTestStore(t, env.db, tenant.ID, "0", "0")
	product := createTestProduct(t, env.db, store.ID, "10.00", 10)
	sessionID := env.fillCart(t, product.ID, 1)

	_, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		GuestEmail:     "buyer@example.test",
		IdempotencyKey: fmt.Sprintf("key-%d", nextFixtureID()),
	})
	if !errors.Is(err, ErrTenantOrderQuotaReached) {
		t.Fatalf("want ErrTenantOrderQuotaReached got %v", err)
	}
}

func TestCancelOrderRestoresSideEffects(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tenant := createTestTenant(t, env.db, 0)
	store := createTestStore(t, env.db, tenant.ID, "0", "0")
	product := createTestProduct(t, env.db, store.ID, "10.00", 10)
	sessionID := env.fillCart(t, product.ID, 2)

	order, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		GuestEmail:     "buyer@example.test",
		IdempotencyKey: fmt.Sprintf("key-%d", nextFixtureID()),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	canceled, err := env.orderService.CancelOrder(order.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if canceled.Status != constants.OrderStatusCanceled {
		t.Fatalf("status want canceled got %s", canceled.Status)
	}

	var productAfter models.Product
	if err := env.db.First(&productAfter, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if productAfter.StockQuantity != 10 {
		t.Fatalf("stock must be restored to 10, got %d", productAfter.StockQuantity)
	}
	var tenantAfter models.Tenant
	if err := env.db.First(&tenantAfter, tenant.ID).Error; err != nil {
		t.Fatalf("reload tenant failed: %v", err)
	}
	if tenantAfter.CurrentOrders != 0 {
		t.Fatalf("tenant quota must be released, got %d", tenantAfter.CurrentOrders)
	}

	// 再次取消为幂等
	again, err := env.orderService.CancelOrder(order.ID)
	if err != nil {
		t.Fatalf("repeat cancel failed: %v", err)
	}
	if again.Status != constants.OrderStatusCanceled {
		t.Fatalf("repeat cancel status want canceled got %s", again.Status)
	}
}

func TestCancelOrderRejectedAfterShipment(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tenant := createTestTenant(t, env.db, 0)
	store := createTestStore(t, env.db, tenant.ID, "0", "0")
	product := createTestProduct(t, env.db, store.ID, "10.00", 10)
	sessionID := env.fillCart(t, product.ID, 1)

	order, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		GuestEmail:     "buyer@example.test",
		IdempotencyKey: fmt.Sprintf("key-%d", nextFixtureID()),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := env.orderService.MarkPaid(order.ID); err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if _, err := env.orderService.MarkShipped(order.ID); err != nil {
		t.Fatalf("mark shipped failed: %v", err)
	}

	if _, err := env.orderService.CancelOrder(order.ID); !errors.Is(err, ErrOrderCancelNotAllowed) {
		t.Fatalf("want ErrOrderCancelNotAllowed got %v", err)
	}
}

func TestPaymentAndFulfillmentTransitions(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tenant := createTestTenant(t, env.db, 0)
	store := createTestStore(t, env.db, tenant.ID, "0", "0")
	product := createTestProduct(t, env.db, store.ID, "10.00", 10)
	sessionID := env.fillCart(t, product.ID, 1)

	order, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		GuestEmail:     "buyer@example.test",
		IdempotencyKey: fmt.Sprintf("key-%d", nextFixtureID()),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 未支付不可发货
	if _, err := env.orderService.MarkShipped(order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("unpaid ship want ErrOrderStatusInvalid got %v", err)
	}
	// 未发货不可签收
	if _, err := env.orderService.MarkDelivered(order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("undelivered want ErrOrderStatusInvalid got %v", err)
	}

	paid, err := env.orderService.MarkPaid(order.ID)
	if err != nil {
		t.Fatalf("mark paid failed: %v", err)
	}
	if paid.Status != constants.OrderStatusConfirmed {
		t.Fatalf("paid order status want confirmed got %s", paid.Status)
	}
	// 重复支付确认被拒
	if _, err := env.orderService.MarkPaid(order.ID); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("double paid want ErrOrderStatusInvalid got %v", err)
	}

	if _, err := env.orderService.MarkShipped(order.ID); err != nil {
		t.Fatalf("mark shipped failed: %v", err)
	}
	delivered, err := env.orderService.MarkDelivered(order.ID)
	if err != nil {
		t.Fatalf("mark delivered failed: %v", err)
	}
	if delivered.Status != constants.OrderStatusCompleted {
		t.Fatalf("delivered order status want completed got %s", delivered.Status)
	}

	refunded, err := env.orderService.MarkRefunded(order.ID)
	if err != nil {
		t.Fatalf("mark refunded failed: %v", err)
	}
	if refunded.PaymentStatus != constants.PaymentStatusRefunded {
		t.Fatalf("payment status want refunded got %s", refunded.PaymentStatus)
	}
}

func TestCreateOrderGuestEmailValidation(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tenant := createTestTenant(t, env.db, 0)
	store := createTestStore(t, env.db, tenant.ID, "0", "0")
	product := createTestProduct(t, env.db, store.ID, "10.00", 10)
	sessionID := env.fillCart(t, product.ID, 1)

	if _, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		IdempotencyKey: fmt.Sprintf("key-%d", nextFixtureID()),
	}); !errors.Is(err, ErrGuestEmailRequired) {
		t.Fatalf("want ErrGuestEmailRequired got %v", err)
	}
	if _, err := env.orderService.CreateOrder(ctx, CreateOrderInput{
		CartSessionID:  sessionID,
		GuestEmail:     "not-an-email",
		IdempotencyKey: fmt.Sprintf("key-%d", nextFixtureID()),
	}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("want ErrInvalidEmail got %v", err)
	}
}
