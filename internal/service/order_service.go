package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderTaskEnqueuer 订单相关异步任务入队接口
type OrderTaskEnqueuer interface {
	EnqueueOrderConfirmEmail(orderID uint) error
}

// CheckoutFees 支付通道费率配置
type CheckoutFees struct {
	ProcessorFeePercent float64
	ProcessorFeeFixed   float64
}

// OrderService 订单装配服务
type OrderService struct {
	orderRepo       repository.OrderRepository
	productRepo     repository.ProductRepository
	couponRepo      repository.CouponRepository
	couponUsageRepo repository.CouponUsageRepository
	vendorRepo      repository.VendorStoreRepository
	tenantRepo      repository.TenantRepository
	cartService     *CartService
	couponService   *CouponService
	stockService    *StockService
	taxProvider     TaxRateProvider
	tasks           OrderTaskEnqueuer
	fees            CheckoutFees
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	couponUsageRepo repository.CouponUsageRepository,
	vendorRepo repository.VendorStoreRepository,
	tenantRepo repository.TenantRepository,
	cartService *CartService,
	couponService *CouponService,
	stockService *StockService,
	taxProvider TaxRateProvider,
	tasks OrderTaskEnqueuer,
	fees CheckoutFees,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		couponRepo:      couponRepo,
		couponUsageRepo: couponUsageRepo,
		vendorRepo:      vendorRepo,
		tenantRepo:      tenantRepo,
		cartService:     cartService,
		couponService:   couponService,
		stockService:    stockService,
		taxProvider:     taxProvider,
		tasks:           tasks,
		fees:            fees,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	CartSessionID    string
	CustomerID       uint
	GuestEmail       string
	ShippingAddress  models.JSON
	CouponCode       string
	PaymentMethodRef string
	IdempotencyKey   string
	ClientIP         string
}

// 支付状态流转表
var allowedPaymentTransitions = map[string]map[string]bool{
	constants.PaymentStatusPending: {
		constants.PaymentStatusPaid:   true,
		constants.PaymentStatusFailed: true,
	},
	constants.PaymentStatusFailed: {
		constants.PaymentStatusPaid: true,
	},
	constants.PaymentStatusPaid: {
		constants.PaymentStatusRefunded: true,
	},
}

// 履约状态流转表
var allowedFulfillmentTransitions = map[string]map[string]bool{
	constants.FulfillmentStatusUnfulfilled: {
		constants.FulfillmentStatusProcessing: true,
		constants.FulfillmentStatusShipped:    true,
		constants.FulfillmentStatusCanceled:   true,
	},
	constants.FulfillmentStatusProcessing: {
		constants.FulfillmentStatusShipped:  true,
		constants.FulfillmentStatusCanceled: true,
	},
	constants.FulfillmentStatusShipped: {
		constants.FulfillmentStatusDelivered: true,
	},
}

type checkoutPlan struct {
	Cart           *Cart
	Store          *models.VendorStore
	Tenant         *models.Tenant
	Items          []models.OrderItem
	StockLines     []StockLine
	Subtotal       decimal.Decimal
	ShippingAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	PlatformFee    decimal.Decimal
	ProcessorCost  decimal.Decimal
	VendorPayout   decimal.Decimal
	TotalAmount    decimal.Decimal
	AppliedCoupon  *models.Coupon
}

// CreateOrder 下单。金额装配在事务外完成，扣减与落库在单个事务内：
// 租户配额 -> 库存预占 -> 订单写入 -> 券用量 -> 店铺统计，任一步失败整体回滚。
// 幂等键去重：同键重复提交直接返回已建订单。
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" {
		return nil, ErrIdempotencyKeyRequired
	}
	if existing, err := s.orderRepo.GetByIdempotencyKey(key); err != nil {
		return nil, ErrOrderFetchFailed
	} else if existing != nil {
		return existing, nil
	}

	guestEmail := ""
	if input.CustomerID == 0 {
		normalized, err := normalizeGuestEmail(input.GuestEmail)
		if err != nil {
			return nil, err
		}
		guestEmail = normalized
	}
	input.GuestEmail = guestEmail

	plan, err := s.buildCheckoutPlan(ctx, input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		OrderNo:           generateOrderNo(),
		TenantID:          plan.Store.TenantID,
		VendorStoreID:     plan.Store.ID,
		CustomerID:        input.CustomerID,
		GuestEmail:        guestEmail,
		Status:            constants.OrderStatusPending,
		PaymentStatus:     constants.PaymentStatusPending,
		FulfillmentStatus: constants.FulfillmentStatusUnfulfilled,
		Currency:          plan.Store.Currency,
		Subtotal:          models.NewMoneyFromDecimal(plan.Subtotal),
		ShippingAmount:    models.NewMoneyFromDecimal(plan.ShippingAmount),
		TaxAmount:         models.NewMoneyFromDecimal(plan.TaxAmount),
		DiscountAmount:    models.NewMoneyFromDecimal(plan.DiscountAmount),
		PlatformFee:       models.NewMoneyFromDecimal(plan.PlatformFee),
		ProcessorCost:     models.NewMoneyFromDecimal(plan.ProcessorCost),
		VendorPayout:      models.NewMoneyFromDecimal(plan.VendorPayout),
		TotalAmount:       models.NewMoneyFromDecimal(plan.TotalAmount),
		IdempotencyKey:    key,
		PaymentMethodRef:  strings.TrimSpace(input.PaymentMethodRef),
		ShippingAddress:   input.ShippingAddress,
		ClientIP:          strings.TrimSpace(input.ClientIP),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if plan.AppliedCoupon != nil {
		order.CouponID = &plan.AppliedCoupon.ID
		order.CouponCode = plan.AppliedCoupon.Code
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		tenantRepo := s.tenantRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		vendorRepo := s.vendorRepo.WithTx(tx)

		affected, err := tenantRepo.IncrementOrderUsage(plan.Tenant.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrTenantOrderQuotaReached
		}

		if err := s.stockService.Reserve(tx, plan.StockLines); err != nil {
			return err
		}

		if err := orderRepo.Create(order, plan.Items); err != nil {
			return err
		}

		if plan.AppliedCoupon != nil {
			couponRepo := s.couponRepo.WithTx(tx)
			usageRepo := s.couponUsageRepo.WithTx(tx)
			usage := &models.CouponUsage{
				CouponID:       plan.AppliedCoupon.ID,
				CustomerID:     input.CustomerID,
				CustomerEmail:  guestEmail,
				OrderID:        order.ID,
				DiscountAmount: models.NewMoneyFromDecimal(plan.DiscountAmount),
				CreatedAt:      now,
			}
			if err := usageRepo.Create(usage); err != nil {
				return err
			}
			affected, err := couponRepo.IncrementUsedCount(plan.AppliedCoupon.ID, 1)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrCouponUsageLimit
			}
		}

		return vendorRepo.IncrementSales(plan.Store.ID, order.TotalAmount)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientStock),
			errors.Is(err, ErrTenantOrderQuotaReached),
			errors.Is(err, ErrCouponUsageLimit):
			return nil, err
		}
		logger.Errorw("order_create_failed",
			"cart_session_id", input.CartSessionID,
			"vendor_store_id", plan.Store.ID,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}

	// 购物车只在订单落库之后清空；清空失败不影响订单
	if err := s.cartService.Clear(ctx, input.CartSessionID); err != nil {
		logger.Warnw("order_cart_clear_failed",
			"order_id", order.ID,
			"cart_session_id", input.CartSessionID,
			"error", err,
		)
	}

	if s.tasks != nil {
		if err := s.tasks.EnqueueOrderConfirmEmail(order.ID); err != nil {
			logger.Warnw("order_enqueue_confirm_email_failed",
				"order_id", order.ID,
				"error", err,
			)
		}
	}

	full, err := s.orderRepo.GetByID(order.ID)
	if err == nil && full != nil {
		return full, nil
	}
	return order, nil
}

// buildCheckoutPlan 事务外装配：读取购物车、店铺、租户并计算全部金额。
func (s *OrderService) buildCheckoutPlan(ctx context.Context, input CreateOrderInput) (*checkoutPlan, error) {
	cart, err := s.cartService.GetForCheckout(ctx, input.CartSessionID)
	if err != nil {
		return nil, err
	}

	store, err := s.vendorRepo.GetByID(cart.VendorStoreID)
	if err != nil {
		return nil, err
	}
	if store == nil || !store.IsActive {
		return nil, ErrVendorNotAvailable
	}
	tenant := store.Tenant
	if tenant == nil {
		tenant, err = s.tenantRepo.GetByID(store.TenantID)
		if err != nil {
			return nil, err
		}
	}
	if tenant == nil || !tenant.IsActive {
		return nil, ErrTenantNotAvailable
	}

	productIDs := make([]uint, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		productIDs = append(productIDs, line.ProductID)
	}
	products, err := s.productRepo.ListByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uint]*models.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}

	now := time.Now()
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(cart.Lines))
	stockLines := make([]StockLine, 0, len(cart.Lines))
	couponItems := make([]CouponItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		product, ok := productByID[line.ProductID]
		if !ok || !product.IsActive {
			return nil, ErrProductNotAvailable
		}
		lineTotal := line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal).Round(2)
		items = append(items, models.OrderItem{
			ProductID:     line.ProductID,
			VariantID:     line.VariantID,
			CombinationID: line.CombinationID,
			Name:          line.Name,
			SKUCode:       line.SKUCode,
			UnitPrice:     line.UnitPrice,
			Quantity:      line.Quantity,
			TotalPrice:    models.NewMoneyFromDecimal(lineTotal),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		stockLines = append(stockLines, StockLine{
			ProductID:     line.ProductID,
			VariantID:     line.VariantID,
			CombinationID: line.CombinationID,
			Quantity:      line.Quantity,
			Tracked:       product.TrackQuantity,
		})
		couponItems = append(couponItems, CouponItem{
			ProductID:  line.ProductID,
			CategoryID: product.CategoryID,
			TotalPrice: models.NewMoneyFromDecimal(lineTotal),
		})
	}

	shipping := resolveShipping(store, subtotal)

	// itemDiscount 只抵扣商品金额；免邮券单独把运费记为折扣
	itemDiscount := decimal.Zero
	shippingDiscount := decimal.Zero
	var appliedCoupon *models.Coupon
	couponCode := strings.TrimSpace(input.CouponCode)
	if couponCode != "" {
		result, err := s.couponService.ValidateAndCalculate(CouponCheckInput{
			VendorStoreID: store.ID,
			Code:          couponCode,
			CustomerID:    input.CustomerID,
			CustomerEmail: input.GuestEmail,
			Items:         couponItems,
			ShippingCost:  models.NewMoneyFromDecimal(shipping),
		})
		if err != nil {
			return nil, err
		}
		appliedCoupon = result.Coupon
		if result.FreeShipping {
			shippingDiscount = shipping
		} else {
			itemDiscount = result.DiscountAmount.Decimal
		}
	}
	discount := itemDiscount.Add(shippingDiscount)

	taxable := subtotal.Sub(itemDiscount)
	if taxable.LessThan(decimal.Zero) {
		taxable = decimal.Zero
	}
	taxRate := s.taxProvider.RatePercent(store.TaxRegion)
	tax := taxable.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)

	// 总额恒等式：subtotal + shipping + tax - discount；
	// 运费金额始终存折前应收值，免邮只体现在折扣里。
	total := subtotal.Add(shipping).Add(tax).Sub(discount).Round(2)
	if total.LessThan(decimal.Zero) {
		total = decimal.Zero
	}

	processorCost := total.Mul(decimal.NewFromFloat(s.fees.ProcessorFeePercent)).Div(decimal.NewFromInt(100)).
		Add(decimal.NewFromFloat(s.fees.ProcessorFeeFixed)).Round(2)
	platformFee := total.Mul(tenant.PlatformFeePercent.Decimal).Div(decimal.NewFromInt(100)).Round(2)
	payout := total.Sub(platformFee).Sub(processorCost).Round(2)
	if payout.LessThan(decimal.Zero) {
		payout = decimal.Zero
	}

	return &checkoutPlan{
		Cart:           cart,
		Store:          store,
		Tenant:         tenant,
		Items:          items,
		StockLines:     stockLines,
		Subtotal:       subtotal,
		ShippingAmount: shipping,
		TaxAmount:      tax,
		DiscountAmount: discount.Round(2),
		PlatformFee:    platformFee,
		ProcessorCost:  processorCost,
		VendorPayout:   payout,
		TotalAmount:    total,
		AppliedCoupon:  appliedCoupon,
	}, nil
}

// CancelOrder 取消订单并回滚副作用。已发货/已签收的订单不可取消。
func (s *OrderService) CancelOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == constants.OrderStatusCanceled {
		return order, nil
	}
	if order.FulfillmentStatus == constants.FulfillmentStatusShipped ||
		order.FulfillmentStatus == constants.FulfillmentStatusDelivered {
		return nil, ErrOrderCancelNotAllowed
	}

	stockLines, err := s.stockLinesForOrder(order)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		vendorRepo := s.vendorRepo.WithTx(tx)
		tenantRepo := s.tenantRepo.WithTx(tx)

		updates := map[string]interface{}{
			"status":             constants.OrderStatusCanceled,
			"fulfillment_status": constants.FulfillmentStatusCanceled,
			"canceled_at":        now,
			"updated_at":         now,
		}
		if err := orderRepo.UpdateStatus(order.ID, updates); err != nil {
			return ErrOrderUpdateFailed
		}

		// 库存释放失败不阻断取消
		s.stockService.Release(tx, stockLines)

		if order.CouponID != nil {
			couponRepo := s.couponRepo.WithTx(tx)
			usageRepo := s.couponUsageRepo.WithTx(tx)
			if err := usageRepo.DeleteByOrder(order.ID); err != nil {
				return err
			}
			if err := couponRepo.DecrementUsedCount(*order.CouponID, 1); err != nil {
				return err
			}
		}

		if err := vendorRepo.DecrementSales(order.VendorStoreID, order.TotalAmount); err != nil {
			return err
		}
		return tenantRepo.DecrementOrderUsage(order.TenantID)
	})
	if err != nil {
		if errors.Is(err, ErrOrderUpdateFailed) {
			return nil, ErrOrderUpdateFailed
		}
		logger.Errorw("order_cancel_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"error", err,
		)
		return nil, ErrOrderUpdateFailed
	}

	order.Status = constants.OrderStatusCanceled
	order.FulfillmentStatus = constants.FulfillmentStatusCanceled
	order.CanceledAt = &now
	order.UpdatedAt = now
	return order, nil
}

// CancelOrderByCustomer 顾客取消自己的订单
func (s *OrderService) CancelOrderByCustomer(orderID, customerID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndCustomer(orderID, customerID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.CancelOrder(order.ID)
}

// MarkPaid 外部支付确认回写（支付状态 pending -> paid，订单进入已确认）
func (s *OrderService) MarkPaid(orderID uint) (*models.Order, error) {
	order, err := s.loadVendorOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !isPaymentTransitionAllowed(order.PaymentStatus, constants.PaymentStatusPaid) {
		return nil, ErrOrderStatusInvalid
	}
	now := time.Now()
	updates := map[string]interface{}{
		"payment_status": constants.PaymentStatusPaid,
		"status":         constants.OrderStatusConfirmed,
		"paid_at":        now,
		"updated_at":     now,
	}
	if err := s.orderRepo.UpdateStatus(order.ID, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.PaymentStatus = constants.PaymentStatusPaid
	order.Status = constants.OrderStatusConfirmed
	order.PaidAt = &now
	order.UpdatedAt = now
	return order, nil
}

// MarkShipped 商家发货（要求已支付）
func (s *OrderService) MarkShipped(orderID uint) (*models.Order, error) {
	order, err := s.loadVendorOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != constants.PaymentStatusPaid {
		return nil, ErrOrderStatusInvalid
	}
	if !isFulfillmentTransitionAllowed(order.FulfillmentStatus, constants.FulfillmentStatusShipped) {
		return nil, ErrOrderStatusInvalid
	}
	now := time.Now()
	updates := map[string]interface{}{
		"fulfillment_status": constants.FulfillmentStatusShipped,
		"shipped_at":         now,
		"updated_at":         now,
	}
	if err := s.orderRepo.UpdateStatus(order.ID, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.FulfillmentStatus = constants.FulfillmentStatusShipped
	order.ShippedAt = &now
	order.UpdatedAt = now
	return order, nil
}

// MarkDelivered 商家签收确认（订单进入已完成）
func (s *OrderService) MarkDelivered(orderID uint) (*models.Order, error) {
	order, err := s.loadVendorOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !isFulfillmentTransitionAllowed(order.FulfillmentStatus, constants.FulfillmentStatusDelivered) {
		return nil, ErrOrderStatusInvalid
	}
	now := time.Now()
	updates := map[string]interface{}{
		"fulfillment_status": constants.FulfillmentStatusDelivered,
		"status":             constants.OrderStatusCompleted,
		"delivered_at":       now,
		"updated_at":         now,
	}
	if err := s.orderRepo.UpdateStatus(order.ID, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.FulfillmentStatus = constants.FulfillmentStatusDelivered
	order.Status = constants.OrderStatusCompleted
	order.DeliveredAt = &now
	order.UpdatedAt = now
	return order, nil
}

// MarkRefunded 退款回写（支付状态 paid -> refunded）
func (s *OrderService) MarkRefunded(orderID uint) (*models.Order, error) {
	order, err := s.loadVendorOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !isPaymentTransitionAllowed(order.PaymentStatus, constants.PaymentStatusRefunded) {
		return nil, ErrOrderStatusInvalid
	}
	now := time.Now()
	updates := map[string]interface{}{
		"payment_status": constants.PaymentStatusRefunded,
		"refunded_at":    now,
		"updated_at":     now,
	}
	if err := s.orderRepo.UpdateStatus(order.ID, updates); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	order.PaymentStatus = constants.PaymentStatusRefunded
	order.RefundedAt = &now
	order.UpdatedAt = now
	return order, nil
}

// GetOrderByCustomer 顾客订单详情
func (s *OrderService) GetOrderByCustomer(orderID, customerID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndCustomer(orderID, customerID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByCustomer 顾客订单列表
func (s *OrderService) ListOrdersByCustomer(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.CustomerID == 0 {
		return nil, 0, ErrOrderFetchFailed
	}
	return s.orderRepo.ListByCustomer(filter)
}

// ListOrdersByVendor 商家订单列表
func (s *OrderService) ListOrdersByVendor(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.VendorStoreID == 0 {
		return nil, 0, ErrOrderFetchFailed
	}
	return s.orderRepo.ListByVendor(filter)
}

// GetVendorOrder 商家订单详情
func (s *OrderService) GetVendorOrder(orderID, vendorStoreID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil || order.VendorStoreID != vendorStoreID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) loadVendorOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) stockLinesForOrder(order *models.Order) ([]StockLine, error) {
	productIDs := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	trackedByID := make(map[uint]bool, len(products))
	for _, product := range products {
		trackedByID[product.ID] = product.TrackQuantity
	}
	lines := make([]StockLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, StockLine{
			ProductID:     item.ProductID,
			VariantID:     item.VariantID,
			CombinationID: item.CombinationID,
			Quantity:      item.Quantity,
			Tracked:       trackedByID[item.ProductID],
		})
	}
	return lines, nil
}

// resolveShipping 店铺固定运费，达到免邮门槛减免
func resolveShipping(store *models.VendorStore, subtotal decimal.Decimal) decimal.Decimal {
	flat := store.ShippingFlatRate.Decimal
	threshold := store.FreeShippingMin.Decimal
	if threshold.GreaterThan(decimal.Zero) && subtotal.GreaterThanOrEqual(threshold) {
		return decimal.Zero
	}
	return flat
}

func isPaymentTransitionAllowed(current, target string) bool {
	if current == target {
		return false
	}
	nexts, ok := allowedPaymentTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func isFulfillmentTransitionAllowed(current, target string) bool {
	if current == target {
		return false
	}
	nexts, ok := allowedFulfillmentTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func normalizeGuestEmail(raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", ErrGuestEmailRequired
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("VN%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}
