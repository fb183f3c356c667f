package service

import (
	"context"
	"fmt"
	"time"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartBackend 购物车键值存储接口（生产为 Redis，测试为内存实现）
type CartBackend interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CartTaskEnqueuer 购物车闲置检查任务入队接口
type CartTaskEnqueuer interface {
	EnqueueCartIdleCheck(sessionID string, delay time.Duration) error
}

// CartLine 购物车行
type CartLine struct {
	ProductID     uint         `json:"product_id"`
	VariantID     *uint        `json:"variant_id,omitempty"`
	CombinationID *uint        `json:"combination_id,omitempty"`
	Name          string       `json:"name"`
	SKUCode       string       `json:"sku_code,omitempty"`
	UnitPrice     models.Money `json:"unit_price"`
	Quantity      int          `json:"quantity"`
}

// Cart 购物车（整体以 JSON 存储，会话级单店铺）
type Cart struct {
	SessionID     string     `json:"session_id"`
	VendorStoreID uint       `json:"vendor_store_id"`
	Lines         []CartLine `json:"lines"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Subtotal 购物车商品小计
func (c *Cart) Subtotal() models.Money {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return models.NewMoneyFromDecimal(total)
}

// ItemCount 购物车商品件数
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty 是否为空车
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// CartService 购物车服务
type CartService struct {
	backend      CartBackend
	productRepo  repository.ProductRepository
	variantRepo  repository.VariantRepository
	stockService *StockService
	tasks        CartTaskEnqueuer
	ttl          time.Duration
	idleDelay    time.Duration
}

// NewCartService 创建购物车服务
func NewCartService(backend CartBackend, productRepo repository.ProductRepository, variantRepo repository.VariantRepository, stockService *StockService, tasks CartTaskEnqueuer, ttlSeconds, idleCheckMinutes int) *CartService {
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Duration(constants.CartTTLSecondsDefault) * time.Second
	}
	idleDelay := time.Duration(idleCheckMinutes) * time.Minute
	if idleDelay <= 0 {
		idleDelay = time.Hour
	}
	return &CartService{
		backend:      backend,
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		stockService: stockService,
		tasks:        tasks,
		ttl:          ttl,
		idleDelay:    idleDelay,
	}
}

// NewSessionID 生成购物车会话标识
func (s *CartService) NewSessionID() string {
	return uuid.NewString()
}

// AddLineInput 加购输入
type AddLineInput struct {
	ProductID     uint
	VariantID     *uint
	CombinationID *uint
	Quantity      int
}

// Get 读取购物车。存储不可用时降级为空车（只影响展示路径）。
func (s *CartService) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return &Cart{Lines: []CartLine{}}, nil
	}
	var cart Cart
	found, err := s.backend.GetJSON(ctx, cartKey(sessionID), &cart)
	if err != nil {
		logger.Warnw("cart_read_degraded",
			"session_id", sessionID,
			"error", err,
		)
		return &Cart{SessionID: sessionID, Lines: []CartLine{}}, nil
	}
	if !found {
		return &Cart{SessionID: sessionID, Lines: []CartLine{}}, nil
	}
	if cart.Lines == nil {
		cart.Lines = []CartLine{}
	}
	return &cart, nil
}

// GetForCheckout 结算路径读取购物车。存储不可用直接报错，不允许按空车结算。
func (s *CartService) GetForCheckout(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrCartEmpty
	}
	var cart Cart
	found, err := s.backend.GetJSON(ctx, cartKey(sessionID), &cart)
	if err != nil {
		return nil, ErrCartUnavailable
	}
	if !found || len(cart.Lines) == 0 {
		return nil, ErrCartEmpty
	}
	return &cart, nil
}

// AddLine 加购。同 (商品, 规格, 组合) 行合并数量；跨店铺加购直接拒绝。
func (s *CartService) AddLine(ctx context.Context, sessionID string, input AddLineInput) (*Cart, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	cart, err := s.loadForMutation(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.VendorStoreID != 0 && cart.VendorStoreID != product.VendorStoreID {
		return nil, ErrCartVendorMismatch
	}

	unitPrice, skuCode, err := s.resolveUnitPrice(product, input.VariantID, input.CombinationID)
	if err != nil {
		return nil, err
	}

	key := lineKey(input.ProductID, input.VariantID, input.CombinationID)
	idx := findLine(cart.Lines, key)
	targetQuantity := input.Quantity
	if idx >= 0 {
		targetQuantity += cart.Lines[idx].Quantity
	}
	if targetQuantity > constants.CartLineMaxQuantity {
		return nil, ErrCartQuantityLimit
	}

	// 加购时仅做余量预检，真正的扣减发生在下单事务里。
	available, tracked, err := s.stockService.Available(StockLine{
		ProductID:     input.ProductID,
		VariantID:     input.VariantID,
		CombinationID: input.CombinationID,
		Tracked:       product.TrackQuantity,
	})
	if err != nil {
		return nil, err
	}
	if tracked && available < targetQuantity {
		return nil, ErrInsufficientStock
	}

	if idx >= 0 {
		cart.Lines[idx].Quantity = targetQuantity
	} else {
		cart.Lines = append(cart.Lines, CartLine{
			ProductID:     input.ProductID,
			VariantID:     input.VariantID,
			CombinationID: input.CombinationID,
			Name:          product.Name,
			SKUCode:       skuCode,
			UnitPrice:     unitPrice,
			Quantity:      input.Quantity,
		})
	}
	cart.VendorStoreID = product.VendorStoreID

	if err := s.save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity 更新行数量。数量为 0 等同移除该行。
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID uint, variantID, combinationID *uint, quantity int) (*Cart, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if quantity > constants.CartLineMaxQuantity {
		return nil, ErrCartQuantityLimit
	}
	cart, err := s.loadForMutation(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	key := lineKey(productID, variantID, combinationID)
	idx := findLine(cart.Lines, key)
	if idx < 0 {
		return nil, ErrCartLineNotFound
	}
	if quantity == 0 {
		cart.Lines = append(cart.Lines[:idx], cart.Lines[idx+1:]...)
	} else {
		cart.Lines[idx].Quantity = quantity
	}
	if len(cart.Lines) == 0 {
		// 最后一行移除后解除店铺绑定，允许换店铺重新开张
		cart.VendorStoreID = 0
	}
	if err := s.save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveLine 移除购物车行
func (s *CartService) RemoveLine(ctx context.Context, sessionID string, productID uint, variantID, combinationID *uint) (*Cart, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, variantID, combinationID, 0)
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.backend.Del(ctx, cartKey(sessionID))
}

// ReplaceSnapshot 用快照覆盖购物车（弃购召回用，写入新会话）
func (s *CartService) ReplaceSnapshot(ctx context.Context, sessionID string, cart *Cart) error {
	if sessionID == "" || cart == nil {
		return ErrCartUnavailable
	}
	cart.SessionID = sessionID
	return s.save(ctx, sessionID, cart)
}

// loadForMutation 变更路径读取购物车，存储不可用直接失败。
func (s *CartService) loadForMutation(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrCartUnavailable
	}
	var cart Cart
	found, err := s.backend.GetJSON(ctx, cartKey(sessionID), &cart)
	if err != nil {
		return nil, ErrCartUnavailable
	}
	if !found {
		return &Cart{SessionID: sessionID, Lines: []CartLine{}}, nil
	}
	if cart.Lines == nil {
		cart.Lines = []CartLine{}
	}
	return &cart, nil
}

// save 写回购物车并重置滑动有效期，随后安排闲置检查。
func (s *CartService) save(ctx context.Context, sessionID string, cart *Cart) error {
	cart.SessionID = sessionID
	cart.UpdatedAt = time.Now()
	if err := s.backend.SetJSON(ctx, cartKey(sessionID), cart, s.ttl); err != nil {
		return ErrCartUnavailable
	}
	if s.tasks != nil && len(cart.Lines) > 0 {
		if err := s.tasks.EnqueueCartIdleCheck(sessionID, s.idleDelay); err != nil {
			logger.Warnw("cart_enqueue_idle_check_failed",
				"session_id", sessionID,
				"error", err,
			)
		}
	}
	return nil
}

func (s *CartService) resolveUnitPrice(product *models.Product, variantID, combinationID *uint) (models.Money, string, error) {
	price := product.Price
	skuCode := ""
	if variantID != nil {
		variant, err := s.variantRepo.GetByID(*variantID)
		if err != nil {
			return models.Money{}, "", err
		}
		if variant == nil || variant.ProductID != product.ID || !variant.IsActive {
			return models.Money{}, "", ErrVariantNotAvailable
		}
		skuCode = variant.SKUCode
		if variant.Price != nil {
			price = *variant.Price
		}
		if combinationID != nil {
			combination, err := s.variantRepo.GetCombinationByID(*combinationID)
			if err != nil {
				return models.Money{}, "", err
			}
			if combination == nil || combination.VariantID != variant.ID || !combination.IsActive {
				return models.Money{}, "", ErrVariantNotAvailable
			}
			skuCode = combination.SKUCode
			if combination.Price != nil {
				price = *combination.Price
			}
		}
	} else if combinationID != nil {
		// 组合必须挂在规格之下
		return models.Money{}, "", ErrVariantNotAvailable
	}
	return price, skuCode, nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func lineKey(productID uint, variantID, combinationID *uint) string {
	variant := uint(0)
	if variantID != nil {
		variant = *variantID
	}
	combination := uint(0)
	if combinationID != nil {
		combination = *combinationID
	}
	return fmt.Sprintf("%d:%d:%d", productID, variant, combination)
}

func findLine(lines []CartLine, key string) int {
	for i := range lines {
		if lineKey(lines[i].ProductID, lines[i].VariantID, lines[i].CombinationID) == key {
			return i
		}
	}
	return -1
}
