package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var fixtureSeq uint64

func nextFixtureID() uint64 {
	return atomic.AddUint64(&fixtureSeq, 1)
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.VendorStore{},
		&models.Customer{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.VariantCombination{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.Order{},
		&models.OrderItem{},
		&models.AbandonedCart{},
		&models.Review{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func createTestTenant(t *testing.T, db *gorm.DB, maxOrders int) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{
		Name:               fmt.Sprintf("tenant-%d", nextFixtureID()),
		PlanCode:           "starter",
		PlatformFeePercent: models.NewMoneyFromDecimal(decimal.NewFromInt(2)),
		MaxOrders:          maxOrders,
		IsActive:           true,
	}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}
	return tenant
}

func createTestStore(t *testing.T, db *gorm.DB, tenantID uint, flatRate, freeShippingMin string) *models.VendorStore {
	t.Helper()
	flat, err := models.NewMoneyFromString(flatRate)
	if err != nil {
		t.Fatalf("parse flat rate failed: %v", err)
	}
	threshold, err := models.NewMoneyFromString(freeShippingMin)
	if err != nil {
		t.Fatalf("parse free shipping min failed: %v", err)
	}
	store := &models.VendorStore{
		TenantID:         tenantID,
		Slug:             fmt.Sprintf("store-%d", nextFixtureID()),
		Name:             "Test Store",
		Currency:         "USD",
		ShippingFlatRate: flat,
		FreeShippingMin:  threshold,
		TaxRegion:        "US-CA",
		IsActive:         true,
	}
	if err := db.Create(store).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	return store
}

func createTestProduct(t *testing.T, db *gorm.DB, storeID uint, price string, stock int) *models.Product {
	t.Helper()
	amount, err := models.NewMoneyFromString(price)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	product := &models.Product{
		VendorStoreID: storeID,
		Slug:          fmt.Sprintf("product-%d", nextFixtureID()),
		Name:          "Test Product",
		Price:         amount,
		TrackQuantity: true,
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

// memoryCartBackend 进程内购物车存储，替代 Redis
type memoryCartBackend struct {
	mu    sync.Mutex
	store map[string][]byte
	fail  bool
}

func newMemoryCartBackend() *memoryCartBackend {
	return &memoryCartBackend{store: map[string][]byte{}}
}

func (b *memoryCartBackend) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return false, errors.New("backend down")
	}
	raw, ok := b.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (b *memoryCartBackend) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return errors.New("backend down")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	b.store[key] = raw
	return nil
}

func (b *memoryCartBackend) Del(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return errors.New("backend down")
	}
	delete(b.store, key)
	return nil
}

// recordingEnqueuer 记录所有入队调用
type recordingEnqueuer struct {
	mu          sync.Mutex
	idleChecks  []string
	reminders   []uint
	confirmMail []uint
}

func (e *recordingEnqueuer) EnqueueCartIdleCheck(sessionID string, delay time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.idleChecks = append(e.idleChecks, sessionID)
	return nil
}

func (e *recordingEnqueuer) EnqueueAbandonedCartRemind(recordID uint, stage int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reminders = append(e.reminders, recordID)
	return nil
}

func (e *recordingEnqueuer) EnqueueOrderConfirmEmail(orderID uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.confirmMail = append(e.confirmMail, orderID)
	return nil
}

type cartEnv struct {
	db          *gorm.DB
	backend     *memoryCartBackend
	enqueuer    *recordingEnqueuer
	cartService *CartService
	stock       *StockService
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

func newCartEnv(t *testing.T) *cartEnv {
	t.Helper()
	db := setupServiceDB(t)
	backend := newMemoryCartBackend()
	enqueuer := &recordingEnqueuer{}
	productRepo := repository.NewProductRepository(db)
	variantRepo := repository.NewVariantRepository(db)
	stock := NewStockService(productRepo, variantRepo)
	cartService := NewCartService(backend, productRepo, variantRepo, stock, enqueuer, 3600, 60)
	return &cartEnv{
		db:          db,
		backend:     backend,
		enqueuer:    enqueuer,
		cartService: cartService,
		stock:       stock,
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}
