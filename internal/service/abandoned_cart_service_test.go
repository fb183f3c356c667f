package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"
)

type recoveryEnv struct {
	*cartEnv
	abandonedRepo repository.AbandonedCartRepository
	service       *AbandonedCartService
}

func newRecoveryEnv(t *testing.T) *recoveryEnv {
	t.Helper()
	env := newCartEnv(t)
	abandonedRepo := repository.NewAbandonedCartRepository(env.db)
	service := NewAbandonedCartService(
		abandonedRepo,
		repository.NewCouponRepository(env.db),
		repository.NewCustomerRepository(env.db),
		env.cartService,
		env.enqueuer,
		4, 24,
		"https://shop.example.test",
	)
	return &recoveryEnv{cartEnv: env, abandonedRepo: abandonedRepo, service: service}
}

func (env *recoveryEnv) trackCart(t *testing.T, email string) (*models.AbandonedCart, string) {
	t.Helper()
	ctx := context.Background()
	store := createTestStore(t, env.db, createTestTenant(t, env.db, 0).ID, "5.00", "0")
	product := createTestProduct(t, env.db, store.ID, "19.99", 10)
	sessionID := env.cartService.NewSessionID()
	if _, err := env.cartService.AddLine(ctx, sessionID, AddLineInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("fill cart failed: %v", err)
	}
	record, err := env.service.Track(ctx, TrackInput{CartSessionID: sessionID, CustomerEmail: email})
	if err != nil {
		t.Fatalf("track failed: %v", err)
	}
	if record == nil {
		t.Fatalf("track returned nil record for non-empty cart")
	}
	return record, sessionID
}

func TestTrackCreatesRecordWithRecoveryTokenAndCoupon(t *testing.T) {
	env := newRecoveryEnv(t)
	record, _ := env.trackCart(t, "buyer@example.test")

	if record.RecoveryToken == "" {
		t.Fatalf("recovery token missing")
	}
	if record.CartTotal.String() != "39.98" {
		t.Fatalf("cart total want 39.98 got %s", record.CartTotal.String())
	}
	if record.ItemCount != 2 {
		t.Fatalf("item count want 2 got %d", record.ItemCount)
	}
	if !strings.HasPrefix(record.DiscountCode, "BACK10-") {
		t.Fatalf("discount code want BACK10- prefix got %q", record.DiscountCode)
	}

	// 召回优惠码真实落库且为一次性 10% 折扣
	var coupon models.Coupon
	if err := env.db.Where("vendor_store_id = ? AND code = ?", record.VendorStoreID, record.DiscountCode).
		First(&coupon).Error; err != nil {
		t.Fatalf("recovery coupon not persisted: %v", err)
	}
	if coupon.UsageLimit != 1 || !coupon.IsActive {
		t.Fatalf("recovery coupon must be single-use active, got limit=%d active=%v", coupon.UsageLimit, coupon.IsActive)
	}
}

func TestTrackSkipsEmptyCartAndRefreshesExisting(t *testing.T) {
	env := newRecoveryEnv(t)
	ctx := context.Background()

	record, err := env.service.Track(ctx, TrackInput{CartSessionID: env.cartService.NewSessionID()})
	if err != nil {
		t.Fatalf("track empty cart failed: %v", err)
	}
	if record != nil {
		t.Fatalf("empty cart must not be tracked")
	}

	first, sessionID := env.trackCart(t, "")
	// 再次登记补充邮箱并刷新快照，不生成新令牌
	second, err := env.service.Track(ctx, TrackInput{CartSessionID: sessionID, CustomerEmail: "late@example.test"})
	if err != nil {
		t.Fatalf("refresh track failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("refresh must reuse record %d, got %d", first.ID, second.ID)
	}
	if second.RecoveryToken != first.RecoveryToken {
		t.Fatalf("recovery token must be stable across refreshes")
	}
	if second.CustomerEmail != "late@example.test" {
		t.Fatalf("email want late@example.test got %s", second.CustomerEmail)
	}
}

func TestRecoverIsSingleUse(t *testing.T) {
	env := newRecoveryEnv(t)
	ctx := context.Background()
	record, originalSession := env.trackCart(t, "buyer@example.test")

	result, err := env.service.Recover(ctx, record.RecoveryToken)
	if err != nil {
		t.Fatalf("recover failed: %v", err)
	}
	if result.SessionID == originalSession {
		t.Fatalf("recovery must mint a fresh session")
	}
	if result.DiscountCode != record.DiscountCode {
		t.Fatalf("discount code want %s got %s", record.DiscountCode, result.DiscountCode)
	}
	if len(result.Cart.Lines) != 1 || result.Cart.Lines[0].Quantity != 2 {
		t.Fatalf("restored cart snapshot wrong: %+v", result.Cart.Lines)
	}

	// 恢复的购物车在新会话可读
	cart, err := env.cartService.Get(ctx, result.SessionID)
	if err != nil {
		t.Fatalf("read restored cart failed: %v", err)
	}
	if cart.Subtotal().String() != "39.98" {
		t.Fatalf("restored subtotal want 39.98 got %s", cart.Subtotal().String())
	}

	// 令牌一次性
	if _, err := env.service.Recover(ctx, record.RecoveryToken); !errors.Is(err, ErrRecoveryAlreadyUsed) {
		t.Fatalf("second recover want ErrRecoveryAlreadyUsed got %v", err)
	}
}

func TestRecoverRejectsUnknownAndExpiredTokens(t *testing.T) {
	env := newRecoveryEnv(t)
	ctx := context.Background()

	if _, err := env.service.Recover(ctx, "no-such-token"); !errors.Is(err, ErrRecoveryTokenNotFound) {
		t.Fatalf("want ErrRecoveryTokenNotFound got %v", err)
	}

	record, _ := env.trackCart(t, "buyer@example.test")
	if err := env.db.Model(&models.AbandonedCart{}).Where("id = ?", record.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("expire record failed: %v", err)
	}
	if _, err := env.service.Recover(ctx, record.RecoveryToken); !errors.Is(err, ErrRecoveryLinkExpired) {
		t.Fatalf("want ErrRecoveryLinkExpired got %v", err)
	}
}

func TestSendReminderAdvancesStages(t *testing.T) {
	env := newRecoveryEnv(t)
	ctx := context.Background()
	record, _ := env.trackCart(t, "buyer@example.test")

	// 次封在首封之前被拒
	if err := env.service.SendReminder(ctx, record.ID, ReminderStageSecond); err != nil {
		t.Fatalf("premature second reminder must no-op, got %v", err)
	}
	reloaded, err := env.abandonedRepo.GetByID(record.ID)
	if err != nil {
		t.Fatalf("reload record failed: %v", err)
	}
	if reloaded.SecondReminderAt != nil {
		t.Fatalf("second reminder must not fire before first")
	}

	if err := env.service.SendReminder(ctx, record.ID, ReminderStageFirst); err != nil {
		t.Fatalf("first reminder failed: %v", err)
	}
	reloaded, err = env.abandonedRepo.GetByID(record.ID)
	if err != nil {
		t.Fatalf("reload record failed: %v", err)
	}
	if reloaded.FirstReminderAt == nil {
		t.Fatalf("first reminder timestamp missing")
	}

	// 首封重复发送为幂等
	before := *reloaded.FirstReminderAt
	if err := env.service.SendReminder(ctx, record.ID, ReminderStageFirst); err != nil {
		t.Fatalf("repeat first reminder must no-op, got %v", err)
	}
	reloaded, _ = env.abandonedRepo.GetByID(record.ID)
	if !reloaded.FirstReminderAt.Equal(before) {
		t.Fatalf("first reminder timestamp must not move")
	}

	if err := env.service.SendReminder(ctx, record.ID, ReminderStageSecond); err != nil {
		t.Fatalf("second reminder failed: %v", err)
	}
	reloaded, _ = env.abandonedRepo.GetByID(record.ID)
	if reloaded.SecondReminderAt == nil {
		t.Fatalf("second reminder timestamp missing")
	}
}

func TestRecoveryURL(t *testing.T) {
	env := newRecoveryEnv(t)
	url := env.service.RecoveryURL("tok123")
	if url != "https://shop.example.test/cart/recover/tok123" {
		t.Fatalf("recovery url wrong: %s", url)
	}
}
