package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/lithammer/shortuuid/v4"
	"github.com/shopspring/decimal"
)

// 召回提醒阶段
const (
	ReminderStageFirst  = 1
	ReminderStageSecond = 2
)

// RecoveryTaskEnqueuer 弃购提醒任务入队接口
type RecoveryTaskEnqueuer interface {
	EnqueueAbandonedCartRemind(recordID uint, stage int) error
}

// AbandonedCartService 弃购记录与召回服务
type AbandonedCartService struct {
	abandonedRepo repository.AbandonedCartRepository
	couponRepo    repository.CouponRepository
	customerRepo  repository.CustomerRepository
	cartService   *CartService
	tasks         RecoveryTaskEnqueuer
	firstDelay    time.Duration
	secondDelay   time.Duration
	baseURL       string
}

// NewAbandonedCartService 创建弃购召回服务
func NewAbandonedCartService(
	abandonedRepo repository.AbandonedCartRepository,
	couponRepo repository.CouponRepository,
	customerRepo repository.CustomerRepository,
	cartService *CartService,
	tasks RecoveryTaskEnqueuer,
	firstReminderHours, secondReminderHours int,
	baseURL string,
) *AbandonedCartService {
	firstDelay := time.Duration(firstReminderHours) * time.Hour
	if firstDelay <= 0 {
		firstDelay = 4 * time.Hour
	}
	secondDelay := time.Duration(secondReminderHours) * time.Hour
	if secondDelay <= 0 {
		secondDelay = 24 * time.Hour
	}
	return &AbandonedCartService{
		abandonedRepo: abandonedRepo,
		couponRepo:    couponRepo,
		customerRepo:  customerRepo,
		cartService:   cartService,
		tasks:         tasks,
		firstDelay:    firstDelay,
		secondDelay:   secondDelay,
		baseURL:       strings.TrimRight(baseURL, "/"),
	}
}

// TrackInput 弃购登记输入
type TrackInput struct {
	CartSessionID string
	CustomerID    uint
	CustomerEmail string
	CustomerName  string
}

// Track 登记或刷新弃购记录。
// 首次登记生成召回令牌并铸造一次性召回优惠码；重复登记只刷新快照。
func (s *AbandonedCartService) Track(ctx context.Context, input TrackInput) (*models.AbandonedCart, error) {
	cart, err := s.cartService.Get(ctx, input.CartSessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() || cart.VendorStoreID == 0 {
		return nil, nil
	}

	snapshot, err := snapshotFromCart(cart)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.CustomerEmail))
	if email == "" && input.CustomerID != 0 {
		customer, err := s.customerRepo.GetByID(input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			email = customer.Email
			if input.CustomerName == "" {
				input.CustomerName = customer.Name
			}
		}
	}

	existing, err := s.abandonedRepo.GetBySessionID(input.CartSessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.IsRecovered {
			return existing, nil
		}
		existing.SnapshotJSON = snapshot
		existing.CartTotal = cart.Subtotal()
		existing.ItemCount = cart.ItemCount()
		if email != "" {
			existing.CustomerEmail = email
		}
		if input.CustomerID != 0 {
			existing.CustomerID = input.CustomerID
		}
		if input.CustomerName != "" {
			existing.CustomerName = input.CustomerName
		}
		if err := s.abandonedRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	expiresAt := time.Now().Add(time.Duration(constants.AbandonedCartExpireDays) * 24 * time.Hour)
	discountCode, err := s.mintRecoveryCoupon(cart.VendorStoreID, expiresAt)
	if err != nil {
		// 优惠码铸造失败不阻断登记，召回链接仍然可用
		logger.Errorw("abandoned_cart_coupon_mint_failed",
			"session_id", input.CartSessionID,
			"vendor_store_id", cart.VendorStoreID,
			"error", err,
		)
		discountCode = ""
	}

	record := &models.AbandonedCart{
		CartSessionID: input.CartSessionID,
		VendorStoreID: cart.VendorStoreID,
		CustomerID:    input.CustomerID,
		CustomerEmail: email,
		CustomerName:  input.CustomerName,
		SnapshotJSON:  snapshot,
		CartTotal:     cart.Subtotal(),
		ItemCount:     cart.ItemCount(),
		RecoveryToken: shortuuid.New(),
		DiscountCode:  discountCode,
		ExpiresAt:     expiresAt,
	}
	if err := s.abandonedRepo.Create(record); err != nil {
		return nil, err
	}
	logger.Infow("abandoned_cart_tracked",
		"session_id", input.CartSessionID,
		"vendor_store_id", cart.VendorStoreID,
		"item_count", record.ItemCount,
		"cart_total", record.CartTotal.String(),
	)
	return record, nil
}

// ProcessIdleCart 处理闲置检查任务：购物车仍有内容且未再活跃则登记弃购。
func (s *AbandonedCartService) ProcessIdleCart(ctx context.Context, sessionID string) error {
	cart, err := s.cartService.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if cart.IsEmpty() {
		return nil
	}
	// 检查窗口内购物车有过新动作则等下一次闲置检查
	if time.Since(cart.UpdatedAt) < s.cartService.idleDelay {
		return nil
	}
	_, err = s.Track(ctx, TrackInput{CartSessionID: sessionID})
	return err
}

// RecoveryResult 召回结果
type RecoveryResult struct {
	SessionID    string
	DiscountCode string
	Cart         *Cart
}

// Recover 通过召回令牌恢复购物车。
// 令牌一次性：条件更新抢占成功者恢复快照到新会话，其余请求返回已使用。
func (s *AbandonedCartService) Recover(ctx context.Context, token string) (*RecoveryResult, error) {
	record, err := s.abandonedRepo.GetByRecoveryToken(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecoveryTokenNotFound
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, ErrRecoveryLinkExpired
	}

	affected, err := s.abandonedRepo.MarkRecovered(record.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrRecoveryAlreadyUsed
	}

	cart, err := cartFromSnapshot(record.SnapshotJSON)
	if err != nil {
		logger.Errorw("abandoned_cart_snapshot_decode_failed",
			"record_id", record.ID,
			"error", err,
		)
		return nil, err
	}

	sessionID := s.cartService.NewSessionID()
	if err := s.cartService.ReplaceSnapshot(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	logger.Infow("abandoned_cart_recovered",
		"record_id", record.ID,
		"vendor_store_id", record.VendorStoreID,
		"session_id", sessionID,
	)
	return &RecoveryResult{
		SessionID:    sessionID,
		DiscountCode: record.DiscountCode,
		Cart:         cart,
	}, nil
}

// SweepReminders 扫描到期未召回的记录并投递提醒任务
func (s *AbandonedCartService) SweepReminders(ctx context.Context, batchSize int) error {
	if s.tasks == nil {
		return nil
	}
	now := time.Now()

	firstDue, err := s.abandonedRepo.ListDueFirstReminders(now.Add(-s.firstDelay), batchSize)
	if err != nil {
		return err
	}
	for _, record := range firstDue {
		if err := s.tasks.EnqueueAbandonedCartRemind(record.ID, ReminderStageFirst); err != nil {
			logger.Warnw("abandoned_cart_remind_enqueue_failed",
				"record_id", record.ID,
				"stage", ReminderStageFirst,
				"error", err,
			)
		}
	}

	secondDue, err := s.abandonedRepo.ListDueSecondReminders(now.Add(-s.secondDelay), batchSize)
	if err != nil {
		return err
	}
	for _, record := range secondDue {
		if err := s.tasks.EnqueueAbandonedCartRemind(record.ID, ReminderStageSecond); err != nil {
			logger.Warnw("abandoned_cart_remind_enqueue_failed",
				"record_id", record.ID,
				"stage", ReminderStageSecond,
				"error", err,
			)
		}
	}
	return nil
}

// SendReminder 发送召回提醒并记录发送时间。
// 邮件投递本体由外围邮件通道承接，这里落日志并推进提醒状态。
func (s *AbandonedCartService) SendReminder(ctx context.Context, recordID uint, stage int) error {
	record, err := s.abandonedRepo.GetByID(recordID)
	if err != nil {
		return err
	}
	if record == nil || record.IsRecovered || record.CustomerEmail == "" {
		return nil
	}
	if time.Now().After(record.ExpiresAt) {
		return nil
	}

	column := "first_reminder_at"
	if stage == ReminderStageSecond {
		if record.FirstReminderAt == nil {
			return nil
		}
		column = "second_reminder_at"
	} else if record.FirstReminderAt != nil {
		return nil
	}

	logger.Infow("abandoned_cart_reminder_sent",
		"record_id", record.ID,
		"stage", stage,
		"email", record.CustomerEmail,
		"recovery_url", s.RecoveryURL(record.RecoveryToken),
		"discount_code", record.DiscountCode,
	)
	return s.abandonedRepo.MarkReminderSent(record.ID, column, time.Now())
}

// RecoveryURL 拼接召回链接
func (s *AbandonedCartService) RecoveryURL(token string) string {
	return fmt.Sprintf("%s/cart/recover/%s", s.baseURL, token)
}

// mintRecoveryCoupon 铸造一次性召回优惠码（10% 折扣，随召回链接一同失效）
func (s *AbandonedCartService) mintRecoveryCoupon(vendorStoreID uint, expiresAt time.Time) (string, error) {
	code := "BACK10-" + strings.ToUpper(shortuuid.New()[:8])
	coupon := &models.Coupon{
		VendorStoreID: vendorStoreID,
		Code:          code,
		Type:          constants.CouponTypePercentage,
		Value:         models.NewMoneyFromDecimal(decimal.NewFromInt(constants.RecoveryDiscountPercent)),
		UsageLimit:    1,
		EndsAt:        &expiresAt,
		IsActive:      true,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return "", err
	}
	return code, nil
}

func snapshotFromCart(cart *Cart) (models.JSON, error) {
	raw, err := json.Marshal(cart)
	if err != nil {
		return nil, err
	}
	var snapshot models.JSON
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func cartFromSnapshot(snapshot models.JSON) (*Cart, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	var cart Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, err
	}
	if cart.Lines == nil {
		cart.Lines = []CartLine{}
	}
	return &cart, nil
}
