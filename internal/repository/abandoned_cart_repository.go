package repository

import (
	"errors"
	"time"

	"github.com/vendora-next/internal/models"

	"gorm.io/gorm"
)

// AbandonedCartRepository 弃购记录数据访问接口
type AbandonedCartRepository interface {
	Create(record *models.AbandonedCart) error
	Update(record *models.AbandonedCart) error
	GetByID(id uint) (*models.AbandonedCart, error)
	GetBySessionID(sessionID string) (*models.AbandonedCart, error)
	GetByRecoveryToken(token string) (*models.AbandonedCart, error)
	MarkRecovered(id uint, at time.Time) (int64, error)
	MarkReminderSent(id uint, column string, at time.Time) error
	ListDueFirstReminders(idleBefore time.Time, limit int) ([]models.AbandonedCart, error)
	ListDueSecondReminders(firstBefore time.Time, limit int) ([]models.AbandonedCart, error)
	WithTx(tx *gorm.DB) AbandonedCartRepository
}

// GormAbandonedCartRepository GORM 实现
type GormAbandonedCartRepository struct {
	db *gorm.DB
}

// NewAbandonedCartRepository 创建弃购记录仓库
func NewAbandonedCartRepository(db *gorm.DB) *GormAbandonedCartRepository {
	return &GormAbandonedCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAbandonedCartRepository) WithTx(tx *gorm.DB) AbandonedCartRepository {
	if tx == nil {
		return r
	}
	return &GormAbandonedCartRepository{db: tx}
}

// Create 创建弃购记录
func (r *GormAbandonedCartRepository) Create(record *models.AbandonedCart) error {
	if record == nil {
		return errors.New("abandoned cart is nil")
	}
	return r.db.Create(record).Error
}

// Update 更新弃购记录
func (r *GormAbandonedCartRepository) Update(record *models.AbandonedCart) error {
	if record == nil {
		return errors.New("abandoned cart is nil")
	}
	return r.db.Save(record).Error
}

// GetByID 根据主键获取弃购记录
func (r *GormAbandonedCartRepository) GetByID(id uint) (*models.AbandonedCart, error) {
	if id == 0 {
		return nil, nil
	}
	var record models.AbandonedCart
	if err := r.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetBySessionID 根据购物车会话获取弃购记录
func (r *GormAbandonedCartRepository) GetBySessionID(sessionID string) (*models.AbandonedCart, error) {
	if sessionID == "" {
		return nil, nil
	}
	var record models.AbandonedCart
	if err := r.db.Where("cart_session_id = ?", sessionID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByRecoveryToken 根据召回令牌获取弃购记录
func (r *GormAbandonedCartRepository) GetByRecoveryToken(token string) (*models.AbandonedCart, error) {
	if token == "" {
		return nil, nil
	}
	var record models.AbandonedCart
	if err := r.db.Where("recovery_token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// MarkRecovered 标记召回成功（条件更新保证链接一次性，返回影响行数）
func (r *GormAbandonedCartRepository) MarkRecovered(id uint, at time.Time) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid abandoned cart id")
	}
	result := r.db.Model(&models.AbandonedCart{}).
		Where("id = ? AND is_recovered = ?", id, false).
		Updates(map[string]interface{}{
			"is_recovered": true,
			"recovered_at": at,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkReminderSent 记录提醒发送时间
func (r *GormAbandonedCartRepository) MarkReminderSent(id uint, column string, at time.Time) error {
	if id == 0 {
		return errors.New("invalid abandoned cart id")
	}
	if column != "first_reminder_at" && column != "second_reminder_at" {
		return errors.New("invalid reminder column")
	}
	return r.db.Model(&models.AbandonedCart{}).
		Where("id = ?", id).
		UpdateColumn(column, at).Error
}

// ListDueFirstReminders 获取待发首封提醒的弃购记录
func (r *GormAbandonedCartRepository) ListDueFirstReminders(idleBefore time.Time, limit int) ([]models.AbandonedCart, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []models.AbandonedCart
	if err := r.db.
		Where("is_recovered = ? AND first_reminder_at IS NULL AND updated_at <= ? AND expires_at > ? AND customer_email <> ''",
			false, idleBefore, time.Now()).
		Order("id asc").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListDueSecondReminders 获取待发次封提醒的弃购记录
func (r *GormAbandonedCartRepository) ListDueSecondReminders(firstBefore time.Time, limit int) ([]models.AbandonedCart, error) {
	if limit <= 0 {
		limit = 100
	}
	var records []models.AbandonedCart
	if err := r.db.
		Where("is_recovered = ? AND first_reminder_at IS NOT NULL AND first_reminder_at <= ? AND second_reminder_at IS NULL AND expires_at > ?",
			false, firstBefore, time.Now()).
		Order("id asc").
		Limit(limit).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
