package queue

import (
	"encoding/json"

	"github.com/vendora-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartIdleCheck 购物车闲置检查任务
	TaskCartIdleCheck = constants.TaskCartIdleCheck
	// TaskAbandonedCartRemind 弃购召回提醒任务
	TaskAbandonedCartRemind = constants.TaskAbandonedCartRemind
	// TaskOrderConfirmEmail 订单确认邮件任务
	TaskOrderConfirmEmail = constants.TaskOrderConfirmEmail
)

// CartIdleCheckPayload 购物车闲置检查任务载荷
type CartIdleCheckPayload struct {
	CartSessionID string `json:"cart_session_id"`
}

// AbandonedCartRemindPayload 弃购提醒任务载荷
type AbandonedCartRemindPayload struct {
	RecordID uint `json:"record_id"`
	Stage    int  `json:"stage"`
}

// OrderConfirmEmailPayload 订单确认邮件任务载荷
type OrderConfirmEmailPayload struct {
	OrderID uint `json:"order_id"`
}

// NewCartIdleCheckTask 创建购物车闲置检查任务
func NewCartIdleCheckTask(payload CartIdleCheckPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartIdleCheck, body), nil
}

// NewAbandonedCartRemindTask 创建弃购提醒任务
func NewAbandonedCartRemindTask(payload AbandonedCartRemindPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAbandonedCartRemind, body), nil
}

// NewOrderConfirmEmailTask 创建订单确认邮件任务
func NewOrderConfirmEmailTask(payload OrderConfirmEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmEmail, body), nil
}
