package worker

import (
	"context"
	"encoding/json"

	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/provider"
	"github.com/vendora-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartIdleCheck, c.handleCartIdleCheck)
	mux.HandleFunc(queue.TaskAbandonedCartRemind, c.handleAbandonedCartRemind)
	mux.HandleFunc(queue.TaskOrderConfirmEmail, c.handleOrderConfirmEmail)
}

func (c *Consumer) handleCartIdleCheck(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_idle_check_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartIdleCheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_idle_check_unmarshal_failed", "error", err)
		return err
	}
	if payload.CartSessionID == "" {
		logger.Debugw("worker_cart_idle_check_skip_invalid_payload")
		return nil
	}
	if err := c.AbandonedCartService.ProcessIdleCart(ctx, payload.CartSessionID); err != nil {
		logger.Warnw("worker_cart_idle_check_failed", "session_id", payload.CartSessionID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleAbandonedCartRemind(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_abandoned_cart_remind_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.AbandonedCartRemindPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_abandoned_cart_remind_unmarshal_failed", "error", err)
		return err
	}
	if payload.RecordID == 0 {
		logger.Debugw("worker_abandoned_cart_remind_skip_invalid_payload", "record_id", payload.RecordID)
		return nil
	}
	if err := c.AbandonedCartService.SendReminder(ctx, payload.RecordID, payload.Stage); err != nil {
		logger.Warnw("worker_abandoned_cart_remind_failed",
			"record_id", payload.RecordID,
			"stage", payload.Stage,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderConfirmEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_confirm_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderConfirmEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirm_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_confirm_email_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_confirm_email_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_confirm_email_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	receiverEmail := order.GuestEmail
	if order.CustomerID != 0 {
		customer, err := c.CustomerRepo.GetByID(order.CustomerID)
		if err != nil {
			logger.Warnw("worker_order_confirm_email_fetch_customer_failed",
				"order_id", order.ID,
				"customer_id", order.CustomerID,
				"error", err,
			)
			return err
		}
		if customer != nil {
			receiverEmail = customer.Email
		}
	}
	if receiverEmail == "" {
		logger.Debugw("worker_order_confirm_email_skip_empty_receiver", "order_id", order.ID, "order_no", order.OrderNo)
		return nil
	}
	// 邮件投递由外围通道承接，这里落结构化日志作为发送记录
	logger.Infow("order_confirm_email_sent",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"email", receiverEmail,
		"total_amount", order.TotalAmount.String(),
	)
	return nil
}
