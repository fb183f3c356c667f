package storefront

import (
	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	GuestEmail       string      `json:"guest_email"`
	ShippingAddress  models.JSON `json:"shipping_address"`
	CouponCode       string      `json:"coupon_code"`
	PaymentMethodRef string      `json:"payment_method_ref"`
}

// Checkout 购物车结算下单。
// 幂等键取自 Idempotency-Key 请求头，重复提交返回首次创建的订单。
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	sessionID, ok := requireCartSession(c)
	if !ok {
		return
	}

	order, err := h.OrderService.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		CartSessionID:    sessionID,
		CustomerID:       getOptionalCustomerID(c),
		GuestEmail:       req.GuestEmail,
		ShippingAddress:  req.ShippingAddress,
		CouponCode:       req.CouponCode,
		PaymentMethodRef: req.PaymentMethodRef,
		IdempotencyKey:   c.GetHeader("Idempotency-Key"),
		ClientIP:         c.ClientIP(),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, order)
}
