package storefront

import (
	"strings"

	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CouponPreviewRequest 优惠券试算请求。游客可带邮箱参与每人上限/首单校验。
type CouponPreviewRequest struct {
	Code  string `json:"code" binding:"required"`
	Email string `json:"email"`
}

// CouponPreviewResponse 优惠券试算结果
type CouponPreviewResponse struct {
	Code           string       `json:"code"`
	Type           string       `json:"type"`
	DiscountAmount models.Money `json:"discount_amount"`
	FreeShipping   bool         `json:"free_shipping"`
}

// PreviewCoupon 对当前购物车试算优惠券，不移动任何使用计数。
func (h *Handler) PreviewCoupon(c *gin.Context) {
	var req CouponPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	sessionID, ok := requireCartSession(c)
	if !ok {
		return
	}
	cart, err := h.CartService.GetForCheckout(c.Request.Context(), sessionID)
	if err != nil {
		respondCouponPreviewError(c, err)
		return
	}

	store, err := h.VendorStoreRepo.GetByID(cart.VendorStoreID)
	if err != nil || store == nil {
		respondError(c, response.CodeBadRequest, "error.vendor_not_available", err)
		return
	}

	items := make([]service.CouponItem, 0, len(cart.Lines))
	productIDs := make([]uint, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		productIDs = append(productIDs, line.ProductID)
	}
	products, err := h.ProductRepo.ListByIDs(productIDs)
	if err != nil {
		respondError(c, response.CodeInternal, "error.coupon_check_failed", err)
		return
	}
	categoryByProduct := make(map[uint]*uint, len(products))
	for i := range products {
		categoryByProduct[products[i].ID] = products[i].CategoryID
	}
	for _, line := range cart.Lines {
		lineTotal := line.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, service.CouponItem{
			ProductID:  line.ProductID,
			CategoryID: categoryByProduct[line.ProductID],
			TotalPrice: models.NewMoneyFromDecimal(lineTotal),
		})
	}

	shipping := store.ShippingFlatRate
	result, err := h.CouponService.ValidateAndCalculate(service.CouponCheckInput{
		VendorStoreID: cart.VendorStoreID,
		Code:          req.Code,
		CustomerID:    getOptionalCustomerID(c),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.Email)),
		Items:         items,
		ShippingCost:  shipping,
	})
	if err != nil {
		respondCouponPreviewError(c, err)
		return
	}
	response.Success(c, CouponPreviewResponse{
		Code:           result.Coupon.Code,
		Type:           result.Coupon.Type,
		DiscountAmount: result.DiscountAmount,
		FreeShipping:   result.FreeShipping,
	})
}
