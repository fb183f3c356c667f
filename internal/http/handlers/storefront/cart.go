package storefront

import (
	"strconv"

	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartLineRequest 购物车行请求
type CartLineRequest struct {
	ProductID     uint  `json:"product_id" binding:"required"`
	VariantID     *uint `json:"variant_id"`
	CombinationID *uint `json:"combination_id"`
	Quantity      int   `json:"quantity"`
}

// CartView 购物车响应
type CartView struct {
	SessionID     string             `json:"session_id"`
	VendorStoreID uint               `json:"vendor_store_id,omitempty"`
	Lines         []service.CartLine `json:"lines"`
	Subtotal      models.Money       `json:"subtotal"`
	ItemCount     int                `json:"item_count"`
}

func buildCartView(cart *service.Cart) CartView {
	return CartView{
		SessionID:     cart.SessionID,
		VendorStoreID: cart.VendorStoreID,
		Lines:         cart.Lines,
		Subtotal:      cart.Subtotal(),
		ItemCount:     cart.ItemCount(),
	}
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	sessionID := readCartSession(c)
	cart, err := h.CartService.Get(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	response.Success(c, buildCartView(cart))
}

// AddCartItem 加购
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	sessionID := h.ensureCartSession(c)
	cart, err := h.CartService.AddLine(c.Request.Context(), sessionID, service.AddLineInput{
		ProductID:     req.ProductID,
		VariantID:     req.VariantID,
		CombinationID: req.CombinationID,
		Quantity:      req.Quantity,
	})
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartView(cart))
}

// UpdateCartItem 更新行数量（0 表示移除）
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	sessionID, ok := requireCartSession(c)
	if !ok {
		return
	}
	cart, err := h.CartService.UpdateQuantity(c.Request.Context(), sessionID, req.ProductID, req.VariantID, req.CombinationID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartView(cart))
}

// DeleteCartItem 移除购物车行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	rawID := c.Param("product_id")
	productID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.cart_line_not_found", nil)
		return
	}
	sessionID, ok := requireCartSession(c)
	if !ok {
		return
	}
	variantID := parseOptionalUintQuery(c, "variant_id")
	combinationID := parseOptionalUintQuery(c, "combination_id")
	cart, err := h.CartService.RemoveLine(c.Request.Context(), sessionID, uint(productID), variantID, combinationID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, buildCartView(cart))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	sessionID := readCartSession(c)
	if sessionID == "" {
		response.Success(c, gin.H{"cleared": true})
		return
	}
	if err := h.CartService.Clear(c.Request.Context(), sessionID); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

func parseOptionalUintQuery(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return nil
	}
	id := uint(value)
	return &id
}
