package storefront

import (
	"github.com/vendora-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RecoverCart 通过召回链接恢复购物车。
// 成功后签发新的购物车会话 Cookie，并返回召回优惠码。
func (h *Handler) RecoverCart(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		respondError(c, response.CodeBadRequest, "error.recovery_token_not_found", nil)
		return
	}
	result, err := h.AbandonedCartService.Recover(c.Request.Context(), token)
	if err != nil {
		respondRecoveryError(c, err)
		return
	}
	issueCartSession(c, result.SessionID)
	response.Success(c, gin.H{
		"recovered":     true,
		"session_id":    result.SessionID,
		"discount_code": result.DiscountCode,
		"cart":          buildCartView(result.Cart),
	})
}
