package storefront

import (
	"strings"

	"github.com/vendora-next/internal/constants"
	handlershared "github.com/vendora-next/internal/http/handlers/shared"
	"github.com/vendora-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// getOptionalCustomerID 读取可选的登录顾客标识，游客为 0。
func getOptionalCustomerID(c *gin.Context) uint {
	value, exists := c.Get("customer_id")
	if !exists {
		return 0
	}
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}

// getRequiredCustomerID 读取必须登录的顾客标识。
func getRequiredCustomerID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "customer_id", "error.customer_id_invalid")
}

// readCartSession 读取购物车会话 Cookie。
func readCartSession(c *gin.Context) string {
	value, err := c.Cookie(constants.CartSessionCookie)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// ensureCartSession 读取或签发购物车会话 Cookie。
func (h *Handler) ensureCartSession(c *gin.Context) string {
	if sessionID := readCartSession(c); sessionID != "" {
		return sessionID
	}
	sessionID := h.CartService.NewSessionID()
	issueCartSession(c, sessionID)
	return sessionID
}

// issueCartSession 写入购物车会话 Cookie（HTTP-only，随购物车 TTL 滚动）。
func issueCartSession(c *gin.Context, sessionID string) {
	c.SetCookie(constants.CartSessionCookie, sessionID, constants.CartTTLSecondsDefault, "/", "", false, true)
}

// requireCartSession 读取购物车会话，缺失时返回空车错误。
func requireCartSession(c *gin.Context) (string, bool) {
	sessionID := readCartSession(c)
	if sessionID == "" {
		respondError(c, response.CodeBadRequest, "error.cart_empty", nil)
		return "", false
	}
	return sessionID, true
}
