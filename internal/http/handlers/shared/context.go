package shared

import (
	"github.com/vendora-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetContextUint 读取鉴权中间件写入的 uint 身份值。
// 缺失按未登录处理，类型不符说明中间件与 handler 失配。
func GetContextUint(c *gin.Context, key, invalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		RespondError(c, response.CodeInternal, invalidKey, nil)
		return 0, false
	}
	return id, true
}
