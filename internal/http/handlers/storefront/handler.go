package storefront

import "github.com/vendora-next/internal/provider"

// Handler 买家端接口处理器入口
// 说明：该处理器仅用于店面、游客、顾客侧 API。
type Handler struct {
	*provider.Container
}

// New 创建买家端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
