package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheDisabled 缓存未启用
var ErrCacheDisabled = errors.New("redis cache disabled")

// CartBackend 购物车存储适配器，基于包级 Redis 客户端。
// 缓存未启用时所有操作直接报错，购物车不允许静默丢写。
type CartBackend struct{}

// NewCartBackend 创建购物车存储适配器
func NewCartBackend() *CartBackend {
	return &CartBackend{}
}

// GetJSON 读取购物车 JSON
func (b *CartBackend) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !Enabled() {
		return false, ErrCacheDisabled
	}
	return GetJSON(ctx, key, dest)
}

// SetJSON 写入购物车 JSON 并设置有效期
func (b *CartBackend) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !Enabled() {
		return ErrCacheDisabled
	}
	return SetJSON(ctx, key, value, ttl)
}

// Del 删除购物车
func (b *CartBackend) Del(ctx context.Context, key string) error {
	if !Enabled() {
		return ErrCacheDisabled
	}
	return Del(ctx, key)
}
