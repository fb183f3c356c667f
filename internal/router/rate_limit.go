package router

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/vendora-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

// INCR + 首次设置过期，返回当前计数与剩余窗口秒数
var rateLimitScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return {hits, redis.call("TTL", KEYS[1])}
`)

// RateLimitMiddleware Redis 固定窗口限流。
// Redis 不可用时拒绝请求而非放行，限流保护的都是高风险入口。
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := rule.Prefix + ":" + rateLimitKey(c, keyFunc)
		hits, ttl, err := runRateLimitScript(c, client, key, rule.WindowSeconds)
		if err != nil {
			response.Error(c, response.CodeInternal, "error.rate_limit_unavailable")
			c.Abort()
			return
		}
		if hits > int64(rule.MaxRequests) {
			if ttl > 0 {
				c.Header("Retry-After", strconv.FormatInt(ttl, 10))
			}
			msgKey := rule.MessageKey
			if strings.TrimSpace(msgKey) == "" {
				msgKey = "error.rate_limited"
			}
			response.Error(c, response.CodeTooManyRequests, msgKey)
			c.Abort()
			return
		}
		c.Next()
	}
}

func rateLimitKey(c *gin.Context, keyFunc RateLimitKeyFunc) string {
	if keyFunc != nil {
		if key := strings.TrimSpace(keyFunc(c)); key != "" {
			return key
		}
	}
	return c.ClientIP()
}

func runRateLimitScript(c *gin.Context, client *redis.Client, key string, windowSeconds int) (hits, ttl int64, err error) {
	result, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, windowSeconds).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(result) > 0 {
		hits = result[0]
	}
	if len(result) > 1 {
		ttl = result[1]
	}
	return hits, ttl, nil
}

// KeyByIP 使用客户端 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 使用请求体字段 + IP 作为限流 key，
// 同一邮箱跨 IP 撞库与单 IP 扫号都会命中。
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(peekJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

// peekJSONField 读取 JSON 请求体字段并回填 Body 供后续绑定
func peekJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if len(body) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	raw, ok := payload[field]
	if !ok {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
