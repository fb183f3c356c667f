package router

import (
	"fmt"
	"strings"

	"github.com/vendora-next/internal/cache"
	"github.com/vendora-next/internal/config"
	storefronthandlers "github.com/vendora-next/internal/http/handlers/storefront"
	vendorhandlers "github.com/vendora-next/internal/http/handlers/vendor"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按买家端/商家端分组）
	storefrontHandler := storefronthandlers.New(c)
	vendorHandler := vendorhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "vn"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	vendorLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:vendor_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxAttempts,
		MessageKey:    "error.checkout_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	optionalCustomer := OptionalCustomerJWTMiddleware(cfg.JWT.SecretKey, c.CustomerRepo)

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 顾客认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", storefrontHandler.CustomerRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), storefrontHandler.CustomerLogin)
		}

		// 购物车（游客与登录顾客共用会话 Cookie）
		cart := apiV1.Group("/cart")
		cart.Use(optionalCustomer)
		{
			cart.GET("", storefrontHandler.GetCart)
			cart.POST("/items", storefrontHandler.AddCartItem)
			cart.PUT("/items", storefrontHandler.UpdateCartItem)
			cart.DELETE("/items/:product_id", storefrontHandler.DeleteCartItem)
			cart.DELETE("", storefrontHandler.ClearCart)
			cart.POST("/coupon/preview", storefrontHandler.PreviewCoupon)
			cart.GET("/recover/:token", storefrontHandler.RecoverCart)
		}

		// 结算
		apiV1.POST("/checkout",
			optionalCustomer,
			RateLimitMiddleware(redisClient, checkoutRule, KeyByIP),
			storefrontHandler.Checkout,
		)

		// 商品评价（公开读取）
		apiV1.GET("/products/:id/reviews", storefrontHandler.ListProductReviews)

		// 顾客接口（需鉴权）
		customer := apiV1.Group("")
		customer.Use(CustomerJWTAuthMiddleware(cfg.JWT.SecretKey, c.CustomerRepo))
		{
			customer.GET("/orders", storefrontHandler.ListMyOrders)
			customer.GET("/orders/:id", storefrontHandler.GetMyOrder)
			customer.POST("/orders/:id/cancel", storefrontHandler.CancelMyOrder)
			customer.GET("/reviews/eligibility/:order_item_id", storefrontHandler.GetReviewEligibility)
			customer.POST("/reviews", storefrontHandler.CreateReview)
		}

		// 商家端接口
		vendor := apiV1.Group("/vendor")
		{
			// 登录接口（无需鉴权）
			vendor.POST("/login", RateLimitMiddleware(redisClient, vendorLoginRule, KeyByIP), vendorHandler.VendorLogin)

			// 需要鉴权的接口
			authorized := vendor.Group("")
			authorized.Use(VendorJWTAuthMiddleware(cfg.JWT.SecretKey, c.VendorStoreRepo))
			{
				// 订单管理
				authorized.GET("/orders", vendorHandler.ListOrders)
				authorized.GET("/orders/:id", vendorHandler.GetOrder)
				authorized.POST("/orders/:id/mark-paid", vendorHandler.MarkOrderPaid)
				authorized.POST("/orders/:id/mark-shipped", vendorHandler.MarkOrderShipped)
				authorized.POST("/orders/:id/mark-delivered", vendorHandler.MarkOrderDelivered)
				authorized.POST("/orders/:id/mark-refunded", vendorHandler.MarkOrderRefunded)
				authorized.POST("/orders/:id/cancel", vendorHandler.CancelOrder)

				// 优惠券管理
				authorized.GET("/coupons", vendorHandler.ListCoupons)
				authorized.GET("/coupons/:id", vendorHandler.GetCoupon)
				authorized.POST("/coupons", vendorHandler.CreateCoupon)
				authorized.PUT("/coupons/:id", vendorHandler.UpdateCoupon)
				authorized.DELETE("/coupons/:id", vendorHandler.DeleteCoupon)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
