package provider

import (
	"github.com/vendora-next/internal/cache"
	"github.com/vendora-next/internal/config"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/queue"
	"github.com/vendora-next/internal/repository"
	"github.com/vendora-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	TenantRepo        repository.TenantRepository
	VendorStoreRepo   repository.VendorStoreRepository
	CustomerRepo      repository.CustomerRepository
	CategoryRepo      repository.CategoryRepository
	ProductRepo       repository.ProductRepository
	VariantRepo       repository.VariantRepository
	CouponRepo        repository.CouponRepository
	CouponUsageRepo   repository.CouponUsageRepository
	OrderRepo         repository.OrderRepository
	AbandonedCartRepo repository.AbandonedCartRepository
	ReviewRepo        repository.ReviewRepository

	// Services
	AuthService          *service.AuthService
	StockService         *service.StockService
	CartService          *service.CartService
	CouponService        *service.CouponService
	CouponAdminService   *service.CouponAdminService
	OrderService         *service.OrderService
	AbandonedCartService *service.AbandonedCartService
	ReviewService        *service.ReviewService
	TaxProvider          service.TaxRateProvider
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.TenantRepo = repository.NewTenantRepository(db)
	c.VendorStoreRepo = repository.NewVendorStoreRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewVariantRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.AbandonedCartRepo = repository.NewAbandonedCartRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.VendorStoreRepo, c.CustomerRepo)
	c.TaxProvider = service.NewConfigTaxRateProvider(c.Config.Tax.DefaultPercent, c.Config.Tax.Regions)
	c.StockService = service.NewStockService(c.ProductRepo, c.VariantRepo)
	c.CartService = service.NewCartService(
		cache.NewCartBackend(),
		c.ProductRepo,
		c.VariantRepo,
		c.StockService,
		c.QueueClient,
		c.Config.Cart.TTLSeconds,
		c.Config.Cart.IdleCheckMinutes,
	)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CouponUsageRepo, c.OrderRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.CouponRepo,
		c.CouponUsageRepo,
		c.VendorStoreRepo,
		c.TenantRepo,
		c.CartService,
		c.CouponService,
		c.StockService,
		c.TaxProvider,
		c.QueueClient,
		service.CheckoutFees{
			ProcessorFeePercent: c.Config.Checkout.ProcessorFeePercent,
			ProcessorFeeFixed:   c.Config.Checkout.ProcessorFeeFixed,
		},
	)
	c.AbandonedCartService = service.NewAbandonedCartService(
		c.AbandonedCartRepo,
		c.CouponRepo,
		c.CustomerRepo,
		c.CartService,
		c.QueueClient,
		c.Config.Recovery.FirstReminderHours,
		c.Config.Recovery.SecondReminderHours,
		c.Config.Recovery.BaseURL,
	)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.OrderRepo)
}
