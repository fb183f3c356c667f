package main

import (
	"time"

	"github.com/vendora-next/internal/config"
	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 租户
	tenant := models.Tenant{
		Name:               "Demo Tenant",
		PlanCode:           "starter",
		PlatformFeePercent: models.NewMoneyFromDecimal(decimal.NewFromFloat(1.5)),
		MaxOrders:          1000,
		MaxProducts:        100,
		IsActive:           true,
	}
	var existingTenant models.Tenant
	if err := models.DB.Where("name = ?", tenant.Name).First(&existingTenant).Error; err != nil {
		if err := models.DB.Create(&tenant).Error; err != nil {
			stdLog.Fatalf("Failed to create tenant: %v", err)
		}
		stdLog.Printf("Created tenant: %s", tenant.Name)
	} else {
		tenant = existingTenant
		stdLog.Printf("Tenant already exists: %s", tenant.Name)
	}

	// 店铺（商家登录账号）
	storePassword, err := bcrypt.GenerateFromPassword([]byte("vendor123456"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash vendor password: %v", err)
	}
	store := models.VendorStore{
		TenantID:         tenant.ID,
		Slug:             "acme-audio",
		Name:             "Acme Audio",
		Email:            "owner@acme-audio.test",
		PasswordHash:     string(storePassword),
		Currency:         constants.SiteCurrencyDefault,
		ShippingFlatRate: models.NewMoneyFromDecimal(decimal.NewFromFloat(5.00)),
		FreeShippingMin:  models.NewMoneyFromDecimal(decimal.NewFromFloat(80.00)),
		TaxRegion:        "US-CA",
		IsActive:         true,
	}
	var existingStore models.VendorStore
	if err := models.DB.Where("slug = ?", store.Slug).First(&existingStore).Error; err != nil {
		if err := models.DB.Create(&store).Error; err != nil {
			stdLog.Fatalf("Failed to create vendor store: %v", err)
		}
		stdLog.Printf("Created vendor store: %s (password: vendor123456)", store.Slug)
	} else {
		store = existingStore
		stdLog.Printf("Vendor store already exists: %s", store.Slug)
	}

	// 顾客测试账号
	customerPassword, err := bcrypt.GenerateFromPassword([]byte("customer123456"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash customer password: %v", err)
	}
	customer := models.Customer{
		Email:        "buyer@example.test",
		Name:         "Demo Buyer",
		PasswordHash: string(customerPassword),
		IsActive:     true,
	}
	var existingCustomer models.Customer
	if err := models.DB.Where("email = ?", customer.Email).First(&existingCustomer).Error; err != nil {
		if err := models.DB.Create(&customer).Error; err != nil {
			stdLog.Printf("Failed to create customer: %v", err)
		} else {
			stdLog.Printf("Created customer: %s (password: customer123456)", customer.Email)
		}
	} else {
		stdLog.Printf("Customer already exists: %s", customer.Email)
	}

	// 分类
	categories := []models.Category{
		{VendorStoreID: store.ID, Slug: "headphones", Name: "Headphones", SortOrder: 1},
		{VendorStoreID: store.ID, Slug: "speakers", Name: "Speakers", SortOrder: 2},
		{VendorStoreID: store.ID, Slug: "accessories", Name: "Accessories", SortOrder: 3},
	}
	categoryIDs := map[string]uint{}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("vendor_store_id = ? AND slug = ?", cat.VendorStoreID, cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
				continue
			}
			stdLog.Printf("Created category: %s", cat.Slug)
			categoryIDs[cat.Slug] = cat.ID
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
			categoryIDs[cat.Slug] = existing.ID
		}
	}
	headphonesID := categoryIDs["headphones"]
	speakersID := categoryIDs["speakers"]
	accessoriesID := categoryIDs["accessories"]

	// 商品
	products := []models.Product{
		{
			VendorStoreID: store.ID,
			CategoryID:    &headphonesID,
			Slug:          "wireless-earbuds",
			Name:          "Wireless Earbuds",
			Description:   "Bluetooth 5.3 earbuds with active noise cancellation and 24h battery life.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(29.99)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			}),
			Tags:          models.StringArray([]string{"audio", "wireless"}),
			TrackQuantity: true,
			StockQuantity: 120,
			IsActive:      true,
			SortOrder:     1,
		},
		{
			VendorStoreID: store.ID,
			CategoryID:    &headphonesID,
			Slug:          "studio-headphones",
			Name:          "Studio Headphones",
			Description:   "Over-ear studio monitors with a flat frequency response.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(149.00)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=800",
			}),
			Tags:          models.StringArray([]string{"audio", "studio"}),
			TrackQuantity: true,
			StockQuantity: 40,
			IsActive:      true,
			SortOrder:     2,
		},
		{
			VendorStoreID: store.ID,
			CategoryID:    &speakersID,
			Slug:          "portable-speaker",
			Name:          "Portable Speaker",
			Description:   "Waterproof portable speaker with 12h playtime.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(59.99)),
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=800",
			}),
			Tags:          models.StringArray([]string{"audio", "portable"}),
			TrackQuantity: true,
			StockQuantity: 75,
			IsActive:      true,
			SortOrder:     3,
		},
		{
			VendorStoreID: store.ID,
			CategoryID:    &accessoriesID,
			Slug:          "braided-cable",
			Name:          "Braided Audio Cable",
			Description:   "Replacement 3.5mm braided cable, 1.5m.",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(9.99)),
			Tags:          models.StringArray([]string{"accessory"}),
			TrackQuantity: true,
			StockQuantity: 300,
			IsActive:      true,
			SortOrder:     4,
		},
	}
	productIDs := map[string]uint{}
	for _, p := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", p.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&p).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", p.Slug, err)
				continue
			}
			stdLog.Printf("Created product: %s", p.Slug)
			productIDs[p.Slug] = p.ID
		} else {
			stdLog.Printf("Product already exists: %s", p.Slug)
			productIDs[p.Slug] = existing.ID
		}
	}

	// 规格与组合（录音棚耳机分颜色，组合再分耳罩材质）
	if productID := productIDs["studio-headphones"]; productID != 0 {
		blackPrice := models.NewMoneyFromDecimal(decimal.NewFromFloat(149.00))
		silverPrice := models.NewMoneyFromDecimal(decimal.NewFromFloat(159.00))
		variants := []models.ProductVariant{
			{ProductID: productID, SKUCode: "SH-BLK", Name: "Black", Price: &blackPrice, StockQuantity: 25, IsActive: true, SortOrder: 1},
			{ProductID: productID, SKUCode: "SH-SLV", Name: "Silver", Price: &silverPrice, StockQuantity: 15, IsActive: true, SortOrder: 2},
		}
		for _, v := range variants {
			var existing models.ProductVariant
			if err := models.DB.Where("product_id = ? AND sku_code = ?", v.ProductID, v.SKUCode).First(&existing).Error; err != nil {
				if err := models.DB.Create(&v).Error; err != nil {
					stdLog.Printf("Failed to create variant %s: %v", v.SKUCode, err)
					continue
				}
				stdLog.Printf("Created variant: %s", v.SKUCode)
			} else {
				v = existing
				stdLog.Printf("Variant already exists: %s", v.SKUCode)
			}
			if v.SKUCode != "SH-BLK" {
				continue
			}
			combinations := []models.VariantCombination{
				{
					VariantID: v.ID,
					SKUCode:   "SH-BLK-VELOUR",
					OptionsJSON: models.JSON(map[string]interface{}{
						"earpad": "velour",
					}),
					StockQuantity: 10,
					IsActive:      true,
				},
				{
					VariantID: v.ID,
					SKUCode:   "SH-BLK-LEATHER",
					OptionsJSON: models.JSON(map[string]interface{}{
						"earpad": "leather",
					}),
					StockQuantity: 15,
					IsActive:      true,
				},
			}
			for _, combo := range combinations {
				var existingCombo models.VariantCombination
				if err := models.DB.Where("variant_id = ? AND sku_code = ?", combo.VariantID, combo.SKUCode).First(&existingCombo).Error; err != nil {
					if err := models.DB.Create(&combo).Error; err != nil {
						stdLog.Printf("Failed to create combination %s: %v", combo.SKUCode, err)
					} else {
						stdLog.Printf("Created combination: %s", combo.SKUCode)
					}
				} else {
					stdLog.Printf("Combination already exists: %s", combo.SKUCode)
				}
			}
		}
	}

	// 优惠券
	endsAt := time.Now().AddDate(0, 3, 0)
	coupons := []models.Coupon{
		{
			VendorStoreID:     store.ID,
			Code:              "WELCOME10",
			Type:              constants.CouponTypePercentage,
			Value:             models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			MaxDiscountAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(20.00)),
			PerCustomerLimit:  1,
			FirstTimeOnly:     true,
			EndsAt:            &endsAt,
			IsActive:          true,
		},
		{
			VendorStoreID:     store.ID,
			Code:              "SAVE15",
			Type:              constants.CouponTypeFixedAmount,
			Value:             models.NewMoneyFromDecimal(decimal.NewFromFloat(15.00)),
			MinPurchaseAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(50.00)),
			UsageLimit:        200,
			EndsAt:            &endsAt,
			IsActive:          true,
		},
		{
			VendorStoreID:     store.ID,
			Code:              "FREESHIP",
			Type:              constants.CouponTypeFreeShipping,
			MinPurchaseAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(30.00)),
			EndsAt:            &endsAt,
			IsActive:          true,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("vendor_store_id = ? AND code = ?", coupon.VendorStoreID, coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	stdLog.Printf("Seed completed")
}
