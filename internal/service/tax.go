package service

import "github.com/shopspring/decimal"

// TaxRateProvider 税率解析接口（按店铺税区返回百分比）
type TaxRateProvider interface {
	RatePercent(region string) decimal.Decimal
}

// ConfigTaxRateProvider 基于配置表的税率实现
type ConfigTaxRateProvider struct {
	DefaultPercent float64
	Regions        map[string]float64
}

// NewConfigTaxRateProvider 创建配置税率提供者
func NewConfigTaxRateProvider(defaultPercent float64, regions map[string]float64) *ConfigTaxRateProvider {
	return &ConfigTaxRateProvider{
		DefaultPercent: defaultPercent,
		Regions:        regions,
	}
}

// RatePercent 返回税区对应百分比，未配置的税区回落默认值
func (p *ConfigTaxRateProvider) RatePercent(region string) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	if rate, ok := p.Regions[region]; ok {
		return decimal.NewFromFloat(rate)
	}
	return decimal.NewFromFloat(p.DefaultPercent)
}
