package service

import (
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/repository"

	"gorm.io/gorm"
)

// StockService 库存台账服务。预占与释放都走条件 UPDATE，
// 计数层级取最细一级：规格组合 > 规格 > 商品。
type StockService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

// NewStockService 创建库存服务
func NewStockService(productRepo repository.ProductRepository, variantRepo repository.VariantRepository) *StockService {
	return &StockService{
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// StockLine 一次预占/释放的目标计数单元
type StockLine struct {
	ProductID     uint
	VariantID     *uint
	CombinationID *uint
	Quantity      int
	Tracked       bool // 商品未启用库存跟踪时跳过
}

// Available 查询可售数量（未跟踪库存返回 tracked=false）
func (s *StockService) Available(line StockLine) (int, bool, error) {
	if !line.Tracked {
		return 0, false, nil
	}
	if line.CombinationID != nil {
		combination, err := s.variantRepo.GetCombinationByID(*line.CombinationID)
		if err != nil {
			return 0, true, err
		}
		if combination == nil || !combination.IsActive {
			return 0, true, ErrVariantNotAvailable
		}
		return combination.StockQuantity, true, nil
	}
	if line.VariantID != nil {
		variant, err := s.variantRepo.GetByID(*line.VariantID)
		if err != nil {
			return 0, true, err
		}
		if variant == nil || !variant.IsActive {
			return 0, true, ErrVariantNotAvailable
		}
		return variant.StockQuantity, true, nil
	}
	product, err := s.productRepo.GetByID(line.ProductID)
	if err != nil {
		return 0, true, err
	}
	if product == nil || !product.IsActive {
		return 0, true, ErrProductNotAvailable
	}
	return product.StockQuantity, true, nil
}

// Reserve 在事务内预占一组库存。任一单元余量不足返回 ErrInsufficientStock，
// 由调用方回滚整个事务。
func (s *StockService) Reserve(tx *gorm.DB, lines []StockLine) error {
	productRepo := s.productRepo.WithTx(tx)
	variantRepo := s.variantRepo.WithTx(tx)
	for _, line := range lines {
		if !line.Tracked || line.Quantity <= 0 {
			continue
		}
		affected, err := reserveLine(productRepo, variantRepo, line)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInsufficientStock
		}
	}
	return nil
}

// Release 释放一组库存。尽力而为：单行失败记录日志后继续，不阻断取消流程。
func (s *StockService) Release(tx *gorm.DB, lines []StockLine) {
	productRepo := s.productRepo.WithTx(tx)
	variantRepo := s.variantRepo.WithTx(tx)
	for _, line := range lines {
		if !line.Tracked || line.Quantity <= 0 {
			continue
		}
		if err := releaseLine(productRepo, variantRepo, line); err != nil {
			logger.Errorw("stock_release_failed",
				"product_id", line.ProductID,
				"variant_id", line.VariantID,
				"combination_id", line.CombinationID,
				"quantity", line.Quantity,
				"error", err,
			)
		}
	}
}

func reserveLine(productRepo repository.ProductRepository, variantRepo repository.VariantRepository, line StockLine) (int64, error) {
	if line.CombinationID != nil {
		return variantRepo.ReserveCombinationStock(*line.CombinationID, line.Quantity)
	}
	if line.VariantID != nil {
		return variantRepo.ReserveStock(*line.VariantID, line.Quantity)
	}
	return productRepo.ReserveStock(line.ProductID, line.Quantity)
}

func releaseLine(productRepo repository.ProductRepository, variantRepo repository.VariantRepository, line StockLine) error {
	var err error
	if line.CombinationID != nil {
		_, err = variantRepo.ReleaseCombinationStock(*line.CombinationID, line.Quantity)
	} else if line.VariantID != nil {
		_, err = variantRepo.ReleaseStock(*line.VariantID, line.Quantity)
	} else {
		_, err = productRepo.ReleaseStock(line.ProductID, line.Quantity)
	}
	return err
}
