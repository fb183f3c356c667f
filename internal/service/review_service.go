package service

import (
	"strings"
	"time"

	"github.com/vendora-next/internal/constants"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"
)

// 评价不可用原因码
const (
	ReviewBlockNotPaid         = "not_paid"
	ReviewBlockRefunded        = "refunded"
	ReviewBlockNotShipped      = "not_shipped"
	ReviewBlockWindowNotOpen   = "window_not_open"
	ReviewBlockWindowExpired   = "window_expired"
	ReviewBlockAlreadyReviewed = "already_reviewed"
)

// ReviewEligibility 评价资格判定结果
type ReviewEligibility struct {
	Eligible      bool   `json:"eligible"`
	Reason        string `json:"reason,omitempty"`
	DaysUntilOpen int    `json:"days_until_open,omitempty"`
}

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, orderRepo repository.OrderRepository) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
	}
}

// evaluateReviewWindow 评价时间窗判定。
// 发货满 ReviewWindowMinDays 天后开放，超过 ReviewWindowMaxDays 天关闭。
func evaluateReviewWindow(order *models.Order, hasReview bool, now time.Time) ReviewEligibility {
	if order.PaymentStatus == constants.PaymentStatusRefunded {
		return ReviewEligibility{Reason: ReviewBlockRefunded}
	}
	if order.PaymentStatus != constants.PaymentStatusPaid {
		return ReviewEligibility{Reason: ReviewBlockNotPaid}
	}
	if order.ShippedAt == nil {
		return ReviewEligibility{Reason: ReviewBlockNotShipped}
	}

	elapsed := now.Sub(*order.ShippedAt)
	minWait := time.Duration(constants.ReviewWindowMinDays) * 24 * time.Hour
	maxWait := time.Duration(constants.ReviewWindowMaxDays) * 24 * time.Hour
	if elapsed < minWait {
		remaining := minWait - elapsed
		days := int(remaining / (24 * time.Hour))
		if remaining%(24*time.Hour) > 0 {
			days++
		}
		return ReviewEligibility{Reason: ReviewBlockWindowNotOpen, DaysUntilOpen: days}
	}
	if elapsed > maxWait {
		return ReviewEligibility{Reason: ReviewBlockWindowExpired}
	}
	if hasReview {
		return ReviewEligibility{Reason: ReviewBlockAlreadyReviewed}
	}
	return ReviewEligibility{Eligible: true}
}

// CheckEligibility 查询某订单项当前是否可评价
func (s *ReviewService) CheckEligibility(customerID, orderItemID uint) (*ReviewEligibility, error) {
	order, _, err := s.resolveOrderItem(customerID, orderItemID)
	if err != nil {
		return nil, err
	}
	hasReview, err := s.reviewRepo.ExistsByOrderItem(orderItemID)
	if err != nil {
		return nil, err
	}
	eligibility := evaluateReviewWindow(order, hasReview, time.Now())
	return &eligibility, nil
}

// CreateReviewInput 创建评价输入
type CreateReviewInput struct {
	OrderItemID uint
	CustomerID  uint
	Rating      int
	Content     string
}

// CreateReview 创建评价。资格不满足时按原因返回对应错误。
func (s *ReviewService) CreateReview(input CreateReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrReviewRatingInvalid
	}
	order, item, err := s.resolveOrderItem(input.CustomerID, input.OrderItemID)
	if err != nil {
		return nil, err
	}
	hasReview, err := s.reviewRepo.ExistsByOrderItem(input.OrderItemID)
	if err != nil {
		return nil, err
	}
	eligibility := evaluateReviewWindow(order, hasReview, time.Now())
	if !eligibility.Eligible {
		if eligibility.Reason == ReviewBlockAlreadyReviewed {
			return nil, ErrReviewAlreadyExists
		}
		return nil, ErrReviewNotEligible
	}

	review := &models.Review{
		OrderID:     order.ID,
		OrderItemID: item.ID,
		ProductID:   item.ProductID,
		CustomerID:  input.CustomerID,
		Rating:      input.Rating,
		Content:     strings.TrimSpace(input.Content),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	logger.Infow("review_created",
		"order_id", order.ID,
		"order_item_id", item.ID,
		"product_id", item.ProductID,
		"rating", input.Rating,
	)
	return review, nil
}

// ListByProduct 商品评价列表
func (s *ReviewService) ListByProduct(productID uint, page, pageSize int) ([]models.Review, int64, error) {
	return s.reviewRepo.ListByProduct(productID, page, pageSize)
}

// resolveOrderItem 定位订单项并校验归属
func (s *ReviewService) resolveOrderItem(customerID, orderItemID uint) (*models.Order, *models.OrderItem, error) {
	item, err := s.orderRepo.GetItemByID(orderItemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, ErrReviewOrderItemNotFound
	}
	order, err := s.orderRepo.GetByID(item.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrReviewOrderItemNotFound
	}
	if order.CustomerID != 0 && order.CustomerID != customerID {
		return nil, nil, ErrReviewOrderItemNotFound
	}
	return order, item, nil
}
