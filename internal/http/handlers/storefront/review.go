package storefront

import (
	"strconv"

	handlershared "github.com/vendora-next/internal/http/handlers/shared"
	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewCreateRequest 创建评价请求
type ReviewCreateRequest struct {
	OrderItemID uint   `json:"order_item_id" binding:"required"`
	Rating      int    `json:"rating" binding:"required"`
	Content     string `json:"content"`
}

// GetReviewEligibility 查询订单项评价资格
func (h *Handler) GetReviewEligibility(c *gin.Context) {
	customerID, ok := getRequiredCustomerID(c)
	if !ok {
		return
	}
	orderItemID, err := strconv.ParseUint(c.Param("order_item_id"), 10, 64)
	if err != nil || orderItemID == 0 {
		respondError(c, response.CodeBadRequest, "error.review_order_item_not_found", nil)
		return
	}
	eligibility, err := h.ReviewService.CheckEligibility(customerID, uint(orderItemID))
	if err != nil {
		respondReviewError(c, err)
		return
	}
	response.Success(c, eligibility)
}

// CreateReview 创建评价
func (h *Handler) CreateReview(c *gin.Context) {
	customerID, ok := getRequiredCustomerID(c)
	if !ok {
		return
	}
	var req ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	review, err := h.ReviewService.CreateReview(service.CreateReviewInput{
		OrderItemID: req.OrderItemID,
		CustomerID:  customerID,
		Rating:      req.Rating,
		Content:     req.Content,
	})
	if err != nil {
		respondReviewError(c, err)
		return
	}
	response.Success(c, review)
}

// ListProductReviews 商品评价列表
func (h *Handler) ListProductReviews(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "error.product_not_available", nil)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	reviews, total, err := h.ReviewService.ListByProduct(uint(productID), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.review_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, reviews, response.NewPagination(page, pageSize, total))
}
