package storefront

import (
	"errors"

	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartMutationErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: service.ErrCartQuantityLimit, code: response.CodeBadRequest, key: "error.cart_quantity_limit"},
	{target: service.ErrCartVendorMismatch, code: response.CodeConflict, key: "error.cart_vendor_mismatch"},
	{target: service.ErrCartLineNotFound, code: response.CodeNotFound, key: "error.cart_line_not_found"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrVariantNotAvailable, code: response.CodeBadRequest, key: "error.variant_not_available"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.insufficient_stock"},
	{target: service.ErrCartUnavailable, code: response.CodeInternal, key: "error.cart_unavailable"},
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, key: "error.coupon_invalid"},
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, key: "error.coupon_not_found"},
	{target: service.ErrCouponInactive, code: response.CodeBadRequest, key: "error.coupon_inactive"},
	{target: service.ErrCouponNotStarted, code: response.CodeBadRequest, key: "error.coupon_not_started"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, key: "error.coupon_expired"},
	{target: service.ErrCouponUsageLimit, code: response.CodeBadRequest, key: "error.coupon_usage_limit"},
	{target: service.ErrCouponPerCustomerLimit, code: response.CodeBadRequest, key: "error.coupon_per_customer_limit"},
	{target: service.ErrCouponFirstTimeOnly, code: response.CodeBadRequest, key: "error.coupon_first_time_only"},
	{target: service.ErrCouponMinPurchase, code: response.CodeBadRequest, key: "error.coupon_min_purchase"},
	{target: service.ErrCouponNotApplicable, code: response.CodeBadRequest, key: "error.coupon_not_applicable"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrIdempotencyKeyRequired, code: response.CodeBadRequest, key: "error.idempotency_key_required"},
	{target: service.ErrGuestEmailRequired, code: response.CodeBadRequest, key: "error.guest_email_required"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrCartUnavailable, code: response.CodeInternal, key: "error.cart_unavailable"},
	{target: service.ErrVendorNotAvailable, code: response.CodeBadRequest, key: "error.vendor_not_available"},
	{target: service.ErrTenantNotAvailable, code: response.CodeBadRequest, key: "error.tenant_not_available"},
	{target: service.ErrTenantOrderQuotaReached, code: response.CodeBadRequest, key: "error.tenant_order_quota_reached"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrVariantNotAvailable, code: response.CodeBadRequest, key: "error.variant_not_available"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.insufficient_stock"},
}

var recoveryErrorRules = []mappedHandlerError{
	{target: service.ErrRecoveryTokenNotFound, code: response.CodeNotFound, key: "error.recovery_token_not_found"},
	{target: service.ErrRecoveryLinkExpired, code: response.CodeGone, key: "error.recovery_link_expired"},
	{target: service.ErrRecoveryAlreadyUsed, code: response.CodeGone, key: "error.recovery_already_used"},
	{target: service.ErrCartUnavailable, code: response.CodeInternal, key: "error.cart_unavailable"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrReviewOrderItemNotFound, code: response.CodeNotFound, key: "error.review_order_item_not_found"},
	{target: service.ErrReviewNotEligible, code: response.CodeBadRequest, key: "error.review_not_eligible"},
	{target: service.ErrReviewAlreadyExists, code: response.CodeConflict, key: "error.review_already_exists"},
	{target: service.ErrReviewRatingInvalid, code: response.CodeBadRequest, key: "error.review_rating_invalid"},
}

var customerAuthErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrAccountDisabled, code: response.CodeForbidden, key: "error.account_disabled"},
	{target: service.ErrEmailTaken, code: response.CodeConflict, key: "error.email_taken"},
	{target: service.ErrPasswordTooShort, code: response.CodeBadRequest, key: "error.password_too_short"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartMutationErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(checkoutErrorRules, couponErrorRules), response.CodeInternal, "error.order_create_failed")
}

func respondCouponPreviewError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(couponErrorRules, []mappedHandlerError{
		{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
		{target: service.ErrCartUnavailable, code: response.CodeInternal, key: "error.cart_unavailable"},
	}), response.CodeInternal, "error.coupon_check_failed")
}

func respondRecoveryError(c *gin.Context, err error) {
	respondWithMappedError(c, err, recoveryErrorRules, response.CodeInternal, "error.recovery_failed")
}

func respondReviewError(c *gin.Context, err error) {
	respondWithMappedError(c, err, reviewErrorRules, response.CodeInternal, "error.review_failed")
}

func respondCustomerAuthError(c *gin.Context, err error) {
	respondWithMappedError(c, err, customerAuthErrorRules, response.CodeInternal, "error.auth_failed")
}
