package storefront

import (
	"github.com/vendora-next/internal/http/response"
	"github.com/vendora-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CustomerRegisterRequest 顾客注册请求
type CustomerRegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

// CustomerLoginRequest 顾客登录请求
type CustomerLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CustomerRegister 顾客注册
func (h *Handler) CustomerRegister(c *gin.Context) {
	var req CustomerRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	customer, err := h.AuthService.CustomerRegister(service.CustomerRegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondCustomerAuthError(c, err)
		return
	}
	response.Success(c, customer)
}

// CustomerLogin 顾客登录
func (h *Handler) CustomerLogin(c *gin.Context) {
	var req CustomerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	token, customer, err := h.AuthService.CustomerLogin(req.Email, req.Password)
	if err != nil {
		respondCustomerAuthError(c, err)
		return
	}
	response.Success(c, gin.H{
		"token":    token,
		"customer": customer,
	})
}
