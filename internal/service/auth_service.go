package service

import (
	"strings"
	"time"

	"github.com/vendora-next/internal/config"
	"github.com/vendora-next/internal/logger"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const passwordMinLength = 8

// VendorJWTClaims 商家端令牌声明
type VendorJWTClaims struct {
	StoreID  uint   `json:"store_id"`
	TenantID uint   `json:"tenant_id"`
	Slug     string `json:"slug"`
	jwt.RegisteredClaims
}

// CustomerJWTClaims 顾客端令牌声明
type CustomerJWTClaims struct {
	CustomerID uint   `json:"customer_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService 商家与顾客登录认证
type AuthService struct {
	cfg          *config.Config
	vendorRepo   repository.VendorStoreRepository
	customerRepo repository.CustomerRepository
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, vendorRepo repository.VendorStoreRepository, customerRepo repository.CustomerRepository) *AuthService {
	return &AuthService{
		cfg:          cfg,
		vendorRepo:   vendorRepo,
		customerRepo: customerRepo,
	}
}

// VendorLogin 商家登录，返回签发的令牌与店铺
func (s *AuthService) VendorLogin(slug, password string) (string, *models.VendorStore, error) {
	store, err := s.vendorRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return "", nil, err
	}
	if store == nil {
		return "", nil, ErrInvalidCredentials
	}
	if !store.IsActive {
		return "", nil, ErrAccountDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(store.PasswordHash), []byte(password)) != nil {
		logger.Warnw("vendor_login_failed", "slug", slug)
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := VendorJWTClaims{
		StoreID:  store.ID,
		TenantID: store.TenantID,
		Slug:     store.Slug,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL())),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", nil, err
	}
	logger.Infow("vendor_login_success", "store_id", store.ID, "slug", store.Slug)
	return token, store, nil
}

// CustomerRegisterInput 顾客注册输入
type CustomerRegisterInput struct {
	Email    string
	Name     string
	Password string
}

// CustomerRegister 顾客注册
func (s *AuthService) CustomerRegister(input CustomerRegisterInput) (*models.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < passwordMinLength {
		return nil, ErrPasswordTooShort
	}
	existing, err := s.customerRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	customer := &models.Customer{
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	logger.Infow("customer_registered", "customer_id", customer.ID)
	return customer, nil
}

// CustomerLogin 顾客登录，返回签发的令牌与顾客
func (s *AuthService) CustomerLogin(email, password string) (string, *models.Customer, error) {
	customer, err := s.customerRepo.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if customer == nil {
		return "", nil, ErrInvalidCredentials
	}
	if !customer.IsActive {
		return "", nil, ErrAccountDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)) != nil {
		logger.Warnw("customer_login_failed", "email", customer.Email)
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := CustomerJWTClaims{
		CustomerID: customer.ID,
		Email:      customer.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL())),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", nil, err
	}
	return token, customer, nil
}

func (s *AuthService) tokenTTL() time.Duration {
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}
