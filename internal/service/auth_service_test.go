package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vendora-next/internal/config"
	"github.com/vendora-next/internal/models"
	"github.com/vendora-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthEnv(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{SecretKey: "test-secret-key", ExpireHours: 1}}
	return NewAuthService(
		cfg,
		repository.NewVendorStoreRepository(db),
		repository.NewCustomerRepository(db),
	), db
}

func TestCustomerRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthEnv(t)
	email := fmt.Sprintf("reg-%d@example.test", nextFixtureID())

	if _, err := svc.CustomerRegister(CustomerRegisterInput{Email: email, Password: "short"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("short password want ErrPasswordTooShort got %v", err)
	}
	if _, err := svc.CustomerRegister(CustomerRegisterInput{Email: "  ", Password: "longenough"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("blank email want ErrInvalidEmail got %v", err)
	}

	customer, err := svc.CustomerRegister(CustomerRegisterInput{
		Email:    "  " + email + "  ",
		Name:     "Buyer",
		Password: "customer123456",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if customer.Email != email {
		t.Fatalf("email must be trimmed and lowered, got %q", customer.Email)
	}
	if customer.PasswordHash == "customer123456" || customer.PasswordHash == "" {
		t.Fatalf("password must be hashed")
	}

	// 重复注册
	if _, err := svc.CustomerRegister(CustomerRegisterInput{Email: email, Password: "customer123456"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email want ErrEmailTaken got %v", err)
	}

	token, logged, err := svc.CustomerLogin(email, "customer123456")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != customer.ID {
		t.Fatalf("login returned wrong customer %d", logged.ID)
	}
	claims := &CustomerJWTClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret-key"), nil
	}); err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.CustomerID != customer.ID || claims.Email != email {
		t.Fatalf("claims wrong: %+v", claims)
	}

	if _, _, err := svc.CustomerLogin(email, "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, err := svc.CustomerLogin("nobody@example.test", "customer123456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email want ErrInvalidCredentials got %v", err)
	}
}

func TestCustomerLoginDisabledAccount(t *testing.T) {
	svc, db := newAuthEnv(t)
	email := fmt.Sprintf("disabled-%d@example.test", nextFixtureID())
	if _, err := svc.CustomerRegister(CustomerRegisterInput{Email: email, Password: "customer123456"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := db.Model(&models.Customer{}).Where("email = ?", email).Update("is_active", false).Error; err != nil {
		t.Fatalf("disable account failed: %v", err)
	}
	if _, _, err := svc.CustomerLogin(email, "customer123456"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("disabled account want ErrAccountDisabled got %v", err)
	}
}

func TestVendorLogin(t *testing.T) {
	svc, db := newAuthEnv(t)
	tenant := createTestTenant(t, db, 0)
	store := createTestStore(t, db, tenant.ID, "5.00", "0")
	hash, err := bcrypt.GenerateFromPassword([]byte("vendor123456"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	if err := db.Model(&models.VendorStore{}).Where("id = ?", store.ID).Update("password_hash", string(hash)).Error; err != nil {
		t.Fatalf("set password failed: %v", err)
	}

	token, logged, err := svc.VendorLogin(store.Slug, "vendor123456")
	if err != nil {
		t.Fatalf("vendor login failed: %v", err)
	}
	if logged.ID != store.ID {
		t.Fatalf("login returned wrong store %d", logged.ID)
	}
	claims := &VendorJWTClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret-key"), nil
	}); err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.StoreID != store.ID || claims.TenantID != tenant.ID || claims.Slug != store.Slug {
		t.Fatalf("claims wrong: %+v", claims)
	}

	if _, _, err := svc.VendorLogin(store.Slug, "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, err := svc.VendorLogin("no-such-store", "vendor123456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown slug want ErrInvalidCredentials got %v", err)
	}

	if err := db.Model(&models.VendorStore{}).Where("id = ?", store.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("disable store failed: %v", err)
	}
	if _, _, err := svc.VendorLogin(store.Slug, "vendor123456"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("disabled store want ErrAccountDisabled got %v", err)
	}
}
