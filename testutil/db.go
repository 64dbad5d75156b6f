// Package testutil provides throwaway databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"

	"shop-api/config"
	"shop-api/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema and
// foreign keys enforced. It is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Cart{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SetupConfig installs a config suitable for signing and checking tokens.
func SetupConfig(t testing.TB) {
	t.Helper()

	prev := config.AppConfig
	config.AppConfig = &config.Config{
		AppEnv:    "test",
		JWTSecret: "test-secret",
		JWTExpiry: "1h",
	}
	t.Cleanup(func() { config.AppConfig = prev })
}

func CreateUser(t testing.TB, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{Name: name, Password: "not-a-hash", Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

func CreateProduct(t testing.TB, db *gorm.DB, companyID int, name, price string, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		CompanyID: companyID,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return product
}

func ProductStock(t testing.TB, db *gorm.DB, productID int) int {
	t.Helper()

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		t.Fatalf("load product %d: %v", productID, err)
	}
	return product.Stock
}

func CountCartItems(t testing.TB, db *gorm.DB, userID int) int64 {
	t.Helper()

	var count int64
	err := db.Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count cart items: %v", err)
	}
	return count
}
