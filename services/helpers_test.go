package services

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Team-Name-exists/Heritiq/database"
	"github.com/Team-Name-exists/Heritiq/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

var seq atomic.Int64

func createUser(t *testing.T, db *gorm.DB, userType models.UserType) *models.User {
	t.Helper()
	n := seq.Add(1)
	user := &models.User{
		Username:     fmt.Sprintf("%s%d", userType, n),
		Email:        fmt.Sprintf("%s%d@example.com", userType, n),
		PasswordHash: "unused",
		UserType:     userType,
		FirstName:    "Test",
		LastName:     "User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProduct(t *testing.T, db *gorm.DB, sellerID uint, price string) *models.Product {
	t.Helper()
	n := seq.Add(1)
	product := &models.Product{
		SellerID:    sellerID,
		Name:        fmt.Sprintf("Product %d", n),
		Category:    "pottery",
		Price:       decimal.RequireFromString(price),
		ImagePath:   "images/p.png",
		Materials:   "clay, glaze",
		Quantity:    10,
		IsAvailable: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func count(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
