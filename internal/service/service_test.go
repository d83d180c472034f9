package service_test

import (
	"testing"

	"github.com/budget-buddy/api/internal/models"
	"github.com/budget-buddy/api/internal/repository"
	"github.com/budget-buddy/api/internal/service"
	"github.com/budget-buddy/api/pkg/crypto"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database migrated to the current
// schema. A single connection keeps every query on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Budget{}, &models.Expense{}))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	hash, err := crypto.HashPassword("correct-horse")
	require.NoError(t, err)

	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newBudgetService(db *gorm.DB) *service.BudgetService {
	return service.NewBudgetService(db, repository.NewBudgetRepository(db), repository.NewExpenseRepository(db))
}

func newExpenseService(db *gorm.DB) *service.ExpenseService {
	return service.NewExpenseService(db, repository.NewBudgetRepository(db), repository.NewExpenseRepository(db))
}

func newReportService(db *gorm.DB) *service.ReportService {
	return service.NewReportService(repository.NewBudgetRepository(db), repository.NewExpenseRepository(db))
}
