package repository

import (
	"errors"

	"github.com/budget-buddy/api/internal/models"
	"gorm.io/gorm"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
)

// ExpenseRepository handles expense data access
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// WithTx returns an ExpenseRepository bound to the given transaction
func (r *ExpenseRepository) WithTx(tx *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: tx}
}

// Create creates a new expense
func (r *ExpenseRepository) Create(expense *models.Expense) error {
	return r.db.Create(expense).Error
}

// GetByIDAndUserID retrieves an expense by ID, scoped to its owner.
// A row belonging to another user reads as not found.
func (r *ExpenseRepository) GetByIDAndUserID(id, userID uint) (*models.Expense, error) {
	var expense models.Expense
	result := r.db.Where("id = ? AND user_id = ?", id, userID).First(&expense)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, result.Error
	}
	return &expense, nil
}

// GetByUserID retrieves all expenses for a user, most recent first
func (r *ExpenseRepository) GetByUserID(userID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&expenses)
	if result.Error != nil {
		return nil, result.Error
	}
	return expenses, nil
}

// GetByUserIDPaginated retrieves expenses for a user with pagination,
// most recent first
func (r *ExpenseRepository) GetByUserIDPaginated(userID uint, page, pageSize int) ([]models.Expense, int64, error) {
	var expenses []models.Expense
	var total int64

	if err := r.db.Model(&models.Expense{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&expenses)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return expenses, total, nil
}

// SumByCategory returns the total spent by a user in one category
func (r *ExpenseRepository) SumByCategory(userID uint, category string) (float64, error) {
	var total float64
	err := r.db.Model(&models.Expense{}).
		Where("user_id = ? AND category = ?", userID, category).
		Select("COALESCE(SUM(amount_spent), 0)").
		Scan(&total).Error
	return total, err
}

// SumsByCategory returns the total spent by a user per category
func (r *ExpenseRepository) SumsByCategory(userID uint) (map[string]float64, error) {
	rows := []struct {
		Category string
		Total    float64
	}{}
	err := r.db.Model(&models.Expense{}).
		Where("user_id = ?", userID).
		Select("category, COALESCE(SUM(amount_spent), 0) AS total").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64, len(rows))
	for _, row := range rows {
		sums[row.Category] = row.Total
	}
	return sums, nil
}

// Delete deletes an expense by ID
func (r *ExpenseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Expense{}, id).Error
}

// DeleteByUserID deletes all expenses for a user
func (r *ExpenseRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Expense{}).Error
}
