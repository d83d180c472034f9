package repository

import (
	"errors"

	"github.com/budget-buddy/api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBudgetNotFound = errors.New("budget not found")
)

// BudgetRepository handles budget data access
type BudgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// WithTx returns a BudgetRepository bound to the given transaction
func (r *BudgetRepository) WithTx(tx *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: tx}
}

// Create creates a new budget
func (r *BudgetRepository) Create(budget *models.Budget) error {
	return r.db.Create(budget).Error
}

// GetByUserID retrieves the budget for a user
func (r *BudgetRepository) GetByUserID(userID uint) (*models.Budget, error) {
	var budget models.Budget
	result := r.db.Where("user_id = ?", userID).First(&budget)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return &budget, nil
}

// GetByUserIDLocked retrieves the budget for a user and locks the row
// for the duration of the surrounding transaction, serializing
// concurrent check-then-write mutations for the same user. SQLite has
// no row locks; its single-writer transaction lock serializes instead.
func (r *BudgetRepository) GetByUserIDLocked(userID uint) (*models.Budget, error) {
	q := r.db
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var budget models.Budget
	result := q.Where("user_id = ?", userID).First(&budget)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return &budget, nil
}

// Update updates a budget
func (r *BudgetRepository) Update(budget *models.Budget) error {
	return r.db.Save(budget).Error
}

// DeleteByUserID deletes the budget for a user
func (r *BudgetRepository) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Budget{}).Error
}
