package service

import (
	"errors"
	"fmt"

	"github.com/budget-buddy/api/internal/models"
	"github.com/budget-buddy/api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUnknownCategory = errors.New("category does not exist in budget")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrExpenseNotFound = errors.New("expense not found")
)

// OverBudgetError is returned when an expense would push a category
// past its allocation. Remaining is how much the caller could still
// have spent.
type OverBudgetError struct {
	Category  string
	Remaining float64
}

func (e *OverBudgetError) Error() string {
	return fmt.Sprintf("cannot add expense: would exceed %s budget, remaining budget: $%.2f", e.Category, e.Remaining)
}

// ExpenseService handles the expense journal
type ExpenseService struct {
	db          *gorm.DB
	budgetRepo  *repository.BudgetRepository
	expenseRepo *repository.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(db *gorm.DB, budgetRepo *repository.BudgetRepository, expenseRepo *repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{
		db:          db,
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
	}
}

// AddExpenseRequest represents an add-expense request
type AddExpenseRequest struct {
	Category    string  `json:"category" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description" binding:"max=200"`
}

// AddExpense records a spend against a budget category. The category
// sum check and the insert run in one transaction over the locked
// budget row, so two concurrent inserts cannot both pass the check.
func (s *ExpenseService) AddExpense(userID uint, req *AddExpenseRequest) (*models.Expense, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var expense *models.Expense
	err := s.db.Transaction(func(tx *gorm.DB) error {
		budgetRepo := s.budgetRepo.WithTx(tx)
		expenseRepo := s.expenseRepo.WithTx(tx)

		budget, err := budgetRepo.GetByUserIDLocked(userID)
		if err != nil {
			if errors.Is(err, repository.ErrBudgetNotFound) {
				return ErrBudgetNotFound
			}
			return err
		}

		allocated, ok := budget.Categories[req.Category]
		if !ok {
			return ErrUnknownCategory
		}

		spent, err := expenseRepo.SumByCategory(userID, req.Category)
		if err != nil {
			return err
		}
		if spent+req.Amount > allocated {
			return &OverBudgetError{Category: req.Category, Remaining: allocated - spent}
		}

		expense = &models.Expense{
			UserID:      userID,
			Category:    req.Category,
			AmountSpent: req.Amount,
			Description: req.Description,
		}
		return expenseRepo.Create(expense)
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense removes an expense owned by the user. Rows that do not
// exist and rows owned by someone else report the same not-found error.
func (s *ExpenseService) DeleteExpense(userID, expenseID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		expenseRepo := s.expenseRepo.WithTx(tx)

		expense, err := expenseRepo.GetByIDAndUserID(expenseID, userID)
		if err != nil {
			if errors.Is(err, repository.ErrExpenseNotFound) {
				return ErrExpenseNotFound
			}
			return err
		}

		return expenseRepo.Delete(expense.ID)
	})
}

// ListExpenses returns the user's expenses, most recent first
func (s *ExpenseService) ListExpenses(userID uint, page, pageSize int) ([]models.Expense, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return s.expenseRepo.GetByUserIDPaginated(userID, page, pageSize)
}
