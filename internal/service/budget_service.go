package service

import (
	"errors"
	"fmt"

	"github.com/budget-buddy/api/internal/models"
	"github.com/budget-buddy/api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrBudgetNotFound          = errors.New("budget not found")
	ErrAllocationExceedsIncome = errors.New("total allocation exceeds income")
	ErrNegativeAllocation      = errors.New("income, savings goal and category amounts must be non-negative")
)

// BelowSpentError is returned when a budget update would drop a
// category's allocation below what has already been spent in it.
type BelowSpentError struct {
	Category string
	Spent    float64
}

func (e *BelowSpentError) Error() string {
	return fmt.Sprintf("cannot reduce %s budget below current spending of $%.2f", e.Category, e.Spent)
}

// BudgetService handles budget configuration and summaries
type BudgetService struct {
	db          *gorm.DB
	budgetRepo  *repository.BudgetRepository
	expenseRepo *repository.ExpenseRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(db *gorm.DB, budgetRepo *repository.BudgetRepository, expenseRepo *repository.ExpenseRepository) *BudgetService {
	return &BudgetService{
		db:          db,
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
	}
}

// BudgetRequest represents a budget setup or update request
type BudgetRequest struct {
	Income      float64            `json:"income" binding:"gte=0"`
	SavingsGoal float64            `json:"savings_goal" binding:"gte=0"`
	Categories  map[string]float64 `json:"categories" binding:"required"`
}

// Summary is the aggregate view of a budget against its expenses
type Summary struct {
	Income      float64            `json:"income"`
	SavingsGoal float64            `json:"savings_goal"`
	Categories  models.CategoryMap `json:"categories"`
	Expenses    map[string]float64 `json:"expenses"`
	Remaining   float64            `json:"remaining"`
}

func validateAllocation(req *BudgetRequest) error {
	if req.Income < 0 || req.SavingsGoal < 0 {
		return ErrNegativeAllocation
	}
	var total float64
	for _, amount := range req.Categories {
		if amount < 0 {
			return ErrNegativeAllocation
		}
		total += amount
	}
	if total+req.SavingsGoal > req.Income {
		return ErrAllocationExceedsIncome
	}
	return nil
}

// SetBudget creates the user's budget or replaces it if one exists
func (s *BudgetService) SetBudget(userID uint, req *BudgetRequest) error {
	if err := validateAllocation(req); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		budgetRepo := s.budgetRepo.WithTx(tx)

		budget, err := budgetRepo.GetByUserIDLocked(userID)
		if err != nil {
			if errors.Is(err, repository.ErrBudgetNotFound) {
				return budgetRepo.Create(&models.Budget{
					UserID:      userID,
					Income:      req.Income,
					SavingsGoal: req.SavingsGoal,
					Categories:  models.CategoryMap(req.Categories),
				})
			}
			return err
		}

		budget.Income = req.Income
		budget.SavingsGoal = req.SavingsGoal
		budget.Categories = models.CategoryMap(req.Categories)
		return budgetRepo.Update(budget)
	})
}

// UpdateBudget replaces the user's budget, refusing any allocation that
// would fall below what has already been spent in a category. A
// category with recorded spend cannot be removed either, since its
// allocation would implicitly drop to zero.
func (s *BudgetService) UpdateBudget(userID uint, req *BudgetRequest) error {
	if err := validateAllocation(req); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		budgetRepo := s.budgetRepo.WithTx(tx)
		expenseRepo := s.expenseRepo.WithTx(tx)

		budget, err := budgetRepo.GetByUserIDLocked(userID)
		if err != nil {
			if errors.Is(err, repository.ErrBudgetNotFound) {
				return ErrBudgetNotFound
			}
			return err
		}

		spent, err := expenseRepo.SumsByCategory(userID)
		if err != nil {
			return err
		}
		for category, spentAmount := range spent {
			if spentAmount <= 0 {
				continue
			}
			if req.Categories[category] < spentAmount {
				return &BelowSpentError{Category: category, Spent: spentAmount}
			}
		}

		budget.Income = req.Income
		budget.SavingsGoal = req.SavingsGoal
		budget.Categories = models.CategoryMap(req.Categories)
		return budgetRepo.Update(budget)
	})
}

// GetSummary returns the budget with per-category spend and the
// remaining amount after spending and the savings goal.
func (s *BudgetService) GetSummary(userID uint) (*Summary, error) {
	budget, err := s.budgetRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrBudgetNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}

	sums, err := s.expenseRepo.SumsByCategory(userID)
	if err != nil {
		return nil, err
	}

	spent := make(map[string]float64, len(budget.Categories))
	var totalSpent float64
	for category := range budget.Categories {
		spent[category] = sums[category]
		totalSpent += sums[category]
	}

	return &Summary{
		Income:      budget.Income,
		SavingsGoal: budget.SavingsGoal,
		Categories:  budget.Categories,
		Expenses:    spent,
		Remaining:   budget.Income - totalSpent - budget.SavingsGoal,
	}, nil
}
