package service

import (
	"errors"
	"sort"

	"github.com/budget-buddy/api/internal/repository"
	"github.com/budget-buddy/api/pkg/chart"
)

var (
	ErrNoCategories      = errors.New("budget has no categories")
	ErrNoBudgetAllocated = errors.New("no budget allocated")
)

// CategoryChartData is one category's allocation and spending progress
type CategoryChartData struct {
	Category        string  `json:"category"`
	Allocated       float64 `json:"allocated"`
	Spent           float64 `json:"spent"`
	SpentPercentage float64 `json:"spent_percentage"`
}

// ReportService derives chart views from the budget and expenses
type ReportService struct {
	budgetRepo  *repository.BudgetRepository
	expenseRepo *repository.ExpenseRepository
}

// NewReportService creates a new ReportService
func NewReportService(budgetRepo *repository.BudgetRepository, expenseRepo *repository.ExpenseRepository) *ReportService {
	return &ReportService{
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
	}
}

// ChartData returns allocation and spending figures per category,
// largest allocation first. Categories with no allocation are left out.
func (s *ReportService) ChartData(userID uint) ([]CategoryChartData, error) {
	budget, err := s.budgetRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrBudgetNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}

	if len(budget.Categories) == 0 {
		return nil, ErrNoCategories
	}
	if budget.Categories.Total() == 0 {
		return nil, ErrNoBudgetAllocated
	}

	sums, err := s.expenseRepo.SumsByCategory(userID)
	if err != nil {
		return nil, err
	}

	data := make([]CategoryChartData, 0, len(budget.Categories))
	for category, allocated := range budget.Categories {
		if allocated <= 0 {
			continue
		}
		spent := sums[category]
		percentage := spent / allocated * 100
		if percentage > 100 {
			percentage = 100
		}
		data = append(data, CategoryChartData{
			Category:        category,
			Allocated:       allocated,
			Spent:           spent,
			SpentPercentage: percentage,
		})
	}
	if len(data) == 0 {
		return nil, ErrNoBudgetAllocated
	}

	sort.Slice(data, func(i, j int) bool {
		if data[i].Allocated != data[j].Allocated {
			return data[i].Allocated > data[j].Allocated
		}
		return data[i].Category < data[j].Category
	})

	return data, nil
}

// RenderChart renders the chart data as a base64-encoded PNG donut
func (s *ReportService) RenderChart(userID uint) (string, error) {
	data, err := s.ChartData(userID)
	if err != nil {
		return "", err
	}

	slices := make([]chart.Slice, 0, len(data))
	for _, d := range data {
		slices = append(slices, chart.Slice{
			Label:           d.Category,
			Allocated:       d.Allocated,
			Spent:           d.Spent,
			SpentPercentage: d.SpentPercentage,
		})
	}
	return chart.RenderDonutPNG(slices)
}
