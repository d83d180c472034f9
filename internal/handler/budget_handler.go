package handler

import (
	"errors"

	"github.com/budget-buddy/api/internal/middleware"
	"github.com/budget-buddy/api/internal/service"
	"github.com/budget-buddy/api/pkg/response"
	"github.com/gin-gonic/gin"
)

// BudgetHandler handles budget and report API requests
type BudgetHandler struct {
	budgetService *service.BudgetService
	reportService *service.ReportService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService, reportService *service.ReportService) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		reportService: reportService,
	}
}

// SetBudget creates or replaces the user's budget
// POST /api/v1/budget/setup
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	var req service.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.budgetService.SetBudget(middleware.GetUserID(c), &req); err != nil {
		h.writeBudgetError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "budget setup successful"})
}

// UpdateBudget replaces the budget, guarding categories that already
// have recorded spend
// POST /api/v1/budget/update
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	var req service.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.budgetService.UpdateBudget(middleware.GetUserID(c), &req); err != nil {
		h.writeBudgetError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "budget updated successfully"})
}

// GetSummary returns the budget with per-category spend and remaining
// GET /api/v1/budget/summary
func (h *BudgetHandler) GetSummary(c *gin.Context) {
	summary, err := h.budgetService.GetSummary(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrBudgetNotFound) {
			response.NotFound(c, "budget not found")
			return
		}
		response.InternalError(c, "failed to load summary")
		return
	}

	response.Success(c, summary)
}

// GetChart returns the allocation/spending donut as a base64 PNG
// GET /api/v1/budget/chart
func (h *BudgetHandler) GetChart(c *gin.Context) {
	image, err := h.reportService.RenderChart(middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBudgetNotFound):
			response.NotFound(c, "budget not found")
		case errors.Is(err, service.ErrNoBudgetAllocated):
			response.BadRequest(c, "no budget allocated")
		case errors.Is(err, service.ErrNoCategories):
			response.BadRequest(c, "no budget categories found")
		default:
			response.InternalError(c, "failed to generate chart")
		}
		return
	}

	response.Success(c, gin.H{"image": image})
}

// GetChartData returns the per-category figures the chart is built from
// GET /api/v1/budget/chart-data
func (h *BudgetHandler) GetChartData(c *gin.Context) {
	data, err := h.reportService.ChartData(middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBudgetNotFound):
			response.NotFound(c, "budget not found")
		case errors.Is(err, service.ErrNoBudgetAllocated):
			response.BadRequest(c, "no budget allocated")
		case errors.Is(err, service.ErrNoCategories):
			response.BadRequest(c, "no budget categories found")
		default:
			response.InternalError(c, "failed to load chart data")
		}
		return
	}

	response.Success(c, data)
}

func (h *BudgetHandler) writeBudgetError(c *gin.Context, err error) {
	var belowSpent *service.BelowSpentError
	switch {
	case errors.Is(err, service.ErrAllocationExceedsIncome):
		response.BadRequest(c, "total allocation exceeds income")
	case errors.Is(err, service.ErrNegativeAllocation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrBudgetNotFound):
		response.NotFound(c, "budget not found")
	case errors.As(err, &belowSpent):
		response.BadRequest(c, belowSpent.Error())
	default:
		response.InternalError(c, "failed to save budget")
	}
}

// RegisterRoutes registers budget routes
func (h *BudgetHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	budget := rg.Group("/budget", authMiddleware)
	{
		budget.POST("/setup", h.SetBudget)
		budget.POST("/update", h.UpdateBudget)
		budget.GET("/summary", h.GetSummary)
		budget.GET("/chart", h.GetChart)
		budget.GET("/chart-data", h.GetChartData)
	}
}
