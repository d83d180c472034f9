package handler

import (
	"errors"
	"strconv"

	"github.com/budget-buddy/api/internal/middleware"
	"github.com/budget-buddy/api/internal/service"
	"github.com/budget-buddy/api/pkg/response"
	"github.com/gin-gonic/gin"
)

// ExpenseHandler handles expense API requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

// AddExpense records a spend against a budget category
// POST /api/v1/budget/expense
func (h *ExpenseHandler) AddExpense(c *gin.Context) {
	var req service.AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	expense, err := h.expenseService.AddExpense(middleware.GetUserID(c), &req)
	if err != nil {
		var overBudget *service.OverBudgetError
		switch {
		case errors.Is(err, service.ErrBudgetNotFound):
			response.NotFound(c, "budget not found")
		case errors.Is(err, service.ErrUnknownCategory):
			response.BadRequest(c, "invalid category")
		case errors.Is(err, service.ErrInvalidAmount):
			response.BadRequest(c, "amount must be greater than zero")
		case errors.As(err, &overBudget):
			response.BadRequest(c, overBudget.Error())
		default:
			response.InternalError(c, "failed to add expense")
		}
		return
	}

	response.Created(c, expense)
}

// ListExpenses returns the user's expenses, most recent first
// GET /api/v1/budget/expenses?page=1&page_size=50
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	expenses, total, err := h.expenseService.ListExpenses(middleware.GetUserID(c), page, pageSize)
	if err != nil {
		response.InternalError(c, "failed to list expenses")
		return
	}

	response.SuccessPaginated(c, expenses, total, page, pageSize)
}

// DeleteExpense removes one of the user's expenses
// DELETE /api/v1/budget/expense/:id
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid expense id")
		return
	}

	if err := h.expenseService.DeleteExpense(middleware.GetUserID(c), uint(id)); err != nil {
		if errors.Is(err, service.ErrExpenseNotFound) {
			response.NotFound(c, "expense not found")
			return
		}
		response.InternalError(c, "failed to delete expense")
		return
	}

	response.Success(c, gin.H{"message": "expense deleted successfully"})
}

// RegisterRoutes registers expense routes under the budget group
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	budget := rg.Group("/budget", authMiddleware)
	{
		budget.POST("/expense", h.AddExpense)
		budget.GET("/expenses", h.ListExpenses)
		budget.DELETE("/expense/:id", h.DeleteExpense)
	}
}
