package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Davsooonowy/TripWhizz/models"
	"github.com/Davsooonowy/TripWhizz/utils"
)

// GET /trip/{id}/expenses/
func ListExpenses(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Trip not found")
		return
	}

	if _, ok := resolveTrip(tripID, userID); !ok {
		utils.NotFound(c, "Trip not found")
		return
	}

	expenses, err := svc.Expenses(c.Request.Context(), tripID)
	if err != nil {
		renderError(c, err)
		return
	}

	responses := []models.ExpenseResponse{}
	for i := range expenses {
		responses = append(responses, buildExpenseResponse(&expenses[i]))
	}

	c.JSON(http.StatusOK, responses)
}

// POST /trip/{id}/expenses/
func CreateExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Trip not found")
		return
	}

	if _, ok := resolveTrip(tripID, userID); !ok {
		utils.NotFound(c, "Trip not found")
		return
	}

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Malformed request body")
		return
	}

	expense, err := svc.AddExpense(c.Request.Context(), tripID, req)
	if err != nil {
		renderError(c, err)
		return
	}

	balanceCache.Invalidate(c.Request.Context(), tripID)

	full, err := svc.Expense(c.Request.Context(), tripID, expense.ID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildExpenseResponse(full))
}

// GET /trip/{id}/expenses/{expense_id}/
func GetExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Trip not found")
		return
	}

	if _, ok := resolveTrip(tripID, userID); !ok {
		utils.NotFound(c, "Trip not found")
		return
	}

	expenseID, err := uuid.Parse(c.Param("expense_id"))
	if err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	expense, err := svc.Expense(c.Request.Context(), tripID, expenseID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildExpenseResponse(expense))
}

// PUT /trip/{id}/expenses/{expense_id}/
func UpdateExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Trip not found")
		return
	}

	if _, ok := resolveTrip(tripID, userID); !ok {
		utils.NotFound(c, "Trip not found")
		return
	}

	expenseID, err := uuid.Parse(c.Param("expense_id"))
	if err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Malformed request body")
		return
	}

	expense, err := svc.EditExpense(c.Request.Context(), tripID, expenseID, req)
	if err != nil {
		renderError(c, err)
		return
	}

	balanceCache.Invalidate(c.Request.Context(), tripID)
	c.JSON(http.StatusOK, buildExpenseResponse(expense))
}

// DELETE /trip/{id}/expenses/{expense_id}/
func DeleteExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.NotFound(c, "Trip not found")
		return
	}

	if _, ok := resolveTrip(tripID, userID); !ok {
		utils.NotFound(c, "Trip not found")
		return
	}

	expenseID, err := uuid.Parse(c.Param("expense_id"))
	if err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if err := svc.RemoveExpense(c.Request.Context(), tripID, expenseID); err != nil {
		renderError(c, err)
		return
	}

	balanceCache.Invalidate(c.Request.Context(), tripID)
	c.Status(http.StatusNoContent)
}

func buildExpenseResponse(expense *models.Expense) models.ExpenseResponse {
	shares := []models.ShareResponse{}
	for _, s := range expense.Shares {
		shares = append(shares, models.ShareResponse{
			ID:          s.ID,
			User:        s.User.ToBasic(),
			Percentage:  models.NewMoneyPtr(s.Percentage),
			SharesCount: s.SharesCount,
			OwedAmount:  models.NewMoney(s.OwedAmount),
		})
	}

	return models.ExpenseResponse{
		ID:          expense.ID,
		Trip:        expense.TripID,
		Description: expense.Description,
		Amount:      models.NewMoney(expense.Amount),
		Currency:    expense.Currency,
		PaidBy:      expense.Payer.ToBasic(),
		SplitMethod: expense.SplitMethod,
		Shares:      shares,
		CreatedAt:   expense.CreatedAt,
		UpdatedAt:   expense.UpdatedAt,
	}
}
