package handlers

import (
	"billkhata-backend/database"
	"billkhata-backend/models"
	"billkhata-backend/services"
	"billkhata-backend/utils"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POST /api/khatas/:id/expenses — member submits a shopping expense
func CreateExpense(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	khataID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid khata ID")
		return
	}

	if !isMember(khataID, userID) {
		utils.Unauthorized(c, "You are not a member of this khata")
		return
	}

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	expense := models.Expense{
		KhataID: khataID,
		UserID:  userID,
		Amount:  req.Amount,
		Items:   req.Items,
		Status:  models.ApprovalPending,
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		utils.InternalError(c, "Failed to create expense")
		return
	}

	var member models.User
	database.DB.First(&member, userID)
	database.DB.Create(&models.Activity{
		KhataID:     khataID,
		UserID:      userID,
		Type:        "expense_added",
		ReferenceID: expense.ID,
		Description: fmt.Sprintf("%s submitted a BDT %.2f shopping expense", member.Name, expense.Amount),
	})
	services.InvalidateSettlementCache(khataID)

	utils.SuccessResponse(c, http.StatusCreated, "Expense submitted for approval", expense)
}

// GET /api/khatas/:id/expenses?status=&start=&end=
func GetExpenses(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	khataID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid khata ID")
		return
	}

	if !isMember(khataID, userID) && !isManagerOf(khataID, userID) {
		utils.Unauthorized(c, "You are not a member of this khata")
		return
	}

	query := database.DB.Where("khata_id = ?", khataID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if start := c.Query("start"); start != "" {
		if t, err := time.Parse("2006-01-02", start); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if end := c.Query("end"); end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			query = query.Where("created_at < ?", t)
		}
	}

	var expenses []models.Expense
	query.Preload("User").Order("created_at DESC").Find(&expenses)

	utils.SuccessResponse(c, http.StatusOK, "", expenses)
}

// POST /api/expenses/:id/approve
func ApproveExpense(c *gin.Context) {
	decideExpense(c, models.ApprovalApproved)
}

// POST /api/expenses/:id/reject
func RejectExpense(c *gin.Context) {
	decideExpense(c, models.ApprovalRejected)
}

func decideExpense(c *gin.Context, decision string) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if !isManagerOf(expense.KhataID, userID) {
		utils.Forbidden(c, "Only the manager can approve expenses")
		return
	}

	// Repeating a decision is a no-op; reversing one is not allowed
	if expense.Status == decision {
		utils.SuccessResponse(c, http.StatusOK, "Expense already "+decision, nil)
		return
	}
	if expense.Status != models.ApprovalPending {
		utils.BadRequest(c, "Expense has already been "+expense.Status)
		return
	}

	database.DB.Model(&expense).Updates(map[string]interface{}{
		"status":      decision,
		"approved_by": userID,
	})

	var member models.User
	database.DB.First(&member, expense.UserID)
	var manager models.User
	database.DB.First(&manager, userID)

	database.DB.Create(&models.Activity{
		KhataID:     expense.KhataID,
		UserID:      userID,
		Type:        "expense_" + decision,
		ReferenceID: expense.ID,
		Description: fmt.Sprintf("%s %s %s's BDT %.2f shopping expense", manager.Name, decision, member.Name, expense.Amount),
	})

	go services.GetNotificationService().NotifyApprovalDecision(member, "shopping expense", expense.Amount, decision == models.ApprovalApproved)
	services.InvalidateSettlementCache(expense.KhataID)

	utils.SuccessResponse(c, http.StatusOK, "Expense "+decision, nil)
}
