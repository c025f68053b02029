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

// POST /api/khatas/:id/deposits — member submits a meal-fund deposit
func CreateDeposit(c *gin.Context) {
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

	var req models.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	deposit := models.Deposit{
		KhataID:       khataID,
		UserID:        userID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Status:        models.ApprovalPending,
	}

	if err := database.DB.Create(&deposit).Error; err != nil {
		utils.InternalError(c, "Failed to create deposit")
		return
	}

	var member models.User
	database.DB.First(&member, userID)
	database.DB.Create(&models.Activity{
		KhataID:     khataID,
		UserID:      userID,
		Type:        "deposit_added",
		ReferenceID: deposit.ID,
		Description: fmt.Sprintf("%s submitted a BDT %.2f deposit via %s", member.Name, deposit.Amount, deposit.PaymentMethod),
	})
	services.InvalidateSettlementCache(khataID)

	utils.SuccessResponse(c, http.StatusCreated, "Deposit submitted for approval", deposit)
}

// GET /api/khatas/:id/deposits?status=&start=&end=
func GetDeposits(c *gin.Context) {
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

	var deposits []models.Deposit
	query.Preload("User").Order("created_at DESC").Find(&deposits)

	utils.SuccessResponse(c, http.StatusOK, "", deposits)
}

// POST /api/deposits/:id/approve
func ApproveDeposit(c *gin.Context) {
	decideDeposit(c, models.ApprovalApproved)
}

// POST /api/deposits/:id/reject
func RejectDeposit(c *gin.Context) {
	decideDeposit(c, models.ApprovalRejected)
}

func decideDeposit(c *gin.Context, decision string) {
	userID := utils.GetCurrentUserID(c)
	depositID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid deposit ID")
		return
	}

	var deposit models.Deposit
	if err := database.DB.First(&deposit, depositID).Error; err != nil {
		utils.NotFound(c, "Deposit not found")
		return
	}

	if !isManagerOf(deposit.KhataID, userID) {
		utils.Forbidden(c, "Only the manager can approve deposits")
		return
	}

	// Repeating a decision is a no-op; reversing one is not allowed
	if deposit.Status == decision {
		utils.SuccessResponse(c, http.StatusOK, "Deposit already "+decision, nil)
		return
	}
	if deposit.Status != models.ApprovalPending {
		utils.BadRequest(c, "Deposit has already been "+deposit.Status)
		return
	}

	database.DB.Model(&deposit).Updates(map[string]interface{}{
		"status":      decision,
		"approved_by": userID,
	})

	var member models.User
	database.DB.First(&member, deposit.UserID)
	var manager models.User
	database.DB.First(&manager, userID)

	database.DB.Create(&models.Activity{
		KhataID:     deposit.KhataID,
		UserID:      userID,
		Type:        "deposit_" + decision,
		ReferenceID: deposit.ID,
		Description: fmt.Sprintf("%s %s %s's BDT %.2f deposit", manager.Name, decision, member.Name, deposit.Amount),
	})

	go services.GetNotificationService().NotifyApprovalDecision(member, "deposit", deposit.Amount, decision == models.ApprovalApproved)
	services.InvalidateSettlementCache(deposit.KhataID)

	utils.SuccessResponse(c, http.StatusOK, "Deposit "+decision, nil)
}
