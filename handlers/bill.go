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

// POST /api/khatas/:id/bills
func CreateBill(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	khataID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid khata ID")
		return
	}

	if !isManagerOf(khataID, userID) {
		utils.Forbidden(c, "Only the manager can create bills")
		return
	}

	var req models.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if !models.IsValidBillCategory(req.Category) {
		utils.BadRequest(c, "Invalid bill category: "+req.Category)
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		utils.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
		return
	}

	bill := models.Bill{
		KhataID:     khataID,
		Title:       req.Title,
		Category:    req.Category,
		TotalAmount: req.TotalAmount,
		DueDate:     dueDate,
		Description: req.Description,
		CreatedBy:   userID,
	}

	shares, err := buildShares(bill, req.Shares, khataID)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := database.DB.Create(&bill).Error; err != nil {
		utils.InternalError(c, "Failed to create bill")
		return
	}

	users := make(map[string]models.User)
	for i := range shares {
		shares[i].BillID = bill.ID
		database.DB.Create(&shares[i])

		var u models.User
		if err := database.DB.First(&u, shares[i].UserID).Error; err == nil {
			users[shares[i].UserID.String()] = u
		}
	}

	var manager models.User
	database.DB.First(&manager, userID)
	var khata models.Khata
	database.DB.First(&khata, khataID)

	database.DB.Create(&models.Activity{
		KhataID:     khataID,
		UserID:      userID,
		Type:        "bill_created",
		ReferenceID: bill.ID,
		Description: fmt.Sprintf("%s added bill \"%s\" (BDT %.2f)", manager.Name, bill.Title, bill.TotalAmount),
	})

	go services.GetNotificationService().NotifyBillCreated(bill, shares, users, khata)
	services.InvalidateSettlementCache(khataID)

	utils.SuccessResponse(c, http.StatusCreated, "Bill created", buildBillResponse(bill.ID))
}

// GET /api/khatas/:id/bills
func GetBills(c *gin.Context) {
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
	if start := c.Query("start"); start != "" {
		if t, err := time.Parse("2006-01-02", start); err == nil {
			query = query.Where("due_date >= ?", t)
		}
	}
	if end := c.Query("end"); end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			query = query.Where("due_date < ?", t)
		}
	}

	var bills []models.Bill
	query.Order("due_date DESC, created_at DESC").Find(&bills)

	var responses []models.BillResponse
	for _, b := range bills {
		responses = append(responses, buildBillResponse(b.ID))
	}

	utils.SuccessResponse(c, http.StatusOK, "", responses)
}

// GET /api/bills/:id
func GetBill(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid bill ID")
		return
	}

	var bill models.Bill
	if err := database.DB.First(&bill, billID).Error; err != nil {
		utils.NotFound(c, "Bill not found")
		return
	}

	if !isMember(bill.KhataID, userID) && !isManagerOf(bill.KhataID, userID) {
		utils.Unauthorized(c, "You are not a member of this khata")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", buildBillResponse(billID))
}

// PUT /api/bills/:id
func UpdateBill(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid bill ID")
		return
	}

	var bill models.Bill
	if err := database.DB.First(&bill, billID).Error; err != nil {
		utils.NotFound(c, "Bill not found")
		return
	}

	if !isManagerOf(bill.KhataID, userID) {
		utils.Forbidden(c, "Only the manager can update bills")
		return
	}

	var req models.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Category != "" {
		if !models.IsValidBillCategory(req.Category) {
			utils.BadRequest(c, "Invalid bill category: "+req.Category)
			return
		}
		updates["category"] = req.Category
	}
	if req.DueDate != "" {
		t, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			utils.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		updates["due_date"] = t
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}

	database.DB.Model(&bill).Updates(updates)
	services.InvalidateSettlementCache(bill.KhataID)

	utils.SuccessResponse(c, http.StatusOK, "Bill updated", buildBillResponse(billID))
}

// DELETE /api/bills/:id
func DeleteBill(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid bill ID")
		return
	}

	var bill models.Bill
	if err := database.DB.First(&bill, billID).Error; err != nil {
		utils.NotFound(c, "Bill not found")
		return
	}

	if !isManagerOf(bill.KhataID, userID) {
		utils.Forbidden(c, "Only the manager can delete bills")
		return
	}

	var deleter models.User
	database.DB.First(&deleter, userID)
	database.DB.Create(&models.Activity{
		KhataID:     bill.KhataID,
		UserID:      userID,
		Type:        "bill_deleted",
		Description: fmt.Sprintf("%s deleted bill \"%s\" (BDT %.2f)", deleter.Name, bill.Title, bill.TotalAmount),
	})

	database.DB.Where("bill_id = ?", billID).Delete(&models.BillShare{})
	database.DB.Delete(&bill)
	services.InvalidateSettlementCache(bill.KhataID)

	utils.SuccessResponse(c, http.StatusOK, "Bill deleted", nil)
}

// POST /api/bills/:id/mark-paid — member claims their share is paid
func MarkSharePaid(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid bill ID")
		return
	}

	var bill models.Bill
	if err := database.DB.First(&bill, billID).Error; err != nil {
		utils.NotFound(c, "Bill not found")
		return
	}

	var share models.BillShare
	if err := database.DB.Where("bill_id = ? AND user_id = ?", billID, userID).First(&share).Error; err != nil {
		utils.NotFound(c, "You have no share in this bill")
		return
	}

	switch share.Status {
	case models.ShareStatusPendingApproval:
		// Already marked, nothing to do
		utils.SuccessResponse(c, http.StatusOK, "Payment already waiting for approval", nil)
		return
	case models.ShareStatusPaid:
		utils.BadRequest(c, "This share is already paid")
		return
	}

	now := time.Now()
	database.DB.Model(&share).Updates(map[string]interface{}{
		"status":         models.ShareStatusPendingApproval,
		"marked_paid_at": now,
	})

	var member models.User
	database.DB.First(&member, userID)
	database.DB.Create(&models.Activity{
		KhataID:     bill.KhataID,
		UserID:      userID,
		Type:        "share_paid",
		ReferenceID: bill.ID,
		Description: fmt.Sprintf("%s marked their BDT %.2f share of \"%s\" as paid", member.Name, share.Amount, bill.Title),
	})
	services.InvalidateSettlementCache(bill.KhataID)

	utils.SuccessResponse(c, http.StatusOK, "Payment marked, waiting for manager approval", nil)
}

// POST /api/bills/:id/shares/:uid/approve — manager confirms the payment
func ApprovePayment(c *gin.Context) {
	decidePayment(c, true)
}

// POST /api/bills/:id/shares/:uid/deny — manager sends the share back to unpaid
func DenyPayment(c *gin.Context) {
	decidePayment(c, false)
}

func decidePayment(c *gin.Context, approve bool) {
	userID := utils.GetCurrentUserID(c)
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid bill ID")
		return
	}
	memberUID, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		utils.BadRequest(c, "Invalid user ID")
		return
	}

	var bill models.Bill
	if err := database.DB.First(&bill, billID).Error; err != nil {
		utils.NotFound(c, "Bill not found")
		return
	}

	if !isManagerOf(bill.KhataID, userID) {
		utils.Forbidden(c, "Only the manager can approve payments")
		return
	}

	var share models.BillShare
	if err := database.DB.Where("bill_id = ? AND user_id = ?", billID, memberUID).First(&share).Error; err != nil {
		utils.NotFound(c, "Share not found")
		return
	}

	// Approving an already-paid share is a no-op, not an error
	if share.Status == models.ShareStatusPaid {
		if approve {
			utils.SuccessResponse(c, http.StatusOK, "Payment already approved", nil)
		} else {
			utils.BadRequest(c, "Cannot deny an approved payment")
		}
		return
	}

	if share.Status != models.ShareStatusPendingApproval {
		if approve {
			utils.BadRequest(c, "Share has not been marked as paid")
		} else {
			utils.SuccessResponse(c, http.StatusOK, "Share is already unpaid", nil)
		}
		return
	}

	var member models.User
	database.DB.First(&member, memberUID)
	var manager models.User
	database.DB.First(&manager, userID)

	if approve {
		now := time.Now()
		database.DB.Model(&share).Updates(map[string]interface{}{
			"status":      models.ShareStatusPaid,
			"paid_at":     now,
			"approved_by": userID,
		})
		database.DB.Create(&models.Activity{
			KhataID:     bill.KhataID,
			UserID:      userID,
			Type:        "payment_approved",
			ReferenceID: bill.ID,
			Description: fmt.Sprintf("%s approved %s's BDT %.2f payment for \"%s\"", manager.Name, member.Name, share.Amount, bill.Title),
		})
	} else {
		database.DB.Model(&share).Updates(map[string]interface{}{
			"status":         models.ShareStatusUnpaid,
			"marked_paid_at": nil,
		})
		database.DB.Create(&models.Activity{
			KhataID:     bill.KhataID,
			UserID:      userID,
			Type:        "payment_denied",
			ReferenceID: bill.ID,
			Description: fmt.Sprintf("%s denied %s's payment for \"%s\"", manager.Name, member.Name, bill.Title),
		})
	}

	go services.GetNotificationService().NotifyPaymentDecision(member, bill, share.Amount, approve)
	services.InvalidateSettlementCache(bill.KhataID)

	utils.SuccessResponse(c, http.StatusOK, "Payment decision recorded", nil)
}

// Build shares for a new bill: explicit per-member amounts, or an equal
// split among approved members when none are given.
func buildShares(bill models.Bill, inputs []models.ShareInput, khataID uuid.UUID) ([]models.BillShare, error) {
	var shares []models.BillShare

	if len(inputs) == 0 {
		var members []models.KhataMember
		database.DB.Where("khata_id = ? AND status = ?", khataID, models.MemberStatusApproved).Find(&members)

		if len(members) == 0 {
			return nil, fmt.Errorf("no approved members in khata")
		}

		perPerson := utils.RoundToTwo(bill.TotalAmount / float64(len(members)))
		remainder := utils.RoundToTwo(bill.TotalAmount - perPerson*float64(len(members)))

		for i, m := range members {
			amount := perPerson
			if i == 0 {
				amount = utils.RoundToTwo(amount + remainder) // first person absorbs the rounding remainder
			}
			shares = append(shares, models.BillShare{
				UserID: m.UserID,
				Amount: amount,
				Status: models.ShareStatusUnpaid,
			})
		}
		return shares, nil
	}

	var total float64
	for _, in := range inputs {
		total += in.Amount
	}
	if utils.RoundToTwo(total) != utils.RoundToTwo(bill.TotalAmount) {
		return nil, fmt.Errorf("share amounts (%.2f) don't add up to total (%.2f)", total, bill.TotalAmount)
	}

	for _, in := range inputs {
		uid, err := uuid.Parse(in.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID: %s", in.UserID)
		}
		if !isMember(khataID, uid) {
			return nil, fmt.Errorf("user %s is not an approved member", in.UserID)
		}
		shares = append(shares, models.BillShare{
			UserID: uid,
			Amount: utils.RoundToTwo(in.Amount),
			Status: models.ShareStatusUnpaid,
		})
	}

	return shares, nil
}

// Build bill response with member names and derived overdue statuses
func buildBillResponse(billID uuid.UUID) models.BillResponse {
	var bill models.Bill
	if err := database.DB.First(&bill, billID).Error; err != nil {
		return models.BillResponse{}
	}

	var dbShares []models.BillShare
	database.DB.Where("bill_id = ?", billID).Find(&dbShares)

	now := time.Now()
	var shareResponses []models.BillShareResponse
	for _, s := range dbShares {
		var user models.User
		database.DB.First(&user, s.UserID)
		shareResponses = append(shareResponses, models.BillShareResponse{
			ID:       s.ID,
			UserID:   s.UserID,
			UserName: user.Name,
			Amount:   s.Amount,
			Status:   s.EffectiveStatus(bill.DueDate, now),
			PaidAt:   s.PaidAt,
		})
	}

	return models.BillResponse{
		ID:          bill.ID,
		KhataID:     bill.KhataID,
		Title:       bill.Title,
		Category:    bill.Category,
		TotalAmount: bill.TotalAmount,
		DueDate:     bill.DueDate,
		Description: bill.Description,
		CreatedBy:   bill.CreatedBy,
		Shares:      shareResponses,
		CreatedAt:   bill.CreatedAt,
	}
}
