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

// POST /api/khatas/:id/meals — member logs (or corrects) their own day
func UpsertMeal(c *gin.Context) {
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

	var req models.UpsertMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	if isDayFinalized(khataID, date) {
		utils.BadRequest(c, "This day has been finalized by the manager")
		return
	}

	if err := upsertMealRecord(khataID, userID, date, req.Breakfast, req.Lunch, req.Dinner); err != nil {
		utils.InternalError(c, "Failed to save meal")
		return
	}

	services.InvalidateSettlementCache(khataID)
	utils.SuccessResponse(c, http.StatusOK, "Meals saved", nil)
}

// GET /api/khatas/:id/meals?start=&end=&user=
func GetMeals(c *gin.Context) {
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
			query = query.Where("date >= ?", t)
		}
	}
	if end := c.Query("end"); end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			query = query.Where("date < ?", t)
		}
	}
	if user := c.Query("user"); user != "" {
		if uid, err := uuid.Parse(user); err == nil {
			query = query.Where("user_id = ?", uid)
		}
	}

	var meals []models.Meal
	query.Preload("User").Order("date DESC").Find(&meals)

	utils.SuccessResponse(c, http.StatusOK, "", meals)
}

// POST /api/khatas/:id/meals/finalize — manager locks a day
func FinalizeDay(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	khataID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid khata ID")
		return
	}

	if !isManagerOf(khataID, userID) {
		utils.Forbidden(c, "Only the manager can finalize meal days")
		return
	}

	var req models.FinalizeDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	if isDayFinalized(khataID, date) {
		// Already locked, nothing to do
		utils.SuccessResponse(c, http.StatusOK, "Day already finalized", nil)
		return
	}

	database.DB.Create(&models.MealFinalization{
		KhataID:     khataID,
		Date:        date,
		FinalizedBy: userID,
	})

	var manager models.User
	database.DB.First(&manager, userID)
	database.DB.Create(&models.Activity{
		KhataID:     khataID,
		UserID:      userID,
		Type:        "day_finalized",
		Description: fmt.Sprintf("%s finalized meals for %s", manager.Name, date.Format("02 Jan 2006")),
	})

	utils.SuccessResponse(c, http.StatusOK, "Day finalized", nil)
}

// POST /api/khatas/:id/meals/override — manager edits a member's day.
// Open days are written directly; finalized days become an edit request
// the affected member must approve.
func OverrideMeal(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	khataID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid khata ID")
		return
	}

	if !isManagerOf(khataID, userID) {
		utils.Forbidden(c, "Only the manager can override meals")
		return
	}

	var req models.OverrideMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	memberUID, err := uuid.Parse(req.UserID)
	if err != nil {
		utils.BadRequest(c, "Invalid user ID")
		return
	}
	if !isMember(khataID, memberUID) {
		utils.BadRequest(c, "User is not an approved member of this khata")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	if !isDayFinalized(khataID, date) {
		if err := upsertMealRecord(khataID, memberUID, date, req.Breakfast, req.Lunch, req.Dinner); err != nil {
			utils.InternalError(c, "Failed to save meal")
			return
		}
		services.InvalidateSettlementCache(khataID)
		utils.SuccessResponse(c, http.StatusOK, "Meals updated", nil)
		return
	}

	editReq := models.MealEditRequest{
		KhataID:     khataID,
		UserID:      memberUID,
		RequestedBy: userID,
		Date:        date,
		Breakfast:   req.Breakfast,
		Lunch:       req.Lunch,
		Dinner:      req.Dinner,
		Status:      models.EditRequestPending,
	}
	if err := database.DB.Create(&editReq).Error; err != nil {
		utils.InternalError(c, "Failed to create edit request")
		return
	}

	var member, manager models.User
	database.DB.First(&member, memberUID)
	database.DB.First(&manager, userID)

	database.DB.Create(&models.Activity{
		KhataID:     khataID,
		UserID:      userID,
		Type:        "meal_edit_requested",
		ReferenceID: editReq.ID,
		Description: fmt.Sprintf("%s proposed a meal change for %s on %s", manager.Name, member.Name, date.Format("02 Jan 2006")),
	})

	go services.GetNotificationService().NotifyMealEditRequest(member, manager, editReq)

	utils.SuccessResponse(c, http.StatusCreated, "Day is finalized, edit request sent for member approval", editReq)
}

// GET /api/meal-requests — pending edit requests for the current member
func GetMealEditRequests(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var requests []models.MealEditRequest
	database.DB.Where("user_id = ? AND status = ?", userID, models.EditRequestPending).
		Order("created_at DESC").
		Find(&requests)

	utils.SuccessResponse(c, http.StatusOK, "", requests)
}

// POST /api/meal-requests/:id/approve
func ApproveMealEdit(c *gin.Context) {
	decideMealEdit(c, true)
}

// POST /api/meal-requests/:id/deny
func DenyMealEdit(c *gin.Context) {
	decideMealEdit(c, false)
}

func decideMealEdit(c *gin.Context, approve bool) {
	userID := utils.GetCurrentUserID(c)
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid request ID")
		return
	}

	var editReq models.MealEditRequest
	if err := database.DB.First(&editReq, requestID).Error; err != nil {
		utils.NotFound(c, "Edit request not found")
		return
	}

	// Only the affected member decides
	if editReq.UserID != userID {
		utils.Forbidden(c, "Only the affected member can decide this request")
		return
	}

	if editReq.Status != models.EditRequestPending {
		// Already decided, nothing to do
		utils.SuccessResponse(c, http.StatusOK, "Request already "+editReq.Status, nil)
		return
	}

	if approve {
		if err := upsertMealRecord(editReq.KhataID, editReq.UserID, editReq.Date, editReq.Breakfast, editReq.Lunch, editReq.Dinner); err != nil {
			utils.InternalError(c, "Failed to apply meal change")
			return
		}
		database.DB.Model(&editReq).Update("status", models.EditRequestApproved)
		services.InvalidateSettlementCache(editReq.KhataID)
	} else {
		database.DB.Model(&editReq).Update("status", models.EditRequestDenied)
	}

	utils.SuccessResponse(c, http.StatusOK, "Edit request processed", nil)
}

// Helper: is this (khata, date) locked against member edits?
func isDayFinalized(khataID uuid.UUID, date time.Time) bool {
	var count int64
	database.DB.Model(&models.MealFinalization{}).
		Where("khata_id = ? AND date = ?", khataID, date).
		Count(&count)
	return count > 0
}

// Helper: create or update the single meal record for (khata, user, date)
func upsertMealRecord(khataID, userID uuid.UUID, date time.Time, breakfast, lunch, dinner int) error {
	var meal models.Meal
	err := database.DB.Where("khata_id = ? AND user_id = ? AND date = ?", khataID, userID, date).First(&meal).Error
	if err != nil {
		meal = models.Meal{
			KhataID:   khataID,
			UserID:    userID,
			Date:      date,
			Breakfast: breakfast,
			Lunch:     lunch,
			Dinner:    dinner,
		}
		return database.DB.Create(&meal).Error
	}

	meal.Breakfast = breakfast
	meal.Lunch = lunch
	meal.Dinner = dinner
	return database.DB.Save(&meal).Error
}
