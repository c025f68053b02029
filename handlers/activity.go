package handlers

import (
	"billkhata-backend/database"
	"billkhata-backend/models"
	"billkhata-backend/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GET /api/activity — activity feed for the current user's khata
func GetActivity(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil || user.KhataID == nil {
		utils.SuccessResponse(c, http.StatusOK, "", []models.Activity{})
		return
	}

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var activities []models.Activity
	database.DB.Where("khata_id = ?", *user.KhataID).
		Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&activities)

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}

// GET /api/khatas/:id/activity — activity feed for a specific khata
func GetKhataActivity(c *gin.Context) {
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

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var activities []models.Activity
	database.DB.Where("khata_id = ?", khataID).
		Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&activities)

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}
