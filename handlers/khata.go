package handlers

import (
	"billkhata-backend/database"
	"billkhata-backend/models"
	"billkhata-backend/services"
	"billkhata-backend/utils"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POST /api/khatas
func CreateKhata(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.CreateKhataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if user.KhataID != nil {
		utils.BadRequest(c, "You already belong to a khata")
		return
	}

	khata := models.Khata{
		Name:      req.Name,
		JoinCode:  generateJoinCode(),
		ManagerID: userID,
	}

	if err := database.DB.Create(&khata).Error; err != nil {
		utils.InternalError(c, "Failed to create khata")
		return
	}

	// Creator becomes the manager
	database.DB.Create(&models.KhataMember{
		KhataID: khata.ID,
		UserID:  userID,
		Status:  models.MemberStatusApproved,
	})
	database.DB.Model(&user).Updates(map[string]interface{}{
		"role":        models.RoleManager,
		"khata_id":    khata.ID,
		"room_status": models.RoomStatusApproved,
	})

	database.DB.Create(&models.Activity{
		KhataID:     khata.ID,
		UserID:      userID,
		Type:        "khata_created",
		ReferenceID: khata.ID,
		Description: fmt.Sprintf("%s created khata \"%s\"", user.Name, khata.Name),
	})

	// The creator's role changed, so hand back a fresh token with the
	// manager claim alongside the khata.
	token, _ := utils.GenerateToken(user.ID, user.Email, models.RoleManager)

	utils.SuccessResponse(c, http.StatusCreated, "Khata created", gin.H{
		"khata": buildKhataResponse(khata.ID, true),
		"token": token,
	})
}

// GET /api/khatas/mine
func GetMyKhata(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil || user.KhataID == nil {
		utils.NotFound(c, "You do not belong to a khata")
		return
	}

	response := buildKhataResponse(*user.KhataID, user.Role == models.RoleManager)
	utils.SuccessResponse(c, http.StatusOK, "", response)
}

// POST /api/khatas/join
func JoinKhata(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.JoinKhataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}
	if user.KhataID != nil {
		utils.BadRequest(c, "You already belong to a khata")
		return
	}

	var khata models.Khata
	if err := database.DB.Where("join_code = ?", strings.ToUpper(strings.TrimSpace(req.JoinCode))).First(&khata).Error; err != nil {
		utils.NotFound(c, "No khata found for this join code")
		return
	}

	database.DB.Create(&models.KhataMember{
		KhataID: khata.ID,
		UserID:  userID,
		Status:  models.MemberStatusPending,
	})
	database.DB.Model(&user).Updates(map[string]interface{}{
		"khata_id":    khata.ID,
		"room_status": models.RoomStatusPending,
	})

	database.DB.Create(&models.Activity{
		KhataID:     khata.ID,
		UserID:      userID,
		Type:        "member_joined",
		Description: fmt.Sprintf("%s requested to join %s", user.Name, khata.Name),
	})

	utils.SuccessResponse(c, http.StatusOK, "Join request sent, waiting for manager approval", nil)
}

// POST /api/khatas/:id/members/:uid/approve
func ApproveJoin(c *gin.Context) {
	decideJoin(c, true)
}

// POST /api/khatas/:id/members/:uid/deny
func DenyJoin(c *gin.Context) {
	decideJoin(c, false)
}

func decideJoin(c *gin.Context, approve bool) {
	userID := utils.GetCurrentUserID(c)
	khataID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid khata ID")
		return
	}
	memberUID, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		utils.BadRequest(c, "Invalid user ID")
		return
	}

	if !isManagerOf(khataID, userID) {
		utils.Forbidden(c, "Only the manager can decide join requests")
		return
	}

	var membership models.KhataMember
	if err := database.DB.Where("khata_id = ? AND user_id = ?", khataID, memberUID).First(&membership).Error; err != nil {
		utils.NotFound(c, "Join request not found")
		return
	}

	if membership.Status == models.MemberStatusApproved && approve {
		// Already approved, nothing to do
		utils.SuccessResponse(c, http.StatusOK, "Member already approved", nil)
		return
	}

	var member models.User
	database.DB.First(&member, memberUID)
	var khata models.Khata
	database.DB.First(&khata, khataID)

	if approve {
		database.DB.Model(&membership).Update("status", models.MemberStatusApproved)
		database.DB.Model(&member).Update("room_status", models.RoomStatusApproved)

		database.DB.Create(&models.Activity{
			KhataID:     khataID,
			UserID:      memberUID,
			Type:        "member_approved",
			Description: fmt.Sprintf("%s joined %s", member.Name, khata.Name),
		})
	} else {
		database.DB.Where("khata_id = ? AND user_id = ?", khataID, memberUID).Delete(&models.KhataMember{})
		database.DB.Model(&member).Updates(map[string]interface{}{
			"khata_id":    nil,
			"room_status": models.RoomStatusNone,
		})
	}

	go services.GetNotificationService().NotifyJoinDecision(member, khata, approve)

	utils.SuccessResponse(c, http.StatusOK, "Join request processed", nil)
}

// DELETE /api/khatas/:id/members/:uid
func RemoveMember(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	khataID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid khata ID")
		return
	}
	memberUID, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		utils.BadRequest(c, "Invalid user ID")
		return
	}

	// Only the manager or the member themselves can remove
	if !isManagerOf(khataID, userID) && userID != memberUID {
		utils.Forbidden(c, "Only the manager can remove other members")
		return
	}
	if memberUID == userID && isManagerOf(khataID, userID) {
		utils.BadRequest(c, "The manager cannot leave their own khata")
		return
	}

	database.DB.Where("khata_id = ? AND user_id = ?", khataID, memberUID).Delete(&models.KhataMember{})

	var removedUser models.User
	database.DB.First(&removedUser, memberUID)
	database.DB.Model(&removedUser).Updates(map[string]interface{}{
		"khata_id":    nil,
		"room_status": models.RoomStatusNone,
	})

	var khata models.Khata
	database.DB.First(&khata, khataID)
	database.DB.Create(&models.Activity{
		KhataID:     khataID,
		UserID:      userID,
		Type:        "member_left",
		Description: fmt.Sprintf("%s left %s", removedUser.Name, khata.Name),
	})

	utils.SuccessResponse(c, http.StatusOK, "Member removed", nil)
}

// POST /api/khatas/:id/invite
func InviteToKhataHandler(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	khataID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid khata ID")
		return
	}

	if !isManagerOf(khataID, userID) {
		utils.Forbidden(c, "Only the manager can invite members")
		return
	}

	var req models.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if req.Email == "" && req.Phone == "" {
		utils.BadRequest(c, "Email or phone required")
		return
	}

	go services.InviteToKhata(khataID, userID, req.Email, req.Phone)

	utils.SuccessResponse(c, http.StatusOK, "Invitation sent", nil)
}

// Helper: check approved khata membership
func isMember(khataID, userID uuid.UUID) bool {
	var count int64
	database.DB.Model(&models.KhataMember{}).
		Where("khata_id = ? AND user_id = ? AND status = ?", khataID, userID, models.MemberStatusApproved).
		Count(&count)
	return count > 0
}

// Helper: check whether the user manages this khata
func isManagerOf(khataID, userID uuid.UUID) bool {
	var count int64
	database.DB.Model(&models.Khata{}).Where("id = ? AND manager_id = ?", khataID, userID).Count(&count)
	return count > 0
}

// Helper: build full khata response with members. The join code is only
// included for the manager.
func buildKhataResponse(khataID uuid.UUID, includeJoinCode bool) models.KhataResponse {
	var khata models.Khata
	database.DB.First(&khata, khataID)

	var members []models.KhataMember
	database.DB.Where("khata_id = ?", khataID).Find(&members)

	var memberResponses []models.KhataMemberResponse
	for _, m := range members {
		var user models.User
		database.DB.First(&user, m.UserID)
		memberResponses = append(memberResponses, models.KhataMemberResponse{
			UserID:    user.ID,
			Name:      user.Name,
			Email:     user.Email,
			AvatarURL: user.AvatarURL,
			Role:      user.Role,
			Status:    m.Status,
			JoinedAt:  m.JoinedAt,
		})
	}

	response := models.KhataResponse{
		ID:        khata.ID,
		Name:      khata.Name,
		ManagerID: khata.ManagerID,
		Members:   memberResponses,
		CreatedAt: khata.CreatedAt,
	}
	if includeJoinCode {
		response.JoinCode = khata.JoinCode
	}
	return response
}

// generateJoinCode returns a short shareable room code.
func generateJoinCode() string {
	id := uuid.New().String()
	return strings.ToUpper(strings.ReplaceAll(id, "-", "")[:6])
}
