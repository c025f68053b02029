package services

import (
	"billkhata-backend/database"
	"billkhata-backend/models"
	"log"

	"github.com/google/uuid"
)

// InviteToKhata creates an invitation and sends the email. Registered
// users are attached directly as pending members instead.
func InviteToKhata(khataID uuid.UUID, invitedBy uuid.UUID, email string, phone string) {
	// Check if invitation already exists
	var existing models.Invitation
	query := database.DB.Where("khata_id = ? AND status = ?", khataID, "pending")
	if email != "" {
		query = query.Where("email = ?", email)
	} else if phone != "" {
		query = query.Where("phone = ?", phone)
	}

	if err := query.First(&existing).Error; err == nil {
		log.Printf("⚠️  Invitation already exists for %s/%s in khata %s", email, phone, khataID)
		return
	}

	// Check if user is already registered
	var existingUser models.User
	if email != "" {
		if err := database.DB.Where("email = ?", email).First(&existingUser).Error; err == nil {
			var existingMember models.KhataMember
			if err := database.DB.Where("khata_id = ? AND user_id = ?", khataID, existingUser.ID).First(&existingMember).Error; err != nil {
				database.DB.Create(&models.KhataMember{
					KhataID: khataID,
					UserID:  existingUser.ID,
					Status:  models.MemberStatusPending,
				})
				database.DB.Model(&existingUser).Updates(map[string]interface{}{
					"khata_id":    khataID,
					"room_status": models.RoomStatusPending,
				})
				log.Printf("✅ Added existing user %s to khata %s as pending", email, khataID)
			}
			return
		}
	}

	// Create invitation
	invitation := models.Invitation{
		KhataID:   khataID,
		InvitedBy: invitedBy,
		Email:     email,
		Phone:     phone,
		Status:    "pending",
	}

	if err := database.DB.Create(&invitation).Error; err != nil {
		log.Printf("❌ Failed to create invitation: %v", err)
		return
	}

	// Send notification
	var inviter models.User
	database.DB.First(&inviter, invitedBy)
	var khata models.Khata
	database.DB.First(&khata, khataID)

	if email != "" {
		GetNotificationService().NotifyInvitation(email, inviter.Name, khata.Name)
	}

	log.Printf("✅ Invitation sent to %s/%s for khata %s", email, phone, khataID)
}
