package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleManager = "manager"
	RoleMember  = "member"
)

const (
	RoomStatusNone     = "none"
	RoomStatusPending  = "pending"
	RoomStatusApproved = "approved"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Phone        string     `gorm:"size:20" json:"phone,omitempty"`
	Name         string     `gorm:"not null;size:100" json:"name"`
	PasswordHash string     `gorm:"not null;size:255" json:"-"`
	Role         string     `gorm:"default:member;size:20" json:"role"` // manager, member
	KhataID      *uuid.UUID `gorm:"type:uuid" json:"khata_id,omitempty"`
	RoomStatus   string     `gorm:"default:none;size:20" json:"room_status"` // none, pending, approved
	AvatarURL    string     `json:"avatar_url,omitempty"`
	FCMToken     string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Response struct (what we return to clients)
type UserResponse struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	KhataID    *uuid.UUID `json:"khata_id,omitempty"`
	RoomStatus string     `json:"room_status"`
	AvatarURL  string     `json:"avatar_url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Phone:      u.Phone,
		Name:       u.Name,
		Role:       u.Role,
		KhataID:    u.KhataID,
		RoomStatus: u.RoomStatus,
		AvatarURL:  u.AvatarURL,
		CreatedAt:  u.CreatedAt,
	}
}
