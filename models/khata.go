package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MemberStatusPending  = "pending"
	MemberStatusApproved = "approved"
)

// Khata is a room/household unit grouping members who share bills and meals.
type Khata struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string        `gorm:"not null;size:100" json:"name"`
	JoinCode  string        `gorm:"uniqueIndex;size:10" json:"join_code"`
	ManagerID uuid.UUID     `gorm:"type:uuid" json:"manager_id"`
	Manager   User          `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Members   []KhataMember `gorm:"foreignKey:KhataID" json:"members,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (k *Khata) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

type KhataMember struct {
	KhataID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"khata_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status   string    `gorm:"default:pending;size:20" json:"status"` // pending, approved
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// Request structs
type CreateKhataRequest struct {
	Name string `json:"name" binding:"required"`
}

type JoinKhataRequest struct {
	JoinCode string `json:"join_code" binding:"required"`
}

// Response structs
type KhataResponse struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	JoinCode  string                `json:"join_code,omitempty"`
	ManagerID uuid.UUID             `json:"manager_id"`
	Members   []KhataMemberResponse `json:"members"`
	CreatedAt time.Time             `json:"created_at"`
}

type KhataMemberResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	JoinedAt  time.Time `json:"joined_at"`
}
