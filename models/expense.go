package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Approval statuses shared by shopping expenses and deposits.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Expense is a shopping purchase for the shared meal fund, submitted by a
// member and counted toward the meal rate only once the manager approves it.
type Expense struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	KhataID    uuid.UUID  `gorm:"type:uuid;index" json:"khata_id"`
	UserID     uuid.UUID  `gorm:"type:uuid" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount     float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Items      string     `gorm:"size:500" json:"items"`
	Status     string     `gorm:"default:pending;size:20" json:"status"` // pending, approved, rejected
	ApprovedBy *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Request structs
type CreateExpenseRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Items  string  `json:"items" binding:"required"`
}
