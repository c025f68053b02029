package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deposit is a member's contribution to the shared meal fund, counted
// toward their refundable balance only once the manager approves it.
type Deposit struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	KhataID       uuid.UUID  `gorm:"type:uuid;index" json:"khata_id"`
	UserID        uuid.UUID  `gorm:"type:uuid" json:"user_id"`
	User          User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount        float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod string     `gorm:"size:30" json:"payment_method"` // cash, bkash, nagad, bank
	Status        string     `gorm:"default:pending;size:20" json:"status"` // pending, approved, rejected
	ApprovedBy    *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (d *Deposit) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Request structs
type CreateDepositRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
}
