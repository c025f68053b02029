package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bill share statuses. Overdue is never stored: it is derived on read
// from an unpaid share whose due date has passed.
const (
	ShareStatusUnpaid          = "unpaid"
	ShareStatusPendingApproval = "pending_approval"
	ShareStatusPaid            = "paid"
	ShareStatusOverdue         = "overdue"
)

// BillCategories are the allowed values for Bill.Category.
var BillCategories = []string{"rent", "electricity", "water", "gas", "wifi", "maid", "others"}

func IsValidBillCategory(category string) bool {
	for _, c := range BillCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Bill struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	KhataID     uuid.UUID   `gorm:"type:uuid;index" json:"khata_id"`
	Khata       Khata       `gorm:"foreignKey:KhataID" json:"-"`
	Title       string      `gorm:"not null;size:255" json:"title"`
	Category    string      `gorm:"not null;size:20" json:"category"` // rent, electricity, water, gas, wifi, maid, others
	TotalAmount float64     `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	DueDate     time.Time   `gorm:"type:date" json:"due_date"`
	Description string      `json:"description,omitempty"`
	CreatedBy   uuid.UUID   `gorm:"type:uuid" json:"created_by"`
	Shares      []BillShare `gorm:"foreignKey:BillID" json:"shares,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type BillShare struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BillID       uuid.UUID  `gorm:"type:uuid;index" json:"bill_id"`
	UserID       uuid.UUID  `gorm:"type:uuid" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount       float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status       string     `gorm:"default:unpaid;size:20" json:"status"` // unpaid, pending_approval, paid
	MarkedPaidAt *time.Time `json:"marked_paid_at,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	ApprovedBy   *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (bs *BillShare) BeforeCreate(tx *gorm.DB) error {
	if bs.ID == uuid.Nil {
		bs.ID = uuid.New()
	}
	return nil
}

// EffectiveStatus returns the share status as seen by clients: an unpaid
// share past its bill's due date reads as overdue. The comparison is
// day-granular, so a share is never overdue on the due date itself.
func (bs *BillShare) EffectiveStatus(dueDate time.Time, now time.Time) string {
	dueDay := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, dueDate.Location())
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if bs.Status == ShareStatusUnpaid && nowDay.After(dueDay) {
		return ShareStatusOverdue
	}
	return bs.Status
}

// Request structs
type CreateBillRequest struct {
	Title       string       `json:"title" binding:"required"`
	Category    string       `json:"category" binding:"required"`
	TotalAmount float64      `json:"total_amount" binding:"required,gt=0"`
	DueDate     string       `json:"due_date" binding:"required"` // YYYY-MM-DD
	Description string       `json:"description"`
	Shares      []ShareInput `json:"shares"` // empty = equal split among approved members
}

type ShareInput struct {
	UserID string  `json:"user_id" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type UpdateBillRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	DueDate     string `json:"due_date"`
	Description string `json:"description"`
}

// Response structs
type BillResponse struct {
	ID          uuid.UUID           `json:"id"`
	KhataID     uuid.UUID           `json:"khata_id"`
	Title       string              `json:"title"`
	Category    string              `json:"category"`
	TotalAmount float64             `json:"total_amount"`
	DueDate     time.Time           `json:"due_date"`
	Description string              `json:"description,omitempty"`
	CreatedBy   uuid.UUID           `json:"created_by"`
	Shares      []BillShareResponse `json:"shares"`
	CreatedAt   time.Time           `json:"created_at"`
}

type BillShareResponse struct {
	ID       uuid.UUID  `json:"id"`
	UserID   uuid.UUID  `json:"user_id"`
	UserName string     `json:"user_name"`
	Amount   float64    `json:"amount"`
	Status   string     `json:"status"`
	PaidAt   *time.Time `json:"paid_at,omitempty"`
}
