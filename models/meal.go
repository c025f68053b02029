package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EditRequestPending  = "pending"
	EditRequestApproved = "approved"
	EditRequestDenied   = "denied"
)

// Meal is one member's meal count for one day. Each of breakfast, lunch
// and dinner is 0, 1 or 2 (a member may take a guest portion).
type Meal struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	KhataID    uuid.UUID `gorm:"type:uuid;index:idx_meal_day,unique" json:"khata_id"`
	UserID     uuid.UUID `gorm:"type:uuid;index:idx_meal_day,unique" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date       time.Time `gorm:"type:date;index:idx_meal_day,unique" json:"date"`
	Breakfast  int       `gorm:"default:0" json:"breakfast"`
	Lunch      int       `gorm:"default:0" json:"lunch"`
	Dinner     int       `gorm:"default:0" json:"dinner"`
	TotalMeals int       `gorm:"default:0" json:"total_meals"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *Meal) BeforeSave(tx *gorm.DB) error {
	m.TotalMeals = m.Breakfast + m.Lunch + m.Dinner
	return nil
}

// MealFinalization locks a day's meal entries: once present, members can
// no longer edit that date and manager changes go through an edit request.
type MealFinalization struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	KhataID     uuid.UUID `gorm:"type:uuid;index:idx_finalized_day,unique" json:"khata_id"`
	Date        time.Time `gorm:"type:date;index:idx_finalized_day,unique" json:"date"`
	FinalizedBy uuid.UUID `gorm:"type:uuid" json:"finalized_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (mf *MealFinalization) BeforeCreate(tx *gorm.DB) error {
	if mf.ID == uuid.Nil {
		mf.ID = uuid.New()
	}
	return nil
}

// MealEditRequest is a manager-proposed change to a finalized day,
// pending approval by the affected member.
type MealEditRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	KhataID     uuid.UUID `gorm:"type:uuid;index" json:"khata_id"`
	UserID      uuid.UUID `gorm:"type:uuid" json:"user_id"` // the affected member
	RequestedBy uuid.UUID `gorm:"type:uuid" json:"requested_by"`
	Date        time.Time `gorm:"type:date" json:"date"`
	Breakfast   int       `json:"breakfast"`
	Lunch       int       `json:"lunch"`
	Dinner      int       `json:"dinner"`
	Status      string    `gorm:"default:pending;size:20" json:"status"` // pending, approved, denied
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (mer *MealEditRequest) BeforeCreate(tx *gorm.DB) error {
	if mer.ID == uuid.Nil {
		mer.ID = uuid.New()
	}
	return nil
}

// Request structs
type UpsertMealRequest struct {
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Breakfast int    `json:"breakfast" binding:"min=0,max=2"`
	Lunch     int    `json:"lunch" binding:"min=0,max=2"`
	Dinner    int    `json:"dinner" binding:"min=0,max=2"`
}

type FinalizeDayRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
}

type OverrideMealRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Breakfast int    `json:"breakfast" binding:"min=0,max=2"`
	Lunch     int    `json:"lunch" binding:"min=0,max=2"`
	Dinner    int    `json:"dinner" binding:"min=0,max=2"`
}
