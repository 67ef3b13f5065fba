package models

import (
	"time"

	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reservation books a table for a date and time slot. Date is YYYY-MM-DD and
// Time is HH:MM so both sort lexically.
type Reservation struct {
	ID              uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	UserID          *uuid.UUID              `gorm:"column:user_id;type:uuid"`
	TableNumber     int                     `gorm:"column:table_number;not null"`
	GuestName       string                  `gorm:"column:guest_name;not null"`
	Email           string                  `gorm:"column:email;not null"`
	Phone           string                  `gorm:"column:phone;not null"`
	Guests          int                     `gorm:"column:guests;not null"`
	Date            string                  `gorm:"column:date;not null"`
	Time            string                  `gorm:"column:time;not null"`
	SpecialRequests string                  `gorm:"column:special_requests;not null;default:''"`
	Fee             decimal.Decimal         `gorm:"column:fee;type:numeric(12,2);not null"`
	Status          enums.ReservationStatus `gorm:"column:status;not null"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (Reservation) TableName() string { return "reservations" }

func (r *Reservation) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
