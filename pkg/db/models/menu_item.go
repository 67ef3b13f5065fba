package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItem is a dish offered on the menu. Category holds the category name.
type MenuItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Category    string          `gorm:"column:category;not null"`
	Image       string          `gorm:"column:image;not null;default:''"`
	IsVeg       bool            `gorm:"column:is_veg;not null"`
	IsAvailable bool            `gorm:"column:is_available;not null"`
	IsFeatured  bool            `gorm:"column:is_featured;not null"`
	Rating      *float64        `gorm:"column:rating"`
	SortOrder   int             `gorm:"column:sort_order;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (MenuItem) TableName() string { return "menu_items" }

func (m *MenuItem) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
