package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogItem is the read-only view of a menu entry shared by the cart and
// the menu query pipeline.
type CatalogItem struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image,omitempty"`
	IsVeg       bool            `json:"is_veg"`
	IsAvailable bool            `json:"is_available"`
	IsFeatured  bool            `json:"is_featured"`
	Rating      *float64        `json:"rating,omitempty"`
}

// RatingOrZero treats an unrated item as zero.
func (c CatalogItem) RatingOrZero() float64 {
	if c.Rating == nil {
		return 0
	}
	return *c.Rating
}
