package menu

import (
	"time"

	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/angelmondragon/bistro-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItemDTO is the API shape of a menu item.
type MenuItemDTO struct {
	types.CatalogItem
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryDTO is the API shape of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	ItemCount   int64     `json:"item_count"`
}

// BrowseResult is what the public menu page needs in one response.
type BrowseResult struct {
	Items            []types.CatalogItem `json:"items"`
	Categories       []string            `json:"categories"`
	PriceExtent      PriceRange          `json:"price_extent"`
	HasActiveFilters bool                `json:"has_active_filters"`
	Total            int                 `json:"total"`
}

// ItemFilters narrow the admin item listing.
type ItemFilters struct {
	Category    string
	IsAvailable *bool
	IsFeatured  *bool
	Query       string
}

// ItemInput creates or replaces a menu item.
type ItemInput struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required,max=80"`
	Image       string          `json:"image" validate:"omitempty,url"`
	IsVeg       bool            `json:"is_veg"`
	IsAvailable *bool           `json:"is_available"`
	IsFeatured  bool            `json:"is_featured"`
	Rating      *float64        `json:"rating" validate:"omitempty,gte=0,lte=5"`
	SortOrder   int             `json:"sort_order" validate:"gte=0"`
}

// CategoryInput creates or replaces a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"max=500"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
}

func toCatalogItem(m models.MenuItem) types.CatalogItem {
	return types.CatalogItem{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		Image:       m.Image,
		IsVeg:       m.IsVeg,
		IsAvailable: m.IsAvailable,
		IsFeatured:  m.IsFeatured,
		Rating:      m.Rating,
	}
}

func toItemDTO(m models.MenuItem) MenuItemDTO {
	return MenuItemDTO{CatalogItem: toCatalogItem(m), CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func toCategoryDTO(c models.Category, count int64) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		SortOrder:   c.SortOrder,
		ItemCount:   count,
	}
}
