package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/angelmondragon/bistro-backend/pkg/types"
)

type MenuQuery struct {
	Search   string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	// Sort is one of default, price-low, price-high, name-asc, name-desc, rating.
	Sort string
}

type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

type Menu struct {
	Items            []types.CatalogItem `json:"items"`
	Categories       []string            `json:"categories"`
	PriceExtent      PriceRange          `json:"price_extent"`
	HasActiveFilters bool                `json:"has_active_filters"`
	Total            int                 `json:"total"`
}

type CartLine struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

type Cart struct {
	SessionID   string          `json:"session_id"`
	OrderType   enums.OrderType `json:"order_type"`
	Lines       []CartLine      `json:"lines"`
	LineCount   int             `json:"line_count"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

type OrderRequest struct {
	Customer            Customer            `json:"customer"`
	OrderType           enums.OrderType     `json:"order_type"`
	PaymentMethod       enums.PaymentMethod `json:"payment_method"`
	PaymentReference    string              `json:"payment_reference,omitempty"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
}

type DirectLine struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

type DirectOrderRequest struct {
	OrderRequest
	Items []DirectLine `json:"items"`
}

type OrderItem struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type Order struct {
	ID                  uuid.UUID           `json:"id"`
	UserID              *uuid.UUID          `json:"user_id,omitempty"`
	CustomerName        string              `json:"customer_name"`
	CustomerEmail       string              `json:"customer_email"`
	CustomerPhone       string              `json:"customer_phone"`
	DeliveryAddress     string              `json:"delivery_address,omitempty"`
	OrderType           enums.OrderType     `json:"order_type"`
	PaymentMethod       enums.PaymentMethod `json:"payment_method"`
	PaymentStatus       enums.PaymentStatus `json:"payment_status"`
	Status              enums.OrderStatus   `json:"status"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
	Subtotal            decimal.Decimal     `json:"subtotal"`
	DeliveryFee         decimal.Decimal     `json:"delivery_fee"`
	Tax                 decimal.Decimal     `json:"tax"`
	Total               decimal.Decimal     `json:"total"`
	Items               []OrderItem         `json:"items"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// PlacedOrder is returned by checkout and direct orders.
type PlacedOrder struct {
	Order                   Order `json:"order"`
	PaymentRedirectRequired bool  `json:"payment_redirect_required"`
}

type Table struct {
	Number      int    `json:"number"`
	Seats       int    `json:"seats"`
	Type        string `json:"type"`
	IsAvailable bool   `json:"is_available"`
}

type TableLayout struct {
	Tables []Table  `json:"tables"`
	Slots  []string `json:"slots"`
}

type ReservationRequest struct {
	TableNumber     int    `json:"table_number"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Guests          int    `json:"guests"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

type Reservation struct {
	ID              uuid.UUID               `json:"id"`
	UserID          *uuid.UUID              `json:"user_id,omitempty"`
	TableNumber     int                     `json:"table_number"`
	TableType       string                  `json:"table_type,omitempty"`
	Name            string                  `json:"name"`
	Email           string                  `json:"email"`
	Phone           string                  `json:"phone"`
	Guests          int                     `json:"guests"`
	Date            string                  `json:"date"`
	Time            string                  `json:"time"`
	SpecialRequests string                  `json:"special_requests,omitempty"`
	Fee             decimal.Decimal         `json:"fee"`
	Status          enums.ReservationStatus `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
}

type User struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Phone       *string        `json:"phone,omitempty"`
	Address     *string        `json:"address,omitempty"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}

type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type MenuItem struct {
	types.CatalogItem
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
