package orders

import (
	"time"

	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/angelmondragon/bistro-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is the contact block captured at checkout.
type Customer struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=7,max=20"`
	Address string `json:"address" validate:"max=500"`
}

// PlaceInput carries everything except the lines needed to record an order.
type PlaceInput struct {
	UserID              *uuid.UUID
	Customer            Customer
	OrderType           enums.OrderType
	PaymentMethod       enums.PaymentMethod
	PaymentReference    string
	SpecialInstructions string
}

// DirectLine is one line of an order placed without a stored cart.
type DirectLine struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gte=1"`
}

// OrderItemDTO is one priced line of an order.
type OrderItemDTO struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// OrderDTO is the API shape of an order.
type OrderDTO struct {
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
	Items               []OrderItemDTO      `json:"items"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// ListFilters narrow the admin order listing. Zero values do not filter.
type ListFilters struct {
	Status        enums.OrderStatus
	PaymentStatus enums.PaymentStatus
	OrderType     enums.OrderType
	From          *time.Time
	To            *time.Time
	Query         string
	Page          pagination.Params
}

// ListResult is one page of orders.
type ListResult struct {
	Orders []OrderDTO      `json:"orders"`
	Meta   pagination.Meta `json:"meta"`
}

// StatusUpdate changes the order status, the payment status, or both.
type StatusUpdate struct {
	Status        *enums.OrderStatus   `json:"status"`
	PaymentStatus *enums.PaymentStatus `json:"payment_status"`
}

func toDTO(o models.Order) OrderDTO {
	items := make([]OrderItemDTO, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemDTO{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			UnitPrice:  it.UnitPrice,
			Quantity:   it.Quantity,
			LineTotal:  it.LineTotal,
		}
	}
	return OrderDTO{
		ID:                  o.ID,
		UserID:              o.UserID,
		CustomerName:        o.CustomerName,
		CustomerEmail:       o.CustomerEmail,
		CustomerPhone:       o.CustomerPhone,
		DeliveryAddress:     o.DeliveryAddress,
		OrderType:           o.OrderType,
		PaymentMethod:       o.PaymentMethod,
		PaymentStatus:       o.PaymentStatus,
		Status:              o.Status,
		SpecialInstructions: o.SpecialInstructions,
		Subtotal:            o.Subtotal,
		DeliveryFee:         o.DeliveryFee,
		Tax:                 o.Tax,
		Total:               o.Total,
		Items:               items,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}
