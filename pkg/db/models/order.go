package models

import (
	"time"

	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a placed customer order with its priced snapshot.
type Order struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID              *uuid.UUID          `gorm:"column:user_id;type:uuid"`
	CustomerName        string              `gorm:"column:customer_name;not null"`
	CustomerEmail       string              `gorm:"column:customer_email;not null"`
	CustomerPhone       string              `gorm:"column:customer_phone;not null"`
	DeliveryAddress     string              `gorm:"column:delivery_address;not null;default:''"`
	OrderType           enums.OrderType     `gorm:"column:order_type;not null"`
	PaymentMethod       enums.PaymentMethod `gorm:"column:payment_method;not null"`
	PaymentStatus       enums.PaymentStatus `gorm:"column:payment_status;not null"`
	PaymentReference    string              `gorm:"column:payment_reference;not null;default:''"`
	Status              enums.OrderStatus   `gorm:"column:status;not null"`
	SpecialInstructions string              `gorm:"column:special_instructions;not null;default:''"`
	Subtotal            decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DeliveryFee         decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(12,2);not null"`
	Tax                 decimal.Decimal     `gorm:"column:tax;type:numeric(12,2);not null"`
	Total               decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Items               []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// OrderItem is one priced line of an order.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	MenuItemID uuid.UUID       `gorm:"column:menu_item_id;type:uuid;not null"`
	Name       string          `gorm:"column:name;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	LineTotal  decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
	Position   int             `gorm:"column:position;not null"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
