package admin

import (
	"github.com/angelmondragon/bistro-backend/internal/menu"
	"github.com/angelmondragon/bistro-backend/internal/orders"
	"github.com/angelmondragon/bistro-backend/internal/reservations"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Today     int64 `json:"today"`
	Completed int64 `json:"completed"`
}

// RevenueStats sums paid orders only.
type RevenueStats struct {
	Total decimal.Decimal `json:"total"`
	Today decimal.Decimal `json:"today"`
	Week  decimal.Decimal `json:"week"`
}

type ReservationStats struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
	Today   int64 `json:"today"`
}

type UserStats struct {
	Total       int64 `json:"total"`
	NewThisWeek int64 `json:"new_this_week"`
	Active      int64 `json:"active"`
}

// DashboardStats is the back-office landing payload.
type DashboardStats struct {
	Orders             OrderStats                    `json:"orders"`
	Revenue            RevenueStats                  `json:"revenue"`
	Reservations       ReservationStats              `json:"reservations"`
	Menu               menu.Counts                   `json:"menu"`
	Users              UserStats                     `json:"users"`
	RecentOrders       []orders.OrderDTO             `json:"recent_orders"`
	RecentReservations []reservations.ReservationDTO `json:"recent_reservations"`
}

// DailySales is one day of the sales report.
type DailySales struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type SalesReport struct {
	Days         int             `json:"days"`
	Daily        []DailySales    `json:"daily"`
	TotalOrders  int64           `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// PopularItem ranks menu items by quantity ordered.
type PopularItem struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int64           `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
}
