package admin

import (
	"context"
	"time"

	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository runs the read-only reporting queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) count(ctx context.Context, model any, query string, args ...any) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *Repository) OrderStats(ctx context.Context, dayStart time.Time) (OrderStats, error) {
	var s OrderStats
	var err error
	if s.Total, err = r.count(ctx, &models.Order{}, ""); err != nil {
		return s, err
	}
	if s.Pending, err = r.count(ctx, &models.Order{}, "status = ?", enums.OrderStatusPending); err != nil {
		return s, err
	}
	if s.Today, err = r.count(ctx, &models.Order{}, "created_at >= ?", dayStart.UTC()); err != nil {
		return s, err
	}
	s.Completed, err = r.count(ctx, &models.Order{}, "status = ?", enums.OrderStatusDelivered)
	return s, err
}

func (r *Repository) paidSince(ctx context.Context, since *time.Time) (decimal.Decimal, error) {
	var out struct{ Sum decimal.Decimal }
	q := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS sum").
		Where("payment_status = ?", enums.PaymentStatusPaid)
	if since != nil {
		q = q.Where("created_at >= ?", since.UTC())
	}
	if err := q.Scan(&out).Error; err != nil {
		return decimal.Zero, err
	}
	return out.Sum, nil
}

func (r *Repository) RevenueStats(ctx context.Context, dayStart, weekStart time.Time) (RevenueStats, error) {
	var s RevenueStats
	var err error
	if s.Total, err = r.paidSince(ctx, nil); err != nil {
		return s, err
	}
	if s.Today, err = r.paidSince(ctx, &dayStart); err != nil {
		return s, err
	}
	s.Week, err = r.paidSince(ctx, &weekStart)
	return s, err
}

func (r *Repository) ReservationStats(ctx context.Context, today string) (ReservationStats, error) {
	var s ReservationStats
	var err error
	if s.Total, err = r.count(ctx, &models.Reservation{}, ""); err != nil {
		return s, err
	}
	if s.Pending, err = r.count(ctx, &models.Reservation{}, "status = ?", enums.ReservationStatusPending); err != nil {
		return s, err
	}
	s.Today, err = r.count(ctx, &models.Reservation{}, "date = ?", today)
	return s, err
}

func (r *Repository) UserStats(ctx context.Context, weekStart time.Time) (UserStats, error) {
	var s UserStats
	var err error
	if s.Total, err = r.count(ctx, &models.User{}, ""); err != nil {
		return s, err
	}
	if s.NewThisWeek, err = r.count(ctx, &models.User{}, "created_at >= ?", weekStart.UTC()); err != nil {
		return s, err
	}
	s.Active, err = r.count(ctx, &models.User{}, "is_active = ?", true)
	return s, err
}

type orderPoint struct {
	CreatedAt     time.Time
	Total         decimal.Decimal
	PaymentStatus enums.PaymentStatus
}

// OrdersSince returns the non-cancelled orders placed at or after since.
func (r *Repository) OrdersSince(ctx context.Context, since time.Time) ([]orderPoint, error) {
	var out []orderPoint
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("created_at, total, payment_status").
		Where("created_at >= ? AND status <> ?", since.UTC(), enums.OrderStatusCancelled).
		Order("created_at ASC").
		Scan(&out).Error
	return out, err
}

// PopularItems ranks items across non-cancelled orders.
func (r *Repository) PopularItems(ctx context.Context, limit int) ([]PopularItem, error) {
	var out []PopularItem
	err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Select("oi.menu_item_id AS menu_item_id, MAX(oi.name) AS name, SUM(oi.quantity) AS quantity, COALESCE(SUM(oi.line_total), 0) AS revenue").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status <> ?", enums.OrderStatusCancelled).
		Group("oi.menu_item_id").
		Order("quantity DESC, name ASC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
