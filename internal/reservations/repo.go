package reservations

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists reservations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, res *models.Reservation) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&res).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

// SlotTaken reports whether a non-cancelled booking holds the table slot.
func (r *Repository) SlotTaken(ctx context.Context, table int, date, at string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("table_number = ? AND date = ? AND time = ? AND status <> ?", table, date, at, enums.ReservationStatusCancelled).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, time DESC").
		Find(&out).Error
	return out, err
}

func (r *Repository) List(ctx context.Context, f ListFilters) ([]models.Reservation, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Reservation{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.DateFrom != "" {
		q = q.Where("date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("date <= ?", f.DateTo)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Query)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(guest_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	page := f.Page.Normalize()
	var out []models.Reservation
	err := q.Order("date DESC, time DESC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&out).Error
	return out, total, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ReservationStatus) error {
	return r.db.WithContext(ctx).Model(&models.Reservation{}).Where("id = ?", id).Update("status", status).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Reservation{})
	return res.RowsAffected > 0, res.Error
}

// FindBefore lists reservations in status whose date is earlier than date.
func (r *Repository) FindBefore(ctx context.Context, status enums.ReservationStatus, date string) ([]models.Reservation, error) {
	var out []models.Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND date < ?", status, date).
		Order("date ASC, time ASC").
		Find(&out).Error
	return out, err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
