package reservations

import (
	"time"

	"github.com/angelmondragon/bistro-backend/pkg/db/models"
	"github.com/angelmondragon/bistro-backend/pkg/enums"
	"github.com/angelmondragon/bistro-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of reservation dates.
const DateLayout = "2006-01-02"

// CreateInput is a booking request.
type CreateInput struct {
	UserID          *uuid.UUID `json:"-"`
	TableNumber     int        `json:"table_number" validate:"required,gte=1"`
	GuestName       string     `json:"name" validate:"required,max=120"`
	Email           string     `json:"email" validate:"required,email"`
	Phone           string     `json:"phone" validate:"required,min=7,max=20"`
	Guests          int        `json:"guests" validate:"required,gte=1"`
	Date            string     `json:"date" validate:"required"`
	Time            string     `json:"time" validate:"required"`
	SpecialRequests string     `json:"special_requests" validate:"max=500"`
}

// ReservationDTO is the API shape of a reservation.
type ReservationDTO struct {
	ID              uuid.UUID               `json:"id"`
	UserID          *uuid.UUID              `json:"user_id,omitempty"`
	TableNumber     int                     `json:"table_number"`
	TableType       string                  `json:"table_type,omitempty"`
	GuestName       string                  `json:"name"`
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

// ListFilters narrow the admin listing. Dates are inclusive YYYY-MM-DD bounds.
type ListFilters struct {
	Status   enums.ReservationStatus
	Date     string
	DateFrom string
	DateTo   string
	Query    string
	Page     pagination.Params
}

type ListResult struct {
	Reservations []ReservationDTO `json:"reservations"`
	Meta         pagination.Meta  `json:"meta"`
}

func toDTO(r models.Reservation) ReservationDTO {
	dto := ReservationDTO{
		ID:              r.ID,
		UserID:          r.UserID,
		TableNumber:     r.TableNumber,
		GuestName:       r.GuestName,
		Email:           r.Email,
		Phone:           r.Phone,
		Guests:          r.Guests,
		Date:            r.Date,
		Time:            r.Time,
		SpecialRequests: r.SpecialRequests,
		Fee:             r.Fee,
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
	}
	if t, ok := TableByNumber(r.TableNumber); ok {
		dto.TableType = t.Type
	}
	return dto
}
